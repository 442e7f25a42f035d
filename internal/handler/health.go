package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reporta el estado de las dependencias (Postgres y Redis) sin exponer
// credenciales ni versiones. Responde 503 si alguna está caída.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		body := gin.H{"db": "up", "redis": "up"}
		healthy := true

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			body["db"] = "down"
			healthy = false
		}
		if rdb.Ping(ctx).Err() != nil {
			body["redis"] = "down"
			healthy = false
		}

		code := http.StatusOK
		body["status"] = "ok"
		if !healthy {
			code = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
		c.JSON(code, body)
	}
}
