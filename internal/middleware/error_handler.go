package middleware

import (
	"net/http"
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Respuesta 500 opaca; el detalle real queda únicamente en el log.
func internalError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
}

// ErrorHandler drena c.Errors al final de la cadena: loguea cada error con su
// request_id y, si ningún handler escribió respuesta, contesta un 500 opaco.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Err(last.Err).
			Msg("unhandled error")

		if !c.Writer.Written() {
			internalError(c)
		}
	}
}

// Recovery convierte panics en 500 sin filtrar el stack trace al cliente.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("panic", r).
					Msg("panic recovered")
				internalError(c)
			}
		}()
		c.Next()
	}
}

// Logger emite una línea estructurada por request: método, path, status,
// latencia, IP de origen y request_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("ip", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
