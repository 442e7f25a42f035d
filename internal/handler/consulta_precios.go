package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/apierror"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/dto"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const precioCacheTTL = 4 * time.Hour

// ConsultaPreciosHandler serves the public price check endpoint.
// No authentication required — no side effects whatsoever.
type ConsultaPreciosHandler struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewConsultaPreciosHandler(repo repository.ProductoRepository, rdb *redis.Client) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{repo: repo, rdb: rdb}
}

// GetPrecioPorCodigo godoc
// @Summary Consulta de precio por codigo (sin autenticacion)
// @Tags precio
// @Produce json
// @Param codigo path string true "Codigo del producto"
// @Success 200 {object} dto.ConsultaPreciosResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precio/{codigo} [get]
func (h *ConsultaPreciosHandler) GetPrecioPorCodigo(c *gin.Context) {
	codigo := c.Param("codigo")
	ctx := c.Request.Context()
	cacheKey := "precio:" + codigo

	// 1. Try Redis cache first
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.ConsultaPreciosResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query DB
	producto, err := h.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Producto no encontrado"))
		return
	}

	resp := dto.ConsultaPreciosResponse{
		Nombre:          producto.Nombre,
		PrecioVenta:     producto.PrecioVenta,
		StockDisponible: producto.StockActual,
		Categoria:       producto.Categoria,
	}
	for i := range producto.Presentaciones {
		resp.Presentaciones = append(resp.Presentaciones, toPresentacionResponse(&producto.Presentaciones[i]))
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, precioCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
