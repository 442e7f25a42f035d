package handler

import (
	"errors"
	"net/http"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/apierror"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondServiceError maps domain errors to HTTP status codes:
//
//	404 — referencia a venta inexistente
//	409 — conflictos de estado (stock insuficiente, referencia inactiva,
//	      venta ya anulada, números de factura agotados)
//	422 — requests semánticamente inválidos (venta sin items, descuento,
//	      monto insuficiente, cantidad no positiva, operación sin usuario,
//	      anulación sin motivo, ajuste que deja stock negativo)
//	400 — el resto de los errores de negocio
func respondServiceError(c *gin.Context, err error) {
	var stockErr *service.ErrStockInsuficiente
	var refErr *service.ErrReferenciaInactiva

	switch {
	case errors.Is(err, service.ErrVentaNoEncontrada):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.As(err, &stockErr), errors.As(err, &refErr),
		errors.Is(err, service.ErrVentaAnulada),
		errors.Is(err, service.ErrNumeroFactura),
		errors.Is(err, service.ErrCodigoDuplicado),
		errors.Is(err, service.ErrCategoriaDuplicada),
		errors.Is(err, service.ErrUnidadBaseDuplicada),
		errors.Is(err, service.ErrConsumidorFinal):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCarritoVacio),
		errors.Is(err, service.ErrDescuentoInvalido),
		errors.Is(err, service.ErrMontoInsuficiente),
		errors.Is(err, service.ErrStockNegativo),
		errors.Is(err, service.ErrUsuarioRequerido),
		errors.Is(err, service.ErrMotivoRequerido),
		errors.Is(err, service.ErrCantidadInvalida):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("error no mapeado")
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
