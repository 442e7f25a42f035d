package handler

import (
	"net/http"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/apierror"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/dto"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReportesHandler struct{ svc *service.ReporteService }

func NewReportesHandler(svc *service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// VentasDia godoc
// @Summary      Reporte de ventas del día
// @Description  Totales del día: las anuladas se listan pero no suman a la recaudación.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        fecha query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Success      200 {object} dto.VentasDiaResponse
// @Router       /v1/reportes/ventas-dia [get]
func (h *ReportesHandler) VentasDia(c *gin.Context) {
	resumen, ventas, err := h.svc.VentasDia(c.Request.Context(), c.Query("fecha"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resumen.Ventas = make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		resumen.Ventas = append(resumen.Ventas, toVentaResponse(&ventas[i]))
	}
	c.JSON(http.StatusOK, resumen)
}

// Margenes godoc
// @Summary      Márgenes por producto
// @Description  Margen porcentual contra el costo vigente. Productos sin historial de costos reportan margen nulo.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.MargenProductoResponse
// @Router       /v1/reportes/margenes [get]
func (h *ReportesHandler) Margenes(c *gin.Context) {
	margenes, err := h.svc.Margenes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular margenes"))
		return
	}
	c.JSON(http.StatusOK, margenes)
}

// MargenProducto returns the margin of a single product.
func (h *ReportesHandler) MargenProducto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	margen, err := h.svc.MargenProducto(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, margen)
}
