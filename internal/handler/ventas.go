package handler

import (
	"net/http"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/apierror"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/dto"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/middleware"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/repository"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VentasHandler struct {
	svc     *service.VentaService
	recibos repository.ReciboRepository
}

func NewVentasHandler(svc *service.VentaService, recibos repository.ReciboRepository) *VentasHandler {
	return &VentasHandler{svc: svc, recibos: recibos}
}

// operadorID saca el id del operador de los claims. Un user_id ilegible en un
// token firmado no debería pasar, pero si pasa el request se corta con 401 en
// vez de dejar que uuid.Nil llegue a los registros de venta.
func operadorID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(claims.UserID)
	if err != nil || id == uuid.Nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
		return uuid.Nil, false
	}
	return id, true
}

// RegistrarVenta godoc
// @Summary      Registrar una nueva venta
// @Description  Confirma una venta de forma atómica: re-verifica stock bajo lock, asigna número de factura, descuenta stock vía ledger y encola el ticket.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := operadorID(c)
	if !ok {
		return
	}

	venta, err := h.svc.RegistrarVenta(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toVentaResponse(venta))
}

// PreviewVenta godoc
// @Summary      Previsualizar una venta
// @Description  Devuelve subtotal, descuento, total y unidades sin confirmar nada. El chequeo de stock es consultivo.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      200  {object} dto.PreviewVentaResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas/preview [post]
func (h *VentasHandler) PreviewVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.PreviewVenta(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnularVenta godoc
// @Summary      Anular venta
// @Description  Anula una venta confirmada: registra asientos compensatorios de entrada y marca la venta como anulada. Idempotencia: una venta anulada no puede volver a anularse.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                 true "UUID de la venta"
// @Param        body body     dto.AnularVentaRequest true "Motivo de anulación"
// @Success      200  {object} dto.VentaResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/ventas/{id} [delete]
func (h *VentasHandler) AnularVenta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AnularVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := operadorID(c)
	if !ok {
		return
	}

	venta, err := h.svc.AnularVenta(c.Request.Context(), id, usuarioID, req.Motivo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVentaResponse(venta))
}

// GetVenta godoc
// @Summary      Detalle de una venta
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      200 {object} dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id} [get]
func (h *VentasHandler) GetVenta(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	venta, err := h.svc.FindVenta(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVentaResponse(venta))
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Description  Retorna lista paginada de ventas filtrada por fecha y estado.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        fecha  query string false "Fecha YYYY-MM-DD (default: hoy)"
// @Param        estado query string false "activa | anulada | all"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 50)"
// @Success      200    {object} dto.VentaListResponse
// @Router       /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	ventas, total, err := h.svc.ListVentas(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ventas"))
		return
	}
	resp := dto.VentaListResponse{
		Data:  make([]dto.VentaResponse, 0, len(ventas)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range ventas {
		resp.Data = append(resp.Data, toVentaResponse(&ventas[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetTicket godoc
// @Summary      Descargar el ticket PDF de una venta
// @Tags         ventas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id}/ticket [get]
func (h *VentasHandler) GetTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	recibo, err := h.recibos.FindByVentaID(c.Request.Context(), id)
	if err != nil || recibo.PDFPath == nil {
		c.JSON(http.StatusNotFound, apierror.New("Ticket no disponible todavia"))
		return
	}
	c.File(*recibo.PDFPath)
}
