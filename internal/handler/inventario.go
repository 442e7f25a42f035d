package handler

import (
	"net/http"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/apierror"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/dto"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/repository"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventarioHandler struct{ svc *service.InventarioService }

func NewInventarioHandler(svc *service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// RegistrarEntrada godoc
// @Summary      Registrar entrada de stock
// @Description  Recepción de mercadería: asiento de entrada en el ledger y, si viene costo unitario, alta en el historial de costos.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.EntradaStockRequest true "Entrada"
// @Success      201  {object} dto.MovimientoStockResponse
// @Router       /v1/inventario/entradas [post]
func (h *InventarioHandler) RegistrarEntrada(c *gin.Context) {
	var req dto.EntradaStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := operadorID(c)
	if !ok {
		return
	}

	mov, err := h.svc.RegistrarEntrada(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMovimientoResponse(mov))
}

// RegistrarAjuste godoc
// @Summary      Registrar ajuste manual de stock
// @Description  Corrección con signo sobre el ledger. Se rechaza si deja el stock en negativo.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AjusteStockRequest true "Ajuste"
// @Success      201  {object} dto.MovimientoStockResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/inventario/ajustes [post]
func (h *InventarioHandler) RegistrarAjuste(c *gin.Context) {
	var req dto.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := operadorID(c)
	if !ok {
		return
	}

	mov, err := h.svc.RegistrarAjuste(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMovimientoResponse(mov))
}

// ListarMovimientos godoc
// @Summary      Listar movimientos de stock
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        producto_id query string false "UUID del producto"
// @Param        tipo        query string false "entrada | salida | ajuste"
// @Param        page        query int    false "Página"
// @Param        limit       query int    false "Registros por página"
// @Success      200 {object} dto.MovimientoListResponse
// @Router       /v1/inventario/movimientos [get]
func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	filter := repository.MovimientoStockFilter{
		Tipo:  c.Query("tipo"),
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 100),
	}
	if raw := c.Query("producto_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("producto_id invalido"))
			return
		}
		filter.ProductoID = &id
	}

	movimientos, total, err := h.svc.ListMovimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	resp := dto.MovimientoListResponse{
		Data:  make([]dto.MovimientoStockResponse, 0, len(movimientos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range movimientos {
		resp.Data = append(resp.Data, toMovimientoResponse(&movimientos[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Alertas godoc
// @Summary      Productos con stock bajo
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.AlertaStockResponse
// @Router       /v1/inventario/alertas [get]
func (h *InventarioHandler) Alertas(c *gin.Context) {
	productos, err := h.svc.Alertas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar alertas"))
		return
	}
	alertas := make([]dto.AlertaStockResponse, 0, len(productos))
	for _, p := range productos {
		alertas = append(alertas, dto.AlertaStockResponse{
			ProductoID:  p.ID.String(),
			Codigo:      p.Codigo,
			Nombre:      p.Nombre,
			StockActual: p.StockActual,
			StockMinimo: p.StockMinimo,
		})
	}
	c.JSON(http.StatusOK, alertas)
}

// Reconciliar godoc
// @Summary      Reconciliar stock contra el ledger
// @Description  Recalcula el stock del producto desde los movimientos y corrige el cache si difiere.
// @Tags         inventario
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      200 {object} dto.ReconciliacionResponse
// @Router       /v1/inventario/reconciliar/{id} [post]
func (h *InventarioHandler) Reconciliar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ReconciliarStock(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
