package handler

import (
	"net/http"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/apierror"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/dto"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductosHandler struct{ svc *service.ProductoService }

func NewProductosHandler(svc *service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearProductoRequest true "Producto"
// @Success      201  {object} dto.ProductoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductoResponse(p))
}

// Listar godoc
// @Summary      Listar productos
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        codigo    query string false "Código exacto"
// @Param        nombre    query string false "Búsqueda parcial por nombre"
// @Param        categoria query string false "Categoría"
// @Param        activo    query string false "true (default) | false | all"
// @Success      200 {object} dto.ProductoListResponse
// @Router       /v1/productos [get]
func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	productos, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar productos"))
		return
	}
	resp := dto.ProductoListResponse{
		Data:  make([]dto.ProductoResponse, 0, len(productos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range productos {
		resp.Data = append(resp.Data, toProductoResponse(&productos[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns one product with its presentations.
func (h *ProductosHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	p, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductoResponse(p))
}

// Actualizar updates catalog fields (never stock).
func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductoResponse(p))
}

// Desactivar performs the soft delete.
func (h *ProductosHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reactivar re-enables a deactivated product.
func (h *ProductosHandler) Reactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Reactivar(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegistrarCosto godoc
// @Summary      Registrar costo unitario
// @Description  Agrega una entrada al historial de costos sin mover stock.
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID del producto"
// @Param        body body dto.RegistrarCostoRequest true "Costo"
// @Success      201  {object} dto.HistorialCostoResponse
// @Router       /v1/productos/{id}/costos [post]
func (h *ProductosHandler) RegistrarCosto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RegistrarCostoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := operadorID(c)
	if !ok {
		return
	}

	costo, err := h.svc.RegistrarCosto(c.Request.Context(), id, usuarioID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toHistorialCostoResponse(costo))
}

// HistorialCostos lists the append-only cost history of a product.
func (h *ProductosHandler) HistorialCostos(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 50)
	costos, total, err := h.svc.HistorialCostos(c.Request.Context(), id, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	data := make([]dto.HistorialCostoResponse, 0, len(costos))
	for i := range costos {
		data = append(data, toHistorialCostoResponse(&costos[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "total": total, "page": page, "limit": limit})
}
