package handler

import (
	"net/http"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/apierror"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/dto"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PresentacionesHandler maneja las presentaciones de venta de un producto
// (unidad, six pack, caja). Cuelgan de /v1/productos/:id/presentaciones.
type PresentacionesHandler struct{ svc *service.ProductoService }

func NewPresentacionesHandler(svc *service.ProductoService) *PresentacionesHandler {
	return &PresentacionesHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear presentación
// @Description  Alta de una presentación del producto. Máximo una presentación de 1 unidad por producto.
// @Tags         presentaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                      true "UUID del producto"
// @Param        body body dto.CrearPresentacionRequest true "Presentación"
// @Success      201  {object} dto.PresentacionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/productos/{id}/presentaciones [post]
func (h *PresentacionesHandler) Crear(c *gin.Context) {
	productoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CrearPresentacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.CrearPresentacion(c.Request.Context(), productoID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPresentacionResponse(p))
}

// Listar returns the presentations of a product (all, or active only).
func (h *PresentacionesHandler) Listar(c *gin.Context) {
	productoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	soloActivas := c.Query("activas") != "false"
	presentaciones, err := h.svc.ListPresentaciones(c.Request.Context(), productoID, soloActivas)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	data := make([]dto.PresentacionResponse, 0, len(presentaciones))
	for i := range presentaciones {
		data = append(data, toPresentacionResponse(&presentaciones[i]))
	}
	c.JSON(http.StatusOK, data)
}

// Actualizar cambia nombre y precio. El factor de conversión es inmutable.
func (h *PresentacionesHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("presentacionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarPresentacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.ActualizarPresentacion(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPresentacionResponse(p))
}

// Desactivar saca la presentación de la venta (nunca se borra).
func (h *PresentacionesHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("presentacionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.DesactivarPresentacion(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
