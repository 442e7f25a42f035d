package dto

import "github.com/shopspring/decimal"

// ProductoFilter is bound from the query string of GET /v1/productos.
type ProductoFilter struct {
	Codigo    string `form:"codigo"`
	Nombre    string `form:"nombre"`
	Categoria string `form:"categoria"`
	Activo    string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=50"`
}

type CrearProductoRequest struct {
	Codigo       string          `json:"codigo"       validate:"required"`
	Nombre       string          `json:"nombre"       validate:"required"`
	Descripcion  *string         `json:"descripcion"`
	Categoria    string          `json:"categoria"    validate:"required"`
	PrecioVenta  decimal.Decimal `json:"precio_venta" validate:"required,gt=0"`
	StockMinimo  int             `json:"stock_minimo" validate:"min=0"`
	UnidadMedida string          `json:"unidad_medida"`
}

type ActualizarProductoRequest struct {
	Nombre      string           `json:"nombre"`
	Descripcion *string          `json:"descripcion"`
	Categoria   string           `json:"categoria"`
	PrecioVenta *decimal.Decimal `json:"precio_venta" validate:"omitempty,gt=0"`
	StockMinimo *int             `json:"stock_minimo" validate:"omitempty,min=0"`
}

// RegistrarCostoRequest appends an entry to the product's cost history.
type RegistrarCostoRequest struct {
	CostoUnitario decimal.Decimal `json:"costo_unitario" validate:"required,gt=0"`
}

type ProductoResponse struct {
	ID             string                 `json:"id"`
	Codigo         string                 `json:"codigo"`
	Nombre         string                 `json:"nombre"`
	Descripcion    *string                `json:"descripcion,omitempty"`
	Categoria      string                 `json:"categoria"`
	PrecioVenta    decimal.Decimal        `json:"precio_venta"`
	UltimoCosto    *decimal.Decimal       `json:"ultimo_costo,omitempty"`
	StockActual    int                    `json:"stock_actual"`
	StockMinimo    int                    `json:"stock_minimo"`
	UnidadMedida   string                 `json:"unidad_medida"`
	Activo         bool                   `json:"activo"`
	Presentaciones []PresentacionResponse `json:"presentaciones,omitempty"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ConsultaPreciosResponse is served by the public price-check endpoint.
type ConsultaPreciosResponse struct {
	Nombre          string                 `json:"nombre"`
	PrecioVenta     decimal.Decimal        `json:"precio_venta"`
	StockDisponible int                    `json:"stock_disponible"`
	Categoria       string                 `json:"categoria"`
	Presentaciones  []PresentacionResponse `json:"presentaciones,omitempty"`
}
