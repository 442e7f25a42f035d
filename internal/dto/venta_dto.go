package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha  string `form:"fecha"`                 // YYYY-MM-DD; empty = today
	Estado string `form:"estado,default=activa"` // activa | anulada | all
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=50"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	// PresentacionID nil = vender por unidad al precio base del producto.
	PresentacionID *string `json:"presentacion_id" validate:"omitempty,uuid"`
	Cantidad       int     `json:"cantidad"        validate:"required,min=1"`
}

type RegistrarVentaRequest struct {
	Items      []ItemVentaRequest `json:"items"      validate:"required,min=1,dive"`
	ClienteID  *string            `json:"cliente_id" validate:"omitempty,uuid"`
	Descuento  decimal.Decimal    `json:"descuento"  validate:"min=0"`
	MetodoPago string             `json:"metodo_pago" validate:"required,oneof=efectivo transferencia"`
	// MontoRecibido is required for efectivo and must cover the total.
	MontoRecibido *decimal.Decimal `json:"monto_recibido"`
	// ClienteEmail: optional — when present, the ticket worker mails the PDF receipt.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

// PreviewVentaResponse mirrors what the cashier sees before confirming.
type PreviewVentaResponse struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Descuento     decimal.Decimal `json:"descuento"`
	Total         decimal.Decimal `json:"total"`
	TotalUnidades int             `json:"total_unidades"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	Producto                string          `json:"producto"`
	Presentacion            *string         `json:"presentacion,omitempty"`
	Cantidad                int             `json:"cantidad"`
	UnidadesPorPresentacion int             `json:"unidades_por_presentacion"`
	PrecioUnitario          decimal.Decimal `json:"precio_unitario"`
	Subtotal                decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID              string              `json:"id"`
	NumeroFactura   string              `json:"numero_factura"`
	ClienteID       *string             `json:"cliente_id,omitempty"`
	Items           []ItemVentaResponse `json:"items"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Descuento       decimal.Decimal     `json:"descuento"`
	Total           decimal.Decimal     `json:"total"`
	MetodoPago      string              `json:"metodo_pago"`
	MontoRecibido   *decimal.Decimal    `json:"monto_recibido,omitempty"`
	Vuelto          *decimal.Decimal    `json:"vuelto,omitempty"`
	Anulada         bool                `json:"anulada"`
	MotivoAnulacion *string             `json:"motivo_anulacion,omitempty"`
	CreatedAt       string              `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
