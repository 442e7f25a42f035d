package dto

import "github.com/shopspring/decimal"

// EntradaStockRequest records a purchase receipt: stock in units plus the
// unit cost paid, which is appended to the product's cost history.
type EntradaStockRequest struct {
	ProductoID    string           `json:"producto_id"    validate:"required,uuid"`
	Cantidad      int              `json:"cantidad"       validate:"required,min=1"` // units
	CostoUnitario *decimal.Decimal `json:"costo_unitario" validate:"omitempty,gt=0"`
	Motivo        string           `json:"motivo"`
}

// AjusteStockRequest applies a signed manual correction to the ledger.
type AjusteStockRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required"` // signed units, != 0
	Motivo     string `json:"motivo"      validate:"required,min=3"`
}

type MovimientoStockResponse struct {
	ID            string  `json:"id"`
	ProductoID    string  `json:"producto_id"`
	Producto      string  `json:"producto,omitempty"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo,omitempty"`
	VentaID       *string `json:"venta_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoStockResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}

type AlertaStockResponse struct {
	ProductoID  string `json:"producto_id"`
	Codigo      string `json:"codigo"`
	Nombre      string `json:"nombre"`
	StockActual int    `json:"stock_actual"`
	StockMinimo int    `json:"stock_minimo"`
}

// ReconciliacionResponse reports a ledger-vs-cache reconciliation for one product.
type ReconciliacionResponse struct {
	ProductoID     string `json:"producto_id"`
	StockCacheado  int    `json:"stock_cacheado"`
	StockCalculado int    `json:"stock_calculado"`
	Corregido      bool   `json:"corregido"`
}
