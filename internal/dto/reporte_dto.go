package dto

import "github.com/shopspring/decimal"

// VentasDiaResponse aggregates one day of sales. Cancelled sales are listed
// with their original totals but excluded from the revenue sums.
type VentasDiaResponse struct {
	Fecha          string          `json:"fecha"`
	TotalVendido   decimal.Decimal `json:"total_vendido"`
	CantidadVentas int             `json:"cantidad_ventas"`
	Anuladas       int             `json:"anuladas"`
	Ventas         []VentaResponse `json:"ventas"`
}

// MargenProductoResponse reports the margin of a product against its cost
// history. Margen is nil when the product has no recorded cost — the absence
// is explicit, never estimated from the sale price.
type MargenProductoResponse struct {
	ProductoID    string           `json:"producto_id"`
	Codigo        string           `json:"codigo"`
	Nombre        string           `json:"nombre"`
	PrecioVenta   decimal.Decimal  `json:"precio_venta"`
	CostoUnitario *decimal.Decimal `json:"costo_unitario,omitempty"`
	MargenPct     *decimal.Decimal `json:"margen_pct,omitempty"`
}

type HistorialCostoResponse struct {
	ID            string          `json:"id"`
	ProductoID    string          `json:"producto_id"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
	CreatedAt     string          `json:"created_at"`
}
