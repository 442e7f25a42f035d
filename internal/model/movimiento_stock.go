package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement types. On-hand stock for a product is the signed sum of Cantidad
// over its movements; entradas carry positive Cantidad, salidas negative,
// ajustes either sign.
const (
	MovEntrada = "entrada"
	MovSalida  = "salida"
	MovAjuste  = "ajuste"
)

// MovimientoStock is one row of the append-only stock ledger. Rows are never
// updated or deleted; cancellations append compensating entradas instead.
// VentaID backreferences the sale that generated the movement, but the sale
// does not own it — movements remain queryable after the sale is anulada.
type MovimientoStock struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID  `gorm:"type:uuid;not null;index"`
	UsuarioID  *uuid.UUID `gorm:"type:uuid"`
	Tipo       string     `gorm:"not null"` // entrada | salida | ajuste
	// Cantidad is unit-denominated and signed.
	Cantidad      int `gorm:"not null"`
	StockAnterior int `gorm:"not null"`
	StockNuevo    int `gorm:"not null"` // invariant: never negative
	Motivo        string
	VentaID       *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }
