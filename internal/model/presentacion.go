package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Presentacion is a sellable packaging of a product (unidad, six-pack, caja…)
// with its own price and a fixed unit count. Presentations are a view over the
// unit-denominated stock, never a second source of truth: all ledger arithmetic
// converts cantidad × unidades_por_presentacion down to units.
//
// Once a committed sale line references a presentation it is never hard-deleted,
// only deactivated; sale items carry their own price/units snapshots anyway.
type Presentacion struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Nombre     string    `gorm:"not null"`
	// UnidadesPorPresentacion ≥ 1. Each product has at most one presentation
	// with value 1 (the "unidad" presentation, its canonical counting basis).
	UnidadesPorPresentacion int             `gorm:"not null"`
	Precio                  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Activa                  bool            `gorm:"not null;default:true"`
	CreatedAt               time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization (presentacions → presentaciones).
func (Presentacion) TableName() string { return "presentaciones" }
