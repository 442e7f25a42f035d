package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is the catalog entry for a sellable product.
// StockActual is denominated in units (the canonical counting basis) and is a
// cache over the movimientos_stock ledger: it is only ever updated in the same
// transaction that appends the movement, and can be recomputed from the ledger
// via InventarioService.ReconciliarStock.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo      string    `gorm:"uniqueIndex;not null"` // human-scannable product code
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Categoria   string          `gorm:"not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(10,2);not null"` // unit base price
	// UltimoCosto mirrors the most recent historial_costos entry; nil when no
	// cost was ever recorded (never invented from the sale price).
	UltimoCosto  *decimal.Decimal `gorm:"type:decimal(10,2)"`
	StockActual  int              `gorm:"not null;default:0"`
	StockMinimo  int              `gorm:"not null;default:5"`
	UnidadMedida string           `gorm:"not null;default:'unidad'"`
	Activo       bool             `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Presentaciones []Presentacion `gorm:"foreignKey:ProductoID"`
}
