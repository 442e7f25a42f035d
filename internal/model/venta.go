package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is the sale header. It is created exactly once at commit time and after
// that only the cancellation workflow may touch it (anulada flag + metadata);
// sales are never physically deleted so reporting keeps original totals.
type Venta struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroFactura string    `gorm:"uniqueIndex;not null"`
	// ClienteID is resolved at commit: the requested customer, or the seeded
	// walk-in customer when the request names none. Nil only when the walk-in
	// seed does not exist yet.
	ClienteID  *uuid.UUID      `gorm:"type:uuid;index"`
	UsuarioID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MetodoPago string          `gorm:"type:varchar(20);not null"` // "efectivo" | "transferencia"
	// MontoRecibido only applies to efectivo; vuelto = MontoRecibido - Total.
	MontoRecibido   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Anulada         bool             `gorm:"not null;default:false"`
	AnuladaEn       *time.Time
	AnuladaPorID    *uuid.UUID `gorm:"type:uuid"`
	MotivoAnulacion *string
	CreatedAt       time.Time

	Items   []VentaItem `gorm:"foreignKey:VentaID"`
	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
	Usuario *Usuario    `gorm:"foreignKey:UsuarioID"`
}

// VentaItem is one line of a sale. PrecioUnitario and UnidadesPorPresentacion
// are snapshots taken at commit — immutable afterwards even if the presentation
// catalog changes, so reprints and compensating stock entries stay faithful.
type VentaItem struct {
	ID                      uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID                 uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	PresentacionID          *uuid.UUID      `gorm:"type:uuid"` // nil = sold by unit
	Cantidad                int             `gorm:"not null"`  // quantity of presentations
	UnidadesPorPresentacion int             `gorm:"not null;default:1"`
	PrecioUnitario          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal                decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto     *Producto     `gorm:"foreignKey:ProductoID"`
	Presentacion *Presentacion `gorm:"foreignKey:PresentacionID"`
}

// Unidades returns the ledger impact of the line in units.
func (i VentaItem) Unidades() int { return i.Cantidad * i.UnidadesPorPresentacion }
