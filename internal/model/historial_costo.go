package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialCosto registra cada costo unitario de compra de un producto.
// Los registros son inmutables — nunca se eliminan ni modifican.
// "Costo vigente" a una fecha = la entrada más reciente anterior o igual a esa
// fecha. Se usa solo para reportes de margen, nunca para fijar precios, y la
// ausencia de historial es un caso explícito (sin costo conocido), no un
// porcentaje inventado del precio de venta.
type HistorialCosto struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID     *uuid.UUID      `gorm:"type:uuid"`
	CostoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization.
func (HistorialCosto) TableName() string { return "historial_costos" }
