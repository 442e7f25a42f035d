package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is a registered customer. Sales without an explicit customer fall
// back to the seeded walk-in customer (EsConsumidorFinal), which can never be
// deactivated or deleted.
type Cliente struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre            string    `gorm:"not null"`
	Documento         *string   `gorm:"uniqueIndex"`
	Telefono          *string
	Email             *string
	Direccion         *string
	EsConsumidorFinal bool `gorm:"not null;default:false"`
	Activo            bool `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
