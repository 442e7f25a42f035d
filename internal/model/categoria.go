package model

import (
	"time"

	"github.com/google/uuid"
)

// Categoria agrupa productos para filtrado y reportes. Se desactiva en lugar
// de borrarse: los productos históricos la siguen referenciando.
type Categoria struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"uniqueIndex;not null"`
	Descripcion *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName fija el plural en español.
func (Categoria) TableName() string { return "categorias" }
