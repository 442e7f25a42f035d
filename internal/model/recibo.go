package model

import (
	"time"

	"github.com/google/uuid"
)

// Recibo tracks the async generation/delivery of the printable ticket for a
// sale. Estado: "pendiente" | "generado" | "enviado" | "error".
type Recibo struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Estado  string    `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// PDFPath is relative to the PDF_STORAGE_PATH directory.
	PDFPath      *string `gorm:"column:pdf_path"`
	EmailDestino *string
	// Retry fields — used by retry_cron to re-attempt failed generations/sends.
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
