package repository

import (
	"context"
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReciboRepository interface {
	Create(ctx context.Context, r *model.Recibo) error
	FindByVentaID(ctx context.Context, ventaID uuid.UUID) (*model.Recibo, error)
	Update(ctx context.Context, r *model.Recibo) error
	// ListPendingRetries returns recibos whose next_retry_at elapsed, for the
	// retry cron.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Recibo, error)
}

type reciboRepo struct{ db *gorm.DB }

func NewReciboRepository(db *gorm.DB) ReciboRepository { return &reciboRepo{db: db} }

func (r *reciboRepo) Create(ctx context.Context, m *model.Recibo) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *reciboRepo) FindByVentaID(ctx context.Context, ventaID uuid.UUID) (*model.Recibo, error) {
	var recibo model.Recibo
	err := r.db.WithContext(ctx).Where("venta_id = ?", ventaID).First(&recibo).Error
	return &recibo, err
}

func (r *reciboRepo) Update(ctx context.Context, m *model.Recibo) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *reciboRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Recibo, error) {
	var recibos []model.Recibo
	err := r.db.WithContext(ctx).
		Where("estado = 'pendiente' AND next_retry_at IS NOT NULL AND next_retry_at <= ?", now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&recibos).Error
	return recibos, err
}
