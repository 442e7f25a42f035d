package repository

import (
	"context"
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistorialCostoRepository interface {
	Create(ctx context.Context, h *model.HistorialCosto) error
	CreateTx(tx *gorm.DB, h *model.HistorialCosto) error
	ListByProducto(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.HistorialCosto, int64, error)
	// CostoVigente returns the most recent cost entry at or before ref.
	// gorm.ErrRecordNotFound means the product has no recorded cost — callers
	// must treat that as an explicit absent value, not estimate one.
	CostoVigente(ctx context.Context, productoID uuid.UUID, ref time.Time) (*model.HistorialCosto, error)
}

type historialCostoRepo struct{ db *gorm.DB }

func NewHistorialCostoRepository(db *gorm.DB) HistorialCostoRepository {
	return &historialCostoRepo{db: db}
}

func (r *historialCostoRepo) Create(ctx context.Context, h *model.HistorialCosto) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *historialCostoRepo) CreateTx(tx *gorm.DB, h *model.HistorialCosto) error {
	return tx.Create(h).Error
}

// ListByProducto returns paginated cost records for one product, newest first
// (append-only table, so this reflects natural insert order).
func (r *historialCostoRepo) ListByProducto(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.HistorialCosto, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.HistorialCosto{}).
		Where("producto_id = ?", productoID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.HistorialCosto
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *historialCostoRepo) CostoVigente(ctx context.Context, productoID uuid.UUID, ref time.Time) (*model.HistorialCosto, error) {
	var h model.HistorialCosto
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND created_at <= ?", productoID, ref).
		Order("created_at DESC").
		First(&h).Error
	return &h, err
}
