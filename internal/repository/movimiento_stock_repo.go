package repository

import (
	"context"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoStockFilter defines filters for listing stock movements.
type MovimientoStockFilter struct {
	ProductoID *uuid.UUID
	Tipo       string
	Page       int
	Limit      int
}

type MovimientoStockRepository interface {
	// CreateTx appends a ledger row inside the caller's transaction — every
	// movement is written in the same tx as the stock cache update it backs.
	CreateTx(tx *gorm.DB, m *model.MovimientoStock) error
	List(ctx context.Context, filter MovimientoStockFilter) ([]model.MovimientoStock, int64, error)
	// SumByProducto returns the signed sum of the product's ledger — the
	// authoritative on-hand quantity.
	SumByProducto(ctx context.Context, productoID uuid.UUID) (int, error)
	SumByProductoTx(tx *gorm.DB, productoID uuid.UUID) (int, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Create(m).Error
}

func (r *movimientoStockRepo) List(ctx context.Context, filter MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{}).Preload("Producto")
	if filter.ProductoID != nil {
		q = q.Where("producto_id = ?", *filter.ProductoID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movimientos []model.MovimientoStock
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movimientos).Error
	return movimientos, total, err
}

func (r *movimientoStockRepo) SumByProducto(ctx context.Context, productoID uuid.UUID) (int, error) {
	return sumMovimientos(r.db.WithContext(ctx), productoID)
}

func (r *movimientoStockRepo) SumByProductoTx(tx *gorm.DB, productoID uuid.UUID) (int, error) {
	return sumMovimientos(tx, productoID)
}

func sumMovimientos(db *gorm.DB, productoID uuid.UUID) (int, error) {
	var suma int
	err := db.Model(&model.MovimientoStock{}).
		Where("producto_id = ?", productoID).
		Select("COALESCE(SUM(cantidad), 0)").
		Scan(&suma).Error
	return suma, err
}
