package repository

import (
	"context"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/dto"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	// CreateTx inserts the header and its items in the caller's transaction.
	// A duplicate numero_factura surfaces as gorm.ErrDuplicatedKey.
	CreateTx(tx *gorm.DB, v *model.Venta) error
	// ExisteNumeroTx checks invoice-number availability inside the commit tx;
	// the unique index remains the authoritative backstop.
	ExisteNumeroTx(tx *gorm.DB, numero string) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// FindForUpdateTx locks the sale row so concurrent cancellations of the
	// same sale serialize; the loser re-reads the anulada flag.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	ItemsTx(tx *gorm.DB, ventaID uuid.UUID) ([]model.VentaItem, error)
	MarcarAnuladaTx(tx *gorm.DB, v *model.Venta) error
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	ListByFecha(ctx context.Context, fecha string) ([]model.Venta, error)
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

func (r *ventaRepo) ExisteNumeroTx(tx *gorm.DB, numero string) (bool, error) {
	var count int64
	err := tx.Model(&model.Venta{}).Where("numero_factura = ?", numero).Count(&count).Error
	return count > 0, err
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items.Producto").Preload("Items.Presentacion").Preload("Cliente").
		First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) ItemsTx(tx *gorm.DB, ventaID uuid.UUID) ([]model.VentaItem, error) {
	var items []model.VentaItem
	err := tx.Where("venta_id = ?", ventaID).Find(&items).Error
	return items, err
}

func (r *ventaRepo) MarcarAnuladaTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Model(&model.Venta{}).Where("id = ?", v.ID).Updates(map[string]interface{}{
		"anulada":          true,
		"anulada_en":       v.AnuladaEn,
		"anulada_por_id":   v.AnuladaPorID,
		"motivo_anulacion": v.MotivoAnulacion,
	}).Error
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})

	switch filter.Estado {
	case "anulada":
		q = q.Where("anulada = true")
	case "all":
		// no filter
	default:
		q = q.Where("anulada = false")
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items.Producto").Preload("Items.Presentacion").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

func (r *ventaRepo) ListByFecha(ctx context.Context, fecha string) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("DATE(created_at) = ?", fecha).
		Preload("Items.Producto").Preload("Items.Presentacion").
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}
