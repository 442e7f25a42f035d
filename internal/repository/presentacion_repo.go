package repository

import (
	"context"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PresentacionRepository interface {
	Create(ctx context.Context, p *model.Presentacion) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Presentacion, error)
	ListByProducto(ctx context.Context, productoID uuid.UUID, soloActivas bool) ([]model.Presentacion, error)
	// TieneUnidadBase reports whether the product already has a presentation
	// with unidades_por_presentacion = 1 (at most one is allowed).
	TieneUnidadBase(ctx context.Context, productoID uuid.UUID) (bool, error)
	Update(ctx context.Context, p *model.Presentacion) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type presentacionRepo struct{ db *gorm.DB }

func NewPresentacionRepository(db *gorm.DB) PresentacionRepository {
	return &presentacionRepo{db: db}
}

func (r *presentacionRepo) Create(ctx context.Context, p *model.Presentacion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *presentacionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Presentacion, error) {
	var p model.Presentacion
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *presentacionRepo) ListByProducto(ctx context.Context, productoID uuid.UUID, soloActivas bool) ([]model.Presentacion, error) {
	var presentaciones []model.Presentacion
	q := r.db.WithContext(ctx).Where("producto_id = ?", productoID)
	if soloActivas {
		q = q.Where("activa = true")
	}
	err := q.Order("unidades_por_presentacion ASC").Find(&presentaciones).Error
	return presentaciones, err
}

func (r *presentacionRepo) TieneUnidadBase(ctx context.Context, productoID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Presentacion{}).
		Where("producto_id = ? AND unidades_por_presentacion = 1", productoID).
		Count(&count).Error
	return count > 0, err
}

func (r *presentacionRepo) Update(ctx context.Context, p *model.Presentacion) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *presentacionRepo) Desactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Presentacion{}).
		Where("id = ?", id).Update("activa", false).Error
}
