package service

import (
	"context"
	"errors"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/dto"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrCategoriaDuplicada = errors.New("ya existe una categoría con ese nombre")

type CategoriaService struct {
	categorias repository.CategoriaRepository
}

func NewCategoriaService(categorias repository.CategoriaRepository) *CategoriaService {
	return &CategoriaService{categorias: categorias}
}

func (s *CategoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*model.Categoria, error) {
	c := &model.Categoria{Nombre: req.Nombre, Descripcion: req.Descripcion, Activo: true}
	if err := s.categorias.Create(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategoriaDuplicada
		}
		return nil, err
	}
	return c, nil
}

func (s *CategoriaService) List(ctx context.Context) ([]model.Categoria, error) {
	return s.categorias.List(ctx)
}

func (s *CategoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*model.Categoria, error) {
	c, err := s.categorias.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ErrReferenciaInactiva{Tipo: "categoria", ID: id}
		}
		return nil, err
	}
	if req.Nombre != "" {
		c.Nombre = req.Nombre
	}
	if req.Descripcion != nil {
		c.Descripcion = req.Descripcion
	}
	if err := s.categorias.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoriaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categorias.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ErrReferenciaInactiva{Tipo: "categoria", ID: id}
		}
		return err
	}
	return s.categorias.SoftDelete(ctx, id)
}
