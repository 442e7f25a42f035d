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

type ClienteService struct {
	clientes repository.ClienteRepository
}

func NewClienteService(clientes repository.ClienteRepository) *ClienteService {
	return &ClienteService{clientes: clientes}
}

func (s *ClienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*model.Cliente, error) {
	c := &model.Cliente{
		Nombre:    req.Nombre,
		Documento: req.Documento,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Direccion: req.Direccion,
		Activo:    true,
	}
	if err := s.clientes.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ClienteService) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, err := s.clientes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ErrReferenciaInactiva{Tipo: "cliente", ID: id}
		}
		return nil, err
	}
	return c, nil
}

func (s *ClienteService) List(ctx context.Context, incluirInactivos bool) ([]model.Cliente, error) {
	return s.clientes.List(ctx, incluirInactivos)
}

func (s *ClienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*model.Cliente, error) {
	c, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// El consumidor final es un registro del sistema: no se edita.
	if c.EsConsumidorFinal {
		return nil, ErrConsumidorFinal
	}
	if req.Nombre != "" {
		c.Nombre = req.Nombre
	}
	if req.Documento != nil {
		c.Documento = req.Documento
	}
	if req.Telefono != nil {
		c.Telefono = req.Telefono
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Direccion != nil {
		c.Direccion = req.Direccion
	}
	if err := s.clientes.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ClienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	c, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c.EsConsumidorFinal {
		return ErrConsumidorFinal
	}
	return s.clientes.SoftDelete(ctx, id)
}
