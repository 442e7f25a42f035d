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

var ErrCodigoDuplicado = errors.New("ya existe un producto con ese código")

// ProductoService maneja el catálogo: productos, sus presentaciones y el
// registro manual de costos.
type ProductoService struct {
	uow            repository.UnitOfWork
	productos      repository.ProductoRepository
	presentaciones repository.PresentacionRepository
	costos         repository.HistorialCostoRepository
}

func NewProductoService(
	uow repository.UnitOfWork,
	productos repository.ProductoRepository,
	presentaciones repository.PresentacionRepository,
	costos repository.HistorialCostoRepository,
) *ProductoService {
	return &ProductoService{uow: uow, productos: productos, presentaciones: presentaciones, costos: costos}
}

func (s *ProductoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*model.Producto, error) {
	unidad := req.UnidadMedida
	if unidad == "" {
		unidad = "unidad"
	}
	stockMinimo := req.StockMinimo
	if stockMinimo == 0 {
		stockMinimo = 5
	}
	p := &model.Producto{
		Codigo:       req.Codigo,
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		Categoria:    req.Categoria,
		PrecioVenta:  req.PrecioVenta,
		StockMinimo:  stockMinimo,
		UnidadMedida: unidad,
		Activo:       true,
	}
	if err := s.productos.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCodigoDuplicado
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductoService) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	p, err := s.productos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ErrReferenciaInactiva{Tipo: "producto", ID: id}
		}
		return nil, err
	}
	return p, nil
}

func (s *ProductoService) FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	return s.productos.FindByCodigo(ctx, codigo)
}

func (s *ProductoService) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.productos.List(ctx, filter)
}

// Actualizar modifica datos del catálogo. El stock no se toca por acá: solo
// entradas, ventas y ajustes mueven stock.
func (s *ProductoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*model.Producto, error) {
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Categoria != "" {
		p.Categoria = req.Categoria
	}
	if req.PrecioVenta != nil {
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}
	if err := s.productos.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Desactivar da de baja lógica: el producto deja de venderse pero su historial
// de movimientos y ventas queda intacto.
func (s *ProductoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productos.SoftDelete(ctx, id)
}

func (s *ProductoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.productos.Reactivar(ctx, id)
}

// RegistrarCosto agrega una entrada manual al historial de costos (sin mover
// stock) y actualiza el espejo ultimo_costo.
func (s *ProductoService) RegistrarCosto(ctx context.Context, id, usuarioID uuid.UUID, req dto.RegistrarCostoRequest) (*model.HistorialCosto, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}
	costo := &model.HistorialCosto{
		ProductoID:    id,
		UsuarioID:     &usuarioID,
		CostoUnitario: req.CostoUnitario,
	}
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if cerr := s.costos.CreateTx(tx, costo); cerr != nil {
			return cerr
		}
		return s.productos.SetUltimoCostoTx(tx, id, req.CostoUnitario)
	})
	if err != nil {
		return nil, err
	}
	return costo, nil
}

func (s *ProductoService) HistorialCostos(ctx context.Context, id uuid.UUID, page, limit int) ([]model.HistorialCosto, int64, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, 0, err
	}
	return s.costos.ListByProducto(ctx, id, page, limit)
}

// ─── Presentaciones ─────────────────────────────────────────────────────────

// CrearPresentacion da de alta una presentación del producto. A lo sumo una
// presentación por producto puede tener unidades_por_presentacion = 1.
func (s *ProductoService) CrearPresentacion(ctx context.Context, productoID uuid.UUID, req dto.CrearPresentacionRequest) (*model.Presentacion, error) {
	if _, err := s.FindByID(ctx, productoID); err != nil {
		return nil, err
	}
	if req.UnidadesPorPresentacion == 1 {
		existe, err := s.presentaciones.TieneUnidadBase(ctx, productoID)
		if err != nil {
			return nil, err
		}
		if existe {
			return nil, ErrUnidadBaseDuplicada
		}
	}
	p := &model.Presentacion{
		ProductoID:              productoID,
		Nombre:                  req.Nombre,
		UnidadesPorPresentacion: req.UnidadesPorPresentacion,
		Precio:                  req.Precio,
		Activa:                  true,
	}
	if err := s.presentaciones.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ActualizarPresentacion permite cambiar nombre y precio. El factor de
// conversión es inmutable: las ventas ya confirmadas llevan su snapshot, y
// cambiarlo retroactivamente rompería la lectura del ledger.
func (s *ProductoService) ActualizarPresentacion(ctx context.Context, id uuid.UUID, req dto.ActualizarPresentacionRequest) (*model.Presentacion, error) {
	p, err := s.presentaciones.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ErrReferenciaInactiva{Tipo: "presentacion", ID: id}
		}
		return nil, err
	}
	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.Precio != nil {
		p.Precio = *req.Precio
	}
	if err := s.presentaciones.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DesactivarPresentacion la saca de la venta. Nunca se borra físicamente.
func (s *ProductoService) DesactivarPresentacion(ctx context.Context, id uuid.UUID) error {
	if _, err := s.presentaciones.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ErrReferenciaInactiva{Tipo: "presentacion", ID: id}
		}
		return err
	}
	return s.presentaciones.Desactivar(ctx, id)
}

func (s *ProductoService) ListPresentaciones(ctx context.Context, productoID uuid.UUID, soloActivas bool) ([]model.Presentacion, error) {
	if _, err := s.FindByID(ctx, productoID); err != nil {
		return nil, err
	}
	return s.presentaciones.ListByProducto(ctx, productoID, soloActivas)
}
