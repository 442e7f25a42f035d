package service

import (
	"context"
	"errors"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/dto"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventarioService maneja entradas, ajustes, consulta del ledger y la
// reconciliación del stock cacheado contra los movimientos.
type InventarioService struct {
	uow         repository.UnitOfWork
	productos   repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
	costos      repository.HistorialCostoRepository
}

func NewInventarioService(
	uow repository.UnitOfWork,
	productos repository.ProductoRepository,
	movimientos repository.MovimientoStockRepository,
	costos repository.HistorialCostoRepository,
) *InventarioService {
	return &InventarioService{uow: uow, productos: productos, movimientos: movimientos, costos: costos}
}

// RegistrarEntrada registra una recepción de mercadería: asiento de entrada
// en el ledger, stock cacheado, y si viene costo unitario, una entrada nueva
// en el historial de costos más el espejo ultimo_costo del producto. Todo en
// una sola transacción.
func (s *InventarioService) RegistrarEntrada(ctx context.Context, usuarioID uuid.UUID, req dto.EntradaStockRequest) (*model.MovimientoStock, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, &ErrReferenciaInactiva{Tipo: "producto", ID: uuid.Nil}
	}

	var mov *model.MovimientoStock
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		p, lerr := s.productos.FindForUpdateTx(tx, productoID)
		if lerr != nil {
			if errors.Is(lerr, gorm.ErrRecordNotFound) {
				return &ErrReferenciaInactiva{Tipo: "producto", ID: productoID}
			}
			return lerr
		}
		if !p.Activo {
			return &ErrReferenciaInactiva{Tipo: "producto", ID: productoID}
		}

		motivo := req.Motivo
		if motivo == "" {
			motivo = "compra"
		}
		nuevo := p.StockActual + req.Cantidad
		mov = &model.MovimientoStock{
			ProductoID:    productoID,
			UsuarioID:     &usuarioID,
			Tipo:          model.MovEntrada,
			Cantidad:      req.Cantidad,
			StockAnterior: p.StockActual,
			StockNuevo:    nuevo,
			Motivo:        motivo,
		}
		if merr := s.movimientos.CreateTx(tx, mov); merr != nil {
			return merr
		}
		if serr := s.productos.SetStockTx(tx, productoID, nuevo); serr != nil {
			return serr
		}

		if req.CostoUnitario != nil {
			costo := &model.HistorialCosto{
				ProductoID:    productoID,
				UsuarioID:     &usuarioID,
				CostoUnitario: *req.CostoUnitario,
			}
			if cerr := s.costos.CreateTx(tx, costo); cerr != nil {
				return cerr
			}
			if uerr := s.productos.SetUltimoCostoTx(tx, productoID, *req.CostoUnitario); uerr != nil {
				return uerr
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// RegistrarAjuste aplica una corrección manual con signo. Un ajuste que deje
// el stock en negativo se rechaza sin escribir nada.
func (s *InventarioService) RegistrarAjuste(ctx context.Context, usuarioID uuid.UUID, req dto.AjusteStockRequest) (*model.MovimientoStock, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, &ErrReferenciaInactiva{Tipo: "producto", ID: uuid.Nil}
	}
	if req.Cantidad == 0 {
		return nil, errors.New("el ajuste no puede ser cero")
	}

	var mov *model.MovimientoStock
	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		p, lerr := s.productos.FindForUpdateTx(tx, productoID)
		if lerr != nil {
			if errors.Is(lerr, gorm.ErrRecordNotFound) {
				return &ErrReferenciaInactiva{Tipo: "producto", ID: productoID}
			}
			return lerr
		}

		nuevo := p.StockActual + req.Cantidad
		if nuevo < 0 {
			return ErrStockNegativo
		}
		mov = &model.MovimientoStock{
			ProductoID:    productoID,
			UsuarioID:     &usuarioID,
			Tipo:          model.MovAjuste,
			Cantidad:      req.Cantidad,
			StockAnterior: p.StockActual,
			StockNuevo:    nuevo,
			Motivo:        req.Motivo,
		}
		if merr := s.movimientos.CreateTx(tx, mov); merr != nil {
			return merr
		}
		return s.productos.SetStockTx(tx, productoID, nuevo)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ListMovimientos devuelve el ledger paginado, filtrable por producto y tipo.
func (s *InventarioService) ListMovimientos(ctx context.Context, filter repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	return s.movimientos.List(ctx, filter)
}

// Alertas lista los productos activos con stock igual o por debajo del mínimo.
func (s *InventarioService) Alertas(ctx context.Context) ([]model.Producto, error) {
	return s.productos.ListBajoStock(ctx)
}

// ReconciliarStock recalcula el stock del producto desde el ledger y corrige
// el cache si difiere. El ledger manda: la suma de movimientos es la verdad.
func (s *InventarioService) ReconciliarStock(ctx context.Context, productoID uuid.UUID) (*dto.ReconciliacionResponse, error) {
	var out dto.ReconciliacionResponse
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		p, lerr := s.productos.FindForUpdateTx(tx, productoID)
		if lerr != nil {
			if errors.Is(lerr, gorm.ErrRecordNotFound) {
				return &ErrReferenciaInactiva{Tipo: "producto", ID: productoID}
			}
			return lerr
		}
		calculado, serr := s.movimientos.SumByProductoTx(tx, productoID)
		if serr != nil {
			return serr
		}
		out = dto.ReconciliacionResponse{
			ProductoID:     productoID.String(),
			StockCacheado:  p.StockActual,
			StockCalculado: calculado,
		}
		if calculado != p.StockActual {
			log.Warn().
				Str("producto_id", productoID.String()).
				Int("cacheado", p.StockActual).
				Int("calculado", calculado).
				Msg("stock cacheado desviado del ledger, corrigiendo")
			out.Corregido = true
			return s.productos.SetStockTx(tx, productoID, calculado)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
