package service

import (
	"context"
	"errors"
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/dto"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var cien = decimal.NewFromInt(100)

// ReporteService arma los reportes de ventas del día y de márgenes. Los
// márgenes se calculan contra el costo vigente del historial; un producto sin
// historial reporta margen nulo, nunca un costo estimado.
type ReporteService struct {
	ventas    repository.VentaRepository
	productos repository.ProductoRepository
	costos    repository.HistorialCostoRepository
	now       func() time.Time
}

func NewReporteService(
	ventas repository.VentaRepository,
	productos repository.ProductoRepository,
	costos repository.HistorialCostoRepository,
) *ReporteService {
	return &ReporteService{ventas: ventas, productos: productos, costos: costos, now: time.Now}
}

// VentasDia agrega las ventas de una fecha (YYYY-MM-DD, vacía = hoy). Las
// anuladas se listan con sus totales originales pero no suman a la
// recaudación.
func (s *ReporteService) VentasDia(ctx context.Context, fecha string) (*dto.VentasDiaResponse, []model.Venta, error) {
	if fecha == "" {
		fecha = s.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", fecha); err != nil {
		return nil, nil, errors.New("fecha invalida, formato esperado YYYY-MM-DD")
	}

	ventas, err := s.ventas.ListByFecha(ctx, fecha)
	if err != nil {
		return nil, nil, err
	}

	resumen := &dto.VentasDiaResponse{Fecha: fecha, TotalVendido: decimal.Zero}
	for _, v := range ventas {
		if v.Anulada {
			resumen.Anuladas++
			continue
		}
		resumen.CantidadVentas++
		resumen.TotalVendido = resumen.TotalVendido.Add(v.Total)
	}
	return resumen, ventas, nil
}

// Margenes calcula el margen porcentual sobre el precio de venta de cada
// producto activo: (precio − costo vigente) / precio × 100.
func (s *ReporteService) Margenes(ctx context.Context) ([]dto.MargenProductoResponse, error) {
	productos, _, err := s.productos.List(ctx, dto.ProductoFilter{Page: 1, Limit: 200})
	if err != nil {
		return nil, err
	}

	ahora := s.now()
	out := make([]dto.MargenProductoResponse, 0, len(productos))
	for i := range productos {
		m, merr := s.margenDe(ctx, &productos[i], ahora)
		if merr != nil {
			return nil, merr
		}
		out = append(out, *m)
	}
	return out, nil
}

// MargenProducto calcula el margen de un solo producto.
func (s *ReporteService) MargenProducto(ctx context.Context, productoID uuid.UUID) (*dto.MargenProductoResponse, error) {
	p, err := s.productos.FindByID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ErrReferenciaInactiva{Tipo: "producto", ID: productoID}
		}
		return nil, err
	}
	return s.margenDe(ctx, p, s.now())
}

func (s *ReporteService) margenDe(ctx context.Context, p *model.Producto, ref time.Time) (*dto.MargenProductoResponse, error) {
	resp := &dto.MargenProductoResponse{
		ProductoID:  p.ID.String(),
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		PrecioVenta: p.PrecioVenta,
	}

	costo, err := s.costos.CostoVigente(ctx, p.ID, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Sin historial: margen desconocido, se informa como nulo.
			return resp, nil
		}
		return nil, err
	}

	resp.CostoUnitario = &costo.CostoUnitario
	if p.PrecioVenta.IsPositive() {
		margen := p.PrecioVenta.Sub(costo.CostoUnitario).Div(p.PrecioVenta).Mul(cien).Round(2)
		resp.MargenPct = &margen
	}
	return resp, nil
}
