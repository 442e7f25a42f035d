package service

import (
	"context"
	"testing"
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVentasDiaExcluyeAnuladasDeLaRecaudacion(t *testing.T) {
	e := newVentaEnv()
	svc := NewReporteService(e.ventas, e.productos, e.costos)
	dia := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	e.store.ventas[uuid.New()] = &model.Venta{
		ID: uuid.New(), NumeroFactura: "F-202603141000",
		Total: decimal.RequireFromString("5000"), CreatedAt: dia,
	}
	e.store.ventas[uuid.New()] = &model.Venta{
		ID: uuid.New(), NumeroFactura: "F-202603141001",
		Total: decimal.RequireFromString("3000"), CreatedAt: dia,
	}
	e.store.ventas[uuid.New()] = &model.Venta{
		ID: uuid.New(), NumeroFactura: "F-202603141002",
		Total: decimal.RequireFromString("9999"), CreatedAt: dia, Anulada: true,
	}

	resumen, ventas, err := svc.VentasDia(context.Background(), "2026-03-14")
	require.NoError(t, err)

	assert.Equal(t, 2, resumen.CantidadVentas)
	assert.Equal(t, 1, resumen.Anuladas)
	assert.True(t, resumen.TotalVendido.Equal(decimal.RequireFromString("8000")))
	// La anulada se lista igual, con su total original
	assert.Len(t, ventas, 3)
}

func TestVentasDiaFechaInvalida(t *testing.T) {
	e := newVentaEnv()
	svc := NewReporteService(e.ventas, e.productos, e.costos)

	_, _, err := svc.VentasDia(context.Background(), "14-03-2026")
	assert.Error(t, err)
}

func TestMargenConCostoVigente(t *testing.T) {
	e := newVentaEnv()
	svc := NewReporteService(e.ventas, e.productos, e.costos)
	yerba := e.seedProducto("YER-001", "Yerba 1kg", 10, "1000")

	e.store.costos = append(e.store.costos, model.HistorialCosto{
		ID: uuid.New(), ProductoID: yerba.ID,
		CostoUnitario: decimal.RequireFromString("600"),
		CreatedAt:     time.Now().Add(-time.Hour),
	})

	margen, err := svc.MargenProducto(context.Background(), yerba.ID)
	require.NoError(t, err)

	require.NotNil(t, margen.CostoUnitario)
	assert.True(t, margen.CostoUnitario.Equal(decimal.RequireFromString("600")))
	require.NotNil(t, margen.MargenPct)
	assert.True(t, margen.MargenPct.Equal(decimal.RequireFromString("40")))
}

func TestMargenUsaElCostoMasReciente(t *testing.T) {
	e := newVentaEnv()
	svc := NewReporteService(e.ventas, e.productos, e.costos)
	yerba := e.seedProducto("YER-001", "Yerba 1kg", 10, "1000")

	e.store.costos = append(e.store.costos,
		model.HistorialCosto{
			ID: uuid.New(), ProductoID: yerba.ID,
			CostoUnitario: decimal.RequireFromString("500"),
			CreatedAt:     time.Now().Add(-48 * time.Hour),
		},
		model.HistorialCosto{
			ID: uuid.New(), ProductoID: yerba.ID,
			CostoUnitario: decimal.RequireFromString("750"),
			CreatedAt:     time.Now().Add(-time.Hour),
		},
	)

	margen, err := svc.MargenProducto(context.Background(), yerba.ID)
	require.NoError(t, err)
	require.NotNil(t, margen.MargenPct)
	assert.True(t, margen.MargenPct.Equal(decimal.RequireFromString("25")))
}

func TestMargenSinHistorialReportaNulo(t *testing.T) {
	e := newVentaEnv()
	svc := NewReporteService(e.ventas, e.productos, e.costos)
	yerba := e.seedProducto("YER-001", "Yerba 1kg", 10, "1000")

	margen, err := svc.MargenProducto(context.Background(), yerba.ID)
	require.NoError(t, err)

	// Sin costo registrado no se estima nada: margen desconocido
	assert.Nil(t, margen.CostoUnitario)
	assert.Nil(t, margen.MargenPct)
	assert.Equal(t, "YER-001", margen.Codigo)
}

func TestMargenProductoInexistente(t *testing.T) {
	e := newVentaEnv()
	svc := NewReporteService(e.ventas, e.productos, e.costos)

	_, err := svc.MargenProducto(context.Background(), uuid.New())

	var inactiva *ErrReferenciaInactiva
	assert.ErrorAs(t, err, &inactiva)
}
