package cart

import (
	"math/rand"
	"testing"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func producto(stock int, precio string) *model.Producto {
	return &model.Producto{
		ID:          uuid.New(),
		Codigo:      "P-001",
		Nombre:      "Gaseosa 500ml",
		PrecioVenta: decimal.RequireFromString(precio),
		StockActual: stock,
		Activo:      true,
	}
}

func sixPack(p *model.Producto, precio string) *model.Presentacion {
	return &model.Presentacion{
		ID:                      uuid.New(),
		ProductoID:              p.ID,
		Nombre:                  "Six pack",
		UnidadesPorPresentacion: 6,
		Precio:                  decimal.RequireFromString(precio),
		Activa:                  true,
	}
}

func TestAgregarLineaAcumulaMismaClave(t *testing.T) {
	p := producto(100, "500")
	c := Nuevo()

	require.True(t, c.AgregarLinea(p, nil, 2))
	require.True(t, c.AgregarLinea(p, nil, 3))

	lineas := c.Lineas()
	require.Len(t, lineas, 1)
	assert.Equal(t, 5, lineas[0].Cantidad)
	assert.Equal(t, 5, c.TotalUnidades())
	assert.True(t, c.Subtotal().Equal(decimal.RequireFromString("2500")))
}

func TestAgregarLineaPresentacionYSueltaSonLineasDistintas(t *testing.T) {
	p := producto(100, "500")
	pack := sixPack(p, "2700")
	c := Nuevo()

	require.True(t, c.AgregarLinea(p, pack, 1))
	require.True(t, c.AgregarLinea(p, nil, 2))

	require.Len(t, c.Lineas(), 2)
	assert.Equal(t, 8, c.TotalUnidades())
	// 2700 + 2*500
	assert.True(t, c.Subtotal().Equal(decimal.RequireFromString("3700")))
}

func TestTopeDeStockSumaTodasLasPresentaciones(t *testing.T) {
	// Stock 10: un six pack (6) entra, el segundo (12 totales) no, y después
	// entran hasta 4 unidades sueltas.
	p := producto(10, "500")
	pack := sixPack(p, "2700")
	c := Nuevo()

	require.True(t, c.AgregarLinea(p, pack, 1))
	assert.False(t, c.AgregarLinea(p, pack, 1))
	assert.False(t, c.AgregarLinea(p, nil, 5))
	require.True(t, c.AgregarLinea(p, nil, 4))
	assert.Equal(t, 10, c.TotalUnidades())
}

func TestAgregarLineaRechazaInactivosYCantidadInvalida(t *testing.T) {
	p := producto(100, "500")
	c := Nuevo()

	assert.False(t, c.AgregarLinea(p, nil, 0))
	assert.False(t, c.AgregarLinea(p, nil, -1))

	pack := sixPack(p, "2700")
	pack.Activa = false
	assert.False(t, c.AgregarLinea(p, pack, 1))

	otro := producto(100, "900")
	packAjeno := sixPack(otro, "2700")
	assert.False(t, c.AgregarLinea(p, packAjeno, 1))

	p.Activo = false
	assert.False(t, c.AgregarLinea(p, nil, 1))
	assert.True(t, c.Vacio())
}

func TestActualizarCantidadExcluyeLaPropiaLinea(t *testing.T) {
	// Stock 18: 2 packs (12) + 6 sueltas = 18. Subir las sueltas a 7 rompe el
	// tope, pero re-fijarlas en 6 debe pasar aunque el producto esté al límite.
	p := producto(18, "500")
	pack := sixPack(p, "2700")
	c := Nuevo()

	require.True(t, c.AgregarLinea(p, pack, 2))
	require.True(t, c.AgregarLinea(p, nil, 6))

	assert.False(t, c.ActualizarCantidad(p.ID, nil, 7))
	assert.True(t, c.ActualizarCantidad(p.ID, nil, 6))
	assert.Equal(t, 18, c.TotalUnidades())
}

func TestActualizarCantidadCeroQuitaLaLinea(t *testing.T) {
	p := producto(100, "500")
	c := Nuevo()
	require.True(t, c.AgregarLinea(p, nil, 3))

	require.True(t, c.ActualizarCantidad(p.ID, nil, 0))
	assert.True(t, c.Vacio())

	assert.False(t, c.ActualizarCantidad(p.ID, nil, 1))
	assert.False(t, c.QuitarLinea(p.ID, nil))
}

func TestDescuentoAcotadoAlSubtotal(t *testing.T) {
	p := producto(100, "500")
	c := Nuevo()
	require.True(t, c.AgregarLinea(p, nil, 2)) // subtotal 1000

	assert.False(t, c.SetDescuento(decimal.RequireFromString("-1")))
	assert.False(t, c.SetDescuento(decimal.RequireFromString("1000.01")))
	require.True(t, c.SetDescuento(decimal.RequireFromString("1000")))
	assert.True(t, c.Total().IsZero())

	require.True(t, c.SetDescuento(decimal.RequireFromString("250")))
	assert.True(t, c.Total().Equal(decimal.RequireFromString("750")))
}

func TestLimpiarReiniciaTodo(t *testing.T) {
	p := producto(100, "500")
	c := Nuevo()
	require.True(t, c.AgregarLinea(p, nil, 2))
	require.True(t, c.SetDescuento(decimal.RequireFromString("100")))
	c.SetCliente(&model.Cliente{ID: uuid.New(), Nombre: "Juan"})

	c.Limpiar()

	assert.True(t, c.Vacio())
	assert.Nil(t, c.Cliente())
	assert.True(t, c.Descuento().IsZero())
	assert.True(t, c.Total().IsZero())
}

func TestTopeDeStockConSecuenciasAleatorias(t *testing.T) {
	// Secuencias arbitrarias de altas, cambios de cantidad y bajas, con
	// cantidades que incluyen cero y negativos: las unidades reservadas nunca
	// pueden superar el stock del producto ni quedar negativas.
	rng := rand.New(rand.NewSource(20260831))

	for caso := 0; caso < 150; caso++ {
		stock := rng.Intn(50) + 1
		p := producto(stock, "500")
		pack := sixPack(p, "2700")
		pack.UnidadesPorPresentacion = rng.Intn(8) + 1
		c := Nuevo()

		for paso := 0; paso < 40; paso++ {
			var pres *model.Presentacion
			var presID *uuid.UUID
			if rng.Intn(2) == 1 {
				pres = pack
				presID = &pack.ID
			}
			cantidad := rng.Intn(12) - 2

			switch rng.Intn(4) {
			case 0, 1:
				c.AgregarLinea(p, pres, cantidad)
			case 2:
				c.ActualizarCantidad(p.ID, presID, cantidad)
			case 3:
				c.QuitarLinea(p.ID, presID)
			}

			unidades := c.TotalUnidades()
			require.GreaterOrEqual(t, unidades, 0,
				"caso %d paso %d: unidades negativas", caso, paso)
			require.LessOrEqual(t, unidades, stock,
				"caso %d paso %d: %d unidades reservadas contra stock %d", caso, paso, unidades, stock)
		}
	}
}

func TestObserverUnaVezPorMutacionEfectiva(t *testing.T) {
	p := producto(10, "500")
	pack := sixPack(p, "2700")
	c := Nuevo()

	var eventos int
	c.Suscribir(func() { eventos++ })

	c.AgregarLinea(p, pack, 1)                      // +1
	c.AgregarLinea(p, pack, 1)                      // rechazada, no cuenta
	c.AgregarLinea(p, nil, 4)                       // +1
	c.ActualizarCantidad(p.ID, nil, 20)             // rechazada
	c.ActualizarCantidad(p.ID, nil, 2)              // +1
	c.SetDescuento(decimal.RequireFromString("-5")) // rechazada
	c.QuitarLinea(p.ID, &pack.ID)                   // +1
	c.Limpiar()                                     // +1

	assert.Equal(t, 5, eventos)
}
