// Package cart implementa el carrito de venta en memoria que arma el
// cajero antes de confirmar. El carrito valida el tope de stock por
// producto sumando las unidades de todas sus líneas (sueltas y por
// presentación), pero la validación definitiva ocurre al confirmar la
// venta dentro de la transacción.
package cart

import (
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Linea es una línea del carrito. Presentacion en nil significa venta por
// unidad suelta. Cantidad siempre es > 0: una línea que llega a 0 se quita.
type Linea struct {
	Producto     *model.Producto
	Presentacion *model.Presentacion
	Cantidad     int
}

// Unidades devuelve las unidades base que consume la línea.
func (l Linea) Unidades() int {
	if l.Presentacion == nil {
		return l.Cantidad
	}
	return l.Cantidad * l.Presentacion.UnidadesPorPresentacion
}

// PrecioUnitario es el precio por unidad de venta de la línea (precio de
// la presentación, o precio de venta del producto para unidades sueltas).
func (l Linea) PrecioUnitario() decimal.Decimal {
	if l.Presentacion == nil {
		return l.Producto.PrecioVenta
	}
	return l.Presentacion.Precio
}

func (l Linea) Subtotal() decimal.Decimal {
	return l.PrecioUnitario().Mul(decimal.NewFromInt(int64(l.Cantidad)))
}

// Carrito acumula líneas en orden de carga. No es seguro para uso
// concurrente: cada caja opera sobre su propio carrito.
type Carrito struct {
	lineas    []Linea
	cliente   *model.Cliente
	descuento decimal.Decimal
	observers []func()
}

func Nuevo() *Carrito {
	return &Carrito{descuento: decimal.Zero}
}

// Suscribir registra un callback que se dispara una vez por cada mutación
// efectiva (alta, cambio de cantidad, baja, descuento, cliente, limpiar).
// Las operaciones rechazadas no disparan nada.
func (c *Carrito) Suscribir(fn func()) {
	c.observers = append(c.observers, fn)
}

func (c *Carrito) notificar() {
	for _, fn := range c.observers {
		fn()
	}
}

// indexDe busca la línea con la misma clave (producto, presentación o nil).
func (c *Carrito) indexDe(productoID uuid.UUID, presentacionID *uuid.UUID) int {
	for i, l := range c.lineas {
		if l.Producto.ID != productoID {
			continue
		}
		if l.Presentacion == nil && presentacionID == nil {
			return i
		}
		if l.Presentacion != nil && presentacionID != nil && l.Presentacion.ID == *presentacionID {
			return i
		}
	}
	return -1
}

// unidadesDeProducto suma las unidades ya comprometidas para el producto,
// salvo la línea en la posición excluir (-1 para no excluir ninguna).
func (c *Carrito) unidadesDeProducto(productoID uuid.UUID, excluir int) int {
	total := 0
	for i, l := range c.lineas {
		if i == excluir {
			continue
		}
		if l.Producto.ID == productoID {
			total += l.Unidades()
		}
	}
	return total
}

// AgregarLinea suma cantidad a la línea existente con la misma clave, o crea
// una nueva al final. Devuelve false sin modificar nada cuando:
//   - cantidad <= 0
//   - el producto o la presentación están inactivos
//   - la presentación no pertenece al producto
//   - las unidades totales del producto superarían su stock actual
func (c *Carrito) AgregarLinea(producto *model.Producto, presentacion *model.Presentacion, cantidad int) bool {
	if producto == nil || cantidad <= 0 || !producto.Activo {
		return false
	}
	if presentacion != nil {
		if !presentacion.Activa || presentacion.ProductoID != producto.ID {
			return false
		}
	}

	var presentacionID *uuid.UUID
	unidadesNuevas := cantidad
	if presentacion != nil {
		presentacionID = &presentacion.ID
		unidadesNuevas = cantidad * presentacion.UnidadesPorPresentacion
	}

	if c.unidadesDeProducto(producto.ID, -1)+unidadesNuevas > producto.StockActual {
		return false
	}

	if i := c.indexDe(producto.ID, presentacionID); i >= 0 {
		c.lineas[i].Cantidad += cantidad
	} else {
		c.lineas = append(c.lineas, Linea{Producto: producto, Presentacion: presentacion, Cantidad: cantidad})
	}
	c.notificar()
	return true
}

// ActualizarCantidad fija la cantidad de una línea existente. Una cantidad
// <= 0 quita la línea. Devuelve false si la línea no existe o si la nueva
// cantidad rompe el tope de stock del producto (contando el resto de sus
// líneas pero no la propia).
func (c *Carrito) ActualizarCantidad(productoID uuid.UUID, presentacionID *uuid.UUID, cantidad int) bool {
	i := c.indexDe(productoID, presentacionID)
	if i < 0 {
		return false
	}
	if cantidad <= 0 {
		c.lineas = append(c.lineas[:i], c.lineas[i+1:]...)
		c.notificar()
		return true
	}

	l := c.lineas[i]
	unidades := cantidad
	if l.Presentacion != nil {
		unidades = cantidad * l.Presentacion.UnidadesPorPresentacion
	}
	if c.unidadesDeProducto(productoID, i)+unidades > l.Producto.StockActual {
		return false
	}

	c.lineas[i].Cantidad = cantidad
	c.notificar()
	return true
}

// QuitarLinea elimina la línea con la clave dada. Devuelve false si no existe.
func (c *Carrito) QuitarLinea(productoID uuid.UUID, presentacionID *uuid.UUID) bool {
	i := c.indexDe(productoID, presentacionID)
	if i < 0 {
		return false
	}
	c.lineas = append(c.lineas[:i], c.lineas[i+1:]...)
	c.notificar()
	return true
}

// SetCliente asocia un cliente al carrito (nil vuelve a consumidor final).
func (c *Carrito) SetCliente(cliente *model.Cliente) {
	c.cliente = cliente
	c.notificar()
}

func (c *Carrito) Cliente() *model.Cliente { return c.cliente }

// SetDescuento aplica un descuento en monto. Devuelve false si es negativo
// o mayor al subtotal vigente.
func (c *Carrito) SetDescuento(monto decimal.Decimal) bool {
	if monto.IsNegative() || monto.GreaterThan(c.Subtotal()) {
		return false
	}
	c.descuento = monto
	c.notificar()
	return true
}

func (c *Carrito) Descuento() decimal.Decimal { return c.descuento }

// Limpiar vacía el carrito por completo (líneas, cliente y descuento).
func (c *Carrito) Limpiar() {
	c.lineas = nil
	c.cliente = nil
	c.descuento = decimal.Zero
	c.notificar()
}

// Lineas devuelve una copia de las líneas en orden de carga.
func (c *Carrito) Lineas() []Linea {
	out := make([]Linea, len(c.lineas))
	copy(out, c.lineas)
	return out
}

func (c *Carrito) Vacio() bool { return len(c.lineas) == 0 }

// Subtotal se recalcula en cada lectura a partir de las líneas.
func (c *Carrito) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lineas {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Total es subtotal menos descuento, nunca negativo.
func (c *Carrito) Total() decimal.Decimal {
	t := c.Subtotal().Sub(c.descuento)
	if t.IsNegative() {
		return decimal.Zero
	}
	return t
}

// TotalUnidades suma las unidades base de todas las líneas.
func (c *Carrito) TotalUnidades() int {
	total := 0
	for _, l := range c.lineas {
		total += l.Unidades()
	}
	return total
}
