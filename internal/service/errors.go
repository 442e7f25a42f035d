package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Domain sentinels. Handlers map these to HTTP status via apierror.
var (
	ErrCarritoVacio        = errors.New("la venta no tiene items")
	ErrVentaNoEncontrada   = errors.New("venta no encontrada")
	ErrVentaAnulada        = errors.New("la venta ya fue anulada")
	ErrSinCosto            = errors.New("el producto no tiene costo registrado")
	ErrDescuentoInvalido   = errors.New("el descuento no puede superar el subtotal")
	ErrMontoInsuficiente   = errors.New("el monto recibido no cubre el total")
	ErrStockNegativo       = errors.New("el ajuste dejaría el stock en negativo")
	ErrNumeroFactura       = errors.New("no se pudo asignar un número de factura único")
	ErrConsumidorFinal     = errors.New("el consumidor final no puede modificarse ni eliminarse")
	ErrUnidadBaseDuplicada = errors.New("el producto ya tiene una presentación de una unidad")
	ErrUsuarioRequerido    = errors.New("la operación requiere un usuario responsable")
	ErrMotivoRequerido     = errors.New("la anulación requiere un motivo")
	ErrCantidadInvalida    = errors.New("la cantidad debe ser mayor a cero")
)

// ErrStockInsuficiente reports which product failed the commit-time stock
// check and by how many units.
type ErrStockInsuficiente struct {
	ProductoID uuid.UUID
	Producto   string
	Requerido  int
	Disponible int
}

func (e *ErrStockInsuficiente) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: requiere %d unidades, hay %d",
		e.Producto, e.Requerido, e.Disponible)
}

// ErrReferenciaInactiva reports a cart/request reference to a product,
// presentation, customer or category that does not exist or was deactivated.
type ErrReferenciaInactiva struct {
	Tipo string // "producto" | "presentacion" | "cliente" | "categoria"
	ID   uuid.UUID
}

func (e *ErrReferenciaInactiva) Error() string {
	return fmt.Sprintf("%s %s inexistente o inactivo", e.Tipo, e.ID)
}
