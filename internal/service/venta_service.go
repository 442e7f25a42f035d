package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/cart"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/dto"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/metrics"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TicketDispatcher encola la generación asíncrona del ticket de una venta.
// La implementación real publica en Redis; los tests inyectan un stub.
type TicketDispatcher interface {
	EncolarTicket(ctx context.Context, ventaID uuid.UUID) error
}

// VentaService implementa el protocolo de confirmación de venta y la
// anulación con asientos compensatorios.
type VentaService struct {
	uow         repository.UnitOfWork
	ventas      repository.VentaRepository
	productos   repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
	clientes    repository.ClienteRepository
	recibos     repository.ReciboRepository
	dispatcher  TicketDispatcher
	now         func() time.Time
}

func NewVentaService(
	uow repository.UnitOfWork,
	ventas repository.VentaRepository,
	productos repository.ProductoRepository,
	movimientos repository.MovimientoStockRepository,
	clientes repository.ClienteRepository,
	recibos repository.ReciboRepository,
	dispatcher TicketDispatcher,
) *VentaService {
	return &VentaService{
		uow:         uow,
		ventas:      ventas,
		productos:   productos,
		movimientos: movimientos,
		clientes:    clientes,
		recibos:     recibos,
		dispatcher:  dispatcher,
		now:         time.Now,
	}
}

// lineaVenta es una línea ya resuelta y validada en el preflight, lista para
// snapshotear en venta_items.
type lineaVenta struct {
	producto        *model.Producto
	presentacionID  *uuid.UUID
	cantidad        int
	unidadesPorPres int
	precioUnitario  decimal.Decimal
}

func (l lineaVenta) unidades() int { return l.cantidad * l.unidadesPorPres }

func (l lineaVenta) subtotal() decimal.Decimal {
	return l.precioUnitario.Mul(decimal.NewFromInt(int64(l.cantidad)))
}

// RegistrarVenta confirma una venta de forma atómica:
//
//  1. Preflight fuera de la transacción: resuelve productos, presentaciones y
//     cliente, valida referencias activas y arma los snapshots de precio.
//  2. Dentro de la transacción: bloquea cada producto con SELECT ... FOR UPDATE
//     (en orden estable para evitar deadlocks), re-verifica stock contra las
//     unidades pedidas, asigna número de factura, inserta cabecera + items,
//     y por cada producto registra la salida en el ledger y actualiza el
//     stock cacheado.
//
// Si cualquier paso falla, nada queda escrito: ni venta, ni movimientos, ni
// cambios de stock. El ticket se encola recién después del commit.
func (s *VentaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*model.Venta, error) {
	if usuarioID == uuid.Nil {
		return nil, ErrUsuarioRequerido
	}
	if len(req.Items) == 0 {
		return nil, ErrCarritoVacio
	}

	lineas, err := s.resolverLineas(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, l := range lineas {
		subtotal = subtotal.Add(l.subtotal())
	}
	if req.Descuento.IsNegative() || req.Descuento.GreaterThan(subtotal) {
		return nil, ErrDescuentoInvalido
	}
	total := subtotal.Sub(req.Descuento)

	if req.MetodoPago == "efectivo" {
		if req.MontoRecibido == nil || req.MontoRecibido.LessThan(total) {
			return nil, ErrMontoInsuficiente
		}
	}

	// Sin cliente explícito la venta va al consumidor final sembrado; si el
	// seed todavía no existe la venta queda sin cliente.
	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		id, perr := uuid.Parse(*req.ClienteID)
		if perr != nil {
			return nil, &ErrReferenciaInactiva{Tipo: "cliente", ID: uuid.Nil}
		}
		cliente, cerr := s.clientes.FindByID(ctx, id)
		if cerr != nil || !cliente.Activo {
			return nil, &ErrReferenciaInactiva{Tipo: "cliente", ID: id}
		}
		clienteID = &cliente.ID
	} else if cf, cerr := s.clientes.FindConsumidorFinal(ctx); cerr == nil {
		clienteID = &cf.ID
	} else if !errors.Is(cerr, gorm.ErrRecordNotFound) {
		return nil, cerr
	}

	venta := &model.Venta{
		ClienteID:     clienteID,
		UsuarioID:     usuarioID,
		Subtotal:      subtotal,
		Descuento:     req.Descuento,
		Total:         total,
		MetodoPago:    req.MetodoPago,
		MontoRecibido: req.MontoRecibido,
	}

	err = s.uow.Do(ctx, func(tx *gorm.DB) error {
		// Unidades requeridas por producto, en orden de ID estable: dos commits
		// concurrentes bloquean las mismas filas en el mismo orden.
		requeridas := map[uuid.UUID]int{}
		for _, l := range lineas {
			requeridas[l.producto.ID] += l.unidades()
		}
		ids := make([]uuid.UUID, 0, len(requeridas))
		for id := range requeridas {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

		frescos := make(map[uuid.UUID]*model.Producto, len(ids))
		for _, id := range ids {
			p, lerr := s.productos.FindForUpdateTx(tx, id)
			if lerr != nil {
				return lerr
			}
			if !p.Activo {
				return &ErrReferenciaInactiva{Tipo: "producto", ID: id}
			}
			if p.StockActual < requeridas[id] {
				return &ErrStockInsuficiente{
					ProductoID: id,
					Producto:   p.Nombre,
					Requerido:  requeridas[id],
					Disponible: p.StockActual,
				}
			}
			frescos[id] = p
		}

		numero, nerr := s.asignarNumeroFactura(tx)
		if nerr != nil {
			return nerr
		}
		venta.NumeroFactura = numero

		venta.Items = make([]model.VentaItem, 0, len(lineas))
		for _, l := range lineas {
			venta.Items = append(venta.Items, model.VentaItem{
				ProductoID:              l.producto.ID,
				PresentacionID:          l.presentacionID,
				Cantidad:                l.cantidad,
				UnidadesPorPresentacion: l.unidadesPorPres,
				PrecioUnitario:          l.precioUnitario,
				Subtotal:                l.subtotal(),
			})
		}
		if cerr := s.ventas.CreateTx(tx, venta); cerr != nil {
			if errors.Is(cerr, gorm.ErrDuplicatedKey) {
				return ErrNumeroFactura
			}
			return cerr
		}

		for _, id := range ids {
			p := frescos[id]
			nuevo := p.StockActual - requeridas[id]
			mov := &model.MovimientoStock{
				ProductoID:    id,
				UsuarioID:     &usuarioID,
				Tipo:          model.MovSalida,
				Cantidad:      -requeridas[id],
				StockAnterior: p.StockActual,
				StockNuevo:    nuevo,
				Motivo:        "venta " + venta.NumeroFactura,
				VentaID:       &venta.ID,
			}
			if merr := s.movimientos.CreateTx(tx, mov); merr != nil {
				return merr
			}
			if serr := s.productos.SetStockTx(tx, id, nuevo); serr != nil {
				return serr
			}
		}
		return nil
	})
	if err != nil {
		var faltante *ErrStockInsuficiente
		if errors.As(err, &faltante) {
			metrics.VentasRechazadasStock.Inc()
		}
		return nil, err
	}

	metrics.VentasTotal.WithLabelValues(venta.MetodoPago).Inc()

	s.encolarRecibo(ctx, venta, req.ClienteEmail)

	return venta, nil
}

// resolverLineas valida las referencias del request y funde los items con la
// misma clave (producto, presentación) en una sola línea.
func (s *VentaService) resolverLineas(ctx context.Context, items []dto.ItemVentaRequest) ([]lineaVenta, error) {
	type clave struct {
		producto     uuid.UUID
		presentacion uuid.UUID // uuid.Nil = unidad suelta
	}
	indice := map[clave]int{}
	lineas := make([]lineaVenta, 0, len(items))

	for _, item := range items {
		if item.Cantidad <= 0 {
			return nil, ErrCantidadInvalida
		}
		productoID, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, &ErrReferenciaInactiva{Tipo: "producto", ID: uuid.Nil}
		}
		producto, err := s.productos.FindByID(ctx, productoID)
		if err != nil || !producto.Activo {
			return nil, &ErrReferenciaInactiva{Tipo: "producto", ID: productoID}
		}

		k := clave{producto: productoID}
		linea := lineaVenta{
			producto:        producto,
			cantidad:        item.Cantidad,
			unidadesPorPres: 1,
			precioUnitario:  producto.PrecioVenta,
		}

		if item.PresentacionID != nil {
			presID, perr := uuid.Parse(*item.PresentacionID)
			if perr != nil {
				return nil, &ErrReferenciaInactiva{Tipo: "presentacion", ID: uuid.Nil}
			}
			var pres *model.Presentacion
			for i := range producto.Presentaciones {
				if producto.Presentaciones[i].ID == presID {
					pres = &producto.Presentaciones[i]
					break
				}
			}
			if pres == nil || !pres.Activa {
				return nil, &ErrReferenciaInactiva{Tipo: "presentacion", ID: presID}
			}
			k.presentacion = presID
			linea.presentacionID = &pres.ID
			linea.unidadesPorPres = pres.UnidadesPorPresentacion
			linea.precioUnitario = pres.Precio
		}

		if i, ok := indice[k]; ok {
			lineas[i].cantidad += item.Cantidad
			continue
		}
		indice[k] = len(lineas)
		lineas = append(lineas, linea)
	}
	return lineas, nil
}

// asignarNumeroFactura genera F-YYYYMMDDHHMM y, si ya está tomado (otra venta
// en el mismo minuto), prueba sufijos -2 y -3. El índice único sobre
// numero_factura sigue siendo la garantía final contra carreras.
func (s *VentaService) asignarNumeroFactura(tx *gorm.DB) (string, error) {
	base := "F-" + s.now().Format("200601021504")
	for intento := 1; intento <= 3; intento++ {
		numero := base
		if intento > 1 {
			numero = fmt.Sprintf("%s-%d", base, intento)
		}
		tomado, err := s.ventas.ExisteNumeroTx(tx, numero)
		if err != nil {
			return "", err
		}
		if !tomado {
			return numero, nil
		}
	}
	return "", ErrNumeroFactura
}

// encolarRecibo crea el registro de seguimiento del ticket y publica el job.
// Cualquier falla acá no afecta la venta ya confirmada: el retry cron levanta
// los recibos pendientes.
func (s *VentaService) encolarRecibo(ctx context.Context, venta *model.Venta, email *string) {
	recibo := &model.Recibo{VentaID: venta.ID, EmailDestino: email}
	if err := s.recibos.Create(ctx, recibo); err != nil {
		log.Error().Err(err).Str("venta_id", venta.ID.String()).Msg("no se pudo crear el recibo")
		return
	}
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.EncolarTicket(ctx, venta.ID); err != nil {
		log.Error().Err(err).Str("venta_id", venta.ID.String()).Msg("no se pudo encolar el ticket")
		return
	}
	metrics.TicketsEncolados.Inc()
}

// PreviewVenta arma el carrito con los items del request y devuelve los
// totales que vería el cajero antes de confirmar. El chequeo de stock acá es
// consultivo: la palabra final la tiene el re-chequeo bajo lock de
// RegistrarVenta.
func (s *VentaService) PreviewVenta(ctx context.Context, req dto.RegistrarVentaRequest) (*dto.PreviewVentaResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrCarritoVacio
	}
	lineas, err := s.resolverLineas(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	carrito := cart.Nuevo()
	for _, l := range lineas {
		var pres *model.Presentacion
		if l.presentacionID != nil {
			for i := range l.producto.Presentaciones {
				if l.producto.Presentaciones[i].ID == *l.presentacionID {
					pres = &l.producto.Presentaciones[i]
					break
				}
			}
		}
		if !carrito.AgregarLinea(l.producto, pres, l.cantidad) {
			requerido := l.unidades()
			for _, cl := range carrito.Lineas() {
				if cl.Producto.ID == l.producto.ID {
					requerido += cl.Unidades()
				}
			}
			return nil, &ErrStockInsuficiente{
				ProductoID: l.producto.ID,
				Producto:   l.producto.Nombre,
				Requerido:  requerido,
				Disponible: l.producto.StockActual,
			}
		}
	}
	if !carrito.SetDescuento(req.Descuento) {
		return nil, ErrDescuentoInvalido
	}

	return &dto.PreviewVentaResponse{
		Subtotal:      carrito.Subtotal(),
		Descuento:     carrito.Descuento(),
		Total:         carrito.Total(),
		TotalUnidades: carrito.TotalUnidades(),
	}, nil
}

// AnularVenta revierte una venta confirmada. La venta original no se modifica
// salvo por los metadatos de anulación; el stock vuelve mediante asientos
// compensatorios de entrada calculados desde los snapshots de los items, por
// lo que el efecto es el espejo exacto de la salida original aunque el
// catálogo de presentaciones haya cambiado desde entonces.
func (s *VentaService) AnularVenta(ctx context.Context, ventaID, usuarioID uuid.UUID, motivo string) (*model.Venta, error) {
	if usuarioID == uuid.Nil {
		return nil, ErrUsuarioRequerido
	}
	if strings.TrimSpace(motivo) == "" {
		return nil, ErrMotivoRequerido
	}
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		venta, verr := s.ventas.FindForUpdateTx(tx, ventaID)
		if verr != nil {
			if errors.Is(verr, gorm.ErrRecordNotFound) {
				return ErrVentaNoEncontrada
			}
			return verr
		}
		if venta.Anulada {
			return ErrVentaAnulada
		}

		items, ierr := s.ventas.ItemsTx(tx, ventaID)
		if ierr != nil {
			return ierr
		}

		devoluciones := map[uuid.UUID]int{}
		for _, item := range items {
			devoluciones[item.ProductoID] += item.Unidades()
		}
		ids := make([]uuid.UUID, 0, len(devoluciones))
		for id := range devoluciones {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

		for _, id := range ids {
			p, lerr := s.productos.FindForUpdateTx(tx, id)
			if lerr != nil {
				return lerr
			}
			nuevo := p.StockActual + devoluciones[id]
			mov := &model.MovimientoStock{
				ProductoID:    id,
				UsuarioID:     &usuarioID,
				Tipo:          model.MovEntrada,
				Cantidad:      devoluciones[id],
				StockAnterior: p.StockActual,
				StockNuevo:    nuevo,
				Motivo:        "anulación " + venta.NumeroFactura,
				VentaID:       &venta.ID,
			}
			if merr := s.movimientos.CreateTx(tx, mov); merr != nil {
				return merr
			}
			if serr := s.productos.SetStockTx(tx, id, nuevo); serr != nil {
				return serr
			}
		}

		ahora := s.now()
		venta.Anulada = true
		venta.AnuladaEn = &ahora
		venta.AnuladaPorID = &usuarioID
		venta.MotivoAnulacion = &motivo
		return s.ventas.MarcarAnuladaTx(tx, venta)
	})
	if err != nil {
		return nil, err
	}

	metrics.AnulacionesTotal.Inc()
	log.Info().Str("venta_id", ventaID.String()).Str("usuario_id", usuarioID.String()).Msg("venta anulada")

	return s.ventas.FindByID(ctx, ventaID)
}

// FindVenta devuelve la venta con items, producto y cliente precargados.
func (s *VentaService) FindVenta(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	venta, err := s.ventas.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVentaNoEncontrada
		}
		return nil, err
	}
	return venta, nil
}

// ListVentas lista ventas del día (o de la fecha pedida) con paginado.
func (s *VentaService) ListVentas(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.ventas.List(ctx, filter)
}
