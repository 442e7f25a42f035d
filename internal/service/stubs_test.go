package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/dto"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/model"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory store ──────────────────────────────────────────────────────────

// memStore backs the repository stubs. Non-Tx methods take the mutex; Tx
// methods assume the stub unit of work already holds it, so a stub "tx" is
// serialized exactly like a real one and can be rolled back via snapshot.
type memStore struct {
	mu          sync.Mutex
	productos   map[uuid.UUID]*model.Producto
	ventas      map[uuid.UUID]*model.Venta
	movimientos []model.MovimientoStock
	clientes    map[uuid.UUID]*model.Cliente
	recibos     map[uuid.UUID]*model.Recibo // keyed by VentaID
	costos      []model.HistorialCosto
}

func newMemStore() *memStore {
	return &memStore{
		productos: make(map[uuid.UUID]*model.Producto),
		ventas:    make(map[uuid.UUID]*model.Venta),
		clientes:  make(map[uuid.UUID]*model.Cliente),
		recibos:   make(map[uuid.UUID]*model.Recibo),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, p := range s.productos {
		cp := *p
		c.productos[id] = &cp
	}
	for id, v := range s.ventas {
		cv := *v
		cv.Items = append([]model.VentaItem(nil), v.Items...)
		c.ventas[id] = &cv
	}
	c.movimientos = append([]model.MovimientoStock(nil), s.movimientos...)
	for id, cl := range s.clientes {
		ccl := *cl
		c.clientes[id] = &ccl
	}
	for id, r := range s.recibos {
		cr := *r
		c.recibos[id] = &cr
	}
	c.costos = append([]model.HistorialCosto(nil), s.costos...)
	return c
}

func (s *memStore) restore(c *memStore) {
	s.productos = c.productos
	s.ventas = c.ventas
	s.movimientos = c.movimientos
	s.clientes = c.clientes
	s.recibos = c.recibos
	s.costos = c.costos
}

// stubUOW serializes transactions with the store mutex and rolls the store
// back to a snapshot when the callback fails, mirroring a real transaction.
type stubUOW struct{ store *memStore }

func (u *stubUOW) Do(_ context.Context, fn func(tx *gorm.DB) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	snap := u.store.clone()
	if err := fn(nil); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

var _ repository.UnitOfWork = (*stubUOW)(nil)

// ── Producto ─────────────────────────────────────────────────────────────────

type stubProductos struct {
	store        *memStore
	failSetStock map[uuid.UUID]error
}

func (r *stubProductos) Create(_ context.Context, p *model.Producto) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.store.productos[p.ID] = &cp
	return nil
}

func (r *stubProductos) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductos) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.productos {
		if p.Codigo == codigo && p.Activo {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductos) List(_ context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Producto
	for _, p := range r.store.productos {
		if !p.Activo && filter.Activo != "all" && filter.Activo != "false" {
			continue
		}
		if filter.Nombre != "" && !strings.Contains(strings.ToLower(p.Nombre), strings.ToLower(filter.Nombre)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductos) ListBajoStock(_ context.Context) ([]model.Producto, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Producto
	for _, p := range r.store.productos {
		if p.Activo && p.StockActual <= p.StockMinimo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductos) Update(_ context.Context, p *model.Producto) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *p
	r.store.productos[p.ID] = &cp
	return nil
}

func (r *stubProductos) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductos) Reactivar(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *stubProductos) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.store.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductos) SetStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	if err, ok := r.failSetStock[id]; ok {
		return err
	}
	p, ok := r.store.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockActual = stock
	return nil
}

func (r *stubProductos) SetUltimoCostoTx(_ *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	p, ok := r.store.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c := costo
	p.UltimoCosto = &c
	return nil
}

var _ repository.ProductoRepository = (*stubProductos)(nil)

// ── Venta ────────────────────────────────────────────────────────────────────

type stubVentas struct{ store *memStore }

func (r *stubVentas) CreateTx(_ *gorm.DB, v *model.Venta) error {
	for _, existente := range r.store.ventas {
		if existente.NumeroFactura == v.NumeroFactura {
			return gorm.ErrDuplicatedKey
		}
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	cv := *v
	cv.Items = append([]model.VentaItem(nil), v.Items...)
	r.store.ventas[v.ID] = &cv
	return nil
}

func (r *stubVentas) ExisteNumeroTx(_ *gorm.DB, numero string) (bool, error) {
	for _, v := range r.store.ventas {
		if v.NumeroFactura == numero {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubVentas) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	v, ok := r.store.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cv := *v
	cv.Items = append([]model.VentaItem(nil), v.Items...)
	return &cv, nil
}

func (r *stubVentas) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.store.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cv := *v
	return &cv, nil
}

func (r *stubVentas) ItemsTx(_ *gorm.DB, ventaID uuid.UUID) ([]model.VentaItem, error) {
	v, ok := r.store.ventas[ventaID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return append([]model.VentaItem(nil), v.Items...), nil
}

func (r *stubVentas) MarcarAnuladaTx(_ *gorm.DB, v *model.Venta) error {
	stored, ok := r.store.ventas[v.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Anulada = v.Anulada
	stored.AnuladaEn = v.AnuladaEn
	stored.AnuladaPorID = v.AnuladaPorID
	stored.MotivoAnulacion = v.MotivoAnulacion
	return nil
}

func (r *stubVentas) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Venta
	for _, v := range r.store.ventas {
		switch filter.Estado {
		case "anulada":
			if !v.Anulada {
				continue
			}
		case "all":
		default:
			if v.Anulada {
				continue
			}
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentas) ListByFecha(_ context.Context, fecha string) ([]model.Venta, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Venta
	for _, v := range r.store.ventas {
		if v.CreatedAt.Format("2006-01-02") == fecha {
			out = append(out, *v)
		}
	}
	return out, nil
}

var _ repository.VentaRepository = (*stubVentas)(nil)

// ── MovimientoStock ──────────────────────────────────────────────────────────

type stubMovimientos struct{ store *memStore }

func (r *stubMovimientos) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	r.store.movimientos = append(r.store.movimientos, *m)
	return nil
}

func (r *stubMovimientos) List(_ context.Context, filter repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.MovimientoStock
	for _, m := range r.store.movimientos {
		if filter.ProductoID != nil && m.ProductoID != *filter.ProductoID {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovimientos) SumByProducto(_ context.Context, productoID uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.suma(productoID), nil
}

func (r *stubMovimientos) SumByProductoTx(_ *gorm.DB, productoID uuid.UUID) (int, error) {
	return r.suma(productoID), nil
}

func (r *stubMovimientos) suma(productoID uuid.UUID) int {
	total := 0
	for _, m := range r.store.movimientos {
		if m.ProductoID == productoID {
			total += m.Cantidad
		}
	}
	return total
}

var _ repository.MovimientoStockRepository = (*stubMovimientos)(nil)

// ── Cliente ──────────────────────────────────────────────────────────────────

type stubClientes struct{ store *memStore }

func (r *stubClientes) Create(_ context.Context, c *model.Cliente) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cc := *c
	r.store.clientes[c.ID] = &cc
	return nil
}

func (r *stubClientes) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cc := *c
	return &cc, nil
}

func (r *stubClientes) FindConsumidorFinal(_ context.Context) (*model.Cliente, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.clientes {
		if c.EsConsumidorFinal {
			cc := *c
			return &cc, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubClientes) List(_ context.Context, incluirInactivos bool) ([]model.Cliente, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Cliente
	for _, c := range r.store.clientes {
		if c.Activo || incluirInactivos {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubClientes) Update(_ context.Context, c *model.Cliente) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cc := *c
	r.store.clientes[c.ID] = &cc
	return nil
}

func (r *stubClientes) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if c, ok := r.store.clientes[id]; ok {
		c.Activo = false
	}
	return nil
}

var _ repository.ClienteRepository = (*stubClientes)(nil)

// ── Recibo ───────────────────────────────────────────────────────────────────

type stubRecibos struct {
	store     *memStore
	createErr error
}

func (r *stubRecibos) Create(_ context.Context, m *model.Recibo) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Estado == "" {
		m.Estado = "pendiente"
	}
	cm := *m
	r.store.recibos[m.VentaID] = &cm
	return nil
}

func (r *stubRecibos) FindByVentaID(_ context.Context, ventaID uuid.UUID) (*model.Recibo, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.recibos[ventaID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cm := *m
	return &cm, nil
}

func (r *stubRecibos) Update(_ context.Context, m *model.Recibo) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cm := *m
	r.store.recibos[m.VentaID] = &cm
	return nil
}

func (r *stubRecibos) ListPendingRetries(_ context.Context, now time.Time, limit int) ([]model.Recibo, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Recibo
	for _, m := range r.store.recibos {
		if m.Estado == "pendiente" && m.NextRetryAt != nil && !m.NextRetryAt.After(now) {
			out = append(out, *m)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

var _ repository.ReciboRepository = (*stubRecibos)(nil)

// ── HistorialCosto ───────────────────────────────────────────────────────────

type stubCostos struct{ store *memStore }

func (r *stubCostos) Create(_ context.Context, h *model.HistorialCosto) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.append(h)
}

func (r *stubCostos) CreateTx(_ *gorm.DB, h *model.HistorialCosto) error {
	return r.append(h)
}

func (r *stubCostos) append(h *model.HistorialCosto) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	r.store.costos = append(r.store.costos, *h)
	return nil
}

func (r *stubCostos) ListByProducto(_ context.Context, productoID uuid.UUID, _, _ int) ([]model.HistorialCosto, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.HistorialCosto
	for _, h := range r.store.costos {
		if h.ProductoID == productoID {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubCostos) CostoVigente(_ context.Context, productoID uuid.UUID, ref time.Time) (*model.HistorialCosto, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var vigente *model.HistorialCosto
	for i := range r.store.costos {
		h := &r.store.costos[i]
		if h.ProductoID != productoID || h.CreatedAt.After(ref) {
			continue
		}
		if vigente == nil || h.CreatedAt.After(vigente.CreatedAt) {
			vigente = h
		}
	}
	if vigente == nil {
		return nil, gorm.ErrRecordNotFound
	}
	ch := *vigente
	return &ch, nil
}

var _ repository.HistorialCostoRepository = (*stubCostos)(nil)

// ── Usuario ──────────────────────────────────────────────────────────────────

type stubUsuarios struct {
	mu       sync.Mutex
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarios() *stubUsuarios {
	return &stubUsuarios{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarios) Create(_ context.Context, u *model.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existente := range r.usuarios {
		if existente.Username == u.Username {
			return errors.New("username duplicado")
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cu := *u
	r.usuarios[u.ID] = &cu
	return nil
}

func (r *stubUsuarios) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.usuarios {
		if !u.Activo {
			continue
		}
		if u.Username == username || (u.Email != nil && strings.EqualFold(*u.Email, username)) {
			cu := *u
			return &cu, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarios) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cu := *u
	return &cu, nil
}

func (r *stubUsuarios) List(_ context.Context) ([]model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarios) ListAll(_ context.Context) ([]model.Usuario, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarios) Update(_ context.Context, u *model.Usuario) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cu := *u
	r.usuarios[u.ID] = &cu
	return nil
}

func (r *stubUsuarios) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.usuarios[id]; ok {
		u.Activo = false
	}
	return nil
}

func (r *stubUsuarios) Reactivar(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.usuarios[id]; ok {
		u.Activo = true
	}
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarios)(nil)

// ── Dispatcher ───────────────────────────────────────────────────────────────

type stubDispatcher struct {
	mu        sync.Mutex
	encolados []uuid.UUID
	err       error
}

func (d *stubDispatcher) EncolarTicket(_ context.Context, ventaID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.encolados = append(d.encolados, ventaID)
	return nil
}

var _ TicketDispatcher = (*stubDispatcher)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

type ventaEnv struct {
	store       *memStore
	productos   *stubProductos
	ventas      *stubVentas
	movimientos *stubMovimientos
	clientes    *stubClientes
	recibos     *stubRecibos
	costos      *stubCostos
	dispatcher  *stubDispatcher
	svc         *VentaService
}

func newVentaEnv() *ventaEnv {
	store := newMemStore()
	e := &ventaEnv{
		store:       store,
		productos:   &stubProductos{store: store, failSetStock: map[uuid.UUID]error{}},
		ventas:      &stubVentas{store: store},
		movimientos: &stubMovimientos{store: store},
		clientes:    &stubClientes{store: store},
		recibos:     &stubRecibos{store: store},
		costos:      &stubCostos{store: store},
		dispatcher:  &stubDispatcher{},
	}
	e.svc = NewVentaService(&stubUOW{store: store}, e.ventas, e.productos, e.movimientos, e.clientes, e.recibos, e.dispatcher)
	return e
}

func (e *ventaEnv) seedProducto(codigo, nombre string, stock int, precio string) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		Codigo:      codigo,
		Nombre:      nombre,
		Categoria:   "almacen",
		PrecioVenta: decimal.RequireFromString(precio),
		StockActual: stock,
		StockMinimo: 5,
		Activo:      true,
	}
	e.store.productos[p.ID] = p
	return p
}

func (e *ventaEnv) seedPresentacion(p *model.Producto, nombre string, unidades int, precio string) *model.Presentacion {
	pres := model.Presentacion{
		ID:                      uuid.New(),
		ProductoID:              p.ID,
		Nombre:                  nombre,
		UnidadesPorPresentacion: unidades,
		Precio:                  decimal.RequireFromString(precio),
		Activa:                  true,
	}
	p.Presentaciones = append(p.Presentaciones, pres)
	return &p.Presentaciones[len(p.Presentaciones)-1]
}

func (e *ventaEnv) stockDe(p *model.Producto) int {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return e.store.productos[p.ID].StockActual
}

func itemReq(p *model.Producto, pres *model.Presentacion, cantidad int) dto.ItemVentaRequest {
	item := dto.ItemVentaRequest{ProductoID: p.ID.String(), Cantidad: cantidad}
	if pres != nil {
		id := pres.ID.String()
		item.PresentacionID = &id
	}
	return item
}

func ventaReq(items ...dto.ItemVentaRequest) dto.RegistrarVentaRequest {
	return dto.RegistrarVentaRequest{Items: items, MetodoPago: "transferencia"}
}
