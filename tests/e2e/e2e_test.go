//go:build integration

package e2e

// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - login → alta de producto → entrada de stock → venta → listado
//   - venta con presentaciones: el tope de stock se verifica en unidades
//   - anulación: el stock vuelve por asiento compensatorio y el ledger lo muestra
//   - consulta pública de precios sin token

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/config"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/infra"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/router"
	"github.com/EmmaVZ89/PointOfSale-sub001/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Setup ────────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("pos_test"),
		tcPostgres.WithUsername("pos"),
		tcPostgres.WithPassword("pos"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
		NombreComercio:     "Almacén E2E",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	// Seed admin + consumidor final
	hash, err := bcrypt.GenerateFromPassword([]byte("pos2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(
		`INSERT INTO usuarios (username, nombre, password_hash, rol, activo) VALUES (?, 'Admin E2E', ?, 'administrador', true)`,
		"admin", string(hash),
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO clientes (nombre, es_consumidor_final, activo) VALUES ('Consumidor Final', true, true)`,
	).Error)

	dispatcher := worker.NewDispatcher(rdb)
	r := router.New(cfg, db, rdb, dispatcher)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "pos2026"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (env *testEnv) crearProductoConStock(t *testing.T, codigo, nombre string, precio float64, stock int) string {
	t.Helper()
	prodResp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"codigo": codigo, "nombre": nombre, "categoria": "almacen", "precio_venta": precio,
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	if stock > 0 {
		entradaResp := do(t, env.server, "POST", "/v1/inventario/entradas",
			jsonBody(t, map[string]any{"producto_id": prod.ID, "cantidad": stock}), env.token)
		require.Equal(t, http.StatusCreated, entradaResp.StatusCode)
		entradaResp.Body.Close()
	}
	return prod.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_CicloCompletoDeVenta(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProductoConStock(t, "GAS-001", "Gaseosa 500ml", 1200, 20)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items":          []map[string]any{{"producto_id": prodID, "cantidad": 3}},
			"metodo_pago":    "efectivo",
			"monto_recibido": 5000,
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID            string `json:"id"`
		NumeroFactura string `json:"numero_factura"`
		Total         string `json:"total"`
		Vuelto        string `json:"vuelto"`
	}
	decodeJSON(t, ventaResp, &venta)
	assert.Contains(t, venta.NumeroFactura, "F-")
	assert.Equal(t, "3600", venta.Total)
	assert.Equal(t, "1400", venta.Vuelto)

	// El stock cacheado refleja la salida
	prodResp := do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		StockActual int `json:"stock_actual"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 17, prod.StockActual)

	listResp := do(t, env.server, "GET", fmt.Sprintf("/v1/ventas?fecha=%s", time.Now().Format("2006-01-02")), nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	listResp.Body.Close()
}

func TestE2E_VentaConPresentacionesYTopeDeStock(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProductoConStock(t, "GAS-002", "Gaseosa 1L", 1800, 10)

	presResp := do(t, env.server, "POST", "/v1/productos/"+prodID+"/presentaciones",
		jsonBody(t, map[string]any{"nombre": "Six pack", "unidades_por_presentacion": 6, "precio": 9500}), env.token)
	require.Equal(t, http.StatusCreated, presResp.StatusCode)
	var pres struct {
		ID string `json:"id"`
	}
	decodeJSON(t, presResp, &pres)

	// 2 six packs = 12 unidades contra stock 10 → rechazo sin efectos
	conflictResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items":       []map[string]any{{"producto_id": prodID, "presentacion_id": pres.ID, "cantidad": 2}},
			"metodo_pago": "transferencia",
		}), env.token)
	assert.Equal(t, http.StatusConflict, conflictResp.StatusCode)
	conflictResp.Body.Close()

	// 1 six pack + 4 sueltas = 10 unidades exactas → pasa
	okResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items": []map[string]any{
				{"producto_id": prodID, "presentacion_id": pres.ID, "cantidad": 1},
				{"producto_id": prodID, "cantidad": 4},
			},
			"metodo_pago": "transferencia",
		}), env.token)
	require.Equal(t, http.StatusCreated, okResp.StatusCode)
	okResp.Body.Close()

	prodResp := do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	var prod struct {
		StockActual int `json:"stock_actual"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 0, prod.StockActual)
}

func TestE2E_AnulacionRestauraStock(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.crearProductoConStock(t, "LEC-001", "Leche 1L", 1500, 10)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items":       []map[string]any{{"producto_id": prodID, "cantidad": 3}},
			"metodo_pago": "transferencia",
		}), env.token)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID string `json:"id"`
	}
	decodeJSON(t, ventaResp, &venta)

	anularResp := do(t, env.server, "DELETE", "/v1/ventas/"+venta.ID,
		jsonBody(t, map[string]any{"motivo": "Error de carga en test"}), env.token)
	require.Equal(t, http.StatusOK, anularResp.StatusCode)
	var anulada struct {
		Anulada bool `json:"anulada"`
	}
	decodeJSON(t, anularResp, &anulada)
	assert.True(t, anulada.Anulada)

	// Segunda anulación rechazada
	repetida := do(t, env.server, "DELETE", "/v1/ventas/"+venta.ID,
		jsonBody(t, map[string]any{"motivo": "Otra vez lo mismo"}), env.token)
	assert.Equal(t, http.StatusConflict, repetida.StatusCode)
	repetida.Body.Close()

	prodResp := do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	var prod struct {
		StockActual int `json:"stock_actual"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 10, prod.StockActual)

	// El ledger muestra la salida y su asiento compensatorio
	movResp := do(t, env.server, "GET", "/v1/inventario/movimientos?producto_id="+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, movResp.StatusCode)
	var movs struct {
		Data []struct {
			Tipo     string `json:"tipo"`
			Cantidad int    `json:"cantidad"`
		} `json:"data"`
		Total int64 `json:"total"`
	}
	decodeJSON(t, movResp, &movs)
	assert.Equal(t, int64(3), movs.Total) // entrada inicial + salida + compensación
}

func TestE2E_ConsultaDePreciosSinToken(t *testing.T) {
	env := setupTestEnv(t)

	env.crearProductoConStock(t, "YER-001", "Yerba 1kg", 4800, 5)

	resp := do(t, env.server, "GET", "/v1/precio/YER-001", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var precio struct {
		Nombre      string `json:"nombre"`
		PrecioVenta string `json:"precio_venta"`
	}
	decodeJSON(t, resp, &precio)
	assert.Equal(t, "Yerba 1kg", precio.Nombre)
	assert.Equal(t, "4800", precio.PrecioVenta)
}
