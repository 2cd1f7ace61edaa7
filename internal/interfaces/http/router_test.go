package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/seedstoroots/tienda-api/internal/application/analytics"
	"github.com/seedstoroots/tienda-api/internal/application/auth"
	"github.com/seedstoroots/tienda-api/internal/application/cart"
	"github.com/seedstoroots/tienda-api/internal/application/dto"
	"github.com/seedstoroots/tienda-api/internal/application/usecase"
	"github.com/seedstoroots/tienda-api/internal/domain/entity"
	"github.com/seedstoroots/tienda-api/internal/infrastructure/memory"
	"github.com/seedstoroots/tienda-api/internal/infrastructure/pdf"
	apphttp "github.com/seedstoroots/tienda-api/internal/interfaces/http"
	"github.com/seedstoroots/tienda-api/pkg/metrics"
	pkgjwt "github.com/seedstoroots/tienda-api/pkg/jwt"
)

// server app completa sobre repositorios en memoria.
type server struct {
	app    *fiber.App
	store  *memory.Store
	tokens *pkgjwt.Service
	admin  *entity.User
	client *entity.User
}

func newServer(t *testing.T) *server {
	t.Helper()
	store := memory.NewStore()
	tokens := testTokens(t)
	m := metrics.New()

	users := usecase.NewUserUseCase(store.Users(), usecase.WithHashCost(bcrypt.MinCost))
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(store.Users(), users, tokens, m),
		UserUC:    users,
		ProductUC: usecase.NewProductUseCase(store.Products(), nil),
		CartUC: cart.NewUseCase(memory.NewTxRunner(store),
			cart.WithRecorder(m),
			cart.WithQuoteRenderer(pdf.NewQuoteGenerator("Tienda Test"))),
		StatsUC: analytics.NewStatsUseCase(store.Products(), store.Users()),
		Tokens:  tokens,
		Metrics: m,
		Storage: "memory",
	})

	s := &server{app: app, store: store, tokens: tokens}
	s.admin = s.seedUser(t, "admin@tienda.cl", entity.RoleAdmin)
	s.client = s.seedUser(t, "cliente@tienda.cl", entity.RoleCliente)
	return s
}

func (s *server) seedUser(t *testing.T, email string, role entity.Role) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreta"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{
		Run: "RUN-" + email, FirstName: "Test", Email: email,
		PasswordHash: string(hash), Role: role, Status: entity.UserActive,
		RegisteredAt: time.Now(),
	}
	require.NoError(t, s.store.Users().Create(context.Background(), u))
	return u
}

func (s *server) seedProduct(t *testing.T, name string, price int64, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name: name, Category: "tortas", Price: decimal.NewFromInt(price), Stock: &stock,
		Status: entity.ProductActive, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, s.store.Products().Create(context.Background(), p))
	return p
}

func (s *server) bearer(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, err := s.tokens.Issue(u.Email, string(u.Role), u.ID)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (s *server) do(t *testing.T, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func cartPath(u *entity.User, suffix string) string {
	return "/api/carrito/" + itoa(u.ID) + suffix
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

// ──── auth ────

func TestLogin_OKYCredencialesInvalidas(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "admin@tienda.cl", Password: "secreta"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	assert.Equal(t, "ADMIN", out.Role)
	assert.Equal(t, s.admin.ID, out.ID)
	assert.True(t, s.tokens.Validate(out.Token))

	resp = s.do(t, http.MethodPost, "/auth/login", "", dto.LoginRequest{Email: "admin@tienda.cl", Password: "mala"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_CREDENTIALS", errBody.Code)
}

func TestLogin_CuerpoInvalido(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "no-es-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Contains(t, errBody.Message, "email")
	assert.Contains(t, errBody.Message, "password")
}

func TestRegister_Crea201YDuplicado400(t *testing.T) {
	s := newServer(t)
	in := dto.RegisterRequest{Run: "12345678-9", FirstName: "Luis", Email: "luis@tienda.cl", Password: "clave"}

	resp := s.do(t, http.MethodPost, "/auth/register", "", in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	assert.Equal(t, "CLIENTE", out.Role)

	resp = s.do(t, http.MethodPost, "/auth/register", "", in)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──── productos ────

func TestProductos_LecturaPublica(t *testing.T) {
	s := newServer(t)
	p := s.seedProduct(t, "Torta", 2990, 50)

	resp := s.do(t, http.MethodGet, "/api/productos", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]dto.ProductResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "Torta", list[0].Name)

	resp = s.do(t, http.MethodGet, "/api/productos/"+itoa(p.ID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.ProductResponse](t, resp)
	assert.True(t, decimal.NewFromInt(2990).Equal(got.Price))

	resp = s.do(t, http.MethodGet, "/api/productos/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductos_RecientesYFiltros(t *testing.T) {
	s := newServer(t)
	s.seedProduct(t, "A", 100, 5)
	s.seedProduct(t, "B", 100, 5)
	s.seedProduct(t, "C", 100, 5)

	resp := s.do(t, http.MethodGet, "/api/productos/recientes?limit=2", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.ProductResponse](t, resp), 2)

	resp = s.do(t, http.MethodGet, "/api/productos?categoria=TORTAS", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.ProductResponse](t, resp), 3)

	resp = s.do(t, http.MethodGet, "/api/productos?categoria=kuchen", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.ProductResponse](t, resp))
}

func TestProductos_EscrituraSoloAdmin(t *testing.T) {
	s := newServer(t)
	body := map[string]any{"nombre": "Kuchen", "precio": 4500, "stock": 10}

	resp := s.do(t, http.MethodPost, "/api/productos", "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/productos", s.bearer(t, s.client), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/productos", s.bearer(t, s.admin), body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductResponse](t, resp)
	assert.True(t, created.Active)

	resp = s.do(t, http.MethodDelete, "/api/productos/"+itoa(created.ID), s.bearer(t, s.admin), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/productos?activos=true", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]dto.ProductResponse](t, resp))
}

func TestProductos_CrearSinPrecio400(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, http.MethodPost, "/api/productos", s.bearer(t, s.admin), map[string]any{"nombre": "Kuchen"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Contains(t, errBody.Message, "precio")
}

// ──── carrito ────

func TestCarrito_Escenario(t *testing.T) {
	s := newServer(t)
	p := s.seedProduct(t, "Torta", 2990, 50)
	tok := s.bearer(t, s.client)

	resp := s.do(t, http.MethodGet, cartPath(s.client, ""), tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[dto.CartResponse](t, resp).Items)

	resp = s.do(t, http.MethodPost, cartPath(s.client, "/add"), tok, dto.CartItemRequest{ProductID: p.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := decode[dto.CartResponse](t, resp)
	assert.True(t, decimal.NewFromInt(5980).Equal(c.Total))

	resp = s.do(t, http.MethodPost, cartPath(s.client, "/add"), tok, dto.CartItemRequest{ProductID: p.ID, Quantity: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c = decode[dto.CartResponse](t, resp)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(14950).Equal(c.Total))

	resp = s.do(t, http.MethodPut, cartPath(s.client, "/update"), tok, dto.CartItemRequest{ProductID: p.ID, Quantity: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c = decode[dto.CartResponse](t, resp)
	assert.True(t, decimal.NewFromInt(2990).Equal(c.Total))

	resp = s.do(t, http.MethodDelete, cartPath(s.client, "/remove/"+itoa(p.ID)), tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c = decode[dto.CartResponse](t, resp)
	assert.Empty(t, c.Items)
	assert.True(t, c.Total.IsZero())
}

func TestCarrito_StockInsuficiente400(t *testing.T) {
	s := newServer(t)
	p := s.seedProduct(t, "Torta", 2990, 3)

	resp := s.do(t, http.MethodPost, cartPath(s.client, "/add"), s.bearer(t, s.client), dto.CartItemRequest{ProductID: p.ID, Quantity: 4})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, resp).Code)
}

func TestCarrito_CantidadInvalida400(t *testing.T) {
	s := newServer(t)
	p := s.seedProduct(t, "Torta", 2990, 3)

	resp := s.do(t, http.MethodPost, cartPath(s.client, "/add"), s.bearer(t, s.client), dto.CartItemRequest{ProductID: p.ID, Quantity: 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCarrito_OtroUsuario403(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, http.MethodGet, cartPath(s.client, ""), s.bearer(t, s.admin), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodGet, cartPath(s.client, ""), "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCarrito_UpdateLineaInexistente400(t *testing.T) {
	s := newServer(t)
	p := s.seedProduct(t, "Torta", 2990, 3)

	resp := s.do(t, http.MethodPut, cartPath(s.client, "/update"), s.bearer(t, s.client), dto.CartItemRequest{ProductID: p.ID, Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestCarrito_AddProductoInexistente400(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, http.MethodPost, cartPath(s.client, "/add"), s.bearer(t, s.client), dto.CartItemRequest{ProductID: 9999, Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestCarrito_Clear204(t *testing.T) {
	s := newServer(t)
	p := s.seedProduct(t, "Torta", 2990, 3)
	tok := s.bearer(t, s.client)
	s.do(t, http.MethodPost, cartPath(s.client, "/add"), tok, dto.CartItemRequest{ProductID: p.ID, Quantity: 1})

	resp := s.do(t, http.MethodDelete, cartPath(s.client, "/clear"), tok, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, cartPath(s.client, ""), tok, nil)
	assert.Empty(t, decode[dto.CartResponse](t, resp).Items)
}

func TestCarrito_CotizacionPDF(t *testing.T) {
	s := newServer(t)
	p := s.seedProduct(t, "Torta", 2990, 3)
	tok := s.bearer(t, s.client)
	s.do(t, http.MethodPost, cartPath(s.client, "/add"), tok, dto.CartItemRequest{ProductID: p.ID, Quantity: 1})

	resp := s.do(t, http.MethodGet, cartPath(s.client, "/cotizacion"), tok, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

// ──── usuarios y estadísticas ────

func TestUsuarios_AdminCRUD(t *testing.T) {
	s := newServer(t)
	admin := s.bearer(t, s.admin)

	resp := s.do(t, http.MethodGet, "/api/usuarios", s.bearer(t, s.client), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/usuarios", admin, dto.CreateUserRequest{
		Run: "9-9", FirstName: "Eva", Email: "eva@tienda.cl", Password: "x", Role: "admin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "ADMIN", created.Role)

	resp = s.do(t, http.MethodGet, "/api/usuarios/email/eva@tienda.cl", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, decode[dto.UserResponse](t, resp).ID)

	resp = s.do(t, http.MethodPut, "/api/usuarios/"+itoa(created.ID), admin, map[string]any{"ciudad": "Santiago"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Santiago", decode[dto.UserResponse](t, resp).City)

	resp = s.do(t, http.MethodDelete, "/api/usuarios/"+itoa(created.ID), admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/usuarios/"+itoa(created.ID), admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[dto.UserResponse](t, resp).Active)

	resp = s.do(t, http.MethodPost, "/api/usuarios", admin, dto.CreateUserRequest{
		Run: "8-8", FirstName: "Eva", Email: "otra@tienda.cl", Password: "x", Role: "vendedor",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEstadisticas(t *testing.T) {
	s := newServer(t)
	s.seedProduct(t, "Torta", 2990, 50)
	s.seedProduct(t, "Kuchen", 1990, 2)

	resp := s.do(t, http.MethodGet, "/api/estadisticas", s.bearer(t, s.client), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/estadisticas", s.bearer(t, s.admin), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[dto.StatsResponse](t, resp)
	assert.Equal(t, int64(2), st.TotalProducts)
	assert.Equal(t, int64(2), st.TotalUsers)
	assert.Equal(t, int64(2), st.ActiveProducts)
	assert.Equal(t, int64(2), st.ActiveUsers)
	assert.Equal(t, int64(1), st.LowStockProducts)
}

// ──── operación ────

func TestHealthYMetrics(t *testing.T) {
	s := newServer(t)

	resp := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	h := decode[dto.HealthResponse](t, resp)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "memory", h.Storage)

	s.do(t, http.MethodGet, "/api/productos", "", nil)
	resp = s.do(t, http.MethodGet, "/metrics", "", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "tienda_http_requests_total")
}
