package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/seedstoroots/tienda-api/internal/interfaces/http"
	"github.com/seedstoroots/tienda-api/internal/domain/entity"
	pkgjwt "github.com/seedstoroots/tienda-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "tienda-test"
)

func testTokens(t *testing.T) *pkgjwt.Service {
	t.Helper()
	s, err := pkgjwt.NewService(testJWTSecret, time.Hour, testIssuer)
	require.NoError(t, err)
	return s
}

// buildTestApp app mínima con AuthMiddleware + RequireRole y un handler dummy.
func buildTestApp(t *testing.T, allowed ...entity.Role) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testTokens(t)),
		apphttp.RequireRole(allowed...),
		func(c *fiber.Ctx) error {
			who, _ := apphttp.GetIdentity(c)
			return c.JSON(fiber.Map{"ok": true, "rol": who.Role, "id": who.UserID, "email": who.Email})
		},
	)
	return app
}

func tokenFor(t *testing.T, role string, userID int64) string {
	t.Helper()
	tok, err := testTokens(t).Issue("user@tienda.cl", role, userID)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doGet(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	resp := doGet(t, buildTestApp(t, entity.RoleAdmin), tokenFor(t, "ADMIN", 1))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "ADMIN", body["rol"])
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "user@tienda.cl", body["email"])
}

func TestRequireRole_ClienteAccedeRutaMultiRol(t *testing.T) {
	resp := doGet(t, buildTestApp(t, entity.RoleAdmin, entity.RoleCliente), tokenFor(t, "CLIENTE", 2))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_ClienteBloqueadoEnRutaAdmin(t *testing.T) {
	resp := doGet(t, buildTestApp(t, entity.RoleAdmin), tokenFor(t, "CLIENTE", 2))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	resp := doGet(t, buildTestApp(t, entity.RoleAdmin), tokenFor(t, "", 3))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	resp := doGet(t, buildTestApp(t, entity.RoleAdmin), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := doGet(t, buildTestApp(t, entity.RoleAdmin), "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_FormatoSinBearer_Retorna401(t *testing.T) {
	tok, err := testTokens(t).Issue("user@tienda.cl", "ADMIN", 1)
	require.NoError(t, err)

	resp := doGet(t, buildTestApp(t, entity.RoleAdmin), "Token "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	past := func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := pkgjwt.NewService(testJWTSecret, time.Hour, testIssuer, pkgjwt.WithClock(past))
	require.NoError(t, err)
	tok, err := old.Issue("user@tienda.cl", "ADMIN", 1)
	require.NoError(t, err)

	resp := doGet(t, buildTestApp(t, entity.RoleAdmin), "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
