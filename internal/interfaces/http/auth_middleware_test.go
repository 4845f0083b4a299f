package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	apphttp "github.com/jhoicas/tienda-erp/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/tienda-erp/pkg/jwt"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testTenantID  = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "tienda-erp-test"
	testExpMin    = 60
)

func tokenFor(t *testing.T, tenantID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, tenantID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func tokenForRole(t *testing.T, role string) string {
	return tokenFor(t, testTenantID, role)
}

func decodeJSON(resp *http.Response, out any) error {
	return json.NewDecoder(resp.Body).Decode(out)
}

// get lanza GET path y decodifica el cuerpo de error cuando la respuesta no es 200.
func get(t *testing.T, app *fiber.App, path, authHeader string) (int, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	if resp.StatusCode != http.StatusOK {
		_ = decodeJSON(resp, &body)
	}
	return resp.StatusCode, body
}

// stubChecker módulos activos por tenant; registra los tenants consultados.
type stubChecker struct {
	active  map[string][]string
	queried []string
}

func (s *stubChecker) HasActiveModule(_ context.Context, tenantID, module string) (bool, error) {
	s.queried = append(s.queried, tenantID)
	for _, m := range s.active[tenantID] {
		if m == module {
			return true, nil
		}
	}
	return false, nil
}

func TestRequireRole_MatrizDeRoles(t *testing.T) {
	stockWriters := []string{entity.RoleAdmin, entity.RoleBodeguero}
	salesWriters := []string{entity.RoleAdmin, entity.RoleVendedor}
	adminOnly := []string{entity.RoleAdmin}

	tests := []struct {
		name    string
		allowed []string
		role    string
		status  int
		code    string
	}{
		{"bodeguero escribe catálogo", stockWriters, entity.RoleBodeguero, http.StatusOK, ""},
		{"vendedor no escribe catálogo", stockWriters, entity.RoleVendedor, http.StatusForbidden, "FORBIDDEN"},
		{"vendedor vende", salesWriters, entity.RoleVendedor, http.StatusOK, ""},
		{"bodeguero no vende", salesWriters, entity.RoleBodeguero, http.StatusForbidden, "FORBIDDEN"},
		{"admin planifica turnos", adminOnly, entity.RoleAdmin, http.StatusOK, ""},
		{"bodeguero no planifica", adminOnly, entity.RoleBodeguero, http.StatusForbidden, "FORBIDDEN"},
		{"rol desconocido", salesWriters, "cajero", http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", adminOnly, "", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/x", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireRole(tt.allowed...), func(c *fiber.Ctx) error {
				assert.Equal(t, tt.role, apphttp.GetRole(c))
				return c.SendStatus(fiber.StatusOK)
			})
			status, body := get(t, app, "/x", tokenForRole(t, tt.role))
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestAuthMiddleware_CargaClaimsDelTenant(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"tenant_id": apphttp.GetTenantID(c),
			"role":      apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleVendedor))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, decodeJSON(resp, &body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testTenantID, body["tenant_id"])
	assert.Equal(t, entity.RoleVendedor, body["role"])
}

func TestAuthMiddleware_TokensRechazados(t *testing.T) {
	app := fiber.New()
	app.Get("/x", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	noTenant, err := pkgjwt.Generate(testJWTSecret, testUserID, "", entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)
	noUser, err := pkgjwt.Generate(testJWTSecret, "", testTenantID, entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, testTenantID, entity.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)
	foreign, err := pkgjwt.Generate("secret-de-otra-instalacion", testUserID, testTenantID, entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	tests := map[string]struct {
		header string
		code   string
	}{
		"sin header":              {"", "MISSING_TOKEN"},
		"esquema Basic":           {"Basic abc", "INVALID_TOKEN"},
		"bearer sin token":        {"Bearer", "INVALID_TOKEN"},
		"malformado":              {"Bearer token.invalido.aqui", "INVALID_TOKEN"},
		"sin tenant":              {"Bearer " + noTenant, "INVALID_TOKEN"},
		"sin usuario":             {"Bearer " + noUser, "INVALID_TOKEN"},
		"expirado":                {"Bearer " + expired, "INVALID_TOKEN"},
		"firmado con otro secret": {"Bearer " + foreign, "INVALID_TOKEN"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			status, body := get(t, app, "/x", tt.header)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

// Mismo orden que el router: token, módulo del tenant, rol.
func TestRequireModuleYRequireRole(t *testing.T) {
	const otherTenant = "00000000-0000-0000-0000-000000000003"
	checker := &stubChecker{active: map[string][]string{
		testTenantID: {entity.ModuleSales},
		otherTenant:  {entity.ModuleInventory},
	}}
	app := fiber.New()
	app.Get("/reports/margins",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireModule(entity.ModuleSales, checker, logger.Nop()),
		apphttp.RequireRole(entity.RoleAdmin),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	status, _ := get(t, app, "/reports/margins", tokenFor(t, testTenantID, entity.RoleAdmin))
	assert.Equal(t, http.StatusOK, status)

	status, body := get(t, app, "/reports/margins", tokenFor(t, testTenantID, entity.RoleVendedor))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body.Code)

	// el módulo se evalúa antes que el rol: un vendedor de una tienda sin ventas ve MODULE_DISABLED
	status, body = get(t, app, "/reports/margins", tokenFor(t, otherTenant, entity.RoleVendedor))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "MODULE_DISABLED", body.Code)

	assert.Equal(t, []string{testTenantID, testTenantID, otherTenant}, checker.queried, "consulta el tenant del token")

	status, _ = get(t, app, "/reports/margins", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Len(t, checker.queried, 3, "sin token no se consulta el módulo")
}

func TestRouter_AislamientoEntreTenants(t *testing.T) {
	s := newServer(t)
	_, adminA := s.tenant(t)

	var created dto.CreateTenantResponse
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/tenants", "", dto.CreateTenantRequest{
		Name: "Botillería El Roble", TaxID: "77.555.444-3",
		AdminName: "Raúl", AdminEmail: "raul@elroble.cl", AdminPassword: "secreto123",
	}, &created))
	adminB := s.login(t, "raul@elroble.cl", "secreto123")

	var cat dto.CategoryResponse
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/categories", adminA, dto.CategoryRequest{Name: "Lácteos"}, &cat))
	path := "/api/categories/" + cat.ID

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, adminB, nil, &errBody))
	assert.Equal(t, "NOT_FOUND", errBody.Code, "un recurso de otra tienda no existe para el que pregunta")
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, path, adminB, dto.CategoryRequest{Name: "Robada"}, nil))
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, adminB, nil, nil))

	var listB []dto.CategoryResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/categories", adminB, nil, &listB))
	assert.Empty(t, listB)

	// el mismo nombre es válido en la otra tienda
	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/categories", adminB, dto.CategoryRequest{Name: "Lácteos"}, nil))

	var got dto.CategoryResponse
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, adminA, nil, &got))
	assert.Equal(t, "Lácteos", got.Name)
}
