package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/testutil"
	"github.com/jhoicas/tienda-erp/pkg/jwt"
)

const testSecret = "test-secret"

func setup(t *testing.T) (*AuthUseCase, *testutil.Store, string) {
	t.Helper()
	store := testutil.NewStore()
	tenant := &entity.Tenant{ID: "tenant-1", Name: "Minimarket", Status: entity.TenantActive, CreatedAt: time.Now()}
	require.NoError(t, store.Tenants().Create(context.Background(), tenant))
	uc := NewAuthUseCase(store.Users(), store.Tenants(), JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"})
	return uc, store, tenant.ID
}

func TestRegisterUser_RolPorDefectoVendedor(t *testing.T) {
	uc, _, tenantID := setup(t)

	u, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		TenantID: tenantID, Email: "Caja@Tienda.cl", Password: "secreto123", Name: "Caja 1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, u.Role)
	assert.Equal(t, "caja@tienda.cl", u.Email)
	assert.Equal(t, entity.UserActive, u.Status)
}

func TestRegisterUser_Validaciones(t *testing.T) {
	uc, _, tenantID := setup(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.RegisterRequest
		want error
	}{
		{"email inválido", dto.RegisterRequest{TenantID: tenantID, Email: "no-es-email", Password: "secreto123"}, domain.ErrInvalidInput},
		{"password corto", dto.RegisterRequest{TenantID: tenantID, Email: "a@b.cl", Password: "123"}, domain.ErrInvalidInput},
		{"rol desconocido", dto.RegisterRequest{TenantID: tenantID, Email: "a@b.cl", Password: "secreto123", Role: "gerente"}, domain.ErrInvalidInput},
		{"tenant inexistente", dto.RegisterRequest{TenantID: "otro", Email: "a@b.cl", Password: "secreto123"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RegisterUser(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _, tenantID := setup(t)
	ctx := context.Background()
	in := dto.RegisterRequest{TenantID: tenantID, Email: "bodega@tienda.cl", Password: "secreto123", Role: entity.RoleBodeguero}

	_, err := uc.RegisterUser(ctx, in)
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	uc, store, tenantID := setup(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{TenantID: tenantID, Email: "admin@tienda.cl", Password: "secreto123", Role: entity.RoleAdmin})
	require.NoError(t, err)

	t.Run("credenciales válidas", func(t *testing.T) {
		resp, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@tienda.cl", Password: "secreto123"})
		require.NoError(t, err)
		claims, err := jwt.Parse(testSecret, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, tenantID, claims.TenantID)
		assert.Equal(t, entity.RoleAdmin, claims.Role)
	})

	t.Run("password incorrecto", func(t *testing.T) {
		_, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@tienda.cl", Password: "otra-cosa"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("usuario inexistente", func(t *testing.T) {
		_, err := uc.Login(ctx, dto.LoginRequest{Email: "nadie@tienda.cl", Password: "secreto123"})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("usuario inactivo", func(t *testing.T) {
		u, err := uc.RegisterUser(ctx, dto.RegisterRequest{TenantID: tenantID, Email: "ex@tienda.cl", Password: "secreto123"})
		require.NoError(t, err)
		store.SetUserStatus(u.ID, entity.UserInactive)
		_, err = uc.Login(ctx, dto.LoginRequest{Email: "ex@tienda.cl", Password: "secreto123"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}
