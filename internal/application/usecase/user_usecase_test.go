package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/seedstoroots/tienda-api/internal/application/dto"
	"github.com/seedstoroots/tienda-api/internal/application/usecase"
	"github.com/seedstoroots/tienda-api/internal/domain"
	"github.com/seedstoroots/tienda-api/internal/infrastructure/memory"
)

func newUserUseCase() *usecase.UserUseCase {
	return usecase.NewUserUseCase(memory.NewStore().Users(), usecase.WithHashCost(bcrypt.MinCost))
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUserCreate_RolPorDefectoYHash(t *testing.T) {
	uc := newUserUseCase()

	out, err := uc.Create(context.Background(), dto.CreateUserRequest{
		Run: "1-9", FirstName: "Ana", Email: " Ana@Tienda.CL ", Password: "clave",
		BirthDate: strPtr("1990-05-17"),
	})
	require.NoError(t, err)
	assert.Equal(t, "CLIENTE", out.Role)
	assert.Equal(t, "ana@tienda.cl", out.Email)
	assert.True(t, out.Active)
	require.NotNil(t, out.BirthDate)
	assert.Equal(t, "1990-05-17", *out.BirthDate)
}

func TestUserCreate_RolSinDistinguirMayusculas(t *testing.T) {
	uc := newUserUseCase()

	out, err := uc.Create(context.Background(), dto.CreateUserRequest{Run: "1-9", Email: "a@t.cl", Password: "x", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", out.Role)

	_, err = uc.Create(context.Background(), dto.CreateUserRequest{Run: "2-7", Email: "b@t.cl", Password: "x", Role: "SUPERUSER"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestUserCreate_FechaInvalida(t *testing.T) {
	uc := newUserUseCase()

	_, err := uc.Create(context.Background(), dto.CreateUserRequest{Run: "1-9", Email: "a@t.cl", Password: "x", BirthDate: strPtr("17/05/1990")})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestUserUpdate_Parcial(t *testing.T) {
	uc := newUserUseCase()
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateUserRequest{Run: "1-9", FirstName: "Ana", City: "Santiago", Email: "a@t.cl", Password: "x"})
	require.NoError(t, err)

	out, err := uc.Update(ctx, created.ID, dto.UpdateUserRequest{FirstName: strPtr("Ana María"), Active: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", out.FirstName)
	assert.Equal(t, "Santiago", out.City, "campos ausentes no cambian")
	assert.False(t, out.Active)
}

func TestUserUpdate_EmailDuplicado(t *testing.T) {
	uc := newUserUseCase()
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateUserRequest{Run: "1-9", Email: "a@t.cl", Password: "x"})
	require.NoError(t, err)
	b, err := uc.Create(ctx, dto.CreateUserRequest{Run: "2-7", Email: "b@t.cl", Password: "x"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, b.ID, dto.UpdateUserRequest{Email: strPtr("A@t.cl")})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestUserDeactivate(t *testing.T) {
	uc := newUserUseCase()
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateUserRequest{Run: "1-9", Email: "a@t.cl", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(ctx, created.ID))
	got, err := uc.GetByEmail(ctx, "a@t.cl")
	require.NoError(t, err)
	assert.False(t, got.Active)

	assert.ErrorIs(t, uc.Deactivate(ctx, 999), domain.ErrUserNotFound)
}

func TestEnsureAdmin_Idempotente(t *testing.T) {
	uc := newUserUseCase()
	ctx := context.Background()

	created, err := uc.EnsureAdmin(ctx, "root@tienda.cl", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureAdmin(ctx, "root@tienda.cl", "admin123")
	require.NoError(t, err)
	assert.False(t, created)

	got, err := uc.GetByEmail(ctx, "root@tienda.cl")
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", got.Role)
}
