package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vpmotos/vpmotos-api/internal/application/auth"
	"github.com/vpmotos/vpmotos-api/internal/application/dto"
	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/pkg/jwt"
)

type fakeUserRepo struct{ byEmail map[string]*entity.User }

func (r *fakeUserRepo) Create(u *entity.User) error { r.byEmail[u.Email] = u; return nil }
func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	return r.byEmail[email], nil
}

type fakeBranchLookup struct{ byID map[string]*entity.Branch }

func (r *fakeBranchLookup) Create(*entity.Branch) error { return nil }
func (r *fakeBranchLookup) Update(*entity.Branch) error { return nil }
func (r *fakeBranchLookup) GetByID(id string) (*entity.Branch, error) {
	return r.byID[id], nil
}
func (r *fakeBranchLookup) GetByCode(string) (*entity.Branch, error)   { return nil, nil }
func (r *fakeBranchLookup) GetBySchema(string) (*entity.Branch, error) { return nil, nil }
func (r *fakeBranchLookup) GetPrimary() (*entity.Branch, error)        { return nil, nil }
func (r *fakeBranchLookup) DemotePrimaryExcept(string) error           { return nil }
func (r *fakeBranchLookup) List(bool) ([]*entity.Branch, error)        { return nil, nil }
func (r *fakeBranchLookup) Archive(string) error                       { return nil }

func newAuthFixture() (*auth.UseCase, *fakeUserRepo) {
	users := &fakeUserRepo{byEmail: map[string]*entity.User{}}
	branches := &fakeBranchLookup{byID: map[string]*entity.Branch{
		"b-norte": {ID: "b-norte", Code: "SUC-NORTE", SchemaName: "suc_norte", IsActive: true},
	}}
	uc := auth.NewUseCase(users, branches, auth.JWTConfig{
		Secret:     "secreto-de-prueba-32-caracteres!",
		ExpMinutes: 60,
		Issuer:     "vpmotos-api",
	})
	return uc, users
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_HasheaElPassword(t *testing.T) {
	uc, users := newAuthFixture()

	resp, err := uc.Register(dto.RegisterRequest{
		Email:       "vendedor@vpmotos.local",
		Password:    "clave-segura",
		DisplayName: "Ana Ríos",
		Role:        "vendedor",
		BranchID:    "b-norte",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana Ríos", resp.DisplayName)
	assert.Equal(t, "b-norte", resp.BranchID)
	assert.True(t, resp.Active)

	stored := users.byEmail["vendedor@vpmotos.local"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "clave-segura", stored.PasswordHash, "el password nunca se guarda en claro")
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthFixture()

	_, err := uc.Register(dto.RegisterRequest{Email: "admin@vpmotos.local", Password: "clave-segura"})
	require.NoError(t, err)

	_, err = uc.Register(dto.RegisterRequest{Email: "admin@vpmotos.local", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegister_SucursalInexistente(t *testing.T) {
	uc, _ := newAuthFixture()

	_, err := uc.Register(dto.RegisterRequest{
		Email: "x@vpmotos.local", Password: "clave-segura", BranchID: "b-fantasma",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegister_RolPorDefecto(t *testing.T) {
	uc, _ := newAuthFixture()

	resp, err := uc.Register(dto.RegisterRequest{Email: "x@vpmotos.local", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, "vendedor", resp.Role)
	assert.Equal(t, "x@vpmotos.local", resp.DisplayName, "sin nombre usa el email")
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_TokenConSucursal(t *testing.T) {
	uc, _ := newAuthFixture()

	_, err := uc.Register(dto.RegisterRequest{
		Email:       "bodega@vpmotos.local",
		Password:    "clave-segura",
		DisplayName: "Luis Paz",
		Role:        "bodeguero",
		BranchID:    "b-norte",
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "bodega@vpmotos.local", Password: "clave-segura"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	principal, err := jwt.Parse("secreto-de-prueba-32-caracteres!", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "b-norte", principal.BranchID)
	assert.Equal(t, "bodeguero", principal.Role)
	assert.False(t, principal.SeeAll)
	assert.Equal(t, "Luis Paz", principal.DisplayName)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _ := newAuthFixture()
	_, err := uc.Register(dto.RegisterRequest{Email: "x@vpmotos.local", Password: "clave-segura"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "x@vpmotos.local", Password: "clave-equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _ := newAuthFixture()
	_, err := uc.Login(dto.LoginRequest{Email: "nadie@vpmotos.local", Password: "clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, users := newAuthFixture()
	_, err := uc.Register(dto.RegisterRequest{Email: "ex@vpmotos.local", Password: "clave-segura"})
	require.NoError(t, err)
	users.byEmail["ex@vpmotos.local"].Active = false

	_, err = uc.Login(dto.LoginRequest{Email: "ex@vpmotos.local", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
