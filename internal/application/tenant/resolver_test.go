package tenant_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vpmotos/vpmotos-api/internal/application/tenant"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/pkg/jwt"
	"github.com/vpmotos/vpmotos-api/pkg/logger"
)

type stubBranchRepo struct {
	byID    map[string]*entity.Branch
	primary *entity.Branch
	fail    error
}

func (r *stubBranchRepo) Create(*entity.Branch) error { return nil }
func (r *stubBranchRepo) Update(*entity.Branch) error { return nil }
func (r *stubBranchRepo) GetByID(id string) (*entity.Branch, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	return r.byID[id], nil
}
func (r *stubBranchRepo) GetByCode(string) (*entity.Branch, error)   { return nil, nil }
func (r *stubBranchRepo) GetBySchema(string) (*entity.Branch, error) { return nil, nil }
func (r *stubBranchRepo) GetPrimary() (*entity.Branch, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	return r.primary, nil
}
func (r *stubBranchRepo) DemotePrimaryExcept(string) error    { return nil }
func (r *stubBranchRepo) List(bool) ([]*entity.Branch, error) { return nil, nil }
func (r *stubBranchRepo) Archive(string) error                { return nil }

func newResolver(repo *stubBranchRepo) *tenant.Resolver {
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return tenant.NewResolver(repo, log)
}

func TestResolve_SinPrincipal(t *testing.T) {
	r := newResolver(&stubBranchRepo{})
	binding := r.Resolve(nil)
	assert.Equal(t, tenant.SharedSchema, binding.Schema)
	assert.True(t, binding.IsShared())
	assert.Nil(t, binding.Branch)
}

func TestResolve_VisibilidadGlobal(t *testing.T) {
	matriz := &entity.Branch{ID: "b-1", Code: "MATRIZ", SchemaName: "matriz", IsPrimary: true, IsActive: true}
	r := newResolver(&stubBranchRepo{primary: matriz})

	binding := r.Resolve(&jwt.Principal{UserID: "u-1", SeeAll: true, BranchID: "b-2"})
	assert.True(t, binding.IsShared(), "visibilidad global opera sobre el schema compartido")
	assert.Same(t, matriz, binding.Branch, "la principal queda atada para prefijos de documentos")
}

func TestResolve_SucursalAsignada(t *testing.T) {
	norte := &entity.Branch{ID: "b-2", Code: "SUC-NORTE", SchemaName: "suc_norte", IsActive: true}
	r := newResolver(&stubBranchRepo{byID: map[string]*entity.Branch{"b-2": norte}})

	binding := r.Resolve(&jwt.Principal{UserID: "u-1", BranchID: "b-2"})
	assert.Equal(t, "suc_norte", binding.Schema)
	assert.False(t, binding.IsShared())
	assert.Same(t, norte, binding.Branch)
}

func TestResolve_NuncaFalla(t *testing.T) {
	t.Run("sucursal inexistente", func(t *testing.T) {
		r := newResolver(&stubBranchRepo{byID: map[string]*entity.Branch{}})
		binding := r.Resolve(&jwt.Principal{UserID: "u-1", BranchID: "b-borrada"})
		assert.True(t, binding.IsShared())
		assert.Nil(t, binding.Branch)
	})

	t.Run("sucursal inactiva", func(t *testing.T) {
		inactiva := &entity.Branch{ID: "b-3", Code: "SUC-SUR", SchemaName: "suc_sur", IsActive: false}
		r := newResolver(&stubBranchRepo{byID: map[string]*entity.Branch{"b-3": inactiva}})
		binding := r.Resolve(&jwt.Principal{UserID: "u-1", BranchID: "b-3"})
		assert.True(t, binding.IsShared())
		assert.Nil(t, binding.Branch)
	})

	t.Run("error del repositorio", func(t *testing.T) {
		r := newResolver(&stubBranchRepo{fail: errors.New("conexión perdida")})
		binding := r.Resolve(&jwt.Principal{UserID: "u-1", BranchID: "b-2"})
		assert.True(t, binding.IsShared())
	})

	t.Run("global sin principal registrada", func(t *testing.T) {
		r := newResolver(&stubBranchRepo{})
		binding := r.Resolve(&jwt.Principal{UserID: "u-1", SeeAll: true})
		assert.True(t, binding.IsShared())
		assert.Nil(t, binding.Branch)
	})
}
