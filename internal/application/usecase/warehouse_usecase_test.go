package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexware/stockflow-api/internal/application/dto"
	"github.com/nexware/stockflow-api/internal/application/usecase"
	"github.com/nexware/stockflow-api/internal/domain"
	"github.com/nexware/stockflow-api/internal/domain/entity"
	"github.com/nexware/stockflow-api/internal/domain/repository"
)

// fakeWarehouseRepo repositorio en memoria con el mismo contrato atómico de
// SetDefault: después de la llamada hay exactamente una bodega default por empresa.
type fakeWarehouseRepo struct {
	warehouses map[string]*entity.Warehouse
}

var _ repository.WarehouseRepository = (*fakeWarehouseRepo)(nil)

func newFakeWarehouseRepo() *fakeWarehouseRepo {
	return &fakeWarehouseRepo{warehouses: make(map[string]*entity.Warehouse)}
}

func (r *fakeWarehouseRepo) Create(w *entity.Warehouse) error {
	for _, existing := range r.warehouses {
		if existing.CompanyID == w.CompanyID && existing.Code == w.Code {
			return domain.ErrDuplicate
		}
	}
	r.warehouses[w.ID] = w
	return nil
}

func (r *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	return r.warehouses[id], nil
}

func (r *fakeWarehouseRepo) Update(w *entity.Warehouse) error {
	r.warehouses[w.ID] = w
	return nil
}

func (r *fakeWarehouseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.warehouses {
		if w.CompanyID == companyID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *fakeWarehouseRepo) SetDefault(companyID, warehouseID string) error {
	for _, w := range r.warehouses {
		if w.CompanyID == companyID {
			w.IsDefault = w.ID == warehouseID
		}
	}
	return nil
}

func (r *fakeWarehouseRepo) defaults(companyID string) []*entity.Warehouse {
	var out []*entity.Warehouse
	for _, w := range r.warehouses {
		if w.CompanyID == companyID && w.IsDefault {
			out = append(out, w)
		}
	}
	return out
}

const testCompanyID = "company-1"

func TestWarehouseCreate_ActivaPorDefecto(t *testing.T) {
	repo := newFakeWarehouseRepo()
	uc := usecase.NewWarehouseUseCase(repo)

	out, err := uc.Create(testCompanyID, dto.CreateWarehouseRequest{Name: "Principal", Code: "BOD-01"})
	require.NoError(t, err)

	assert.True(t, out.IsActive, "la bodega nueva nace activa")
	assert.False(t, out.IsDefault)
}

func TestWarehouseCreate_CodigoDuplicado_EsDuplicate(t *testing.T) {
	repo := newFakeWarehouseRepo()
	uc := usecase.NewWarehouseUseCase(repo)

	_, err := uc.Create(testCompanyID, dto.CreateWarehouseRequest{Name: "Principal", Code: "BOD-01"})
	require.NoError(t, err)
	_, err = uc.Create(testCompanyID, dto.CreateWarehouseRequest{Name: "Otra", Code: "BOD-01"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestWarehouseSetDefault_UnaSolaDefaultPorEmpresa(t *testing.T) {
	repo := newFakeWarehouseRepo()
	uc := usecase.NewWarehouseUseCase(repo)

	first, err := uc.Create(testCompanyID, dto.CreateWarehouseRequest{Name: "Primera", Code: "BOD-01", IsDefault: true})
	require.NoError(t, err)
	second, err := uc.Create(testCompanyID, dto.CreateWarehouseRequest{Name: "Segunda", Code: "BOD-02"})
	require.NoError(t, err)

	require.Len(t, repo.defaults(testCompanyID), 1)
	assert.Equal(t, first.ID, repo.defaults(testCompanyID)[0].ID)

	// Cambiar la default mueve el flag, nunca lo duplica.
	require.NoError(t, uc.SetDefault(testCompanyID, second.ID))
	defaults := repo.defaults(testCompanyID)
	require.Len(t, defaults, 1)
	assert.Equal(t, second.ID, defaults[0].ID)
}

func TestWarehouseSetDefault_DeOtraEmpresa_EsNotFound(t *testing.T) {
	repo := newFakeWarehouseRepo()
	uc := usecase.NewWarehouseUseCase(repo)

	out, err := uc.Create("otra-empresa", dto.CreateWarehouseRequest{Name: "Ajena", Code: "BOD-09"})
	require.NoError(t, err)

	err = uc.SetDefault(testCompanyID, out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWarehouseGetByID_DeOtraEmpresa_EsNotFound(t *testing.T) {
	repo := newFakeWarehouseRepo()
	uc := usecase.NewWarehouseUseCase(repo)

	out, err := uc.Create("otra-empresa", dto.CreateWarehouseRequest{Name: "Ajena", Code: "BOD-09"})
	require.NoError(t, err)

	_, err = uc.GetByID(testCompanyID, out.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
