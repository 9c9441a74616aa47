package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/nexware/stockflow-api/internal/application/dto"
	"github.com/nexware/stockflow-api/internal/domain"
	"github.com/nexware/stockflow-api/internal/domain/entity"
	"github.com/nexware/stockflow-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso para bodegas: alta, listado y bodega default.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Create crea una nueva bodega. Si llega marcada como default, el cambio se
// aplica con SetDefault después del insert para mantener una sola default por empresa.
func (uc *WarehouseUseCase) Create(companyID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Code:      in.Code,
		Address:   in.Address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(warehouse); err != nil {
		return nil, err
	}
	if in.IsDefault {
		if err := uc.repo.SetDefault(companyID, warehouse.ID); err != nil {
			return nil, err
		}
		warehouse.IsDefault = true
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega de la empresa por ID.
func (uc *WarehouseUseCase) GetByID(companyID, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas por empresa con paginación.
func (uc *WarehouseUseCase) List(companyID string, limit, offset int) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// SetDefault marca la bodega como default de la empresa. La limpieza del default
// anterior y el marcado nuevo son una sola operación atómica en el repositorio:
// después de la llamada existe exactamente una bodega default en la empresa.
func (uc *WarehouseUseCase) SetDefault(companyID, id string) error {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if warehouse == nil || warehouse.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.repo.SetDefault(companyID, id)
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		CompanyID: w.CompanyID,
		Name:      w.Name,
		Code:      w.Code,
		Address:   w.Address,
		IsActive:  w.IsActive,
		IsDefault: w.IsDefault,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
