package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/session"
)

// minVehicleYear año de fabricación más antiguo aceptado.
const minVehicleYear = 1900

// VehicleUseCase casos de uso del estoque de vehículos.
type VehicleUseCase struct {
	repo repository.VehicleRepository
	now  func() time.Time
}

// NewVehicleUseCase construye el caso de uso.
func NewVehicleUseCase(repo repository.VehicleRepository) *VehicleUseCase {
	return &VehicleUseCase{repo: repo, now: time.Now}
}

// Create agrega un vehículo al estoque con status Disponível.
func (uc *VehicleUseCase) Create(ctx context.Context, in dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	sess, err := session.RequireWriter(ctx)
	if err != nil {
		return nil, err
	}
	brand := strings.TrimSpace(in.Brand)
	model := strings.TrimSpace(in.Model)
	if brand == "" || model == "" {
		return nil, domain.Invalid("Marca e modelo são obrigatórios.")
	}
	now := uc.now()
	if in.Year < minVehicleYear || in.Year > now.Year()+1 {
		return nil, domain.Invalid("Ano do veículo inválido.")
	}
	if in.Mileage < 0 {
		return nil, domain.Invalid("Quilometragem inválida.")
	}
	v := &entity.Vehicle{
		ID:        uuid.New().String(),
		CompanyID: sess.CompanyID,
		Brand:     brand,
		Model:     model,
		Year:      in.Year,
		Color:     strings.TrimSpace(in.Color),
		Fuel:      strings.TrimSpace(in.Fuel),
		Mileage:   in.Mileage,
		Status:    entity.VehicleAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

// List vehículos de la empresa, más recientes primero.
func (uc *VehicleUseCase) List(ctx context.Context) ([]*dto.VehicleResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByCompany(ctx, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toVehicleResponse(v))
	}
	return out, nil
}

// MarkSold marca el vehículo como Vendido.
func (uc *VehicleUseCase) MarkSold(ctx context.Context, id string) error {
	sess, err := session.RequireWriter(ctx)
	if err != nil {
		return err
	}
	return uc.repo.UpdateStatus(ctx, sess.CompanyID, id, entity.VehicleSold, uc.now())
}

// Delete retira el vehículo del estoque.
func (uc *VehicleUseCase) Delete(ctx context.Context, id string) error {
	sess, err := session.RequireWriter(ctx)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, sess.CompanyID, id)
}

func toVehicleResponse(v *entity.Vehicle) *dto.VehicleResponse {
	return &dto.VehicleResponse{
		ID:        v.ID,
		Brand:     v.Brand,
		Model:     v.Model,
		Year:      v.Year,
		Color:     v.Color,
		Fuel:      v.Fuel,
		Mileage:   v.Mileage,
		Status:    v.Status,
		CreatedAt: v.CreatedAt,
	}
}
