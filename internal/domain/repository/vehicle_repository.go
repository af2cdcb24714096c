package repository

import (
	"context"
	"time"

	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
)

// VehicleRepository define el puerto de persistencia para el estoque de vehículos.
type VehicleRepository interface {
	Create(ctx context.Context, v *entity.Vehicle) error
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Vehicle, error)
	UpdateStatus(ctx context.Context, companyID, id, status string, at time.Time) error
	Delete(ctx context.Context, companyID, id string) error
}
