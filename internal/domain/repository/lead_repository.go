package repository

import (
	"context"
	"time"

	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

// LeadRepository define el puerto de persistencia para Lead.
// Todas las lecturas están acotadas a la empresa; un lead de otra empresa se trata como inexistente.
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Lead, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Lead, error)
	// ListByCompany ordena por created_at desc.
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Lead, error)
	ListFiltered(ctx context.Context, companyID string, f entity.LeadFilter) ([]*entity.Lead, error)
	Update(ctx context.Context, lead *entity.Lead) error
	UpdateStage(ctx context.Context, companyID, id string, s stage.LeadStage, at time.Time) error
	Delete(ctx context.Context, companyID, id string) error
}
