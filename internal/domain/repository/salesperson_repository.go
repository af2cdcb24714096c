package repository

import (
	"context"

	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
)

// SalespersonRepository define el puerto de persistencia para vendedores.
type SalespersonRepository interface {
	Create(ctx context.Context, s *entity.Salesperson) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Salesperson, error)
	// ListByCompany ordena por nombre.
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Salesperson, error)
}
