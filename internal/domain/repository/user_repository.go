package repository

import (
	"context"

	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// GetByEmail compara sin distinción de mayúsculas y busca en todas las empresas.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// ListByCompany ordena por cargo (texto) desc y created_at asc.
	ListByCompany(ctx context.Context, companyID string) ([]*entity.User, error)
	Delete(ctx context.Context, companyID, id string) error
}
