package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/session"
)

// SalespersonUseCase vendedores asignables a agendamientos.
type SalespersonUseCase struct {
	repo repository.SalespersonRepository
}

// NewSalespersonUseCase construye el caso de uso.
func NewSalespersonUseCase(repo repository.SalespersonRepository) *SalespersonUseCase {
	return &SalespersonUseCase{repo: repo}
}

// List vendedores de la empresa por nombre.
func (uc *SalespersonUseCase) List(ctx context.Context) ([]*dto.SalespersonResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByCompany(ctx, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SalespersonResponse, 0, len(list))
	for _, s := range list {
		out = append(out, &dto.SalespersonResponse{ID: s.ID, Name: s.Name, Phone: s.Phone, Position: s.Position})
	}
	return out, nil
}

// Create alta de vendedor; solo administrador o gestor.
func (uc *SalespersonUseCase) Create(ctx context.Context, in dto.CreateSalespersonRequest) (*dto.SalespersonResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	if sess.Role != entity.RoleAdmin && sess.Role != entity.RoleManager {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("O nome do vendedor é obrigatório.")
	}
	s := &entity.Salesperson{
		ID:        uuid.New().String(),
		CompanyID: sess.CompanyID,
		Name:      name,
		Phone:     strings.TrimSpace(in.Phone),
		Position:  strings.TrimSpace(in.Position),
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return &dto.SalespersonResponse{ID: s.ID, Name: s.Name, Phone: s.Phone, Position: s.Position}, nil
}
