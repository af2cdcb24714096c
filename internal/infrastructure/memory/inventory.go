package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
)

var (
	_ repository.VehicleRepository     = (*VehicleRepo)(nil)
	_ repository.SalespersonRepository = (*SalespersonRepo)(nil)
)

// VehicleRepo estoque en memoria.
type VehicleRepo struct{ s *Store }

func (r *VehicleRepo) Create(_ context.Context, v *entity.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.vehicles[v.ID] = *v
	return nil
}

func (r *VehicleRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Vehicle, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Vehicle
	for _, v := range r.s.vehicles {
		if v.CompanyID == companyID {
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *VehicleRepo) UpdateStatus(_ context.Context, companyID, id, status string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vehicles[id]
	if !ok || v.CompanyID != companyID {
		return domain.ErrNotFound
	}
	v.Status = status
	v.UpdatedAt = at
	r.s.vehicles[id] = v
	return nil
}

func (r *VehicleRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vehicles[id]
	if !ok || v.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(r.s.vehicles, id)
	return nil
}

// SalespersonRepo vendedores en memoria.
type SalespersonRepo struct{ s *Store }

func (r *SalespersonRepo) Create(_ context.Context, sp *entity.Salesperson) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.salespeople[sp.ID] = *sp
	return nil
}

func (r *SalespersonRepo) GetByID(_ context.Context, companyID, id string) (*entity.Salesperson, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sp, ok := r.s.salespeople[id]
	if !ok || sp.CompanyID != companyID {
		return nil, nil
	}
	return &sp, nil
}

func (r *SalespersonRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Salesperson, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Salesperson
	for _, sp := range r.s.salespeople {
		if sp.CompanyID == companyID {
			out = append(out, &sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
