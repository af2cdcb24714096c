package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

// LeadRepo leads en memoria. Con tx no nil escribe dentro de una transacción.
type LeadRepo struct {
	s  *Store
	tx *undo
}

// touch anota el lead id en el undo de la transacción. Requiere mu tomado.
func (r *LeadRepo) touch(id string) {
	if r.tx != nil {
		remember(r.tx.leads, r.s.leads, id)
	}
}

func (r *LeadRepo) Create(_ context.Context, l *entity.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.leads[l.ID]; ok {
		return domain.ErrDuplicate
	}
	r.touch(l.ID)
	r.s.leads[l.ID] = *l
	return nil
}

func (r *LeadRepo) GetByID(_ context.Context, companyID, id string) (*entity.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.leads[id]
	if !ok || l.CompanyID != companyID {
		return nil, nil
	}
	return &l, nil
}

// GetForUpdate equivale a GetByID: las transacciones ya están serializadas.
func (r *LeadRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Lead, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *LeadRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Lead, error) {
	return r.ListFiltered(ctx, companyID, entity.LeadFilter{})
}

func (r *LeadRepo) ListFiltered(_ context.Context, companyID string, f entity.LeadFilter) ([]*entity.Lead, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Lead
	for _, l := range r.s.leads {
		if l.CompanyID != companyID {
			continue
		}
		if f.Salesperson != "" && l.Salesperson != f.Salesperson {
			continue
		}
		if f.Origin != "" && l.Origin != f.Origin {
			continue
		}
		if !f.Since.IsZero() && l.CreatedAt.Before(f.Since) {
			continue
		}
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *LeadRepo) Update(_ context.Context, l *entity.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.leads[l.ID]
	if !ok || cur.CompanyID != l.CompanyID {
		return domain.ErrNotFound
	}
	// La etapa solo cambia vía UpdateStage.
	next := *l
	next.Stage = cur.Stage
	next.CreatedAt = cur.CreatedAt
	r.touch(l.ID)
	r.s.leads[l.ID] = next
	return nil
}

func (r *LeadRepo) UpdateStage(_ context.Context, companyID, id string, s stage.LeadStage, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leads[id]
	if !ok || l.CompanyID != companyID {
		return domain.ErrNotFound
	}
	l.Stage = s
	l.UpdatedAt = at
	r.touch(id)
	r.s.leads[id] = l
	return nil
}

// Delete elimina el lead; sus agendamientos quedan sin lead vinculado.
func (r *LeadRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leads[id]
	if !ok || l.CompanyID != companyID {
		return domain.ErrNotFound
	}
	r.touch(id)
	delete(r.s.leads, id)
	for k, a := range r.s.appointments {
		if a.LeadID == id {
			if r.tx != nil {
				remember(r.tx.appointments, r.s.appointments, k)
			}
			a.LeadID = ""
			r.s.appointments[k] = a
		}
	}
	return nil
}
