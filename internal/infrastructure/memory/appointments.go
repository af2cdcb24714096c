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

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

// AppointmentRepo agendamientos en memoria. Con tx no nil escribe dentro de una transacción.
type AppointmentRepo struct {
	s  *Store
	tx *undo
}

// touch anota el agendamiento id en el undo de la transacción. Requiere mu tomado.
func (r *AppointmentRepo) touch(id string) {
	if r.tx != nil {
		remember(r.tx.appointments, r.s.appointments, id)
	}
}

func (r *AppointmentRepo) Create(_ context.Context, a *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[a.ID]; ok {
		return domain.ErrDuplicate
	}
	r.touch(a.ID)
	r.s.appointments[a.ID] = *a
	return nil
}

func (r *AppointmentRepo) CreateForLeadIfAbsent(_ context.Context, a *entity.Appointment) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, cur := range r.s.appointments {
		if cur.LeadID == a.LeadID {
			return false, nil
		}
	}
	r.touch(a.ID)
	r.s.appointments[a.ID] = *a
	return true, nil
}

func (r *AppointmentRepo) GetByID(_ context.Context, companyID, id string) (*entity.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.appointments[id]
	if !ok || a.CompanyID != companyID {
		return nil, nil
	}
	return &a, nil
}

func (r *AppointmentRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Appointment, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *AppointmentRepo) GetView(_ context.Context, companyID, id string) (*entity.AppointmentView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.appointments[id]
	if !ok || a.CompanyID != companyID {
		return nil, nil
	}
	return r.view(a), nil
}

func (r *AppointmentRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.AppointmentView, error) {
	return r.list(func(a entity.Appointment) bool { return a.CompanyID == companyID }), nil
}

func (r *AppointmentRepo) ListByLead(_ context.Context, companyID, leadID string) ([]*entity.AppointmentView, error) {
	return r.list(func(a entity.Appointment) bool {
		return a.CompanyID == companyID && a.LeadID == leadID
	}), nil
}

func (r *AppointmentRepo) list(keep func(entity.Appointment) bool) []*entity.AppointmentView {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.AppointmentView
	for _, a := range r.s.appointments {
		if keep(a) {
			out = append(out, r.view(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// view enriquece con lead y vendedor. Requiere mu tomado.
func (r *AppointmentRepo) view(a entity.Appointment) *entity.AppointmentView {
	v := &entity.AppointmentView{Appointment: a}
	if l, ok := r.s.leads[a.LeadID]; ok && a.LeadID != "" {
		v.LeadName, v.LeadPhone, v.LeadEmail = l.Name, l.Phone, l.Email
	}
	if sp, ok := r.s.salespeople[a.SalespersonID]; ok && a.SalespersonID != "" {
		v.SalespersonName = sp.Name
	}
	return v
}

func (r *AppointmentRepo) Update(_ context.Context, a *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.appointments[a.ID]
	if !ok || cur.CompanyID != a.CompanyID {
		return domain.ErrNotFound
	}
	cur.Title = a.Title
	cur.Description = a.Description
	cur.ScheduledAt = a.ScheduledAt
	cur.SalespersonID = a.SalespersonID
	cur.Type = a.Type
	cur.Location = a.Location
	cur.UpdatedAt = a.UpdatedAt
	r.touch(a.ID)
	r.s.appointments[a.ID] = cur
	return nil
}

func (r *AppointmentRepo) UpdateStatus(_ context.Context, companyID, id string, s stage.AppointmentStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok || a.CompanyID != companyID {
		return domain.ErrNotFound
	}
	a.Status = s
	a.UpdatedAt = at
	r.touch(id)
	r.s.appointments[id] = a
	return nil
}

func (r *AppointmentRepo) Delete(_ context.Context, companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok || a.CompanyID != companyID {
		return domain.ErrNotFound
	}
	r.touch(id)
	delete(r.s.appointments, id)
	return nil
}

func (r *AppointmentRepo) CountByStatus(_ context.Context, companyID string) (map[stage.AppointmentStatus]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[stage.AppointmentStatus]int)
	for _, a := range r.s.appointments {
		if a.CompanyID == companyID {
			out[a.Status]++
		}
	}
	return out, nil
}
