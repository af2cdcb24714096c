package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/application/ports"
	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/session"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
	"github.com/jhoicas/crm-veiculos/pkg/logger"
)

// AppointmentUseCase alta, edición y consulta de agendamientos.
// Los cambios de status pasan por pipeline.Service.
type AppointmentUseCase struct {
	appointments repository.AppointmentRepository
	leads        repository.LeadRepository
	salespeople  repository.SalespersonRepository
	notifier     ports.Notifier
	log          *logger.Logger
	now          func() time.Time
}

// NewAppointmentUseCase construye el caso de uso.
func NewAppointmentUseCase(
	appointments repository.AppointmentRepository,
	leads repository.LeadRepository,
	salespeople repository.SalespersonRepository,
	notifier ports.Notifier,
	log *logger.Logger,
) *AppointmentUseCase {
	return &AppointmentUseCase{
		appointments: appointments,
		leads:        leads,
		salespeople:  salespeople,
		notifier:     notifier,
		log:          log.Component("appointments"),
		now:          time.Now,
	}
}

// List agendamientos de la empresa con datos de lead y vendedor, más recientes primero.
func (uc *AppointmentUseCase) List(ctx context.Context) ([]*dto.AppointmentResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	list, err := uc.appointments.ListByCompany(ctx, sess.CompanyID)
	if err != nil {
		return nil, err
	}
	return toAppointmentResponses(list), nil
}

// ListByLead agendamientos de un lead.
func (uc *AppointmentUseCase) ListByLead(ctx context.Context, leadID string) ([]*dto.AppointmentResponse, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	list, err := uc.appointments.ListByLead(ctx, sess.CompanyID, leadID)
	if err != nil {
		return nil, err
	}
	return toAppointmentResponses(list), nil
}

// Create alta manual. status por defecto Agendado, tipo por defecto visita.
func (uc *AppointmentUseCase) Create(ctx context.Context, in dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	sess, err := session.RequireWriter(ctx)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || in.ScheduledAt.IsZero() {
		return nil, domain.Invalid("Título e data do agendamento são obrigatórios.")
	}
	status := stage.AppointmentScheduled
	if in.Status != "" {
		if status, err = stage.Appointments.Parse(in.Status); err != nil {
			return nil, err
		}
	}
	if err := uc.checkRefs(ctx, sess.CompanyID, in.LeadID, in.SalespersonID); err != nil {
		return nil, err
	}
	typ := strings.TrimSpace(in.Type)
	if typ == "" {
		typ = entity.AppointmentTypeVisit
	}
	now := uc.now()
	a := &entity.Appointment{
		ID:            uuid.New().String(),
		CompanyID:     sess.CompanyID,
		LeadID:        in.LeadID,
		Title:         title,
		Description:   in.Description,
		ScheduledAt:   in.ScheduledAt,
		SalespersonID: in.SalespersonID,
		Status:        status,
		Type:          typ,
		Location:      in.Location,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.appointments.Create(ctx, a); err != nil {
		return nil, err
	}
	return uc.view(ctx, sess.CompanyID, a.ID)
}

// Update edita título, data, descrição, vendedor y local; luego notifica agendamento_salvo.
// El status no se toca aquí: solo cambia vía pipeline.Service.
func (uc *AppointmentUseCase) Update(ctx context.Context, id string, in dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	sess, err := session.RequireWriter(ctx)
	if err != nil {
		return nil, err
	}
	a, err := uc.appointments.GetByID(ctx, sess.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, domain.Invalid("O título é obrigatório.")
		}
		a.Title = t
	}
	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.ScheduledAt != nil && !in.ScheduledAt.IsZero() {
		a.ScheduledAt = *in.ScheduledAt
	}
	if in.SalespersonID != nil {
		if err := uc.checkRefs(ctx, sess.CompanyID, "", *in.SalespersonID); err != nil {
			return nil, err
		}
		a.SalespersonID = *in.SalespersonID
	}
	if in.Location != nil {
		a.Location = *in.Location
	}
	a.UpdatedAt = uc.now()
	if err := uc.appointments.Update(ctx, a); err != nil {
		return nil, err
	}

	v, err := uc.appointments.GetView(ctx, sess.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	uc.notifier.Notify(ctx, ports.Event{Type: ports.EventAppointmentSaved, Appointment: v, OccurredAt: a.UpdatedAt})
	return ToAppointmentResponse(v), nil
}

// Delete elimina un agendamiento.
func (uc *AppointmentUseCase) Delete(ctx context.Context, id string) error {
	sess, err := session.RequireWriter(ctx)
	if err != nil {
		return err
	}
	return uc.appointments.Delete(ctx, sess.CompanyID, id)
}

// checkRefs valida que lead y vendedor, si se informan, pertenezcan a la empresa.
func (uc *AppointmentUseCase) checkRefs(ctx context.Context, companyID, leadID, salespersonID string) error {
	if leadID != "" {
		l, err := uc.leads.GetByID(ctx, companyID, leadID)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.Invalid("Lead não encontrado.")
		}
	}
	if salespersonID != "" {
		s, err := uc.salespeople.GetByID(ctx, companyID, salespersonID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.Invalid("Vendedor não encontrado.")
		}
	}
	return nil
}

func (uc *AppointmentUseCase) view(ctx context.Context, companyID, id string) (*dto.AppointmentResponse, error) {
	v, err := uc.appointments.GetView(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return ToAppointmentResponse(v), nil
}

func toAppointmentResponses(list []*entity.AppointmentView) []*dto.AppointmentResponse {
	out := make([]*dto.AppointmentResponse, 0, len(list))
	for _, v := range list {
		out = append(out, ToAppointmentResponse(v))
	}
	return out
}

// ToAppointmentResponse mapea la vista enriquecida.
func ToAppointmentResponse(v *entity.AppointmentView) *dto.AppointmentResponse {
	return &dto.AppointmentResponse{
		ID:              v.ID,
		CompanyID:       v.CompanyID,
		LeadID:          v.LeadID,
		LeadName:        v.LeadName,
		LeadPhone:       v.LeadPhone,
		LeadEmail:       v.LeadEmail,
		Title:           v.Title,
		Description:     v.Description,
		ScheduledAt:     v.ScheduledAt,
		SalespersonID:   v.SalespersonID,
		SalespersonName: v.SalespersonName,
		Status:          v.Status.String(),
		Type:            v.Type,
		Location:        v.Location,
		AutoCreated:     v.AutoCreated,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}
