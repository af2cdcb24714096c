// Package pipeline implementa las transiciones de etapa de leads y agendamientos:
// validación contra el registro cerrado, persistencia transaccional con historial,
// efectos derivados y notificaciones posteriores al commit.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-veiculos/internal/application/ports"
	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/session"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
	"github.com/jhoicas/crm-veiculos/pkg/logger"
)

// derivedTimeout límite para crear el agendamiento derivado una vez confirmada la transición.
const derivedTimeout = 10 * time.Second

// Result resultado de una transición confirmada.
type Result struct {
	Kind          stage.Kind
	EntityID      string
	From          string
	To            string
	UpdatedAt     time.Time
	AppointmentID string // agendamiento creado al pasar a em_negociacao; vacío si no se creó
}

// Service servicio de transición de etapas.
type Service struct {
	tx           TxRunner
	appointments repository.AppointmentRepository
	notifier     ports.Notifier
	recorder     Recorder
	log          *logger.Logger
	now          func() time.Time
}

// Option configura el Service.
type Option func(*Service)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRecorder registra métricas de cada transición.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// NewService construye el servicio. appointments se usa fuera de la transacción
// para el efecto derivado y para releer la vista enriquecida.
func NewService(tx TxRunner, appointments repository.AppointmentRepository, notifier ports.Notifier, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		tx:           tx,
		appointments: appointments,
		notifier:     notifier,
		recorder:     nopRecorder{},
		log:          log.Component("pipeline"),
		now:          time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// MoveLead mueve el lead a la etapa target.
//
// Una etapa desconocida devuelve ErrInvalidStage sin tocar el almacenamiento.
// Cualquier fallo al leer o escribir devuelve ErrPersistence (envolviendo ErrNotFound
// si el lead no existe en la empresa de la sesión) y no deja cambios.
// Los efectos posteriores (agendamiento derivado, webhooks) nunca hacen fallar la transición
// y no se disparan si el lead ya estaba en target.
func (s *Service) MoveLead(ctx context.Context, leadID, target string) (*Result, error) {
	sess, err := session.RequireWriter(ctx)
	if err != nil {
		s.recorder.Transition(stage.KindLead, OutcomeForbidden)
		return nil, err
	}
	to, err := stage.Leads.Parse(target)
	if err != nil {
		s.recorder.Transition(stage.KindLead, OutcomeInvalidStage)
		return nil, err
	}

	now := s.now()
	var lead *entity.Lead
	var from stage.LeadStage
	err = s.tx.RunStageChange(ctx, func(leads repository.LeadRepository, _ repository.AppointmentRepository, history repository.StageChangeRepository) error {
		l, err := leads.GetForUpdate(ctx, sess.CompanyID, leadID)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.ErrNotFound
		}
		from = l.Stage
		if err := leads.UpdateStage(ctx, sess.CompanyID, leadID, to, now); err != nil {
			return err
		}
		if from != to {
			if err := history.Create(ctx, &entity.StageChange{
				ID:        uuid.NewString(),
				CompanyID: sess.CompanyID,
				Kind:      stage.KindLead,
				EntityID:  leadID,
				From:      from.String(),
				To:        to.String(),
				ChangedBy: sess.UserID,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
		l.Stage = to
		l.UpdatedAt = now
		lead = l
		return nil
	})
	if err != nil {
		return nil, s.persistenceFailure(stage.KindLead, leadID, target, err)
	}

	s.recorder.Transition(stage.KindLead, OutcomeOK)
	s.log.Info().
		Str("company_id", sess.CompanyID).
		Str("lead_id", leadID).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("etapa del lead actualizada")

	res := &Result{
		Kind:      stage.KindLead,
		EntityID:  leadID,
		From:      from.String(),
		To:        to.String(),
		UpdatedAt: now,
	}
	if from == to {
		return res, nil
	}

	switch to {
	case stage.LeadNegotiating:
		res.AppointmentID = s.ensureAppointment(ctx, lead, now)
	case stage.LeadServiceSurvey:
		s.notifier.Notify(ctx, ports.Event{Type: ports.EventServiceSurvey, Lead: lead, OccurredAt: now})
	}
	return res, nil
}

// MoveAppointment cambia el estado de un agendamiento. Mismas garantías que MoveLead;
// tras el commit se notifica agendamento_salvo con la vista enriquecida, salvo si el
// estado no cambió.
func (s *Service) MoveAppointment(ctx context.Context, appointmentID, target string) (*Result, error) {
	sess, err := session.RequireWriter(ctx)
	if err != nil {
		s.recorder.Transition(stage.KindAppointment, OutcomeForbidden)
		return nil, err
	}
	to, err := stage.Appointments.Parse(target)
	if err != nil {
		s.recorder.Transition(stage.KindAppointment, OutcomeInvalidStage)
		return nil, err
	}

	now := s.now()
	var from stage.AppointmentStatus
	err = s.tx.RunStageChange(ctx, func(_ repository.LeadRepository, appointments repository.AppointmentRepository, history repository.StageChangeRepository) error {
		a, err := appointments.GetForUpdate(ctx, sess.CompanyID, appointmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		from = a.Status
		if err := appointments.UpdateStatus(ctx, sess.CompanyID, appointmentID, to, now); err != nil {
			return err
		}
		if from == to {
			return nil
		}
		return history.Create(ctx, &entity.StageChange{
			ID:        uuid.NewString(),
			CompanyID: sess.CompanyID,
			Kind:      stage.KindAppointment,
			EntityID:  appointmentID,
			From:      from.String(),
			To:        to.String(),
			ChangedBy: sess.UserID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, s.persistenceFailure(stage.KindAppointment, appointmentID, target, err)
	}

	s.recorder.Transition(stage.KindAppointment, OutcomeOK)
	s.log.Info().
		Str("company_id", sess.CompanyID).
		Str("appointment_id", appointmentID).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("estado del agendamiento actualizado")

	if from != to {
		s.notifySaved(ctx, sess.CompanyID, appointmentID, now)
	}

	return &Result{
		Kind:      stage.KindAppointment,
		EntityID:  appointmentID,
		From:      from.String(),
		To:        to.String(),
		UpdatedAt: now,
	}, nil
}

func (s *Service) notifySaved(ctx context.Context, companyID, appointmentID string, now time.Time) {
	view, err := s.appointments.GetView(ctx, companyID, appointmentID)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("appointment_id", appointmentID).Msg("no se pudo leer el agendamiento para notificar")
	case view != nil:
		s.notifier.Notify(ctx, ports.Event{Type: ports.EventAppointmentSaved, Appointment: view, OccurredAt: now})
	}
}

func (s *Service) persistenceFailure(kind stage.Kind, id, target string, err error) error {
	outcome := OutcomePersistence
	if errors.Is(err, domain.ErrNotFound) {
		outcome = OutcomeNotFound
	}
	s.recorder.Transition(kind, outcome)
	s.log.Error().Err(err).
		Str("kind", string(kind)).
		Str("id", id).
		Str("target", target).
		Msg("transición no persistida")
	return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
}

// ensureAppointment crea el agendamiento de visita del lead si todavía no tiene ninguno.
// Corre después del commit: un fallo se registra y no afecta la transición.
func (s *Service) ensureAppointment(ctx context.Context, lead *entity.Lead, now time.Time) string {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), derivedTimeout)
	defer cancel()

	a := &entity.Appointment{
		ID:          uuid.NewString(),
		CompanyID:   lead.CompanyID,
		LeadID:      lead.ID,
		Title:       "Agendamento - " + lead.Name,
		ScheduledAt: now,
		Status:      stage.AppointmentScheduled,
		Type:        entity.AppointmentTypeVisit,
		AutoCreated: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if lead.VehicleOfInterest != "" {
		a.Description = "Interesse: " + lead.VehicleOfInterest
	}

	created, err := s.appointments.CreateForLeadIfAbsent(ctx, a)
	if err != nil {
		s.recorder.DerivedAppointment(OutcomeFailed)
		s.log.Error().Err(err).Str("lead_id", lead.ID).Msg("no se pudo crear el agendamiento automático")
		return ""
	}
	if !created {
		s.recorder.DerivedAppointment(OutcomeSkipped)
		s.log.Debug().Str("lead_id", lead.ID).Msg("el lead ya tiene agendamiento")
		return ""
	}
	s.recorder.DerivedAppointment(OutcomeCreated)
	s.log.Info().Str("lead_id", lead.ID).Str("appointment_id", a.ID).Msg("agendamiento automático creado")

	s.notifier.Notify(ctx, ports.Event{
		Type: ports.EventAppointmentSaved,
		Appointment: &entity.AppointmentView{
			Appointment: *a,
			LeadName:    lead.Name,
			LeadPhone:   lead.Phone,
			LeadEmail:   lead.Email,
		},
		OccurredAt: now,
	})
	return a.ID
}
