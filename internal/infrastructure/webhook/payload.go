package webhook

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/crm-veiculos/internal/application/ports"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
)

// Acciones informadas en el campo action.
const (
	ActionServiceSurvey    = "moved_to_pesquisa_atendimento"
	ActionFollowUp         = "follow_up"
	ActionSendMessage      = "send_message"
	ActionAppointmentSaved = "agendamento_salvo"
)

// brasilia horario de los timestamps de eventos de lead.
var brasilia = time.FixedZone("BRT", -3*60*60)

// leadPayload cuerpo de los eventos de lead. Los campos opcionales dependen de la acción.
type leadPayload struct {
	ID                   string       `json:"id"`
	CompanyID            string       `json:"id_empresa"`
	LeadName             string       `json:"nome_lead"`
	Phone                string       `json:"telefone"`
	Email                string       `json:"email"`
	Origin               string       `json:"origem"`
	Salesperson          string       `json:"vendedor"`
	SalespersonName      *string      `json:"nome_vendedor,omitempty"`
	VehicleOfInterest    string       `json:"veiculo_interesse"`
	QualificationSummary *string      `json:"resumo_qualificacao,omitempty"`
	Stage                string       `json:"estagio_lead"`
	CommercialSummary    *string      `json:"resumo_comercial,omitempty"`
	Value                *json.Number `json:"valor"`
	SalespersonNote      string       `json:"observacao_vendedor"`
	CreatedAt            string       `json:"created_at"`
	UpdatedAt            string       `json:"updated_at"`
	Timestamp            string       `json:"timestamp"`
	Action               string       `json:"action,omitempty"`
	Message              *string      `json:"mensagem,omitempty"`
}

type appointmentPayload struct {
	ID              string `json:"id"`
	CompanyID       string `json:"id_empresa"`
	LeadID          string `json:"lead_id"`
	LeadName        string `json:"nome_lead"`
	Phone           string `json:"telefone"`
	Email           string `json:"email"`
	Title           string `json:"titulo"`
	Description     string `json:"descricao"`
	ScheduledAt     string `json:"data_agendamento"`
	SalespersonName string `json:"vendedor_nome"`
	SalespersonID   string `json:"vendedor_id"`
	Status          string `json:"status"`
	Type            string `json:"tipo"`
	Location        string `json:"local"`
	CreatedAt       string `json:"criado_em"`
	UpdatedAt       string `json:"atualizado_em"`
	Timestamp       string `json:"timestamp"`
	Action          string `json:"action"`
}

type memberPayload struct {
	CompanyID   string `json:"id_empresa"`
	CompanyName string `json:"nome_empresa"`
	Name        string `json:"nome_usuario"`
	Email       string `json:"email"`
	Phone       string `json:"telefone"`
	Role        string `json:"cargo"`
	Status      string `json:"status"`
	CreatedAt   string `json:"data_cadastro"`
}

// Build arma el cuerpo JSON del evento.
func Build(ev ports.Event) ([]byte, error) {
	var body any
	switch ev.Type {
	case ports.EventCommercialSummary, ports.EventServiceSurvey, ports.EventFollowUp, ports.EventMessage:
		if ev.Lead == nil {
			return nil, fmt.Errorf("webhook: evento %s sin lead", ev.Type)
		}
		body = buildLead(ev)
	case ports.EventAppointmentSaved:
		if ev.Appointment == nil {
			return nil, fmt.Errorf("webhook: evento %s sin agendamiento", ev.Type)
		}
		body = buildAppointment(ev.Appointment, ev.OccurredAt)
	case ports.EventMemberCreated:
		if ev.Member == nil {
			return nil, fmt.Errorf("webhook: evento %s sin miembro", ev.Type)
		}
		m := ev.Member
		body = memberPayload{
			CompanyID:   m.CompanyID,
			CompanyName: ev.CompanyName,
			Name:        m.Name,
			Email:       m.Email,
			Phone:       m.Phone,
			Role:        string(m.Role),
			Status:      string(m.Status),
			CreatedAt:   utc(ev.OccurredAt),
		}
	default:
		return nil, fmt.Errorf("webhook: tipo de evento desconocido %q", ev.Type)
	}
	return json.Marshal(body)
}

func buildLead(ev ports.Event) leadPayload {
	l := ev.Lead
	p := leadPayload{
		ID:                l.ID,
		CompanyID:         l.CompanyID,
		LeadName:          l.Name,
		Phone:             l.Phone,
		Email:             l.Email,
		Origin:            l.Origin,
		Salesperson:       l.Salesperson,
		VehicleOfInterest: l.VehicleOfInterest,
		Stage:             l.Stage.String(),
		SalespersonNote:   l.SalespersonNote,
		CreatedAt:         brt(l.CreatedAt),
		UpdatedAt:         brt(l.UpdatedAt),
		Timestamp:         brt(ev.OccurredAt),
	}
	if l.Value != nil {
		n := json.Number(l.Value.String())
		p.Value = &n
	}

	switch ev.Type {
	case ports.EventCommercialSummary, ports.EventServiceSurvey:
		p.QualificationSummary = &l.QualificationSummary
		p.CommercialSummary = &l.CommercialSummary
	}
	switch ev.Type {
	case ports.EventServiceSurvey:
		p.SalespersonName = &l.Salesperson
		p.Action = ActionServiceSurvey
	case ports.EventFollowUp:
		p.Action = ActionFollowUp
	case ports.EventMessage:
		msg := ev.Message
		p.Message = &msg
		p.Action = ActionSendMessage
	}
	return p
}

func buildAppointment(a *entity.AppointmentView, at time.Time) appointmentPayload {
	return appointmentPayload{
		ID:              a.ID,
		CompanyID:       a.CompanyID,
		LeadID:          a.LeadID,
		LeadName:        a.LeadName,
		Phone:           a.LeadPhone,
		Email:           a.LeadEmail,
		Title:           a.Title,
		Description:     a.Description,
		ScheduledAt:     utc(a.ScheduledAt),
		SalespersonName: a.SalespersonName,
		SalespersonID:   a.SalespersonID,
		Status:          a.Status.String(),
		Type:            a.Type,
		Location:        a.Location,
		CreatedAt:       utc(a.CreatedAt),
		UpdatedAt:       utc(a.UpdatedAt),
		Timestamp:       utc(at),
		Action:          ActionAppointmentSaved,
	}
}

func brt(t time.Time) string { return t.In(brasilia).Format("2006-01-02T15:04:05.000-07:00") }

func utc(t time.Time) string { return t.UTC().Format("2006-01-02T15:04:05.000Z") }
