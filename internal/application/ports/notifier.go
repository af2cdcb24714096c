package ports

import (
	"context"
	"time"

	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
)

// EventType tipo de evento notificado a la automatización externa.
type EventType string

const (
	EventCommercialSummary EventType = "resumo_comercial"
	EventServiceSurvey     EventType = "pesquisa_atendimento"
	EventFollowUp          EventType = "follow_up"
	EventMessage           EventType = "mensagem"
	EventAppointmentSaved  EventType = "agendamento_salvo"
	EventMemberCreated     EventType = "cadastro_vendedores"
)

// Event notificación de salida. Lead, Appointment o Member según el tipo.
type Event struct {
	Type        EventType
	Lead        *entity.Lead
	Appointment *entity.AppointmentView
	Member      *entity.User
	CompanyName string // solo EventMemberCreated
	Message     string // solo EventMessage
	OccurredAt  time.Time
}

// Notifier entrega eventos en modo best effort: no bloquea al llamador y
// los fallos solo se registran en el log.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
}

// EventSender entrega un evento de forma síncrona e informa el resultado.
// Lo usan las acciones manuales que muestran el resultado al usuario.
type EventSender interface {
	Deliver(ctx context.Context, ev Event) error
}
