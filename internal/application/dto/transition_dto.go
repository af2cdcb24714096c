package dto

import (
	"time"

	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

// TransitionResponse resultado de una transición de etapa.
// En caso de fallo solo se completan success, code, message y retryable.
type TransitionResponse struct {
	Success       bool       `json:"success"`
	Kind          string     `json:"kind,omitempty"`
	ID            string     `json:"id,omitempty"`
	From          string     `json:"from,omitempty"`
	To            string     `json:"to,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	AppointmentID string     `json:"appointment_id,omitempty"`
	Code          string     `json:"code,omitempty"`
	Message       string     `json:"message,omitempty"`
	Retryable     bool       `json:"retryable,omitempty"`
}

// StagesResponse registros de etapas para construir tableros.
type StagesResponse struct {
	Leads        []stage.Info `json:"leads"`
	Appointments []stage.Info `json:"agendamentos"`
}
