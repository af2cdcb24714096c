// Package stage define los conjuntos cerrados de etapas del embudo de leads y
// de estados de agendamientos, con metadatos de presentación (rótulo y color).
//
// Cada tabla de metadatos se verifica en compilación contra la cantidad de
// valores del enum: agregar un valor sin su entrada rompe el build.
package stage

import (
	"fmt"

	"github.com/jhoicas/crm-veiculos/internal/domain"
)

// Kind tipo de entidad que recorre etapas.
type Kind string

const (
	KindLead        Kind = "lead"
	KindAppointment Kind = "agendamento"
)

// Info metadatos de presentación de una etapa.
type Info struct {
	Code  string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// LeadStage etapa del embudo comercial de un lead.
type LeadStage uint8

const (
	LeadOpportunity LeadStage = iota
	LeadQualifying
	LeadNegotiating
	LeadRescue
	LeadClosed
	LeadNotClosed
	LeadServiceSurvey
	LeadFollowUp

	leadStageCount
)

var leadStages = [...]Info{
	LeadOpportunity:   {Code: "oportunidade", Label: "Oportunidade", Color: "blue"},
	LeadQualifying:    {Code: "em_qualificacao", Label: "Em Qualificação", Color: "yellow"},
	LeadNegotiating:   {Code: "em_negociacao", Label: "Em Negociação", Color: "green"},
	LeadRescue:        {Code: "resgate", Label: "Resgate", Color: "purple"},
	LeadClosed:        {Code: "fechado", Label: "Fechado", Color: "emerald"},
	LeadNotClosed:     {Code: "nao_fechou", Label: "Não Fechou", Color: "red"},
	LeadServiceSurvey: {Code: "pesquisa_atendimento", Label: "Pesquisa de Atendimento", Color: "orange"},
	LeadFollowUp:      {Code: "follow_up", Label: "Follow Up", Color: "indigo"},
}

// Falla en compilación si leadStages no cubre exactamente todos los valores.
var _ = [1]struct{}{}[len(leadStages)-int(leadStageCount)]

// AppointmentStatus estado de un agendamiento.
type AppointmentStatus uint8

const (
	AppointmentScheduled AppointmentStatus = iota
	AppointmentConfirmed
	AppointmentDone
	AppointmentCancelled
	AppointmentRescheduled

	appointmentStatusCount
)

var appointmentStatuses = [...]Info{
	AppointmentScheduled:   {Code: "Agendado", Label: "Agendado", Color: "blue"},
	AppointmentConfirmed:   {Code: "Confirmado", Label: "Confirmado", Color: "cyan"},
	AppointmentDone:        {Code: "Realizado", Label: "Realizado", Color: "green"},
	AppointmentCancelled:   {Code: "Cancelado", Label: "Cancelado", Color: "red"},
	AppointmentRescheduled: {Code: "Reagendado", Label: "Reagendado", Color: "yellow"},
}

var _ = [1]struct{}{}[len(appointmentStatuses)-int(appointmentStatusCount)]

// Info devuelve los metadatos de la etapa. Un valor fuera de rango devuelve Info vacío.
func (s LeadStage) Info() Info {
	if s >= leadStageCount {
		return Info{}
	}
	return leadStages[s]
}

// Valid indica si el valor pertenece al conjunto.
func (s LeadStage) Valid() bool { return s < leadStageCount }

func (s LeadStage) String() string { return s.Info().Code }
func (s LeadStage) Label() string  { return s.Info().Label }
func (s LeadStage) Color() string  { return s.Info().Color }

// MarshalText serializa la etapa por su código.
func (s LeadStage) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidStage, s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText acepta solo códigos del registro.
func (s *LeadStage) UnmarshalText(b []byte) error {
	v, err := Leads.Parse(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Info devuelve los metadatos del estado.
func (s AppointmentStatus) Info() Info {
	if s >= appointmentStatusCount {
		return Info{}
	}
	return appointmentStatuses[s]
}

// Valid indica si el valor pertenece al conjunto.
func (s AppointmentStatus) Valid() bool { return s < appointmentStatusCount }

func (s AppointmentStatus) String() string { return s.Info().Code }
func (s AppointmentStatus) Label() string  { return s.Info().Label }
func (s AppointmentStatus) Color() string  { return s.Info().Color }

func (s AppointmentStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidStage, s)
	}
	return []byte(s.String()), nil
}

func (s *AppointmentStatus) UnmarshalText(b []byte) error {
	v, err := Appointments.Parse(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
