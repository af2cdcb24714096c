package entity

import (
	"time"

	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

// Tipos de agendamiento.
const (
	AppointmentTypeVisit = "visita"
)

// Appointment representa una visita o compromiso agendado, opcionalmente vinculado a un lead.
type Appointment struct {
	ID            string
	CompanyID     string
	LeadID        string // vacío = sin lead
	Title         string
	Description   string
	ScheduledAt   time.Time
	SalespersonID string // vacío = sin vendedor
	Status        stage.AppointmentStatus
	Type          string
	Location      string
	AutoCreated   bool // creado por el pipeline al pasar el lead a em_negociacao
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AppointmentView agendamiento enriquecido con datos del lead y del vendedor.
type AppointmentView struct {
	Appointment
	LeadName        string
	LeadPhone       string
	LeadEmail       string
	SalespersonName string
}
