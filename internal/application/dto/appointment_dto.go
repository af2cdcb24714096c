package dto

import "time"

// CreateAppointmentRequest alta manual de un agendamiento.
type CreateAppointmentRequest struct {
	LeadID        string    `json:"lead_id"`
	Title         string    `json:"titulo"`
	Description   string    `json:"descricao"`
	ScheduledAt   time.Time `json:"data_agendamento"`
	SalespersonID string    `json:"vendedor_id"`
	Status        string    `json:"status"` // default Agendado
	Type          string    `json:"tipo"`   // default visita
	Location      string    `json:"local"`
}

// UpdateAppointmentRequest edición de un agendamiento. Solo se aplican los campos presentes.
type UpdateAppointmentRequest struct {
	Title         *string    `json:"titulo"`
	Description   *string    `json:"descricao"`
	ScheduledAt   *time.Time `json:"data_agendamento"`
	SalespersonID *string    `json:"vendedor_id"`
	Location      *string    `json:"local"`
}

// MoveAppointmentRequest destino de una transición de agendamiento.
type MoveAppointmentRequest struct {
	Status string `json:"status"`
}

// AppointmentResponse agendamiento enriquecido con lead y vendedor.
type AppointmentResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"id_empresa"`
	LeadID          string    `json:"lead_id,omitempty"`
	LeadName        string    `json:"nome_lead,omitempty"`
	LeadPhone       string    `json:"telefone,omitempty"`
	LeadEmail       string    `json:"email,omitempty"`
	Title           string    `json:"titulo"`
	Description     string    `json:"descricao"`
	ScheduledAt     time.Time `json:"data_agendamento"`
	SalespersonID   string    `json:"vendedor_id,omitempty"`
	SalespersonName string    `json:"vendedor_nome,omitempty"`
	Status          string    `json:"status"`
	Type            string    `json:"tipo"`
	Location        string    `json:"local"`
	AutoCreated     bool      `json:"auto_criado"`
	CreatedAt       time.Time `json:"criado_em"`
	UpdatedAt       time.Time `json:"atualizado_em"`
}

// CreateSalespersonRequest alta de un vendedor.
type CreateSalespersonRequest struct {
	Name     string `json:"nome"`
	Phone    string `json:"telefone"`
	Position string `json:"cargo"`
}

// SalespersonResponse salida de un vendedor.
type SalespersonResponse struct {
	ID       string `json:"id"`
	Name     string `json:"nome"`
	Phone    string `json:"telefone"`
	Position string `json:"cargo"`
}
