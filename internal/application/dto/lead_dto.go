package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLeadRequest alta de un lead desde formulario.
type CreateLeadRequest struct {
	Name                 string        `json:"nome"`
	Phone                string        `json:"telefone"`
	Email                string        `json:"email"`
	Origin               string        `json:"origem"`
	Salesperson          string        `json:"vendedor"`
	VehicleOfInterest    string        `json:"veiculo_interesse"`
	QualificationSummary string        `json:"resumo_qualificacao"`
	CommercialSummary    string        `json:"resumo_comercial"`
	Stage                string        `json:"estagio_lead"` // default oportunidade
	Value                OptionalMoney `json:"valor"`
}

// UpdateLeadRequest edición de campos sueltos. Solo se aplican los campos presentes.
type UpdateLeadRequest struct {
	Value             OptionalMoney `json:"valor"`
	SalespersonNote   *string       `json:"observacao_vendedor"`
	VehicleOfInterest *string       `json:"veiculo_interesse"`
	Email             *string       `json:"email"`
}

// LeadResponse salida de un lead.
type LeadResponse struct {
	ID                   string           `json:"id"`
	CompanyID            string           `json:"id_empresa"`
	Name                 string           `json:"nome"`
	Phone                string           `json:"telefone"`
	Email                string           `json:"email"`
	Origin               string           `json:"origem"`
	Salesperson          string           `json:"vendedor"`
	VehicleOfInterest    string           `json:"veiculo_interesse"`
	QualificationSummary string           `json:"resumo_qualificacao"`
	Stage                string           `json:"estagio_lead"`
	StageLabel           string           `json:"estagio_label"`
	CommercialSummary    string           `json:"resumo_comercial"`
	Value                *decimal.Decimal `json:"valor"`
	ValueFormatted       string           `json:"valor_formatado,omitempty"`
	SalespersonNote      string           `json:"observacao_vendedor"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// MoveLeadRequest destino de una transición de lead.
type MoveLeadRequest struct {
	Stage string `json:"estagio_lead"`
}

// MessageRequest texto para el webhook de mensagem.
type MessageRequest struct {
	Message string `json:"mensagem"`
}

// StageChangeResponse entrada del historial de etapas.
type StageChangeResponse struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedBy string    `json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}

// BulkLeadsRequest acción manual sobre varios leads (follow-up, mensagem, exclusão).
type BulkLeadsRequest struct {
	IDs     []string `json:"ids"`
	Message string   `json:"mensagem,omitempty"`
}

// BulkLeadsResponse resultado de una acción sobre varios leads.
type BulkLeadsResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Processed int    `json:"processados"`
	Total     int    `json:"total"`
}
