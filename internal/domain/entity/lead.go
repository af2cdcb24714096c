package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

// Lead representa un cliente potencial en el embudo comercial.
type Lead struct {
	ID                   string
	CompanyID            string
	Name                 string
	Phone                string
	Email                string
	Origin               string // canal de captación (site, instagram, indicação...)
	Salesperson          string // nombre del vendedor responsable
	VehicleOfInterest    string
	QualificationSummary string
	Stage                stage.LeadStage
	CommercialSummary    string
	Value                *decimal.Decimal // nil = sin valor informado
	SalespersonNote      string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// LeadPatch edición parcial de campos de un lead. Solo se aplican los campos no nil.
type LeadPatch struct {
	Value             *decimal.Decimal
	ClearValue        bool
	SalespersonNote   *string
	VehicleOfInterest *string
	Email             *string
}

// Empty indica si el patch no modifica nada.
func (p LeadPatch) Empty() bool {
	return p.Value == nil && !p.ClearValue && p.SalespersonNote == nil && p.VehicleOfInterest == nil && p.Email == nil
}

// Apply aplica el patch sobre el lead.
func (p LeadPatch) Apply(l *Lead) {
	if p.ClearValue {
		l.Value = nil
	}
	if p.Value != nil {
		v := *p.Value
		l.Value = &v
	}
	if p.SalespersonNote != nil {
		l.SalespersonNote = *p.SalespersonNote
	}
	if p.VehicleOfInterest != nil {
		l.VehicleOfInterest = *p.VehicleOfInterest
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
}

// LeadFilter filtros del dashboard. Campos vacíos no filtran.
type LeadFilter struct {
	Salesperson string
	Origin      string
	Since       time.Time
}
