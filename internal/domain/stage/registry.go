package stage

import (
	"fmt"

	"github.com/jhoicas/crm-veiculos/internal/domain"
)

// Stage restricción común a LeadStage y AppointmentStatus.
type Stage interface {
	comparable
	Info() Info
}

// Registry conjunto ordenado e inmutable de etapas de un tipo de entidad.
type Registry[S Stage] struct {
	kind   Kind
	values []S
	byCode map[string]S
}

// Registros globales, construidos una sola vez.
var (
	Leads        = newRegistry(KindLead, leadValues())
	Appointments = newRegistry(KindAppointment, appointmentValues())
)

func newRegistry[S Stage](kind Kind, values []S) *Registry[S] {
	byCode := make(map[string]S, len(values))
	for _, v := range values {
		byCode[v.Info().Code] = v
	}
	return &Registry[S]{kind: kind, values: values, byCode: byCode}
}

func leadValues() []LeadStage {
	out := make([]LeadStage, 0, leadStageCount)
	for s := LeadStage(0); s < leadStageCount; s++ {
		out = append(out, s)
	}
	return out
}

func appointmentValues() []AppointmentStatus {
	out := make([]AppointmentStatus, 0, appointmentStatusCount)
	for s := AppointmentStatus(0); s < appointmentStatusCount; s++ {
		out = append(out, s)
	}
	return out
}

// Kind tipo de entidad del registro.
func (r *Registry[S]) Kind() Kind { return r.kind }

// Values devuelve una copia de los valores en orden de presentación.
func (r *Registry[S]) Values() []S {
	out := make([]S, len(r.values))
	copy(out, r.values)
	return out
}

// Options devuelve los metadatos en orden, para construir columnas o selects.
func (r *Registry[S]) Options() []Info {
	out := make([]Info, 0, len(r.values))
	for _, v := range r.values {
		out = append(out, v.Info())
	}
	return out
}

// Contains indica si code es un código válido.
func (r *Registry[S]) Contains(code string) bool {
	_, ok := r.byCode[code]
	return ok
}

// Parse traduce un código a su valor. Códigos desconocidos devuelven ErrInvalidStage.
func (r *Registry[S]) Parse(code string) (S, error) {
	v, ok := r.byCode[code]
	if !ok {
		var zero S
		return zero, fmt.Errorf("%w: %s %q", domain.ErrInvalidStage, r.kind, code)
	}
	return v, nil
}
