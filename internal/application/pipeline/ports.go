package pipeline

import (
	"context"

	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error se hace Rollback y nada de lo escrito queda persistido.
type TxRunner interface {
	RunStageChange(ctx context.Context, fn func(
		leads repository.LeadRepository,
		appointments repository.AppointmentRepository,
		history repository.StageChangeRepository,
	) error) error
}

// Resultados registrados por Recorder.
const (
	OutcomeOK           = "ok"
	OutcomeInvalidStage = "invalid_stage"
	OutcomeNotFound     = "not_found"
	OutcomePersistence  = "persistence_error"
	OutcomeForbidden    = "forbidden"
	OutcomeCreated      = "created"
	OutcomeSkipped      = "skipped"
	OutcomeFailed       = "failed"
)

// Recorder recibe métricas del pipeline.
type Recorder interface {
	Transition(kind stage.Kind, outcome string)
	DerivedAppointment(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) Transition(stage.Kind, string) {}
func (nopRecorder) DerivedAppointment(string)     {}
