package entity

import (
	"time"

	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

// StageChange registro histórico de una transición de etapa (lead o agendamiento).
type StageChange struct {
	ID        string
	CompanyID string
	Kind      stage.Kind
	EntityID  string
	From      string // código de la etapa anterior
	To        string // código de la etapa nueva
	ChangedBy string // UserID
	CreatedAt time.Time
}
