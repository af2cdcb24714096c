package repository

import (
	"context"

	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

// StageChangeRepository historial de transiciones de etapa.
type StageChangeRepository interface {
	Create(ctx context.Context, c *entity.StageChange) error
	// ListByEntity ordena por created_at asc.
	ListByEntity(ctx context.Context, companyID string, kind stage.Kind, entityID string) ([]*entity.StageChange, error)
}
