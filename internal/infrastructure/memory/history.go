package memory

import (
	"context"

	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

var _ repository.StageChangeRepository = (*StageChangeRepo)(nil)

// StageChangeRepo historial en memoria (solo append).
type StageChangeRepo struct {
	s  *Store
	tx *undo
}

func (r *StageChangeRepo) Create(_ context.Context, c *entity.StageChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.tx != nil {
		r.tx.history[c.ID] = struct{}{}
	}
	r.s.history = append(r.s.history, *c)
	return nil
}

func (r *StageChangeRepo) ListByEntity(_ context.Context, companyID string, kind stage.Kind, entityID string) ([]*entity.StageChange, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.StageChange
	for _, c := range r.s.history {
		if c.CompanyID == companyID && c.Kind == kind && c.EntityID == entityID {
			out = append(out, &c)
		}
	}
	return out, nil
}
