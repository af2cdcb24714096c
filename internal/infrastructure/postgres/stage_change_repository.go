package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

var _ repository.StageChangeRepository = (*StageChangeRepo)(nil)

// StageChangeRepo historial de transiciones (solo inserción).
type StageChangeRepo struct {
	q Querier
}

// NewStageChangeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStageChangeRepository(q Querier) *StageChangeRepo {
	return &StageChangeRepo{q: q}
}

// Create registra una transición.
func (r *StageChangeRepo) Create(ctx context.Context, c *entity.StageChange) error {
	query := `
		INSERT INTO stage_changes (id, company_id, kind, entity_id, from_stage, to_stage, changed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, string(c.Kind), c.EntityID, c.From, c.To, nullable(c.ChangedBy), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stage change: %w", err)
	}
	return nil
}

// ListByEntity historial de un lead o agendamiento en orden cronológico.
func (r *StageChangeRepo) ListByEntity(ctx context.Context, companyID string, kind stage.Kind, entityID string) ([]*entity.StageChange, error) {
	query := `
		SELECT id, company_id, kind, entity_id, from_stage, to_stage, changed_by, created_at
		FROM stage_changes
		WHERE company_id = $1 AND kind = $2 AND entity_id = $3
		ORDER BY created_at ASC`
	rows, err := r.q.Query(ctx, query, companyID, string(kind), entityID)
	if err != nil {
		return nil, fmt.Errorf("list stage changes: %w", err)
	}
	defer rows.Close()
	var list []*entity.StageChange
	for rows.Next() {
		var (
			c         entity.StageChange
			k         string
			changedBy *string
		)
		if err := rows.Scan(&c.ID, &c.CompanyID, &k, &c.EntityID, &c.From, &c.To, &changedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stage change: %w", err)
		}
		c.Kind = stage.Kind(k)
		c.ChangedBy = deref(changedBy)
		list = append(list, &c)
	}
	return list, rows.Err()
}
