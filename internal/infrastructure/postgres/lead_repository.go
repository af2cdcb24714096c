package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

// LeadRepo implementación del puerto LeadRepository sobre PostgreSQL (usable con pool o tx).
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

const leadColumns = `id, company_id, name, phone, email, origin, salesperson, vehicle_of_interest,
	qualification_summary, stage, commercial_summary, value, salesperson_note, created_at, updated_at`

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var (
		l     entity.Lead
		code  string
		value decimal.NullDecimal
	)
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.Name, &l.Phone, &l.Email, &l.Origin, &l.Salesperson, &l.VehicleOfInterest,
		&l.QualificationSummary, &code, &l.CommercialSummary, &value, &l.SalespersonNote, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// Una etapa fuera del registro no debería existir (CHECK en la tabla).
	s, err := stage.Leads.Parse(code)
	if err != nil {
		return nil, fmt.Errorf("lead %s: %w", l.ID, err)
	}
	l.Stage = s
	l.Value = fromNullDecimal(value)
	return &l, nil
}

// Create persiste un nuevo lead.
func (r *LeadRepo) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.CompanyID, l.Name, l.Phone, l.Email, l.Origin, l.Salesperson, l.VehicleOfInterest,
		l.QualificationSummary, l.Stage.String(), l.CommercialSummary, nullDecimal(l.Value), l.SalespersonNote,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetByID obtiene un lead de la empresa.
func (r *LeadRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Lead, error) {
	return r.get(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1 AND company_id = $2`, companyID, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *LeadRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Lead, error) {
	return r.get(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1 AND company_id = $2 FOR UPDATE`, companyID, id)
}

func (r *LeadRepo) get(ctx context.Context, query, companyID, id string) (*entity.Lead, error) {
	l, err := scanLead(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// ListByCompany lista los leads de la empresa, más recientes primero.
func (r *LeadRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Lead, error) {
	return r.ListFiltered(ctx, companyID, entity.LeadFilter{})
}

// ListFiltered aplica los filtros no vacíos de f.
func (r *LeadRepo) ListFiltered(ctx context.Context, companyID string, f entity.LeadFilter) ([]*entity.Lead, error) {
	where := []string{"company_id = $1"}
	args := []any{companyID}
	if f.Salesperson != "" {
		args = append(args, f.Salesperson)
		where = append(where, fmt.Sprintf("salesperson = $%d", len(args)))
	}
	if f.Origin != "" {
		args = append(args, f.Origin)
		where = append(where, fmt.Sprintf("origin = $%d", len(args)))
	}
	if !f.Since.IsZero() {
		args = append(args, f.Since)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables del lead (no la etapa).
func (r *LeadRepo) Update(ctx context.Context, l *entity.Lead) error {
	query := `
		UPDATE leads SET name = $3, phone = $4, email = $5, origin = $6, salesperson = $7,
			vehicle_of_interest = $8, qualification_summary = $9, commercial_summary = $10,
			value = $11, salesperson_note = $12, updated_at = $13
		WHERE id = $1 AND company_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		l.ID, l.CompanyID, l.Name, l.Phone, l.Email, l.Origin, l.Salesperson,
		l.VehicleOfInterest, l.QualificationSummary, l.CommercialSummary,
		nullDecimal(l.Value), l.SalespersonNote, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStage cambia la etapa del lead.
func (r *LeadRepo) UpdateStage(ctx context.Context, companyID, id string, s stage.LeadStage, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE leads SET stage = $3, updated_at = $4 WHERE id = $1 AND company_id = $2`,
		id, companyID, s.String(), at,
	)
	if err != nil {
		return fmt.Errorf("update lead stage: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el lead. La FK de appointments.lead_id es ON DELETE SET NULL.
func (r *LeadRepo) Delete(ctx context.Context, companyID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM leads WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
