package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
)

var (
	_ repository.VehicleRepository     = (*VehicleRepo)(nil)
	_ repository.SalespersonRepository = (*SalespersonRepo)(nil)
)

// VehicleRepo estoque de vehículos sobre PostgreSQL.
type VehicleRepo struct {
	q Querier
}

// NewVehicleRepository construye el adaptador.
func NewVehicleRepository(q Querier) *VehicleRepo {
	return &VehicleRepo{q: q}
}

// Create persiste un vehículo.
func (r *VehicleRepo) Create(ctx context.Context, v *entity.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, company_id, brand, model, year, color, fuel, mileage, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.CompanyID, v.Brand, v.Model, v.Year, v.Color, v.Fuel, v.Mileage, v.Status, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert vehicle: %w", err)
	}
	return nil
}

// ListByCompany estoque de la empresa, más recientes primero.
func (r *VehicleRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Vehicle, error) {
	query := `
		SELECT id, company_id, brand, model, year, color, fuel, mileage, status, created_at, updated_at
		FROM vehicles WHERE company_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Vehicle
	for rows.Next() {
		var v entity.Vehicle
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Brand, &v.Model, &v.Year, &v.Color, &v.Fuel, &v.Mileage, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado (Disponível, Vendido).
func (r *VehicleRepo) UpdateStatus(ctx context.Context, companyID, id, status string, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE vehicles SET status = $3, updated_at = $4 WHERE id = $1 AND company_id = $2`,
		id, companyID, status, at,
	)
	if err != nil {
		return fmt.Errorf("update vehicle status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un vehículo del estoque.
func (r *VehicleRepo) Delete(ctx context.Context, companyID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM vehicles WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete vehicle: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SalespersonRepo vendedores sobre PostgreSQL.
type SalespersonRepo struct {
	q Querier
}

// NewSalespersonRepository construye el adaptador.
func NewSalespersonRepository(q Querier) *SalespersonRepo {
	return &SalespersonRepo{q: q}
}

// Create persiste un vendedor.
func (r *SalespersonRepo) Create(ctx context.Context, s *entity.Salesperson) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO salespeople (id, company_id, name, phone, position) VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.CompanyID, s.Name, s.Phone, s.Position,
	)
	if err != nil {
		return fmt.Errorf("insert salesperson: %w", err)
	}
	return nil
}

// GetByID obtiene un vendedor de la empresa.
func (r *SalespersonRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Salesperson, error) {
	var s entity.Salesperson
	err := r.q.QueryRow(ctx,
		`SELECT id, company_id, name, phone, position FROM salespeople WHERE id = $1 AND company_id = $2`,
		id, companyID,
	).Scan(&s.ID, &s.CompanyID, &s.Name, &s.Phone, &s.Position)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get salesperson: %w", err)
	}
	return &s, nil
}

// ListByCompany vendedores de la empresa por nombre.
func (r *SalespersonRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Salesperson, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, company_id, name, phone, position FROM salespeople WHERE company_id = $1 ORDER BY name`,
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list salespeople: %w", err)
	}
	defer rows.Close()
	var list []*entity.Salesperson
	for rows.Next() {
		var s entity.Salesperson
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Name, &s.Phone, &s.Position); err != nil {
			return nil, fmt.Errorf("scan salesperson: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
