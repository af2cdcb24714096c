package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

// AppointmentRepo implementación del puerto AppointmentRepository sobre PostgreSQL.
type AppointmentRepo struct {
	q Querier
}

// NewAppointmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAppointmentRepository(q Querier) *AppointmentRepo {
	return &AppointmentRepo{q: q}
}

const appointmentColumns = `a.id, a.company_id, a.lead_id, a.title, a.description, a.scheduled_at,
	a.salesperson_id, a.status, a.type, a.location, a.auto_created, a.created_at, a.updated_at`

// viewSelect agendamiento con nombre y contacto del lead y nombre del vendedor.
const viewSelect = `SELECT ` + appointmentColumns + `,
	COALESCE(l.name, ''), COALESCE(l.phone, ''), COALESCE(l.email, ''), COALESCE(s.name, '')
	FROM appointments a
	LEFT JOIN leads l ON l.id = a.lead_id
	LEFT JOIN salespeople s ON s.id = a.salesperson_id`

func appointmentDest(a *entity.Appointment, leadID, salespersonID **string, status *string) []any {
	return []any{
		&a.ID, &a.CompanyID, leadID, &a.Title, &a.Description, &a.ScheduledAt,
		salespersonID, status, &a.Type, &a.Location, &a.AutoCreated, &a.CreatedAt, &a.UpdatedAt,
	}
}

func finishAppointment(a *entity.Appointment, leadID, salespersonID *string, status string) error {
	s, err := stage.Appointments.Parse(status)
	if err != nil {
		return fmt.Errorf("agendamento %s: %w", a.ID, err)
	}
	a.Status = s
	a.LeadID = deref(leadID)
	a.SalespersonID = deref(salespersonID)
	return nil
}

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var (
		a                     entity.Appointment
		leadID, salespersonID *string
		status                string
	)
	if err := row.Scan(appointmentDest(&a, &leadID, &salespersonID, &status)...); err != nil {
		return nil, err
	}
	if err := finishAppointment(&a, leadID, salespersonID, status); err != nil {
		return nil, err
	}
	return &a, nil
}

func scanAppointmentView(row pgx.Row) (*entity.AppointmentView, error) {
	var (
		v                     entity.AppointmentView
		leadID, salespersonID *string
		status                string
	)
	dest := append(appointmentDest(&v.Appointment, &leadID, &salespersonID, &status),
		&v.LeadName, &v.LeadPhone, &v.LeadEmail, &v.SalespersonName)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := finishAppointment(&v.Appointment, leadID, salespersonID, status); err != nil {
		return nil, err
	}
	return &v, nil
}

func appointmentArgs(a *entity.Appointment) []any {
	return []any{
		a.ID, a.CompanyID, nullable(a.LeadID), a.Title, a.Description, a.ScheduledAt,
		nullable(a.SalespersonID), a.Status.String(), a.Type, a.Location, a.AutoCreated, a.CreatedAt, a.UpdatedAt,
	}
}

const appointmentInsert = `
	INSERT INTO appointments (id, company_id, lead_id, title, description, scheduled_at,
		salesperson_id, status, type, location, auto_created, created_at, updated_at)`

// Create persiste un nuevo agendamiento.
func (r *AppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	query := appointmentInsert + ` VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.q.Exec(ctx, query, appointmentArgs(a)...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// CreateForLeadIfAbsent inserta solo si el lead no tiene agendamientos. El índice único
// parcial appointments_auto_lead_uniq cubre la carrera entre dos transiciones simultáneas.
func (r *AppointmentRepo) CreateForLeadIfAbsent(ctx context.Context, a *entity.Appointment) (bool, error) {
	query := appointmentInsert + `
		SELECT $1::uuid, $2::uuid, $3::uuid, $4::text, $5::text, $6::timestamptz, $7::uuid,
			$8::text, $9::text, $10::text, $11::boolean, $12::timestamptz, $13::timestamptz
		WHERE NOT EXISTS (SELECT 1 FROM appointments WHERE lead_id = $3::uuid)
		ON CONFLICT (lead_id) WHERE auto_created DO NOTHING`
	cmd, err := r.q.Exec(ctx, query, appointmentArgs(a)...)
	if err != nil {
		return false, fmt.Errorf("insert derived appointment: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// GetByID obtiene un agendamiento de la empresa.
func (r *AppointmentRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Appointment, error) {
	return r.get(ctx, `SELECT `+appointmentColumns+` FROM appointments a WHERE a.id = $1 AND a.company_id = $2`, companyID, id)
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *AppointmentRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Appointment, error) {
	return r.get(ctx, `SELECT `+appointmentColumns+` FROM appointments a WHERE a.id = $1 AND a.company_id = $2 FOR UPDATE`, companyID, id)
}

func (r *AppointmentRepo) get(ctx context.Context, query, companyID, id string) (*entity.Appointment, error) {
	a, err := scanAppointment(r.q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// GetView obtiene el agendamiento enriquecido.
func (r *AppointmentRepo) GetView(ctx context.Context, companyID, id string) (*entity.AppointmentView, error) {
	v, err := scanAppointmentView(r.q.QueryRow(ctx, viewSelect+` WHERE a.id = $1 AND a.company_id = $2`, id, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment view: %w", err)
	}
	return v, nil
}

// ListByCompany lista los agendamientos de la empresa, más recientes primero.
func (r *AppointmentRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.AppointmentView, error) {
	return r.list(ctx, viewSelect+` WHERE a.company_id = $1 ORDER BY a.created_at DESC`, companyID)
}

// ListByLead lista los agendamientos de un lead.
func (r *AppointmentRepo) ListByLead(ctx context.Context, companyID, leadID string) ([]*entity.AppointmentView, error) {
	return r.list(ctx, viewSelect+` WHERE a.company_id = $1 AND a.lead_id = $2 ORDER BY a.created_at DESC`, companyID, leadID)
}

func (r *AppointmentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.AppointmentView, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()
	var list []*entity.AppointmentView
	for rows.Next() {
		v, err := scanAppointmentView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables del agendamiento.
// status, lead_id y auto_created no se escriben: el status solo cambia vía UpdateStatus.
func (r *AppointmentRepo) Update(ctx context.Context, a *entity.Appointment) error {
	query := `
		UPDATE appointments SET title = $3, description = $4, scheduled_at = $5,
			salesperson_id = $6, type = $7, location = $8, updated_at = $9
		WHERE id = $1 AND company_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		a.ID, a.CompanyID, a.Title, a.Description, a.ScheduledAt,
		nullable(a.SalespersonID), a.Type, a.Location, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus cambia el estado del agendamiento.
func (r *AppointmentRepo) UpdateStatus(ctx context.Context, companyID, id string, s stage.AppointmentStatus, at time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE appointments SET status = $3, updated_at = $4 WHERE id = $1 AND company_id = $2`,
		id, companyID, s.String(), at,
	)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un agendamiento.
func (r *AppointmentRepo) Delete(ctx context.Context, companyID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM appointments WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByStatus cantidad de agendamientos de la empresa por estado.
func (r *AppointmentRepo) CountByStatus(ctx context.Context, companyID string) (map[stage.AppointmentStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, count(*) FROM appointments WHERE company_id = $1 GROUP BY status`, companyID)
	if err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}
	defer rows.Close()
	out := make(map[stage.AppointmentStatus]int)
	for rows.Next() {
		var (
			code string
			n    int
		)
		if err := rows.Scan(&code, &n); err != nil {
			return nil, fmt.Errorf("scan appointment count: %w", err)
		}
		s, err := stage.Appointments.Parse(code)
		if err != nil {
			return nil, err
		}
		out[s] = n
	}
	return out, rows.Err()
}
