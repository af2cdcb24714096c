package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/crm-veiculos/internal/application/auth"
	"github.com/jhoicas/crm-veiculos/internal/application/pipeline"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
)

var (
	_ pipeline.TxRunner = (*TxRunner)(nil)
	_ auth.TxRunner     = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunStageChange ejecuta fn con repos de leads, agendamientos e historial atados a la tx.
func (r *TxRunner) RunStageChange(ctx context.Context, fn func(
	leads repository.LeadRepository,
	appointments repository.AppointmentRepository,
	history repository.StageChangeRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewLeadRepository(tx), NewAppointmentRepository(tx), NewStageChangeRepository(tx))
	})
}

// RunAccount ejecuta fn con repos de empresas y usuarios (registro de cuenta).
func (r *TxRunner) RunAccount(ctx context.Context, fn func(
	companies repository.CompanyRepository,
	users repository.UserRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewCompanyRepository(tx), NewUserRepository(tx))
	})
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
