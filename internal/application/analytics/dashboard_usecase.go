// Package analytics contiene los casos de uso del dashboard comercial:
// resumen de leads, estadísticas por vendedor, vehículo y origen, y el reporte PDF.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/repository"
	"github.com/jhoicas/crm-veiculos/internal/domain/session"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

// ReportRenderer genera el PDF del dashboard.
type ReportRenderer interface {
	RenderDashboard(companyName string, generatedAt time.Time, d *dto.DashboardDTO) ([]byte, error)
}

// DashboardUseCase arma el dashboard de la empresa de la sesión.
//
// Fuente de datos: LeadRepository y AppointmentRepository (solo lectura).
type DashboardUseCase struct {
	leads        repository.LeadRepository
	appointments repository.AppointmentRepository
	companies    repository.CompanyRepository
	renderer     ReportRenderer
	now          func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	leads repository.LeadRepository,
	appointments repository.AppointmentRepository,
	companies repository.CompanyRepository,
	renderer ReportRenderer,
) *DashboardUseCase {
	return &DashboardUseCase{leads: leads, appointments: appointments, companies: companies, renderer: renderer, now: time.Now}
}

// PeriodStart inicio de la ventana para 7d, 30d o 90d. Cualquier otro valor no vacío
// equivale a 30d; vacío devuelve el instante cero (sin límite).
func PeriodStart(period string, now time.Time) time.Time {
	switch period {
	case "":
		return time.Time{}
	case "7d":
		return now.AddDate(0, 0, -7)
	case "90d":
		return now.AddDate(0, 0, -90)
	default:
		return now.AddDate(0, 0, -30)
	}
}

// GetSummary resumen sin filtros.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.LeadStatsDTO, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	leads, err := uc.leads.ListByCompany(ctx, sess.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("analytics: leads: %w", err)
	}
	out := Summary(leads)
	return &out, nil
}

// GetDashboard dashboard completo con filtros.
//
// Dos consultas en paralelo:
//  1. ListFiltered(filtros)   → estadísticas de leads
//  2. CountByStatus           → agendamientosPorStatus
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, f dto.DashboardFilter) (*dto.DashboardDTO, error) {
	sess, err := session.Require(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	filter := entity.LeadFilter{
		Salesperson: f.Salesperson,
		Origin:      f.Origin,
		Since:       PeriodStart(f.Period, now),
	}

	var (
		leads  []*entity.Lead
		counts map[stage.AppointmentStatus]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leads, err = uc.leads.ListFiltered(gctx, sess.CompanyID, filter)
		if err != nil {
			return fmt.Errorf("analytics: leads: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		counts, err = uc.appointments.CountByStatus(gctx, sess.CompanyID)
		if err != nil {
			return fmt.Errorf("analytics: agendamientos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := Build(leads, now)
	for _, s := range stage.Appointments.Values() {
		out.AppointmentsByStatus[s.String()] = counts[s]
	}
	return out, nil
}

// GetReport PDF del dashboard con los mismos filtros.
func (uc *DashboardUseCase) GetReport(ctx context.Context, f dto.DashboardFilter) ([]byte, error) {
	d, err := uc.GetDashboard(ctx, f)
	if err != nil {
		return nil, err
	}
	sess, _ := session.FromContext(ctx)
	var name string
	if c, err := uc.companies.GetByID(ctx, sess.CompanyID); err == nil && c != nil {
		name = c.Name
	}
	return uc.renderer.RenderDashboard(name, uc.now(), d)
}
