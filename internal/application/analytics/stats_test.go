package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-veiculos/internal/application/analytics"
	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/session"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/memory"
)

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func money(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func sampleLeads() []*entity.Lead {
	return []*entity.Lead{
		{ID: "1", Salesperson: "Ana", Origin: "site", VehicleOfInterest: "Onix", Stage: stage.LeadClosed, Value: money(80000), CreatedAt: now},
		{ID: "2", Salesperson: "Ana", Origin: "instagram", VehicleOfInterest: "Onix", Stage: stage.LeadNegotiating, Value: money(20000), CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "3", Salesperson: "Bruno", Origin: "site", VehicleOfInterest: "HB20", Stage: stage.LeadOpportunity, CreatedAt: now.AddDate(0, 0, -40)},
		{ID: "4", Origin: "", Stage: stage.LeadOpportunity, CreatedAt: now},
	}
}

func TestSummary(t *testing.T) {
	s := analytics.Summary(sampleLeads())

	assert.Equal(t, 4, s.TotalLeads)
	assert.Equal(t, map[string]int{"fechado": 1, "em_negociacao": 1, "oportunidade": 2}, s.LeadsByStage)
	assert.Equal(t, map[string]int{"site": 2, "instagram": 1}, s.LeadsByOrigin)
	assert.Equal(t, "25.0", s.Conversion)
	assert.True(t, decimal.NewFromInt(100000).Equal(s.TotalValue))
	assert.True(t, decimal.NewFromInt(25000).Equal(s.AverageValue))

	empty := analytics.Summary(nil)
	assert.Equal(t, "0", empty.Conversion)
	assert.True(t, empty.AverageValue.IsZero())
}

func TestBuild_Agrupaciones(t *testing.T) {
	d := analytics.Build(sampleLeads(), now)

	require.Len(t, d.SalespersonStats, 2, "leads sin vendedor no cuentan")
	ana := d.SalespersonStats[0]
	assert.Equal(t, "Ana", ana.Salesperson)
	assert.Equal(t, 2, ana.TotalLeads)
	assert.Equal(t, 1, ana.ClosedLeads)
	assert.InDelta(t, 50.0, ana.ConversionRate, 0.001)
	assert.True(t, decimal.NewFromInt(50000).Equal(ana.AverageValue))

	require.Len(t, d.VehicleStats, 2)
	assert.Equal(t, "Onix", d.VehicleStats[0].Vehicle)
	assert.Equal(t, 2, d.VehicleStats[0].TotalInterest)

	assert.Equal(t, []string{"Ana", "Bruno"}, d.AvailableSalespeople)
	assert.Equal(t, []string{"instagram", "site"}, d.AvailableOrigins)

	require.Len(t, d.StageSummary, 3)
	assert.Equal(t, "oportunidade", d.StageSummary[0].Stage)
	assert.Equal(t, "50.0", d.StageSummary[0].Percentage)
}

func TestBuild_Evolucion30Dias(t *testing.T) {
	d := analytics.Build(sampleLeads(), now)

	require.Len(t, d.StageEvolution, 30)
	last := d.StageEvolution[29]
	assert.Equal(t, "10/03", last.Date)
	assert.Equal(t, 1, last.Closed)
	assert.Equal(t, 1, last.Opportunity)
	assert.Equal(t, 1, d.StageEvolution[28].Negotiating)
	assert.Equal(t, "09/02", d.StageEvolution[0].Date)
}

func TestPeriodStart(t *testing.T) {
	assert.True(t, analytics.PeriodStart("", now).IsZero())
	assert.Equal(t, now.AddDate(0, 0, -7), analytics.PeriodStart("7d", now))
	assert.Equal(t, now.AddDate(0, 0, -90), analytics.PeriodStart("90d", now))
	assert.Equal(t, now.AddDate(0, 0, -30), analytics.PeriodStart("1y", now))
}

func TestGetDashboard_FiltrosYAgendamientos(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	recent := time.Now()
	for _, l := range sampleLeads() {
		l.CompanyID = "c1"
		l.CreatedAt = recent
		require.NoError(t, store.Leads().Create(ctx, l))
	}
	require.NoError(t, store.Appointments().Create(ctx, &entity.Appointment{
		ID: "a1", CompanyID: "c1", Title: "Visita", Status: stage.AppointmentConfirmed, CreatedAt: recent,
	}))

	uc := analytics.NewDashboardUseCase(store.Leads(), store.Appointments(), store.Companies(), nil)
	sctx := session.WithSession(ctx, session.Session{UserID: "u1", CompanyID: "c1", Role: entity.RoleGuest})

	d, err := uc.GetDashboard(sctx, dto.DashboardFilter{Salesperson: "Ana", Period: "7d"})
	require.NoError(t, err)
	assert.Equal(t, 2, d.TotalLeads)
	assert.Equal(t, 1, d.AppointmentsByStatus["Confirmado"])
	assert.Equal(t, 0, d.AppointmentsByStatus["Agendado"])

	_, err = uc.GetDashboard(ctx, dto.DashboardFilter{})
	assert.Error(t, err)
}
