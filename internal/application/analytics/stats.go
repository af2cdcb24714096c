package analytics

import (
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

// evolutionDays ventana del gráfico de evolución, terminando hoy.
const evolutionDays = 30

// brasilia zona usada para agrupar leads por día de creación.
var brasilia = time.FixedZone("BRT", -3*60*60)

var hundred = decimal.NewFromInt(100)

// Summary totales básicos de un conjunto de leads.
func Summary(leads []*entity.Lead) dto.LeadStatsDTO {
	out := dto.LeadStatsDTO{
		TotalLeads:    len(leads),
		LeadsByStage:  make(map[string]int),
		LeadsByOrigin: make(map[string]int),
		Conversion:    "0",
		TotalValue:    decimal.Zero,
		AverageValue:  decimal.Zero,
	}
	closed := 0
	for _, l := range leads {
		out.LeadsByStage[l.Stage.String()]++
		if l.Origin != "" {
			out.LeadsByOrigin[l.Origin]++
		}
		if l.Stage == stage.LeadClosed {
			closed++
		}
		out.TotalValue = out.TotalValue.Add(valueOf(l))
	}
	if len(leads) > 0 {
		out.Conversion = percent(closed, len(leads))
		out.AverageValue = out.TotalValue.DivRound(decimal.NewFromInt(int64(len(leads))), 2)
	}
	return out
}

// Build arma el dashboard completo sobre leads ya filtrados.
func Build(leads []*entity.Lead, now time.Time) *dto.DashboardDTO {
	out := &dto.DashboardDTO{
		LeadStatsDTO:         Summary(leads),
		SalespersonStats:     salespersonStats(leads),
		VehicleStats:         vehicleStats(leads),
		OriginStats:          originStats(leads),
		StageSummary:         stageSummary(leads),
		StageEvolution:       stageEvolution(leads, now),
		AvailableSalespeople: distinct(leads, func(l *entity.Lead) string { return l.Salesperson }),
		AvailableOrigins:     distinct(leads, func(l *entity.Lead) string { return l.Origin }),
		AppointmentsByStatus: make(map[string]int),
	}
	return out
}

// group acumulador común a vendedor, vehículo y origen.
type group struct {
	key     string
	total   int
	closed  int
	value   decimal.Decimal
	byStage map[string]int
}

func (g *group) rate() float64 {
	if g.total == 0 {
		return 0
	}
	return float64(g.closed) / float64(g.total) * 100
}

func (g *group) average() decimal.Decimal {
	if g.total == 0 {
		return decimal.Zero
	}
	return g.value.DivRound(decimal.NewFromInt(int64(g.total)), 2)
}

// groupBy agrupa por la clave devuelta; claves vacías se ignoran.
// El resultado va ordenado por total desc y clave asc.
func groupBy(leads []*entity.Lead, key func(*entity.Lead) string) []*group {
	idx := make(map[string]*group)
	for _, l := range leads {
		k := key(l)
		if k == "" {
			continue
		}
		g, ok := idx[k]
		if !ok {
			g = &group{key: k, value: decimal.Zero, byStage: make(map[string]int)}
			idx[k] = g
		}
		g.total++
		if l.Stage == stage.LeadClosed {
			g.closed++
		}
		g.value = g.value.Add(valueOf(l))
		g.byStage[l.Stage.String()]++
	}
	out := make([]*group, 0, len(idx))
	for _, g := range idx {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].total != out[j].total {
			return out[i].total > out[j].total
		}
		return out[i].key < out[j].key
	})
	return out
}

func salespersonStats(leads []*entity.Lead) []dto.SalespersonStatsDTO {
	groups := groupBy(leads, func(l *entity.Lead) string { return l.Salesperson })
	out := make([]dto.SalespersonStatsDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.SalespersonStatsDTO{
			Salesperson:    g.key,
			TotalLeads:     g.total,
			ClosedLeads:    g.closed,
			ConversionRate: g.rate(),
			TotalValue:     g.value,
			AverageValue:   g.average(),
			LeadsByStage:   g.byStage,
		})
	}
	return out
}

func vehicleStats(leads []*entity.Lead) []dto.VehicleStatsDTO {
	groups := groupBy(leads, func(l *entity.Lead) string { return l.VehicleOfInterest })
	out := make([]dto.VehicleStatsDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.VehicleStatsDTO{
			Vehicle:        g.key,
			TotalInterest:  g.total,
			ClosedLeads:    g.closed,
			ConversionRate: g.rate(),
			TotalValue:     g.value,
			AverageValue:   g.average(),
		})
	}
	return out
}

func originStats(leads []*entity.Lead) []dto.OriginStatsDTO {
	groups := groupBy(leads, func(l *entity.Lead) string { return l.Origin })
	out := make([]dto.OriginStatsDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, dto.OriginStatsDTO{
			Origin:         g.key,
			TotalLeads:     g.total,
			ClosedLeads:    g.closed,
			ConversionRate: g.rate(),
			TotalValue:     g.value,
			AverageValue:   g.average(),
		})
	}
	return out
}

// stageSummary etapas con al menos un lead, en el orden del registro.
func stageSummary(leads []*entity.Lead) []dto.StageSummaryDTO {
	counts := make(map[stage.LeadStage]int)
	for _, l := range leads {
		counts[l.Stage]++
	}
	var out []dto.StageSummaryDTO
	for _, s := range stage.Leads.Values() {
		n := counts[s]
		if n == 0 {
			continue
		}
		out = append(out, dto.StageSummaryDTO{
			Stage:      s.String(),
			Label:      s.Label(),
			Count:      n,
			Percentage: percent(n, len(leads)),
		})
	}
	return out
}

func stageEvolution(leads []*entity.Lead, now time.Time) []dto.StageEvolutionDTO {
	today := now.In(brasilia)
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, brasilia).AddDate(0, 0, -(evolutionDays - 1))

	out := make([]dto.StageEvolutionDTO, evolutionDays)
	for i := range out {
		out[i].Date = start.AddDate(0, 0, i).Format("02/01")
	}
	for _, l := range leads {
		created := l.CreatedAt.In(brasilia)
		day := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, brasilia)
		i := int(day.Sub(start).Hours() / 24)
		if i < 0 || i >= evolutionDays {
			continue
		}
		switch l.Stage {
		case stage.LeadOpportunity:
			out[i].Opportunity++
		case stage.LeadQualifying:
			out[i].Qualifying++
		case stage.LeadNegotiating:
			out[i].Negotiating++
		case stage.LeadFollowUp:
			out[i].FollowUp++
		case stage.LeadClosed:
			out[i].Closed++
		case stage.LeadNotClosed:
			out[i].NotClosed++
		}
	}
	return out
}

func distinct(leads []*entity.Lead, key func(*entity.Lead) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, l := range leads {
		k := key(l)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func valueOf(l *entity.Lead) decimal.Decimal {
	if l.Value == nil {
		return decimal.Zero
	}
	return *l.Value
}

// percent n/total*100 con un decimal; "0" si total es cero.
func percent(n, total int) string {
	if total == 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(n)/float64(total)*100, 'f', 1, 64)
}
