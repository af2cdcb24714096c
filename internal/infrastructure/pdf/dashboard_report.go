// Package pdf genera el reporte del dashboard comercial en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa              │  Relatório + data           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMO: Leads / Conversão / Valor total / Ticket médio     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELAS: Estágios | Vendedores | Veículos | Origens        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  AGENDAMENTOS por status                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/crm-veiculos/internal/application/analytics"
	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
	"github.com/jhoicas/crm-veiculos/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var brt = time.FixedZone("BRT", -3*60*60)

var _ analytics.ReportRenderer = (*DashboardReport)(nil)

// DashboardReport implementa analytics.ReportRenderer usando Maroto v2.
type DashboardReport struct{}

// NewDashboardReport construye el generador.
func NewDashboardReport() *DashboardReport { return &DashboardReport{} }

// RenderDashboard genera el PDF y devuelve sus bytes.
func (g *DashboardReport) RenderDashboard(companyName string, generatedAt time.Time, d *dto.DashboardDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Relatório comercial", true).
		WithAuthor(companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(companyName, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(d))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	stageRows := make([][]string, 0, len(d.StageSummary))
	for _, s := range d.StageSummary {
		stageRows = append(stageRows, []string{s.Label, strconv.Itoa(s.Count), s.Percentage + "%"})
	}
	m.AddRows(table("Leads por estágio", []string{"Estágio", "Quantidade", "Percentual"}, stageRows)...)

	spRows := make([][]string, 0, len(d.SalespersonStats))
	for _, s := range d.SalespersonStats {
		spRows = append(spRows, []string{s.Salesperson, strconv.Itoa(s.TotalLeads), strconv.Itoa(s.ClosedLeads), rate(s.ConversionRate), money.FormatBRL(s.TotalValue)})
	}
	m.AddRows(table("Desempenho por vendedor", []string{"Vendedor", "Leads", "Fechados", "Conversão", "Valor total"}, spRows)...)

	vRows := make([][]string, 0, len(d.VehicleStats))
	for _, v := range d.VehicleStats {
		vRows = append(vRows, []string{v.Vehicle, strconv.Itoa(v.TotalInterest), strconv.Itoa(v.ClosedLeads), rate(v.ConversionRate), money.FormatBRL(v.TotalValue)})
	}
	m.AddRows(table("Interesse por veículo", []string{"Veículo", "Interesse", "Fechados", "Conversão", "Valor total"}, vRows)...)

	oRows := make([][]string, 0, len(d.OriginStats))
	for _, o := range d.OriginStats {
		oRows = append(oRows, []string{o.Origin, strconv.Itoa(o.TotalLeads), strconv.Itoa(o.ClosedLeads), rate(o.ConversionRate), money.FormatBRL(o.TotalValue)})
	}
	m.AddRows(table("Desempenho por origem", []string{"Origem", "Leads", "Fechados", "Conversão", "Valor total"}, oRows)...)

	m.AddRows(table("Agendamentos por status", []string{"Status", "Quantidade"}, appointmentRows(d.AppointmentsByStatus))...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(companyName string, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(nonEmpty(companyName, "—"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("RELATÓRIO COMERCIAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Gerado em "+generatedAt.In(brt).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// summaryRow: cuatro indicadores principales.
func summaryRow(d *dto.DashboardDTO) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Align: align.Center, Color: colorPrimary}),
		)
	}
	return row.New(16).Add(
		kpi("Total de leads", strconv.Itoa(d.TotalLeads)),
		kpi("Conversão", d.Conversion+"%"),
		kpi("Valor total", money.FormatBRL(d.TotalValue)),
		kpi("Ticket médio", money.FormatBRL(d.AverageValue)),
	)
}

// table título, cabecera y filas. Sin filas se imprime "Sem dados".
func table(title string, headers []string, rows [][]string) []core.Row {
	sizes := colSizes(len(headers))
	out := []core.Row{
		row.New(4),
		row.New(7).Add(col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
		}))),
	}

	hdr := row.New(6)
	for i, h := range headers {
		hdr.Add(col.New(sizes[i]).Add(text.New(h, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: cellAlign(i), Top: 1, Left: 1, Right: 1,
		})))
	}
	out = append(out, hdr, line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))

	if len(rows) == 0 {
		out = append(out, row.New(6).Add(col.New(12).Add(text.New("Sem dados", props.Text{
			Size: 8, Color: colorGray, Top: 1, Left: 1,
		}))))
		return out
	}
	for _, r := range rows {
		cells := row.New(6)
		for i, cell := range r {
			cells.Add(col.New(sizes[i]).Add(text.New(cell, props.Text{
				Size: 8, Align: cellAlign(i), Top: 1, Left: 1, Right: 1,
			})))
		}
		out = append(out, cells)
	}
	return out
}

// appointmentRows en el orden del registro de estados; los desconocidos al final.
func appointmentRows(counts map[string]int) [][]string {
	rows := make([][]string, 0, len(counts))
	seen := make(map[string]bool, len(counts))
	for _, st := range stage.Appointments.Values() {
		seen[st.String()] = true
		rows = append(rows, []string{st.Label(), strconv.Itoa(counts[st.String()])})
	}
	var rest []string
	for k := range counts {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		rows = append(rows, []string{k, strconv.Itoa(counts[k])})
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// colSizes reparte las 12 columnas de la grilla; la primera se lleva el resto.
func colSizes(n int) []int {
	sizes := make([]int, n)
	if n == 0 {
		return sizes
	}
	each := 12 / n
	for i := range sizes {
		sizes[i] = each
	}
	sizes[0] += 12 - each*n
	return sizes
}

func cellAlign(i int) align.Type {
	if i == 0 {
		return align.Left
	}
	return align.Right
}

func rate(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
