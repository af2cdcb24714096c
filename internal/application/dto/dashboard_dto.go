package dto

import "github.com/shopspring/decimal"

// DashboardFilter filtros opcionales del dashboard (query string).
type DashboardFilter struct {
	Salesperson string `query:"vendedor"`
	Origin      string `query:"origem"`
	Period      string `query:"periodo"` // 7d | 30d | 90d; otro valor = 30d; vacío = sin límite
}

// LeadStatsDTO resumen simple por empresa.
type LeadStatsDTO struct {
	TotalLeads    int             `json:"totalLeads"`
	LeadsByStage  map[string]int  `json:"leadsPorEstagio"`
	LeadsByOrigin map[string]int  `json:"leadsPorOrigem"`
	Conversion    string          `json:"conversao"` // % de fechados con 1 decimal
	TotalValue    decimal.Decimal `json:"valorTotal"`
	AverageValue  decimal.Decimal `json:"valorMedio"`
}

// SalespersonStatsDTO desempeño por vendedor.
type SalespersonStatsDTO struct {
	Salesperson    string          `json:"vendedor"`
	TotalLeads     int             `json:"total_leads"`
	ClosedLeads    int             `json:"leads_fechados"`
	ConversionRate float64         `json:"taxa_conversao"`
	TotalValue     decimal.Decimal `json:"valor_total"`
	AverageValue   decimal.Decimal `json:"valor_medio"`
	LeadsByStage   map[string]int  `json:"leads_por_estagio"`
}

// VehicleStatsDTO interés por vehículo.
type VehicleStatsDTO struct {
	Vehicle        string          `json:"veiculo"`
	TotalInterest  int             `json:"total_interesse"`
	ClosedLeads    int             `json:"leads_fechados"`
	ConversionRate float64         `json:"taxa_conversao"`
	TotalValue     decimal.Decimal `json:"valor_total"`
	AverageValue   decimal.Decimal `json:"valor_medio"`
}

// OriginStatsDTO desempeño por origen.
type OriginStatsDTO struct {
	Origin         string          `json:"origem"`
	TotalLeads     int             `json:"total_leads"`
	ClosedLeads    int             `json:"leads_fechados"`
	ConversionRate float64         `json:"taxa_conversao"`
	TotalValue     decimal.Decimal `json:"valor_total"`
	AverageValue   decimal.Decimal `json:"valor_medio"`
}

// StageSummaryDTO cantidad y porcentaje por etapa.
type StageSummaryDTO struct {
	Stage      string `json:"estagio"`
	Label      string `json:"label"`
	Count      int    `json:"quantidade"`
	Percentage string `json:"percentual"`
}

// StageEvolutionDTO cantidad de leads creados en el día, por etapa actual.
type StageEvolutionDTO struct {
	Date        string `json:"data"` // dd/MM
	Opportunity int    `json:"oportunidade"`
	Qualifying  int    `json:"em_qualificacao"`
	Negotiating int    `json:"em_negociacao"`
	FollowUp    int    `json:"follow_up"`
	Closed      int    `json:"fechado"`
	NotClosed   int    `json:"nao_fechou"`
}

// DashboardDTO dashboard completo con filtros aplicados.
type DashboardDTO struct {
	LeadStatsDTO
	SalespersonStats     []SalespersonStatsDTO `json:"vendedorStats"`
	VehicleStats         []VehicleStatsDTO     `json:"veiculoStats"`
	OriginStats          []OriginStatsDTO      `json:"origemStats"`
	StageSummary         []StageSummaryDTO     `json:"estagioResumo"`
	StageEvolution       []StageEvolutionDTO   `json:"estagioEvolution"`
	AvailableSalespeople []string              `json:"availableVendedores"`
	AvailableOrigins     []string              `json:"availableOrigens"`
	AppointmentsByStatus map[string]int        `json:"agendamentosPorStatus"`
}
