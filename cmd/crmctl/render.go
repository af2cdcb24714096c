package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jhoicas/crm-veiculos/internal/application/board"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
)

// Colores ANSI por nombre de color de etapa.
var palette = map[string]lipgloss.Color{
	"blue":    lipgloss.Color("33"),
	"yellow":  lipgloss.Color("220"),
	"green":   lipgloss.Color("34"),
	"purple":  lipgloss.Color("135"),
	"emerald": lipgloss.Color("36"),
	"red":     lipgloss.Color("196"),
	"orange":  lipgloss.Color("208"),
	"indigo":  lipgloss.Color("63"),
	"cyan":    lipgloss.Color("44"),
}

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(24)
)

// renderBoard dibuja una columna por etapa del registro, en orden.
func renderBoard[S stage.Stage](reg *stage.Registry[S], cards []board.Card[S]) string {
	byStage := make(map[S][]board.Card[S])
	for _, c := range cards {
		byStage[c.Stage] = append(byStage[c.Stage], c)
	}

	columns := make([]string, 0, len(reg.Values()))
	for _, s := range reg.Values() {
		info := s.Info()
		color := palette[info.Color]
		header := lipgloss.NewStyle().Foreground(color).Bold(true).Render(info.Label)

		var b strings.Builder
		b.WriteString(header)
		b.WriteString("\n")
		if len(byStage[s]) == 0 {
			b.WriteString(mutedStyle.Render("vazio"))
		}
		for _, c := range byStage[s] {
			b.WriteString("\n")
			b.WriteString(cardLine(c))
		}
		columns = append(columns, columnStyle.BorderForeground(color).Render(b.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func cardLine[S stage.Stage](c board.Card[S]) string {
	line := c.Title
	switch c.State {
	case board.Committed:
		line = okStyle.Render("✓ ") + line
	case board.RolledBack:
		line = errorStyle.Render("↺ ") + line
	case board.Pending:
		line = mutedStyle.Render("… ") + line
	}
	return line
}
