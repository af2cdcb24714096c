// Package money convierte valores en reales (BRL) entre texto y decimal.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/crm-veiculos/internal/domain"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formatea un valor como moneda brasileña, ej: "R$ 1.234,56".
func FormatBRL(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	return sign + "R$ " + printer.Sprintf("%.2f", v.Round(2).InexactFloat64())
}

// ParseBRL interpreta un valor monetario escrito por el usuario.
//
// Reglas:
//   - se descartan símbolos y espacios ("R$ 1.234,56" → 1234.56);
//   - con coma, la coma es el separador decimal y los puntos son de miles;
//   - sin coma y con varios puntos, todos son de miles ("1.234.567");
//   - un único punto seguido de más de dos dígitos es de miles ("1.500" → 1500).
//
// Texto vacío devuelve cero.
func ParseBRL(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" {
		return decimal.Zero, nil
	}

	switch {
	case strings.Contains(clean, ","):
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case strings.Count(clean, ".") > 1:
		clean = strings.ReplaceAll(clean, ".", "")
	case strings.Contains(clean, "."):
		parts := strings.SplitN(clean, ".", 2)
		if len(parts[1]) > 2 {
			clean = parts[0] + parts[1]
		}
	}

	v, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: valor monetario %q", domain.ErrInvalidInput, raw)
	}
	return v, nil
}
