package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/pkg/money"
)

func TestParseBRL(t *testing.T) {
	cases := map[string]string{
		"R$ 1.234,56":  "1234.56",
		"1234,5":       "1234.5",
		"1.234.567":    "1234567",
		"1.500":        "1500",
		"1500.75":      "1500.75",
		"85000":        "85000",
		"R$ 85.000,00": "85000",
		"":             "0",
		"R$":           "0",
	}
	for in, want := range cases {
		got, err := money.ParseBRL(in)
		require.NoError(t, err, in)
		assert.True(t, decimal.RequireFromString(want).Equal(got), "%q: esperado %s, obtenido %s", in, want, got)
	}
}

func TestParseBRL_Invalido(t *testing.T) {
	_, err := money.ParseBRL("1,2,3")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$ 1.234,50", money.FormatBRL(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "R$ 0,00", money.FormatBRL(decimal.Zero))
	assert.Equal(t, "-R$ 10,00", money.FormatBRL(decimal.NewFromInt(-10)))
}
