package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-veiculos/internal/domain"
	"github.com/jhoicas/crm-veiculos/pkg/money"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ActionResponse resultado de una acción manual (webhooks de resumo, follow-up, mensagem).
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OptionalMoney valor monetario opcional en un body JSON.
// Acepta número, texto en formato BRL ("R$ 1.234,56") o null.
type OptionalMoney struct {
	Set   bool             // el campo vino en el body
	Value *decimal.Decimal // nil = null
}

// UnmarshalJSON implementa json.Unmarshaler.
func (m *OptionalMoney) UnmarshalJSON(b []byte) error {
	m.Set = true
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		m.Value = nil
		return nil
	}
	var v decimal.Decimal
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := money.ParseBRL(s)
		if err != nil {
			return err
		}
		v = parsed
	} else {
		parsed, err := decimal.NewFromString(string(b))
		if err != nil {
			return fmt.Errorf("%w: valor %s", domain.ErrInvalidInput, b)
		}
		v = parsed
	}
	m.Value = &v
	return nil
}
