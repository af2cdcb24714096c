package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/domain"
)

func fakeAPI(t *testing.T, moveStatus int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/leads":
			_ = json.NewEncoder(w).Encode([]dto.LeadResponse{
				{ID: "l1", Name: "João", Stage: "oportunidade"},
				{ID: "l2", Name: "Maria", Stage: "fechado"},
			})
		case r.Method == http.MethodPatch && r.URL.Path == "/api/leads/l1/estagio":
			w.WriteHeader(moveStatus)
			if moveStatus != http.StatusOK {
				_ = json.NewEncoder(w).Encode(dto.TransitionResponse{Code: "PERSISTENCE_ERROR", Retryable: true})
				return
			}
			_ = json.NewEncoder(w).Encode(dto.TransitionResponse{Success: true, From: "oportunidade", To: "em_negociacao"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLeadsBoard_Columnas(t *testing.T) {
	srv := fakeAPI(t, http.StatusOK)
	out, err := run(t, "leads", "board", "--api", srv.URL, "--token", "tok")
	require.NoError(t, err)
	assert.Contains(t, out, "Oportunidade")
	assert.Contains(t, out, "Fechado")
	assert.Contains(t, out, "João")
	assert.Contains(t, out, "Maria")
}

func TestLeadsMove_Confirmado(t *testing.T) {
	srv := fakeAPI(t, http.StatusOK)
	out, err := run(t, "leads", "move", "l1", "em_negociacao", "--api", srv.URL, "--token", "tok")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ João")
}

func TestLeadsMove_Revertido(t *testing.T) {
	srv := fakeAPI(t, http.StatusServiceUnavailable)
	out, err := run(t, "leads", "move", "l1", "em_negociacao", "--api", srv.URL, "--token", "tok")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Contains(t, out, "↺ João")
}

func TestLeadsMove_EtapaInvalida(t *testing.T) {
	srv := fakeAPI(t, http.StatusOK)
	_, err := run(t, "leads", "move", "l1", "ganho", "--api", srv.URL, "--token", "tok")
	assert.ErrorIs(t, err, domain.ErrInvalidStage)
}
