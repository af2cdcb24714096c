package webhook_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-veiculos/internal/application/ports"
	"github.com/jhoicas/crm-veiculos/internal/domain/entity"
	"github.com/jhoicas/crm-veiculos/internal/domain/stage"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/webhook"
	"github.com/jhoicas/crm-veiculos/pkg/logger"
)

var at = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func sampleLead() *entity.Lead {
	v := decimal.RequireFromString("45900.5")
	return &entity.Lead{
		ID: "l1", CompanyID: "c1", Name: "Maria", Phone: "11999990000", Email: "maria@x.com",
		Origin: "site", Salesperson: "Ana", VehicleOfInterest: "Onix",
		QualificationSummary: "quer financiar", CommercialSummary: "proposta enviada",
		Stage: stage.LeadServiceSurvey, Value: &v, CreatedAt: at, UpdatedAt: at,
	}
}

type captured struct {
	headers http.Header
	body    map[string]any
}

func newServer(t *testing.T, status int) (*httptest.Server, <-chan captured) {
	t.Helper()
	ch := make(chan captured, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		ch <- captured{headers: r.Header.Clone(), body: body}
		w.WriteHeader(status)
		_, _ = w.Write([]byte("erro interno do fluxo"))
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

// ─── Payloads ────────────────────────────────────────────────────────────────

func TestBuild_PesquisaAtendimento(t *testing.T) {
	raw, err := webhook.Build(ports.Event{Type: ports.EventServiceSurvey, Lead: sampleLead(), OccurredAt: at})
	require.NoError(t, err)

	var p map[string]any
	require.NoError(t, json.Unmarshal(raw, &p))
	assert.Equal(t, "moved_to_pesquisa_atendimento", p["action"])
	assert.Equal(t, "Ana", p["nome_vendedor"])
	assert.Equal(t, "Maria", p["nome_lead"])
	assert.Equal(t, "pesquisa_atendimento", p["estagio_lead"])
	assert.Equal(t, 45900.5, p["valor"])
	assert.Equal(t, "2026-03-10T12:30:00.000-03:00", p["timestamp"])
	assert.Contains(t, p, "resumo_comercial")
}

func TestBuild_ResumoComercialSinAction(t *testing.T) {
	raw, err := webhook.Build(ports.Event{Type: ports.EventCommercialSummary, Lead: sampleLead(), OccurredAt: at})
	require.NoError(t, err)

	var p map[string]any
	require.NoError(t, json.Unmarshal(raw, &p))
	assert.NotContains(t, p, "action")
	assert.NotContains(t, p, "nome_vendedor")
	assert.Equal(t, "quer financiar", p["resumo_qualificacao"])
}

func TestBuild_MensagemOmiteResumos(t *testing.T) {
	l := sampleLead()
	l.Value = nil
	raw, err := webhook.Build(ports.Event{Type: ports.EventMessage, Lead: l, Message: "Olá!", OccurredAt: at})
	require.NoError(t, err)

	var p map[string]any
	require.NoError(t, json.Unmarshal(raw, &p))
	assert.Equal(t, "send_message", p["action"])
	assert.Equal(t, "Olá!", p["mensagem"])
	assert.NotContains(t, p, "resumo_qualificacao")
	assert.NotContains(t, p, "resumo_comercial")
	assert.Nil(t, p["valor"])
}

func TestBuild_Agendamento(t *testing.T) {
	v := &entity.AppointmentView{
		Appointment: entity.Appointment{ID: "a1", CompanyID: "c1", LeadID: "l1", Title: "Agendamento - Maria",
			Status: stage.AppointmentScheduled, Type: "visita", ScheduledAt: at, CreatedAt: at, UpdatedAt: at},
		LeadName: "Maria",
	}
	raw, err := webhook.Build(ports.Event{Type: ports.EventAppointmentSaved, Appointment: v, OccurredAt: at})
	require.NoError(t, err)

	var p map[string]any
	require.NoError(t, json.Unmarshal(raw, &p))
	assert.Equal(t, "agendamento_salvo", p["action"])
	assert.Equal(t, "Agendado", p["status"])
	assert.Equal(t, "2026-03-10T15:30:00.000Z", p["timestamp"])

	_, err = webhook.Build(ports.Event{Type: ports.EventAppointmentSaved})
	assert.Error(t, err)
}

// ─── Entrega ─────────────────────────────────────────────────────────────────

func TestDeliver_Headers(t *testing.T) {
	srv, ch := newServer(t, http.StatusOK)
	d := webhook.NewDispatcher(webhook.Endpoints{ports.EventFollowUp: srv.URL}, time.Second, logger.Nop())

	require.NoError(t, d.Deliver(context.Background(), ports.Event{Type: ports.EventFollowUp, Lead: sampleLead(), OccurredAt: at}))

	got := <-ch
	assert.Equal(t, "application/json", got.headers.Get("Content-Type"))
	assert.Equal(t, "application/json", got.headers.Get("Accept"))
	assert.Equal(t, webhook.UserAgent, got.headers.Get("User-Agent"))
	assert.Equal(t, "follow_up", got.body["action"])
}

func TestDeliver_StatusError(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadGateway)
	d := webhook.NewDispatcher(webhook.Endpoints{ports.EventFollowUp: srv.URL}, time.Second, logger.Nop())

	err := d.Deliver(context.Background(), ports.Event{Type: ports.EventFollowUp, Lead: sampleLead()})
	var serr *webhook.StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusBadGateway, serr.Status)
	assert.Equal(t, "erro interno do fluxo", serr.Body)
}

func TestDeliver_Observer(t *testing.T) {
	ok, _ := newServer(t, http.StatusOK)
	bad, _ := newServer(t, http.StatusInternalServerError)

	var got []string
	d := webhook.NewDispatcher(webhook.Endpoints{
		ports.EventFollowUp: ok.URL,
		ports.EventMessage:  bad.URL,
	}, time.Second, logger.Nop(), webhook.WithObserver(func(typ ports.EventType, outcome string) {
		got = append(got, string(typ)+":"+outcome)
	}))

	require.NoError(t, d.Deliver(context.Background(), ports.Event{Type: ports.EventFollowUp, Lead: sampleLead()}))
	require.Error(t, d.Deliver(context.Background(), ports.Event{Type: ports.EventMessage, Lead: sampleLead(), Message: "oi"}))

	assert.Equal(t, []string{"follow_up:delivered", "mensagem:status_error"}, got)
}

func TestDeliver_SinURL(t *testing.T) {
	d := webhook.NewDispatcher(webhook.Endpoints{}, time.Second, logger.Nop())
	err := d.Deliver(context.Background(), ports.Event{Type: ports.EventFollowUp, Lead: sampleLead()})
	assert.ErrorIs(t, err, webhook.ErrNoEndpoint)
}

func TestDeliver_Timeout(t *testing.T) {
	var once sync.Once
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		once.Do(func() { close(release) })
		srv.Close()
	})
	d := webhook.NewDispatcher(webhook.Endpoints{ports.EventFollowUp: srv.URL}, 50*time.Millisecond, logger.Nop())

	start := time.Now()
	err := d.Deliver(context.Background(), ports.Event{Type: ports.EventFollowUp, Lead: sampleLead()})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNotify_SobreviveCancelacionDelRequest(t *testing.T) {
	srv, ch := newServer(t, http.StatusOK)
	d := webhook.NewDispatcher(webhook.Endpoints{ports.EventServiceSurvey: srv.URL}, time.Second, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Notify(ctx, ports.Event{Type: ports.EventServiceSurvey, Lead: sampleLead(), OccurredAt: at})
	cancel()

	select {
	case got := <-ch:
		assert.Equal(t, "moved_to_pesquisa_atendimento", got.body["action"])
	case <-time.After(2 * time.Second):
		t.Fatal("el webhook no llegó")
	}
	require.NoError(t, d.Close(context.Background()))
}

func TestNotify_EndpointCaidoNoPropaga(t *testing.T) {
	d := webhook.NewDispatcher(webhook.Endpoints{ports.EventServiceSurvey: "http://127.0.0.1:1/down"}, time.Second, logger.Nop())
	d.Notify(context.Background(), ports.Event{Type: ports.EventServiceSurvey, Lead: sampleLead()})
	require.NoError(t, d.Close(context.Background()))
}
