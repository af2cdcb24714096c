package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/crm-veiculos/internal/application/analytics"
	"github.com/jhoicas/crm-veiculos/internal/application/auth"
	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/application/pipeline"
	"github.com/jhoicas/crm-veiculos/internal/application/ports"
	"github.com/jhoicas/crm-veiculos/internal/application/usecase"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/memory"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/metrics"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/crm-veiculos/internal/interfaces/http"
	"github.com/jhoicas/crm-veiculos/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// App completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu     sync.Mutex
	events []ports.EventType
}

func (n *recordingNotifier) Notify(_ context.Context, ev ports.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev.Type)
}

func (n *recordingNotifier) Deliver(ctx context.Context, ev ports.Event) error {
	n.Notify(ctx, ev)
	return nil
}

func (n *recordingNotifier) types() []ports.EventType {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.EventType(nil), n.events...)
}

type testEnv struct {
	app      *fiber.App
	store    *memory.Store
	notifier *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	notifier := &recordingNotifier{}
	log := logger.Nop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	authUC := auth.NewAuthUseCase(store, store.Users(), store.Companies(),
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 30, Issuer: testIssuer}, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        authUC,
		Pipeline:      pipeline.NewService(store, store.Appointments(), notifier, log, pipeline.WithRecorder(m)),
		LeadUC:        usecase.NewLeadUseCase(store.Leads(), store.History(), notifier, log),
		AppointmentUC: usecase.NewAppointmentUseCase(store.Appointments(), store.Leads(), store.Salespeople(), notifier, log),
		VehicleUC:     usecase.NewVehicleUseCase(store.Vehicles()),
		SalespersonUC: usecase.NewSalespersonUseCase(store.Salespeople()),
		MemberUC:      usecase.NewMemberUseCase(store.Users(), store.Companies(), notifier, log),
		DashboardUC:   appanalytics.NewDashboardUseCase(store.Leads(), store.Appointments(), store.Companies(), pdf.NewDashboardReport()),
		JWTSecret:     testJWTSecret,
		Metrics:       m,
		Gatherer:      reg,
	})
	return &testEnv{app: app, store: store, notifier: notifier}
}

func (e *testEnv) call(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerAndLogin da de alta una concesionaria y devuelve el token del administrador.
func (e *testEnv) registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	resp := e.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		CompanyName: "Atual Veículos", Name: "Ana", Email: email,
		Password: "segredo1", ConfirmPassword: "segredo1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return e.login(t, email, "segredo1")
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := e.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func (e *testEnv) createLead(t *testing.T, token, name string) dto.LeadResponse {
	t.Helper()
	resp := e.call(t, http.MethodPost, "/api/leads", token, map[string]any{
		"nome": name, "origem": "Instagram", "vendedor": "Carlos", "valor": "R$ 52.300,50",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.LeadResponse](t, resp)
}

// ─── Auth ────────────────────────────────────────────────────────────────────

func TestHandler_RegisterLoginMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "Ana@Loja.com ")

	resp := env.call(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "ana@loja.com", me.Email)
	assert.Equal(t, "administrador", me.Role)
	assert.Equal(t, "Atual Veículos", me.CompanyName)

	dup := env.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		CompanyName: "Outra", Name: "Bia", Email: "ana@loja.com",
		Password: "segredo1", ConfirmPassword: "segredo1",
	})
	assert.Equal(t, http.StatusConflict, dup.StatusCode)

	bad := env.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@loja.com", Password: "errada"})
	assert.Equal(t, http.StatusUnauthorized, bad.StatusCode)
}

func TestHandler_SinToken(t *testing.T) {
	env := newTestEnv(t)
	resp := env.call(t, http.MethodGet, "/api/leads", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ─── Leads y pipeline ────────────────────────────────────────────────────────

func TestHandler_CreateLeadValorBRL(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@loja.com")

	lead := env.createLead(t, token, "João")
	assert.Equal(t, "oportunidade", lead.Stage)
	assert.Equal(t, "R$ 52.300,50", lead.ValueFormatted)

	resp := env.call(t, http.MethodPost, "/api/leads", token, map[string]any{"nome": "X", "valor": "abc"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_MoveLeadCreaAgendamiento(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@loja.com")
	lead := env.createLead(t, token, "João")

	resp := env.call(t, http.MethodPatch, "/api/leads/"+lead.ID+"/estagio", token, dto.MoveLeadRequest{Stage: "em_negociacao"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.TransitionResponse](t, resp)
	assert.True(t, out.Success)
	assert.Equal(t, "oportunidade", out.From)
	assert.Equal(t, "em_negociacao", out.To)
	assert.NotEmpty(t, out.AppointmentID)

	// Volver a negociación no duplica el agendamiento derivado.
	env.call(t, http.MethodPatch, "/api/leads/"+lead.ID+"/estagio", token, dto.MoveLeadRequest{Stage: "follow_up"})
	env.call(t, http.MethodPatch, "/api/leads/"+lead.ID+"/estagio", token, dto.MoveLeadRequest{Stage: "em_negociacao"})

	list := env.call(t, http.MethodGet, "/api/leads/"+lead.ID+"/agendamentos", token, nil)
	require.Equal(t, http.StatusOK, list.StatusCode)
	appts := decode[[]dto.AppointmentResponse](t, list)
	assert.Len(t, appts, 1)

	hist := env.call(t, http.MethodGet, "/api/leads/"+lead.ID+"/historico", token, nil)
	require.Equal(t, http.StatusOK, hist.StatusCode)
	assert.Len(t, decode[[]dto.StageChangeResponse](t, hist), 3)
}

func TestHandler_MoveLeadEtapaInvalida(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@loja.com")
	lead := env.createLead(t, token, "João")

	resp := env.call(t, http.MethodPatch, "/api/leads/"+lead.ID+"/estagio", token, dto.MoveLeadRequest{Stage: "ganho"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	out := decode[dto.TransitionResponse](t, resp)
	assert.False(t, out.Success)
	assert.Equal(t, "INVALID_STAGE", out.Code)

	missing := env.call(t, http.MethodPatch, "/api/leads/nao-existe/estagio", token, dto.MoveLeadRequest{Stage: "fechado"})
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHandler_IdInexistenteDevuelve404(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@loja.com")
	const missing = "00000000-0000-0000-0000-000000000000"
	loc := "Loja centro"

	cases := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"get lead", http.MethodGet, "/api/leads/" + missing, nil},
		{"patch lead", http.MethodPatch, "/api/leads/" + missing, map[string]any{"valor": 1000}},
		{"put agendamento", http.MethodPut, "/api/agendamentos/" + missing, dto.UpdateAppointmentRequest{Location: &loc}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.call(t, tc.method, tc.path, token, tc.body)
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
		})
	}

	// Un lead de otra concesionaria tampoco es visible.
	other := env.registerAndLogin(t, "bia@outra.com")
	lead := env.createLead(t, other, "Pedro")
	resp := env.call(t, http.MethodGet, "/api/leads/"+lead.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_MoveAppointmentNotifica(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@loja.com")
	lead := env.createLead(t, token, "João")

	resp := env.call(t, http.MethodPatch, "/api/leads/"+lead.ID+"/estagio", token, dto.MoveLeadRequest{Stage: "em_negociacao"})
	apptID := decode[dto.TransitionResponse](t, resp).AppointmentID
	require.NotEmpty(t, apptID)

	moved := env.call(t, http.MethodPatch, "/api/agendamentos/"+apptID+"/status", token, map[string]string{"status": "Confirmado"})
	require.Equal(t, http.StatusOK, moved.StatusCode)
	assert.Equal(t, "Confirmado", decode[dto.TransitionResponse](t, moved).To)
	assert.Contains(t, env.notifier.types(), ports.EventAppointmentSaved)
}

// ─── Cargos ──────────────────────────────────────────────────────────────────

func TestHandler_ConvidadoSoloLectura(t *testing.T) {
	env := newTestEnv(t)
	admin := env.registerAndLogin(t, "ana@loja.com")

	resp := env.call(t, http.MethodPost, "/api/membros", admin, dto.AddMemberRequest{
		Name: "Gui", Email: "gui@loja.com", Password: "segredo2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	guest := env.login(t, "gui@loja.com", "segredo2")

	list := env.call(t, http.MethodGet, "/api/leads", guest, nil)
	assert.Equal(t, http.StatusOK, list.StatusCode)

	create := env.call(t, http.MethodPost, "/api/leads", guest, map[string]any{"nome": "X"})
	assert.Equal(t, http.StatusForbidden, create.StatusCode)

	members := env.call(t, http.MethodGet, "/api/membros", guest, nil)
	assert.Equal(t, http.StatusForbidden, members.StatusCode)
}

func TestHandler_MembrosSoloAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.registerAndLogin(t, "ana@loja.com")

	resp := env.call(t, http.MethodGet, "/api/membros", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	members := decode[[]dto.UserResponse](t, resp)
	require.Len(t, members, 1)

	self := env.call(t, http.MethodDelete, "/api/membros/"+members[0].ID, admin, nil)
	assert.Equal(t, http.StatusConflict, self.StatusCode)
}

// ─── Dashboard y métricas ────────────────────────────────────────────────────

func TestHandler_Dashboard(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@loja.com")
	lead := env.createLead(t, token, "João")
	env.createLead(t, token, "Maria")
	env.call(t, http.MethodPatch, "/api/leads/"+lead.ID+"/estagio", token, dto.MoveLeadRequest{Stage: "fechado"})

	resp := env.call(t, http.MethodGet, "/api/dashboard?vendedor=Carlos", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d := decode[dto.DashboardDTO](t, resp)
	assert.Equal(t, 2, d.TotalLeads)
	assert.Equal(t, 1, d.LeadsByStage["fechado"])
	assert.Equal(t, "50.0", d.Conversion)

	report := env.call(t, http.MethodGet, "/api/dashboard/report.pdf", token, nil)
	require.Equal(t, http.StatusOK, report.StatusCode)
	assert.Equal(t, "application/pdf", report.Header.Get("Content-Type"))
	raw, err := io.ReadAll(report.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestHandler_MetricsExpuestas(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAndLogin(t, "ana@loja.com")
	lead := env.createLead(t, token, "João")
	env.call(t, http.MethodPatch, "/api/leads/"+lead.ID+"/estagio", token, dto.MoveLeadRequest{Stage: "resgate"})

	resp := env.call(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)
	assert.True(t, strings.Contains(body, `crm_stage_transitions_total{kind="lead",outcome="ok"} 1`), body)
	assert.Contains(t, body, "http_requests_total")
}

func TestHandler_StagesPublico(t *testing.T) {
	env := newTestEnv(t)
	resp := env.call(t, http.MethodGet, "/api/stages", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.StagesResponse](t, resp)
	assert.Len(t, out.Leads, 8)
	assert.Len(t, out.Appointments, 5)
}
