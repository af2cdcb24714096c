// Package client cliente HTTP de la API del CRM, usado por crmctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/crm-veiculos/internal/application/dto"
	"github.com/jhoicas/crm-veiculos/internal/domain"
)

// DefaultTimeout límite de cada request.
const DefaultTimeout = 30 * time.Second

// APIError respuesta no 2xx de la API.
type APIError struct {
	Status    int
	Code      string
	Message   string
	Retryable bool
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d %s", e.Status, e.Code)
	}
	return fmt.Sprintf("api: %s (%d): %s", e.Code, e.Status, e.Message)
}

// Unwrap traduce el código de la API al error de dominio equivalente.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "INVALID_STAGE":
		return domain.ErrInvalidStage
	case "NOT_FOUND":
		return domain.ErrNotFound
	case "PERSISTENCE_ERROR":
		return domain.ErrPersistence
	case "FORBIDDEN":
		return domain.ErrForbidden
	case "UNAUTHORIZED", "MISSING_TOKEN", "INVALID_TOKEN":
		return domain.ErrUnauthorized
	}
	return nil
}

// Client cliente de la API. Token vacío = requests anónimos.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
}

// New construye un cliente para baseURL (ej. http://localhost:8080).
func New(baseURL, token string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
	}
}

// Login autentica y guarda el token en el cliente.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", dto.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	c.Token = out.Token
	return &out, nil
}

// Stages columnas de los tableros.
func (c *Client) Stages(ctx context.Context) (*dto.StagesResponse, error) {
	var out dto.StagesResponse
	if err := c.do(ctx, http.MethodGet, "/api/stages", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListLeads leads de la empresa de la sesión.
func (c *Client) ListLeads(ctx context.Context) ([]dto.LeadResponse, error) {
	var out []dto.LeadResponse
	if err := c.do(ctx, http.MethodGet, "/api/leads", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAppointments agendamientos de la empresa de la sesión.
func (c *Client) ListAppointments(ctx context.Context) ([]dto.AppointmentResponse, error) {
	var out []dto.AppointmentResponse
	if err := c.do(ctx, http.MethodGet, "/api/agendamentos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MoveLead cambia la etapa del lead.
func (c *Client) MoveLead(ctx context.Context, id, target string) (*dto.TransitionResponse, error) {
	var out dto.TransitionResponse
	if err := c.do(ctx, http.MethodPatch, "/api/leads/"+id+"/estagio", dto.MoveLeadRequest{Stage: target}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MoveAppointment cambia el status del agendamiento.
func (c *Client) MoveAppointment(ctx context.Context, id, target string) (*dto.TransitionResponse, error) {
	var out dto.TransitionResponse
	if err := c.do(ctx, http.MethodPatch, "/api/agendamentos/"+id+"/status", dto.MoveAppointmentRequest{Status: target}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode: %w", err)
	}
	return nil
}

// decodeError lee ErrorResponse o TransitionResponse; ambos comparten code y message.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Retryable bool   `json:"retryable"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		apiErr.Retryable = body.Retryable
	}
	if apiErr.Code == "" {
		apiErr.Code = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
