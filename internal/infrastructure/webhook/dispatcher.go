// Package webhook entrega los eventos del CRM a la automatización externa (n8n)
// como POST JSON, un endpoint por tipo de evento.
package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jhoicas/crm-veiculos/internal/application/ports"
	"github.com/jhoicas/crm-veiculos/pkg/logger"
)

// UserAgent identifica al CRM ante los endpoints.
const UserAgent = "CRM-Atual-Veiculos/1.0"

// maxErrorBody bytes del cuerpo de error que se registran.
const maxErrorBody = 2048

// ErrNoEndpoint el tipo de evento no tiene URL configurada.
var ErrNoEndpoint = errors.New("webhook: evento sin URL configurada")

// StatusError respuesta no 2xx del endpoint.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("webhook: status %d: %s", e.Status, e.Body)
}

// Endpoints URL por tipo de evento. Vacía = evento desactivado.
type Endpoints map[ports.EventType]string

var (
	_ ports.Notifier    = (*Dispatcher)(nil)
	_ ports.EventSender = (*Dispatcher)(nil)
)

// Dispatcher implementa Notifier (best effort, en segundo plano) y EventSender (síncrono).
type Dispatcher struct {
	httpClient *http.Client
	endpoints  Endpoints
	timeout    time.Duration
	log        *logger.Logger
	observe    func(typ ports.EventType, outcome string)
	wg         sync.WaitGroup
}

// Resultados informados al observador.
const (
	OutcomeDelivered   = "delivered"
	OutcomeStatusError = "status_error"
	OutcomeError       = "error"
)

// Option configura el Dispatcher.
type Option func(*Dispatcher)

// WithObserver recibe el resultado de cada envío (métricas).
func WithObserver(fn func(typ ports.EventType, outcome string)) Option {
	return func(d *Dispatcher) { d.observe = fn }
}

// WithHTTPClient reemplaza el cliente HTTP.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) { d.httpClient = c }
}

// NewDispatcher construye el dispatcher. timeout acota cada entrega completa.
func NewDispatcher(endpoints Endpoints, timeout time.Duration, log *logger.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		httpClient: &http.Client{},
		endpoints:  endpoints,
		timeout:    timeout,
		log:        log.Component("webhook"),
		observe:    func(ports.EventType, string) {},
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Notify entrega ev en una goroutine desacoplada de la cancelación de ctx.
// Los fallos se registran y se descartan; no hay reintentos.
func (d *Dispatcher) Notify(ctx context.Context, ev ports.Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		// Deliver registra los fallos de red y de status.
		if err := d.Deliver(context.WithoutCancel(ctx), ev); errors.Is(err, ErrNoEndpoint) {
			d.log.Debug().Str("event", string(ev.Type)).Msg("evento sin URL, se omite")
		}
	}()
}

// Close espera a las entregas en curso o a que ctx expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Deliver envía ev y espera la respuesta. Devuelve ErrNoEndpoint si el tipo no tiene URL,
// *StatusError ante una respuesta no 2xx, o el error de red/timeout.
func (d *Dispatcher) Deliver(ctx context.Context, ev ports.Event) error {
	if d.endpoints[ev.Type] == "" {
		return ErrNoEndpoint
	}
	body, err := Build(ev)
	if err != nil {
		d.log.Error().Err(err).Str("event", string(ev.Type)).Msg("payload inválido")
		return err
	}
	return d.Send(ctx, ev.Type, body)
}

// Send publica un cuerpo ya construido en el endpoint del tipo. Lo usa el worker de la cola.
func (d *Dispatcher) Send(ctx context.Context, typ ports.EventType, body []byte) error {
	url := d.endpoints[typ]
	if url == "" {
		return ErrNoEndpoint
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.observe(typ, OutcomeError)
		d.log.Error().Err(err).Str("event", string(typ)).Dur("elapsed", time.Since(start)).Msg("entrega fallida")
		return fmt.Errorf("webhook: %s: %w", typ, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		serr := &StatusError{Status: resp.StatusCode, Body: string(raw)}
		d.observe(typ, OutcomeStatusError)
		d.log.Error().
			Str("event", string(typ)).
			Int("status", resp.StatusCode).
			Str("body", serr.Body).
			Msg("endpoint respondió con error")
		return serr
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	d.observe(typ, OutcomeDelivered)
	d.log.Info().Str("event", string(typ)).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("evento entregado")
	return nil
}
