package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/crm-veiculos/internal/application/ports"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/webhook"
	"github.com/jhoicas/crm-veiculos/pkg/logger"
)

// publishTimeout límite para confirmar la publicación en el broker.
const publishTimeout = 5 * time.Second

// Envelope mensaje encolado: tipo de evento y cuerpo del webhook ya construido.
type Envelope struct {
	Type       ports.EventType `json:"type"`
	Body       json.RawMessage `json:"body"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Channel subconjunto de *amqp.Channel usado para publicar.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

var _ ports.Notifier = (*Publisher)(nil)

// Publisher implementa ports.Notifier encolando el evento.
type Publisher struct {
	ch  Channel
	log *logger.Logger
	wg  sync.WaitGroup
}

// NewPublisher construye el publisher sobre un canal abierto.
func NewPublisher(ch Channel, log *logger.Logger) *Publisher {
	return &Publisher{ch: ch, log: log.Component("queue")}
}

// Notify encola ev en una goroutine propia; el llamador no espera al broker.
// Un fallo se registra y no se propaga.
func (p *Publisher) Notify(ctx context.Context, ev ports.Event) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.Publish(ctx, ev); err != nil {
			p.log.Error().Err(err).Str("event", string(ev.Type)).Msg("no se pudo encolar el evento")
		}
	}()
}

// Close espera a las publicaciones en curso o a que ctx expire.
func (p *Publisher) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Publish serializa y publica ev como mensaje persistente.
func (p *Publisher) Publish(ctx context.Context, ev ports.Event) error {
	body, err := webhook.Build(ev)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(Envelope{Type: ev.Type, Body: body, OccurredAt: ev.OccurredAt})
	if err != nil {
		return fmt.Errorf("queue: envelope: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         msg,
			DeliveryMode: amqp.Persistent,
			Timestamp:    ev.OccurredAt,
			Type:         string(ev.Type),
		},
	)
	if err != nil {
		return fmt.Errorf("queue: publicar: %w", err)
	}
	return nil
}
