package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/jhoicas/crm-veiculos/internal/application/ports"
	"github.com/jhoicas/crm-veiculos/internal/infrastructure/webhook"
	"github.com/jhoicas/crm-veiculos/pkg/logger"
)

// Sender entrega un cuerpo ya construido. Lo implementa webhook.Dispatcher.
type Sender interface {
	Send(ctx context.Context, typ ports.EventType, body []byte) error
}

// Worker consume la cola y entrega cada evento una vez.
// Éxito y evento sin URL: Ack. Mensaje inválido o entrega fallida: Nack sin requeue (va a la DLQ).
type Worker struct {
	ch     *amqp.Channel
	sender Sender
	log    *logger.Logger
}

// NewWorker construye el worker.
func NewWorker(ch *amqp.Channel, sender Sender, log *logger.Logger) *Worker {
	return &Worker{ch: ch, sender: sender, log: log.Component("queue-worker")}
}

// Start registra el consumidor y procesa hasta que ctx se cancele o el canal se cierre.
func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.ch.ConsumeWithContext(ctx,
		QueueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue: registrar consumidor: %w", err)
	}
	w.log.Info().Str("queue", QueueName).Msg("worker esperando mensajes")
	w.Run(ctx, msgs)
	return nil
}

// Run procesa deliveries hasta que ctx se cancele o msgs se cierre.
func (w *Worker) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-msgs:
			if !ok {
				return
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var env Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil || env.Type == "" {
		w.log.Error().Err(err).Msg("mensaje inválido, se descarta")
		_ = d.Nack(false, false)
		return
	}
	err := w.sender.Send(context.WithoutCancel(ctx), env.Type, env.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, webhook.ErrNoEndpoint):
		w.log.Debug().Str("event", string(env.Type)).Msg("evento sin URL, se omite")
		_ = d.Ack(false)
	default:
		w.log.Error().Err(err).Str("event", string(env.Type)).Msg("entrega fallida, mensaje a la DLQ")
		_ = d.Nack(false, false)
	}
}
