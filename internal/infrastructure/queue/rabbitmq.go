// Package queue transporta las notificaciones por RabbitMQ: el publisher encola
// el evento ya serializado y el worker lo entrega al webhook una sola vez.
package queue

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "ex.crm.notifications"
	QueueName    = "q.webhooks"
	DLQName      = "q.webhooks.dlq"
	DLXName      = "ex.crm.dlx" // Dead Letter Exchange
	RoutingKey   = "k.webhook"
)

// RabbitMQ conexión con un canal para publicar y otro para consumir.
type RabbitMQ struct {
	Conn    *amqp.Connection
	Ch      *amqp.Channel // publisher
	Consume *amqp.Channel // worker
}

// NewRabbitMQ conecta, abre ambos canales y declara la topología.
func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("queue: conectar RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("queue: abrir canal: %w", err)
	}
	if err := setupTopology(ch); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("queue: topología: %w", err)
	}
	consume, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("queue: abrir canal de consumo: %w", err)
	}
	return &RabbitMQ{Conn: conn, Ch: ch, Consume: consume}, nil
}

// Close cierra canales y conexión.
func (r *RabbitMQ) Close() error {
	err := errors.Join(r.Consume.Close(), r.Ch.Close())
	if cerr := r.Conn.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	return err
}

func setupTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(DLQName, true, false, false, false, nil); err != nil {
		return err
	}
	if err := ch.QueueBind(DLQName, RoutingKey, DLXName, false, nil); err != nil {
		return err
	}

	// Un Nack sin requeue manda el mensaje a la DLX.
	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": RoutingKey,
	}
	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, args); err != nil {
		return err
	}
	return ch.QueueBind(QueueName, RoutingKey, ExchangeName, false, nil)
}
