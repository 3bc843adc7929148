package bm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	brokerdto "afrikar/internal/client/core/domain/message_broker_dto"
	"afrikar/internal/client/core/ports/driven"
	"afrikar/internal/config"
	"afrikar/internal/mylogger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	exchange       = "afrikar_topic"
	publishTimeout = 5 * time.Second
)

// RabbitMQ relays client activity to a topic exchange with routing key
// "activity.<type>".
type RabbitMQ struct {
	cfg   config.RabbitMqconfig
	mylog mylogger.Logger
	conn  *amqp.Connection
	ch    *amqp.Channel
	mu    *sync.Mutex
}

// New returns a no-op relay when RabbitMQ is not configured.
func New(rabbitmqCfg config.RabbitMqconfig, mylog mylogger.Logger) (driven.IActivityBroker, error) {
	if !rabbitmqCfg.Enabled() {
		return Noop{}, nil
	}

	r := &RabbitMQ{
		cfg:   rabbitmqCfg,
		mylog: mylog,
		mu:    &sync.Mutex{},
	}
	if err := r.connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	return r, nil
}

func (r *RabbitMQ) PublishActivity(ctx context.Context, event brokerdto.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil || r.conn.IsClosed() || r.ch == nil || r.ch.IsClosed() {
		// one synchronous attempt; a CLI run is too short for a reconnect loop
		if err := r.connect(); err != nil {
			return errors.Join(errors.New("connection is closed"), err)
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling activity: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	conf, err := r.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, RoutingKey(event), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publishing activity: %w", err)
	}
	if conf == nil {
		return nil
	}
	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("waiting for confirm: %w", err)
	}
	if !acked {
		return errors.New("activity nacked by broker")
	}
	return nil
}

func RoutingKey(event brokerdto.Activity) string {
	return "activity." + event.Type
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ch != nil && !r.ch.IsClosed() {
		if err := r.ch.Close(); err != nil {
			return fmt.Errorf("close rabbitmq channel: %w", err)
		}
	}
	if r.conn != nil && !r.conn.IsClosed() {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}

// connect dials, opens a confirming channel and declares the exchange.
func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(fmt.Sprintf("amqp://%v:%v@%v:%v/%v",
		r.cfg.User,
		r.cfg.Password,
		r.cfg.Host,
		r.cfg.Port,
		r.cfg.VHost,
	))
	if err != nil {
		return err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return err
	}

	r.conn = conn
	r.ch = ch
	r.mylog.Action("mb_connected").Debug("connected to rabbitmq")
	return nil
}

// Noop is the relay used when no broker is configured.
type Noop struct{}

func (Noop) PublishActivity(context.Context, brokerdto.Activity) error { return nil }
func (Noop) Close() error                                             { return nil }
