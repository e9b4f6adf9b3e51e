package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/baechuer/job-portal/internal/logger"
)

const (
	// Upper bound on a publish when the caller's context has no deadline.
	publishWait = 2 * time.Second
	// A Return frame for a mandatory publish may trail its Ack by a little.
	returnGrace = 50 * time.Millisecond
)

var (
	// ErrUnroutable means the broker accepted the message but no queue was bound.
	ErrUnroutable = errors.New("rabbitmq unroutable")
	ErrNacked     = errors.New("rabbitmq nack")

	// ErrChannelClosed means the broker shut the channel while a publish was in flight.
	ErrChannelClosed = errors.New("rabbitmq channel closed")
)

// Publisher sends envelopes to a durable topic exchange with publisher
// confirms. One channel is shared; publishes are serialised.
type Publisher struct {
	url      string
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel

	confirms <-chan amqp.Confirmation
	returns  <-chan amqp.Return
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{url: url, exchange: exchange}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.dial(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.teardown()
}

// dial opens the connection, declares the exchange and enables confirms.
// Callers hold p.mu.
func (p *Publisher) dial() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err == nil {
		err = ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	}
	if err == nil {
		err = ch.Confirm(false)
	}
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq setup exchange %q: %w", p.exchange, err)
	}

	p.conn, p.ch = conn, ch
	p.confirms = ch.NotifyPublish(make(chan amqp.Confirmation, 1))
	p.returns = ch.NotifyReturn(make(chan amqp.Return, 1))
	return nil
}

func (p *Publisher) teardown() error {
	var err error
	if p.ch != nil {
		err = errors.Join(err, ignoreClosed(p.ch.Close()))
		p.ch = nil
	}
	if p.conn != nil {
		err = errors.Join(err, ignoreClosed(p.conn.Close()))
		p.conn = nil
	}
	return err
}

func ignoreClosed(err error) error {
	if errors.Is(err, amqp.ErrClosed) {
		return nil
	}
	return err
}

func (p *Publisher) publish(ctx context.Context, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, publishWait)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() || p.ch == nil || p.ch.IsClosed() {
		logger.Logger.Info().Str("exchange", p.exchange).Msg("rabbitmq reconnecting")
		_ = p.teardown()
		if err := p.dial(); err != nil {
			return err
		}
	}
	p.drain()

	msg := amqp.Publishing{
		MessageId:    env.ID,
		Type:         env.Type,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    env.OccurredAt,
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, env.Type, true, false, msg); err != nil {
		_ = p.teardown()
		return fmt.Errorf("rabbitmq publish %s: %w", env.Type, err)
	}

	return p.await(ctx, env)
}

// drain discards confirms and returns left over from an earlier timed-out publish.
// A closed notify channel ends the drain; await reports it.
func (p *Publisher) drain() {
	for {
		select {
		case _, ok := <-p.confirms:
			if !ok {
				return
			}
		case _, ok := <-p.returns:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (p *Publisher) await(ctx context.Context, env Envelope) error {
	unroutable := func(ret amqp.Return) error {
		return fmt.Errorf("%w: key=%s code=%d text=%s", ErrUnroutable, env.Type, ret.ReplyCode, ret.ReplyText)
	}

	closed := func() error {
		_ = p.teardown()
		return fmt.Errorf("%w: key=%s", ErrChannelClosed, env.Type)
	}

	select {
	case ret, ok := <-p.returns:
		if !ok {
			return closed()
		}
		return unroutable(ret)

	case conf, ok := <-p.confirms:
		if !ok {
			return closed()
		}
		select {
		case ret, ok := <-p.returns:
			if ok {
				return unroutable(ret)
			}
		case <-time.After(returnGrace):
		}
		if !conf.Ack {
			return fmt.Errorf("%w: key=%s tag=%d", ErrNacked, env.Type, conf.DeliveryTag)
		}
		logger.Logger.Debug().
			Str("routing_key", env.Type).
			Str("message_id", env.ID).
			Uint64("delivery_tag", conf.DeliveryTag).
			Msg("event published")
		return nil

	case <-ctx.Done():
		return fmt.Errorf("rabbitmq publish %s: %w", env.Type, ctx.Err())
	}
}
