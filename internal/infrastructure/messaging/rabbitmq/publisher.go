package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/baechuer/company-registry/internal/application/auth"
	"github.com/baechuer/company-registry/internal/application/company"
	"github.com/baechuer/company-registry/internal/domain"
	"github.com/baechuer/company-registry/internal/logger"
)

const DefaultExchange = "company.events"

const (
	RoutingVerifyEmail    = "auth.email.verify.requested"
	RoutingVerifyMobile   = "auth.mobile.verify.requested"
	RoutingCompanyCreated = "company.profile.created"
)

const (
	appID = "company-registry"

	// Applied when the caller's context has no deadline.
	confirmTimeout = 2 * time.Second

	// Confirms in flight before the client library blocks on the tracker.
	confirmBuffer = 128
)

type notifier interface {
	IsClosed() bool
	Close() error
}

// publishChannel is the part of *amqp.Channel a session publishes through.
type publishChannel interface {
	notifier
	PublishWithDeferredConfirmWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) (*amqp.DeferredConfirmation, error)
}

// session is one connection plus its confirm-mode channel and the goroutine
// resolving that channel's confirms.
type session struct {
	conn  notifier
	ch    publishChannel
	track *confirmTracker
}

func newSession(conn notifier, ch publishChannel, returns <-chan amqp.Return, confirms <-chan amqp.Confirmation) *session {
	s := &session{conn: conn, ch: ch, track: newConfirmTracker()}
	go s.track.run(returns, confirms)
	return s
}

func (s *session) alive() bool {
	return s != nil && !s.conn.IsClosed() && !s.ch.IsClosed()
}

func (s *session) close() {
	_ = s.ch.Close()
	_ = s.conn.Close()
}

func openSession(url, exchange string) (*session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err == nil {
		err = ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	}
	if err == nil {
		err = ch.Confirm(false)
	}
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel setup: %w", err)
	}
	// returns stay unbuffered so each one is taken before its ack is delivered
	returns := ch.NotifyReturn(make(chan amqp.Return))
	confirms := ch.NotifyPublish(make(chan amqp.Confirmation, confirmBuffer))
	return newSession(conn, ch, returns, confirms), nil
}

// Publisher sends domain events to a durable topic exchange with publisher
// confirms. Messages are mandatory, so an event nobody is bound to receive is
// reported as an error. A broken connection is redialled on the next publish.
// Concurrent publishes share the session and wait for their confirms independently.
type Publisher struct {
	url      string
	exchange string
	dial     func(url, exchange string) (*session, error)

	mu   sync.Mutex // guards sess
	sess *session
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	return newPublisher(url, exchange, openSession)
}

func newPublisher(url, exchange string, dial func(url, exchange string) (*session, error)) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	p := &Publisher{url: url, exchange: exchange, dial: dial}
	if _, err := p.current(); err != nil {
		return nil, err
	}
	return p, nil
}

// Ping reports whether a broker session is open, redialling if needed.
func (p *Publisher) Ping(context.Context) error {
	_, err := p.current()
	return err
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess != nil {
		p.sess.close()
		p.sess = nil
	}
	return nil
}

func (p *Publisher) PublishVerifyEmail(ctx context.Context, evt auth.VerifyEmailEvent) error {
	return p.publish(ctx, RoutingVerifyEmail, verifyEmailMessage{
		UserID: evt.UserID,
		Email:  evt.Email,
		URL:    evt.URL,
	})
}

func (p *Publisher) PublishVerifyMobile(ctx context.Context, evt auth.VerifyMobileEvent) error {
	return p.publish(ctx, RoutingVerifyMobile, verifyMobileMessage{
		UserID: evt.UserID,
		Mobile: evt.Mobile,
		Code:   evt.Code,
	})
}

func (p *Publisher) PublishCompanyCreated(ctx context.Context, evt company.CreatedEvent) error {
	return p.publish(ctx, RoutingCompanyCreated, companyCreatedMessage{
		CompanyID: evt.CompanyID,
		OwnerID:   evt.OwnerID,
		Name:      evt.Name,
	})
}

// current returns the live session, dialling a new one when the last has died.
func (p *Publisher) current() (*session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess.alive() {
		return p.sess, nil
	}
	if p.sess != nil {
		p.sess.close()
		p.sess = nil
	}
	s, err := p.dial(p.url, p.exchange)
	if err != nil {
		return nil, domain.ErrBrokerUnavailable(err)
	}
	p.sess = s
	return s, nil
}

// discard closes s unless another caller already replaced it.
func (p *Publisher) discard(s *session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess == s {
		s.close()
		p.sess = nil
	}
}

func (p *Publisher) publish(ctx context.Context, key string, payload any) error {
	env, body, err := newEnvelope(ctx, key, payload, time.Now().UTC())
	if err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, confirmTimeout)
		defer cancel()
	}

	s, err := p.current()
	if err != nil {
		return err
	}

	dc, err := s.ch.PublishWithDeferredConfirmWithContext(ctx, p.exchange, key, true, false, toPublishing(env, body))
	if err != nil {
		p.discard(s)
		return domain.ErrBrokerUnavailable(err)
	}

	select {
	case err := <-s.track.register(dc.DeliveryTag, env.EventID):
		if err != nil {
			return domain.ErrBrokerUnavailable(fmt.Errorf("%s: %w", key, err))
		}
	case <-ctx.Done():
		s.track.forget(dc.DeliveryTag)
		logger.WithCtx(ctx).Warn().Str("routing_key", key).Err(ctx.Err()).Msg("publish confirm not received")
		return domain.ErrBrokerUnavailable(ctx.Err())
	}

	logger.WithCtx(ctx).Debug().
		Str("routing_key", key).
		Str("event_id", env.EventID).
		Msg("event published")
	return nil
}

func toPublishing(env Envelope, body []byte) amqp.Publishing {
	msg := amqp.Publishing{
		MessageId:    env.EventID,
		Type:         env.Type,
		AppId:        appID,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    env.OccurredAt,
		Body:         body,
	}
	if env.RequestID != "" {
		msg.Headers = amqp.Table{"request_id": env.RequestID}
	}
	return msg
}
