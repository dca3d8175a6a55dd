// Package events publishes the audit event stream of spec.md §6. The
// original system used Kafka; no Kafka/NATS/AMQP client is grounded
// anywhere in the retrieved example pack, so the bus is implemented over
// Redis Pub/Sub — already wired in for the challenge store — preserving the
// same JSON envelope shape.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkarasev/zkid/internal/logging"
)

type EventType string

const (
	UserRegistered EventType = "USER_REGISTERED"
	LoginSuccess   EventType = "LOGIN_SUCCESS"
	LoginFailed    EventType = "LOGIN_FAILED"
)

// Event is the JSON envelope published on the audit-events channel.
type Event struct {
	EventType EventType `json:"eventType"`
	Username  string    `json:"username"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// publisherBackend is the one go-redis method Publisher needs. Narrowing to
// this instead of the full redis.Cmdable lets tests supply a trivial fake
// without a live Redis.
type publisherBackend interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher is the audit event bus. Publication failures are logged and
// swallowed by the Publisher itself per spec.md §7, so callers never see
// them and AuthFacade never fails a register/login outcome because
// auditing failed.
type Publisher struct {
	rdb     publisherBackend
	channel string
	log     logging.Logger
}

func NewPublisher(rdb publisherBackend, channel string, log logging.Logger) *Publisher {
	return &Publisher{rdb: rdb, channel: channel, log: log}
}

func (p *Publisher) publish(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		p.log.Error(ctx, "failed to marshal audit event", "eventType", ev.EventType, "err", err)
		return
	}
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.log.Error(ctx, "failed to publish audit event", "eventType", ev.EventType, "err", err)
	}
}

func (p *Publisher) UserRegistered(ctx context.Context, username string) {
	p.publish(ctx, Event{EventType: UserRegistered, Username: username, Timestamp: time.Now()})
}

func (p *Publisher) LoginSuccess(ctx context.Context, username string) {
	p.publish(ctx, Event{EventType: LoginSuccess, Username: username, Timestamp: time.Now()})
}

func (p *Publisher) LoginFailed(ctx context.Context, username, reason string) {
	p.publish(ctx, Event{EventType: LoginFailed, Username: username, Reason: reason, Timestamp: time.Now()})
}

var _ fmt.Stringer = EventType("")

func (e EventType) String() string { return string(e) }
