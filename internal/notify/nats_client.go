package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/logfields"
)

// Conn is the subset of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// Publisher sends build events to a NATS subject.
type Publisher struct {
	conn    Conn
	subject string
	timeout time.Duration
}

// Connect dials the NATS server at url.
func Connect(url, subject string, timeout time.Duration) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("prerender"),
		nats.Timeout(timeout),
		nats.MaxReconnects(0),
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotify, "failed to connect to NATS").
			Warning().Retryable().WithContext("url", url).Build()
	}
	slog.Debug("NATS publisher connected", "url", url, "subject", subject)
	return NewPublisher(conn, subject, timeout), nil
}

// NewPublisher wraps an existing connection.
func NewPublisher(conn Conn, subject string, timeout time.Duration) *Publisher {
	return &Publisher{conn: conn, subject: subject, timeout: timeout}
}

// PublishBuild marshals ev and publishes it, waiting for the server to
// acknowledge the flush.
func (p *Publisher) PublishBuild(ctx context.Context, ev BuildCompletedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal build event").Build()
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return errors.WrapError(err, errors.CategoryNotify, "failed to publish build event").
			Warning().Retryable().WithContext("subject", p.subject).Build()
	}
	timeout := p.timeout
	if dl, ok := ctx.Deadline(); ok && time.Until(dl) < timeout {
		timeout = time.Until(dl)
	}
	if err := p.conn.FlushTimeout(timeout); err != nil {
		return errors.WrapError(err, errors.CategoryNotify, "failed to flush build event").
			Warning().Retryable().WithContext("subject", p.subject).Build()
	}
	slog.Debug("Published build event", logfields.BuildID(ev.BuildID), "subject", p.subject, logfields.Outcome(ev.Outcome))
	return nil
}

// Close closes the underlying connection.
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}
