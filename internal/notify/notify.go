// Package notify announces finished builds on a NATS subject so other
// services (deploy hooks, feed generators) can react.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	ferrors "github.com/sys27/garden/internal/foundation/errors"
	"github.com/sys27/garden/internal/logfields"
	"github.com/sys27/garden/internal/retry"
)

// BrokenLink is an internal link that did not resolve to a page.
type BrokenLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// BuildEvent is published after every build.
type BuildEvent struct {
	BuildID     string       `json:"build_id"`
	StartedAt   time.Time    `json:"started_at"`
	DurationMS  int64        `json:"duration_ms"`
	Pages       int          `json:"pages"`
	Changed     int          `json:"changed"`
	Status      string       `json:"status"`
	Error       string       `json:"error,omitempty"`
	BrokenLinks []BrokenLink `json:"broken_links,omitempty"`
}

// Notifier publishes build events.
type Notifier interface {
	BuildCompleted(ctx context.Context, ev BuildEvent) error
	Close() error
}

// Noop discards events. It is used when no NATS URL is configured.
type Noop struct{}

func (Noop) BuildCompleted(context.Context, BuildEvent) error { return nil }
func (Noop) Close() error                                     { return nil }

type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes events with core NATS.
type NATSPublisher struct {
	conn    conn
	subject string
	retry   retry.Policy
}

// Connect dials the NATS server at url.
func Connect(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("garden"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNotify, "failed to connect to NATS").
			WithContext("url", url).Build()
	}
	slog.Info("NATS notifications enabled", logfields.URL(url), slog.String("subject", subject))
	return &NATSPublisher{conn: nc, subject: subject, retry: retry.DefaultPolicy()}, nil
}

// BuildCompleted publishes ev and waits for the server to acknowledge the flush.
func (p *NATSPublisher) BuildCompleted(ctx context.Context, ev BuildEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	err = p.retry.Do(ctx, func(ctx context.Context) error { return p.publish(ctx, data) })
	if err != nil {
		return err
	}

	slog.Debug("Published build event", logfields.BuildID(ev.BuildID), slog.String("subject", p.subject))
	return nil
}

// publish sends one event and waits for the flush. BuildCompleted retries it
// according to the publisher's retry policy.
func (p *NATSPublisher) publish(ctx context.Context, data []byte) error {
	if err := p.conn.Publish(p.subject, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "failed to publish build event").
			Retryable().WithContext("subject", p.subject).Build()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "failed to flush build event").
			Retryable().WithContext("subject", p.subject).Build()
	}
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
