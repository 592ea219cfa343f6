package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
)

// EventsSubject is the wildcard subject carrying cashier-relevant events,
// one kind per final subject token (e.g. "pos.events.payment_completed").
const EventsSubject = "pos.events.>"

// NATSSubscriber adapts a NATS connection to the Subscriber interface.
// Reconnect and backoff are owned by the nats.go client options.
type NATSSubscriber struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewNATSSubscriber connects to the NATS server at url.
func NewNATSSubscriber(url string, logger *slog.Logger) (*NATSSubscriber, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("reconnected to event stream", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSSubscriber{conn: conn, logger: logger}, nil
}

// Subscribe delivers every recognized event to handler. Unknown kinds and
// undecodable payloads are dropped without failing the subscription.
func (s *NATSSubscriber) Subscribe(ctx context.Context, handler Handler) (func(), error) {
	sub, err := s.conn.Subscribe(EventsSubject, func(msg *nats.Msg) {
		kind := msg.Subject
		if idx := strings.LastIndex(kind, "."); idx >= 0 {
			kind = kind[idx+1:]
		}
		ev, err := ParseEvent(kind, msg.Data)
		if err != nil {
			s.logger.Debug("dropping event", "subject", msg.Subject, "error", err)
			return
		}
		handler(ctx, ev)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", EventsSubject, err)
	}
	return func() {
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Debug("unsubscribe failed", "error", err)
		}
	}, nil
}

// Close drains and closes the connection.
func (s *NATSSubscriber) Close() error {
	return s.conn.Drain()
}
