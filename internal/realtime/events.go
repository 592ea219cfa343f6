// Package realtime delivers push notifications about server-side state
// changes relevant to the cashier view. Payloads are decoded once at the
// transport boundary into a closed set of event kinds; anything outside the
// set is dropped there and never reaches a handler.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Kind identifies one of the recognized push events.
type Kind string

const (
	KindOrderCreated       Kind = "order_created"
	KindOrderItemsUpdated  Kind = "order_items_updated"
	KindItemStatusUpdated  Kind = "item_status_updated"
	KindPaymentCompleted   Kind = "payment_completed"
	KindOrderVoided        Kind = "order_voided"
	KindTableStatusUpdated Kind = "table_status_updated"
)

// ErrUnknownKind marks a payload whose kind is outside the recognized set.
var ErrUnknownKind = errors.New("realtime: unknown event kind")

// Event is the decoded push notification. Payload fields are advisory: the
// cashier view re-fetches server truth rather than trusting them, so only
// identity fields are carried.
type Event struct {
	Kind       Kind      `json:"type"`
	OrderID    string    `json:"order_id,omitempty"`
	TableID    string    `json:"table_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at,omitempty"`
}

// Handler consumes decoded events.
type Handler func(ctx context.Context, ev Event)

// Subscriber delivers events to a handler until the returned stop function
// is called or ctx ends.
type Subscriber interface {
	Subscribe(ctx context.Context, handler Handler) (func(), error)
}

func knownKind(k Kind) bool {
	switch k {
	case KindOrderCreated, KindOrderItemsUpdated, KindItemStatusUpdated,
		KindPaymentCompleted, KindOrderVoided, KindTableStatusUpdated:
		return true
	}
	return false
}

// ParseEvent decodes a raw payload published under kind. A "type" field in
// the payload overrides kind, matching the transport's subject-per-kind
// scheme where the payload may restate its own kind.
func ParseEvent(kind string, payload []byte) (Event, error) {
	ev := Event{Kind: Kind(kind)}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &ev); err != nil {
			return Event{}, err
		}
		if ev.Kind == "" {
			ev.Kind = Kind(kind)
		}
	}
	if !knownKind(ev.Kind) {
		return Event{}, ErrUnknownKind
	}
	return ev, nil
}
