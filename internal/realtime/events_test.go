package realtime

import (
	"context"
	"errors"
	"testing"
)

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		payload string
		want    Kind
		wantErr error
	}{
		{
			name:    "kindFromSubject",
			kind:    "payment_completed",
			payload: `{"order_id": "o1"}`,
			want:    KindPaymentCompleted,
		},
		{
			name:    "payloadTypeOverrides",
			kind:    "order_created",
			payload: `{"type": "order_voided", "order_id": "o1"}`,
			want:    KindOrderVoided,
		},
		{
			name:    "emptyPayload",
			kind:    "table_status_updated",
			payload: "",
			want:    KindTableStatusUpdated,
		},
		{
			name:    "unknownKind",
			kind:    "orders_merged",
			payload: `{}`,
			wantErr: ErrUnknownKind,
		},
		{
			name:    "unknownPayloadType",
			kind:    "order_created",
			payload: `{"type": "something_else"}`,
			wantErr: ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := ParseEvent(tt.kind, []byte(tt.payload))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseEvent() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEvent() error = %v", err)
			}
			if ev.Kind != tt.want {
				t.Errorf("kind = %q, want %q", ev.Kind, tt.want)
			}
		})
	}
}

func TestParseEventMalformedPayload(t *testing.T) {
	if _, err := ParseEvent("order_created", []byte("{not json")); err == nil {
		t.Error("ParseEvent() on malformed payload = nil, want error")
	}
}

func TestBusFanOut(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var first, second []Kind
	stopFirst, err := bus.Subscribe(ctx, func(ctx context.Context, ev Event) {
		first = append(first, ev.Kind)
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if _, err := bus.Subscribe(ctx, func(ctx context.Context, ev Event) {
		second = append(second, ev.Kind)
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	bus.Publish(ctx, Event{Kind: KindOrderCreated})
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("deliveries = (%d, %d), want both handlers hit", len(first), len(second))
	}

	stopFirst()
	bus.Publish(ctx, Event{Kind: KindPaymentCompleted})
	if len(first) != 1 {
		t.Error("unsubscribed handler still receiving events")
	}
	if len(second) != 2 {
		t.Errorf("remaining handler deliveries = %d, want 2", len(second))
	}
}

func TestBusDropsUnknownKinds(t *testing.T) {
	bus := NewBus()
	delivered := 0
	if _, err := bus.Subscribe(context.Background(), func(ctx context.Context, ev Event) {
		delivered++
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	bus.Publish(context.Background(), Event{Kind: Kind("orders_merged")})
	if delivered != 0 {
		t.Errorf("unknown kind delivered %d times, want 0", delivered)
	}
}
