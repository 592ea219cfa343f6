package models

import (
	"encoding/json"
	"testing"
)

func int64p(v int64) *int64 { return &v }

func TestOrderTotal(t *testing.T) {
	tests := []struct {
		name  string
		order *Order
		want  int64
	}{
		{"plain", &Order{TotalAmount: 80_000}, 80_000},
		{"originalPreferred", &Order{TotalAmount: 72_000, OriginalTotalAmount: int64p(80_000)}, 80_000},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.order.Total(); got != tt.want {
				t.Errorf("Total() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOrderRemaining(t *testing.T) {
	tests := []struct {
		name  string
		order *Order
		want  int64
	}{
		{"serverValue", &Order{TotalAmount: 80_000, RemainingAmount: int64p(30_000)}, 30_000},
		{"negativeServerValueClamped", &Order{TotalAmount: 80_000, RemainingAmount: int64p(-1)}, 0},
		{"derived", &Order{TotalAmount: 80_000, PaidAmount: 50_000}, 30_000},
		{"derivedOverpaidClamped", &Order{TotalAmount: 80_000, PaidAmount: 90_000}, 0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.order.Remaining(); got != tt.want {
				t.Errorf("Remaining() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOrderItemCanEdit(t *testing.T) {
	if !(OrderItem{ItemStatus: OrderStatusPending}).CanEdit() {
		t.Error("pending item not editable")
	}
	for _, status := range []string{OrderStatusCooking, OrderStatusReady, OrderStatusServed, OrderStatusCancelled} {
		if (OrderItem{ItemStatus: status}).CanEdit() {
			t.Errorf("%s item reported editable", status)
		}
	}
}

func TestPaymentNoteUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want PaymentNote
	}{
		{"plainString", `{"note": "bayar dulu"}`, "bayar dulu"},
		{"nullableValid", `{"note": {"String": "split 1", "Valid": true}}`, "split 1"},
		{"nullableInvalid", `{"note": {"String": "stale", "Valid": false}}`, ""},
		{"null", `{"note": null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payment struct {
				Note PaymentNote `json:"note"`
			}
			if err := json.Unmarshal([]byte(tt.raw), &payment); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if payment.Note != tt.want {
				t.Errorf("note = %q, want %q", payment.Note, tt.want)
			}
		})
	}
}

func TestOrderDetailCharges(t *testing.T) {
	t.Run("additionalChargesPreferred", func(t *testing.T) {
		d := &OrderDetail{
			AdditionalCharges: []AdditionalCharge{
				{Name: "Service", Amount: 5_000},
				{Name: "Empty", Amount: 0},
			},
			Adjustments: []Adjustment{{Name: "Diskon", AppliedAmount: -10_000}},
		}
		got := d.Charges()
		if len(got) != 1 || got[0].Name != "Service" {
			t.Errorf("Charges() = %+v, want only the non-zero additional charge", got)
		}
	})

	t.Run("adjustmentFallback", func(t *testing.T) {
		d := &OrderDetail{
			Adjustments: []Adjustment{
				{Name: "Diskon 10%", AppliedAmount: -8_000},
				{Name: "Noop", AppliedAmount: 0},
			},
		}
		got := d.Charges()
		if len(got) != 1 || got[0].Name != "Diskon 10%" || got[0].Amount != -8_000 {
			t.Errorf("Charges() = %+v, want the applied adjustment", got)
		}
	})

	t.Run("nil", func(t *testing.T) {
		var d *OrderDetail
		if got := d.Charges(); got != nil {
			t.Errorf("Charges() on nil = %+v, want nil", got)
		}
	})
}
