package models

import "testing"

func TestShiftGrandTotal(t *testing.T) {
	shift := &Shift{
		SalesSummary:  SalesSummary{Cash: 500_000, Card: 100_000, QRIS: 50_000},
		CashMovements: CashMovements{TotalIn: 30_000, TotalOut: 80_000},
	}
	if got := shift.GrandTotal(); got != 600_000 {
		t.Errorf("GrandTotal() = %d, want 600000", got)
	}

	var nilShift *Shift
	if got := nilShift.GrandTotal(); got != 0 {
		t.Errorf("nil GrandTotal() = %d, want 0", got)
	}
}

func TestShiftStateOpen(t *testing.T) {
	if (ShiftState{}).Open() {
		t.Error("empty state reports open shift")
	}
	if !(ShiftState{OpenShift: &Shift{ID: "s1"}}).Open() {
		t.Error("state with open shift reports closed")
	}
	if (ShiftState{LastClosedShift: &Shift{ID: "s0"}}).Open() {
		t.Error("only a closed shift, yet reports open")
	}
}

func TestTablePendingOrderID(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		want  string
	}{
		{"tableLevelWins", Table{OrderID: "o1", ActiveOrder: &ActiveOrder{OrderID: "o2"}}, "o1"},
		{"embeddedFallback", Table{ActiveOrder: &ActiveOrder{OrderID: "o2"}}, "o2"},
		{"empty", Table{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table.PendingOrderID(); got != tt.want {
				t.Errorf("PendingOrderID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTableAwaitingPayment(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		want  bool
	}{
		{"unpaid", Table{ActiveOrder: &ActiveOrder{OrderID: "o1", PaymentStatus: PaymentStatusUnpaid}}, true},
		{"partial", Table{ActiveOrder: &ActiveOrder{OrderID: "o1", PaymentStatus: PaymentStatusPartial}}, true},
		{"paid", Table{ActiveOrder: &ActiveOrder{OrderID: "o1", PaymentStatus: PaymentStatusPaid}}, false},
		{"merged", Table{ActiveOrder: &ActiveOrder{OrderID: "o1", PaymentStatus: PaymentStatusUnpaid, IsMerged: true}}, false},
		{"vacant", Table{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table.AwaitingPayment(); got != tt.want {
				t.Errorf("AwaitingPayment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalyticsNetRevenue(t *testing.T) {
	a := Analytics{TotalRevenue: 1_000_000, VoidTotal: 150_000, CancelledTotal: 50_000}
	if got := a.NetRevenue(); got != 800_000 {
		t.Errorf("NetRevenue() = %d, want 800000", got)
	}
}
