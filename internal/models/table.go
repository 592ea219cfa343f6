package models

// ActiveOrder is the summary the table list embeds for an occupied table.
type ActiveOrder struct {
	OrderID       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
	IsMerged      bool   `json:"is_merged"`
}

// Table is one seating position with its occupancy state.
type Table struct {
	ID          string       `json:"id"`
	TableNumber string       `json:"table_number"`
	Status      string       `json:"status"`
	OrderID     string       `json:"order_id,omitempty"`
	ActiveOrder *ActiveOrder `json:"active_order,omitempty"`
}

// PendingOrderID resolves the order attached to the table, preferring the
// table-level reference over the embedded summary.
func (t Table) PendingOrderID() string {
	if t.OrderID != "" {
		return t.OrderID
	}
	if t.ActiveOrder != nil {
		return t.ActiveOrder.OrderID
	}
	return ""
}

// AwaitingPayment reports whether the table carries an order a cashier can
// still settle: occupied, not yet fully paid, and not merged into another
// table's bill.
func (t Table) AwaitingPayment() bool {
	return t.ActiveOrder != nil &&
		t.ActiveOrder.PaymentStatus != PaymentStatusPaid &&
		!t.ActiveOrder.IsMerged
}
