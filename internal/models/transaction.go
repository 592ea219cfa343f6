package models

import "time"

// Transaction statuses.
const (
	TransactionStatusPaid      = "paid"
	TransactionStatusCancelled = "cancelled"
)

// Transaction is one completed payment in the history view.
type Transaction struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"order_id,omitempty"`
	PaymentMethod string    `json:"payment_method"`
	TotalAmount   int64     `json:"total_amount"`
	PaidAmount    *int64    `json:"paid_amount,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Cancelled reports whether the transaction was cancelled after payment.
func (t Transaction) Cancelled() bool {
	return t.Status == TransactionStatusCancelled
}

// VoidedOrder is one entry of the void history.
type VoidedOrder struct {
	ID          string     `json:"id"`
	TableNumber string     `json:"table_number"`
	TotalAmount int64      `json:"total_amount"`
	VoidedBy    string     `json:"voided_by"`
	VoidReason  string     `json:"void_reason,omitempty"`
	VoidedAt    *time.Time `json:"voided_at,omitempty"`
}

// Analytics is the daily sales rollup used for the dashboard stats.
type Analytics struct {
	TotalRevenue   int64 `json:"total_revenue"`
	VoidTotal      int64 `json:"void_total"`
	CancelledTotal int64 `json:"cancelled_total"`
	TotalOrders    int   `json:"total_orders"`
}

// NetRevenue is gross revenue less voided and cancelled amounts.
func (a Analytics) NetRevenue() int64 {
	return a.TotalRevenue - a.VoidTotal - a.CancelledTotal
}
