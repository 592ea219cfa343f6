package models

import "time"

// Cash movement directions.
const (
	CashMovementIn  = "in"
	CashMovementOut = "out"
)

// SalesSummary breaks shift revenue down by payment method.
type SalesSummary struct {
	Cash     int64 `json:"cash"`
	Card     int64 `json:"card"`
	QRIS     int64 `json:"qris"`
	Transfer int64 `json:"transfer"`
	Total    int64 `json:"total"`
}

// NetTotal sums the per-method amounts.
func (s SalesSummary) NetTotal() int64 {
	return s.Cash + s.Card + s.QRIS + s.Transfer
}

// CountSummary pairs an occurrence count with its monetary total,
// used for both voided and cancelled orders within a shift.
type CountSummary struct {
	Count int   `json:"count"`
	Total int64 `json:"total"`
}

// CashMovement is money moved in or out of the drawer outside of sales.
type CashMovement struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Note      string    `json:"note,omitempty"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// CashMovements aggregates a shift's drawer movements.
type CashMovements struct {
	CashIn   []CashMovement `json:"cash_in"`
	CashOut  []CashMovement `json:"cash_out"`
	TotalIn  int64          `json:"total_in"`
	TotalOut int64          `json:"total_out"`
}

// Shift is one cashier accounting session.
type Shift struct {
	ID               string        `json:"id"`
	OpenedBy         string        `json:"opened_by"`
	OpenedByName     string        `json:"opened_by_name,omitempty"`
	OpenedAt         time.Time     `json:"opened_at"`
	ClosedAt         *time.Time    `json:"closed_at,omitempty"`
	OpeningCash      int64         `json:"opening_cash"`
	CarryOverCash    int64         `json:"carry_over_cash"`
	SalesSummary     SalesSummary  `json:"sales_summary"`
	VoidSummary      CountSummary  `json:"void_summary"`
	CancelledSummary CountSummary  `json:"cancelled_summary"`
	CashMovements    CashMovements `json:"cash_movements"`
}

// GrandTotal is net sales plus drawer-ins minus drawer-outs, the figure a
// cashier reconciles against when closing the shift.
func (s *Shift) GrandTotal() int64 {
	if s == nil {
		return 0
	}
	return s.SalesSummary.NetTotal() + s.CashMovements.TotalIn - s.CashMovements.TotalOut
}

// ShiftState is the server's view of the cashier session: the currently
// open shift (nil when closed) and the most recently closed one.
type ShiftState struct {
	OpenShift       *Shift `json:"open_shift"`
	LastClosedShift *Shift `json:"last_closed_shift"`
}

// Open reports whether a shift is currently open.
func (s ShiftState) Open() bool {
	return s.OpenShift != nil
}
