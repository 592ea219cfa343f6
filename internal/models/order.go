package models

import (
	"encoding/json"
	"time"
)

// Order statuses as delivered by the server.
const (
	OrderStatusPending   = "pending"
	OrderStatusCooking   = "cooking"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusCancelled = "cancelled"
)

// Payment statuses for an order.
const (
	PaymentStatusUnpaid    = "unpaid"
	PaymentStatusPartial   = "partial"
	PaymentStatusPaid      = "paid"
	PaymentStatusCancelled = "cancelled"
)

// Order is the bill attached to a table. Amounts are integer rupiah.
type Order struct {
	ID                  string     `json:"id"`
	TableNumber         string     `json:"table_number"`
	Status              string     `json:"status"`
	PaymentStatus       string     `json:"payment_status"`
	TotalAmount         int64      `json:"total_amount"`
	OriginalTotalAmount *int64     `json:"original_total_amount,omitempty"`
	PaidAmount          int64      `json:"paid_amount"`
	RemainingAmount     *int64     `json:"remaining_amount,omitempty"`
	IsMerged            bool       `json:"is_merged"`
	VoidedBy            string     `json:"voided_by,omitempty"`
	VoidReason          string     `json:"void_reason,omitempty"`
	VoidedAt            *time.Time `json:"voided_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// Total prefers the pre-adjustment total when the server supplies one.
func (o *Order) Total() int64 {
	if o == nil {
		return 0
	}
	if o.OriginalTotalAmount != nil {
		return *o.OriginalTotalAmount
	}
	return o.TotalAmount
}

// Remaining returns the unpaid portion of the order. The server-supplied
// value wins when present; otherwise it is derived as max(total-paid, 0).
func (o *Order) Remaining() int64 {
	if o == nil {
		return 0
	}
	if o.RemainingAmount != nil {
		if *o.RemainingAmount < 0 {
			return 0
		}
		return *o.RemainingAmount
	}
	remaining := o.Total() - o.PaidAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// OrderItem is a single line on the bill.
type OrderItem struct {
	ID          string `json:"id"`
	ProductName string `json:"product_name"`
	Qty         int    `json:"qty"`
	Price       int64  `json:"price"`
	ItemStatus  string `json:"item_status"`
}

// CanEdit reports whether the kitchen has not started the item yet.
// Quantity edits are only permitted while the item is pending.
func (i OrderItem) CanEdit() bool {
	return i.ItemStatus == OrderStatusPending
}

// Subtotal is qty times unit price.
func (i OrderItem) Subtotal() int64 {
	return int64(i.Qty) * i.Price
}

// Adjustment is a manual charge applied to an order (discount, compliment).
type Adjustment struct {
	Name          string `json:"name"`
	ChargeType    string `json:"charge_type"`
	Value         int64  `json:"value"`
	AppliedAmount int64  `json:"applied_amount"`
}

// AdditionalCharge is a named amount printed on the receipt.
type AdditionalCharge struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// PaymentNote tolerates both a plain JSON string and the {"String": ..., "Valid": ...}
// shape the server emits for nullable columns.
type PaymentNote string

func (n *PaymentNote) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = PaymentNote(s)
		return nil
	}
	var nullable struct {
		String string `json:"String"`
		Valid  bool   `json:"Valid"`
	}
	if err := json.Unmarshal(data, &nullable); err != nil {
		*n = ""
		return nil
	}
	if nullable.Valid {
		*n = PaymentNote(nullable.String)
	} else {
		*n = ""
	}
	return nil
}

// Payment is a settlement already applied to an order.
type Payment struct {
	PaymentMethod string      `json:"payment_method"`
	Amount        int64       `json:"amount"`
	Note          PaymentNote `json:"note,omitempty"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
}

// OrderDetail is the full order view returned by GET /orders/{id}.
type OrderDetail struct {
	Order             *Order             `json:"order"`
	Items             []OrderItem        `json:"items"`
	Adjustments       []Adjustment       `json:"adjustments,omitempty"`
	Payments          []Payment          `json:"payments,omitempty"`
	AdditionalCharges []AdditionalCharge `json:"additional_charges,omitempty"`
}

// Charges returns the non-zero additional charges for receipt display,
// falling back to applied adjustment amounts when the server omits them.
func (d *OrderDetail) Charges() []AdditionalCharge {
	if d == nil {
		return nil
	}
	var out []AdditionalCharge
	if len(d.AdditionalCharges) > 0 {
		for _, c := range d.AdditionalCharges {
			if c.Amount != 0 {
				out = append(out, c)
			}
		}
		return out
	}
	for _, a := range d.Adjustments {
		if a.AppliedAmount != 0 {
			out = append(out, AdditionalCharge{Name: a.Name, Amount: a.AppliedAmount})
		}
	}
	return out
}
