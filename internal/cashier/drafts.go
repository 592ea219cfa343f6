package cashier

import (
	"strings"

	"github.com/posclub/cashier/internal/models"
)

// Drafts are ephemeral, local-only form state. Each draft belongs to one
// modal and is reset whenever that modal opens or closes; a draft is merged
// into server truth only through a confirmed, successful request.

// Discount charge types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// PaymentDraft backs the full-payment form inside the order modal.
type PaymentDraft struct {
	Method     string
	PaidAmount int64
}

func newPaymentDraft() PaymentDraft {
	return PaymentDraft{Method: models.PaymentMethodCash}
}

// SplitDraft backs the split-payment modal: per-item selected quantities
// plus tendered amount and note.
type SplitDraft struct {
	Method     string
	Note       string
	PaidAmount int64
	Selections map[string]int
}

func newSplitDraft() SplitDraft {
	return SplitDraft{
		Method:     models.PaymentMethodCash,
		Selections: make(map[string]int),
	}
}

// DiscountDraft backs the discount modal.
type DiscountDraft struct {
	ChargeType string
	Value      int64
}

func newDiscountDraft() DiscountDraft {
	return DiscountDraft{ChargeType: DiscountPercentage}
}

// PINDraft backs the void and cancel-transaction modals: a 4-digit manager
// PIN plus an optional reason.
type PINDraft struct {
	PIN    string
	Reason string
}

// HandoverDraft backs the shift-handover flow: target cashier plus both
// parties' PINs.
type HandoverDraft struct {
	NextCashierID string
	CurrentPIN    string
	NextPIN       string
}

// CashMovementDraft backs the cash in/out modal.
type CashMovementDraft struct {
	Type   string
	Name   string
	Note   string
	Amount int64
}

func newCashMovementDraft(movementType string) CashMovementDraft {
	if movementType != models.CashMovementOut {
		movementType = models.CashMovementIn
	}
	return CashMovementDraft{Type: movementType}
}

// OpeningCashDraft backs the open-shift modal. Nil means "let the server
// default it".
type OpeningCashDraft struct {
	Amount *int64
}

const pinLength = 4

// NormalizePIN strips non-digits and truncates to the 4-digit PIN length.
func NormalizePIN(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == pinLength {
			break
		}
	}
	return b.String()
}

func validPIN(pin string) bool {
	return len(pin) == pinLength
}
