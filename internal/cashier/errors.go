package cashier

import (
	"errors"

	"github.com/posclub/cashier/internal/api"
)

// Sentinel errors for the cashier view's failure taxonomy.
var (
	// ErrShiftClosed rejects any order-mutating operation attempted while
	// no cashier shift is open. Checked before dispatching any request.
	ErrShiftClosed = errors.New("shift kasir belum dibuka")

	// ErrCancelled means the user declined a confirmation step. It is a
	// no-op outcome, not a failure, and must never be surfaced as an error.
	ErrCancelled = errors.New("dibatalkan oleh pengguna")

	// ErrBusy rejects a duplicate submission while the same operation is
	// already in flight.
	ErrBusy = errors.New("operasi sedang diproses")

	// ErrNoOrder means no order is loaded for an order-scoped operation.
	ErrNoOrder = errors.New("order tidak ditemukan")
)

// ValidationError is a local precondition failure: reported immediately,
// no network call made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(message string) error {
	return &ValidationError{Message: message}
}

// Message resolves what the presentation layer should surface for err: a
// validation or shift-guard message as-is, the server's own wording for a
// rejected request, or the operation's localized fallback for everything
// else (including transport failures).
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	if errors.Is(err, ErrShiftClosed) {
		return "Shift kasir belum dibuka. Buka shift untuk melanjutkan."
	}
	return api.ServerMessage(err, fallback)
}

// IsCancelled reports whether err is an explicit user cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
