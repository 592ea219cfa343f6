package models

// User identifies a cashier account. PINs are never stored client-side.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
}

// DisplayName prefers the full name over the login name.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// OutletConfig carries the outlet identity printed on receipts.
type OutletConfig struct {
	OutletName    string `json:"outlet_name"`
	OutletAddress string `json:"outlet_address,omitempty"`
	OutletPhone   string `json:"outlet_phone,omitempty"`
	ReceiptFooter string `json:"receipt_footer,omitempty"`
	SocialMedia   string `json:"social_media,omitempty"`
}

// DefaultOutletConfig is used until the server-side config loads.
func DefaultOutletConfig() OutletConfig {
	return OutletConfig{
		OutletName:    "Outlet",
		ReceiptFooter: "Terima kasih atas kunjungan Anda!",
	}
}

// PaymentMethod values accepted by the payment endpoints.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodQRIS     = "qris"
	PaymentMethodTransfer = "transfer"
)

// PaymentMethods lists the accepted methods in display order.
func PaymentMethods() []string {
	return []string{PaymentMethodCash, PaymentMethodCard, PaymentMethodQRIS, PaymentMethodTransfer}
}

// PaymentMethodLabel returns the localized display label for a payment
// method, falling back to the raw value for anything unrecognized.
func PaymentMethodLabel(method string) string {
	switch method {
	case PaymentMethodCash:
		return "Tunai"
	case PaymentMethodCard:
		return "Kartu"
	case PaymentMethodQRIS:
		return "QRIS"
	case PaymentMethodTransfer:
		return "Transfer"
	}
	return method
}

// ValidPaymentMethod reports whether the method is one the server accepts.
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodQRIS, PaymentMethodTransfer:
		return true
	}
	return false
}
