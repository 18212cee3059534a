// Package payment holds the static payment-method reference data offered
// during checkout. Methods are opaque selectable tokens: the checkout
// workflow records the chosen type and display name but attaches no
// processing semantics to either.
package payment

// Method is a selectable payment option.
type Method struct {
	Type        string
	DisplayName string
}

var methods = []Method{
	{Type: "credit_card", DisplayName: "Credit Card"},
	{Type: "debit_card", DisplayName: "Debit Card"},
	{Type: "upi", DisplayName: "UPI"},
	{Type: "net_banking", DisplayName: "Net Banking"},
	{Type: "wallet", DisplayName: "Digital Wallet"},
	{Type: "cod", DisplayName: "Cash on Delivery"},
	{Type: "bank_transfer", DisplayName: "Bank Transfer"},
	{Type: "paypal", DisplayName: "PayPal"},
}

// Methods returns the available payment methods in display order.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// ByType returns the method matching the given type code.
func ByType(code string) (Method, bool) {
	for _, m := range methods {
		if m.Type == code {
			return m, true
		}
	}
	return Method{}, false
}
