package services

// LoginPath is the storefront's login page. Checkout denials redirect here
// with the original destination in the returnUrl query parameter.
const LoginPath = "/account/login"

// AuthSignal is the externally supplied authentication state. The gate
// treats it as untrusted: anything short of an authenticated signal with a
// shopper id means redirect.
type AuthSignal struct {
	Authenticated bool
	ShopperID     string
}

// CheckoutDecision is the gate's verdict. When Proceed is false, RedirectURL
// carries the login round-trip with the original destination preserved
// byte-for-byte.
type CheckoutDecision struct {
	Proceed     bool
	ShopperID   string
	RedirectURL string
}

// AuthorizeCheckout decides whether a shopper may move from cart to order
// creation. Pure function of its inputs; it performs no authentication
// itself.
func AuthorizeCheckout(signal AuthSignal, destination string) CheckoutDecision {
	if !signal.Authenticated || signal.ShopperID == "" {
		return CheckoutDecision{
			RedirectURL: LoginPath + "?returnUrl=" + destination,
		}
	}
	return CheckoutDecision{
		Proceed:   true,
		ShopperID: signal.ShopperID,
	}
}
