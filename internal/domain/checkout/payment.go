package checkout

type Method string

const (
	MethodCash    Method = "cash"
	MethodWallet  Method = "wallet"
	MethodGateway Method = "gateway"
)

func (m Method) Known() bool {
	switch m {
	case MethodCash, MethodWallet, MethodGateway:
		return true
	default:
		return false
	}
}

// Redirect reports whether completing payment requires leaving the
// storefront for an external payment page.
func (m Method) Redirect() bool {
	return m == MethodGateway
}

// OrDefault falls back to cash on delivery when no method was selected.
func (m Method) OrDefault() Method {
	if m == "" {
		return MethodCash
	}
	return m
}
