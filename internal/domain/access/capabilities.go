package access

func CapabilitiesFor(state ViewerState) []string {
	switch state {
	case StatePremium:
		return []string{"watch_free", "watch_premium", "review", "cancel_subscription"}
	default:
		return []string{"watch_free", "review", "subscribe", "purchase"}
	}
}
