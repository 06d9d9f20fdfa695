package channel

// AnonymousNotifiable routes an on-demand notification to a fixed address.
type AnonymousNotifiable struct {
	to           string
	alphanumeric bool
}

// Route returns a notifiable that routes the twilio channel to to.
func Route(to string) AnonymousNotifiable {
	return AnonymousNotifiable{to: to}
}

// WithAlphanumericSender returns a copy that accepts an alphanumeric sender.
func (n AnonymousNotifiable) WithAlphanumericSender(allowed bool) AnonymousNotifiable {
	n.alphanumeric = allowed
	return n
}

// RouteNotificationFor implements Notifiable.
func (n AnonymousNotifiable) RouteNotificationFor(channel string) string {
	if channel != Name {
		return ""
	}
	return n.to
}

// CanReceiveAlphanumericSender implements AlphanumericSenderReceiver.
func (n AnonymousNotifiable) CanReceiveAlphanumericSender() bool {
	return n.alphanumeric
}
