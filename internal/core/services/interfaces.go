package services

// Notifier delivers outbound notifications. Fire-and-forget from the
// caller's perspective; implementations must keep failures observable
// in logs.
type Notifier interface {
	Send(to, subject, body string) error
}
