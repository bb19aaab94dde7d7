package model

// Notifier delivers an alert message to an external channel.
type Notifier interface {
	Send(subject, body string) error
}
