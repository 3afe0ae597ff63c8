package ckzlib

// Notifier receives user-facing outcome messages from the producer and
// consumer. It replaces optional runtime-probed UI callbacks with an explicit
// capability interface; components that don't care inject NopNotifier.
type Notifier interface {
	OnSuccess(msg string)
	OnWarning(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) OnSuccess(string) {}
func (NopNotifier) OnWarning(string) {}

var _ Notifier = NopNotifier{}
