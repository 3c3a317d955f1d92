// Package notify delivers local notifications (title + body) through
// the host notification system. The default implementation writes to
// the process log; deployments plug in their own transport.
package notify

import (
	"log"
)

// Notifier sends a user-visible notification.
type Notifier interface {
	Send(title, body string) error
}

// LogNotifier writes notifications to the standard logger.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(title, body string) error {
	log.Printf("[NOTIFICATION] %s: %s", title, body)
	return nil
}
