package notify

import (
	log "github.com/sirupsen/logrus"
)

// Notifier delivers a desktop notification. Delivery failure is a transient
// environment error: callers log it and move on, a run never aborts over a
// missed toast.
type Notifier interface {
	Notify(summary, body string) error
}

// NewPlatformNotifier returns the best notifier available on this platform,
// falling back to log output when no desktop notification service exists.
func NewPlatformNotifier() Notifier {
	if n, err := newDesktopNotifier(); err == nil {
		return n
	} else {
		log.Debugf("Desktop notifications unavailable, falling back to log output: %v", err)
	}
	return &LogNotifier{}
}

// LogNotifier writes notifications to the log. Used where no notification
// service is reachable and as the non-desktop default.
type LogNotifier struct{}

func (n *LogNotifier) Notify(summary, body string) error {
	log.Warnf("NOTIFICATION: %s - %s", summary, body)
	return nil
}
