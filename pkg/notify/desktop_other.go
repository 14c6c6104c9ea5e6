//go:build !linux

package notify

import "errors"

func newDesktopNotifier() (Notifier, error) {
	return nil, errors.New("no desktop notification service on this platform")
}
