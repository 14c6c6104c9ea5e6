//go:build linux

package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// dbusNotifier talks to org.freedesktop.Notifications on the session bus.
type dbusNotifier struct {
	conn *dbus.Conn
}

func newDesktopNotifier() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	return &dbusNotifier{conn: conn}, nil
}

func (n *dbusNotifier) Notify(summary, body string) error {
	obj := n.conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")

	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		"keycanary",          // app_name
		uint32(0),            // replaces_id
		"dialog-warning",     // app_icon
		summary,
		body,
		[]string{},           // actions
		map[string]dbus.Variant{},
		int32(-1),            // expire_timeout: server default
	)

	return call.Err
}
