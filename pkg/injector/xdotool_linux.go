//go:build linux

package injector

import (
	"fmt"
	"os/exec"
)

// xdotoolKeyer shells out to xdotool to type one character into the focused
// X11 window. Wayland sessions without XWayland will report a failure per
// key, which the sampling loop logs and skips.
type xdotoolKeyer struct{}

func newPlatformKeyer() (Keyer, error) {
	if _, err := exec.LookPath("xdotool"); err != nil {
		return nil, fmt.Errorf("xdotool not found in PATH: %w", err)
	}
	return &xdotoolKeyer{}, nil
}

func (k *xdotoolKeyer) SendKeystroke(ch rune) error {
	out, err := exec.Command("xdotool", "type", "--", string(ch)).CombinedOutput()
	if err != nil {
		return fmt.Errorf("xdotool type failed: %v (%s)", err, out)
	}
	return nil
}
