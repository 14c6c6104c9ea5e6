//go:build !linux && !windows

package injector

import "errors"

func newPlatformKeyer() (Keyer, error) {
	return nil, errors.New("keystroke injection is not supported on this platform")
}
