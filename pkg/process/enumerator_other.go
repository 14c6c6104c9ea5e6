//go:build !linux && !windows

package process

import "errors"

func newPlatformEnumerator() (Enumerator, error) {
	return nil, errors.New("process enumeration is not supported on this platform")
}
