package injector

// Keyer emits a single synthetic keystroke into whatever consumes keyboard
// input on the platform. A failed send is reported, not retried; the caller
// decides whether to skip the key or abort.
type Keyer interface {
	SendKeystroke(ch rune) error
}

// NewPlatformKeyer returns the keystroke emitter for the build platform.
func NewPlatformKeyer() (Keyer, error) {
	return newPlatformKeyer()
}
