package injector

import (
	"sync"
	"time"
)

// FakeKeyer records every keystroke with its wall-clock send time. FailEvery
// makes each n-th send fail, exercising the skip-on-failure path.
type FakeKeyer struct {
	FailEvery int
	FailWith  error

	mutex sync.Mutex
	sent  []rune
	times []time.Time
	calls int
}

func (f *FakeKeyer) SendKeystroke(ch rune) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.calls++
	if f.FailEvery > 0 && f.calls%f.FailEvery == 0 {
		return f.FailWith
	}

	f.sent = append(f.sent, ch)
	f.times = append(f.times, time.Now())

	return nil
}

// Sent returns a copy of the successfully delivered keystrokes.
func (f *FakeKeyer) Sent() []rune {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	out := make([]rune, len(f.sent))
	copy(out, f.sent)
	return out
}

// SendTimes returns a copy of the delivery timestamps.
func (f *FakeKeyer) SendTimes() []time.Time {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	out := make([]time.Time, len(f.times))
	copy(out, f.times)
	return out
}
