package process

import (
	"github.com/keycanary/keycanary/pkg/common"
)

// FakeEnumerator replays scripted process snapshots, one per List call. The
// last snapshot repeats once the script runs out, so a fixed universe only
// needs a single entry. A nil snapshot entry simulates a failed enumeration.
type FakeEnumerator struct {
	Snapshots [][]common.ProcessInfo
	Errs      []error

	calls int
}

func (f *FakeEnumerator) List() ([]common.ProcessInfo, error) {
	idx := f.calls
	f.calls++

	if idx < len(f.Errs) && f.Errs[idx] != nil {
		return nil, f.Errs[idx]
	}

	if len(f.Snapshots) == 0 {
		return nil, nil
	}
	if idx >= len(f.Snapshots) {
		idx = len(f.Snapshots) - 1
	}

	snapshot := f.Snapshots[idx]
	out := make([]common.ProcessInfo, len(snapshot))
	copy(out, snapshot)

	return out, nil
}

// Calls reports how many times List has been invoked.
func (f *FakeEnumerator) Calls() int {
	return f.calls
}
