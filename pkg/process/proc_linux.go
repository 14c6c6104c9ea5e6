//go:build linux

package process

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/keycanary/keycanary/pkg/common"
)

// procEnumerator reads the process universe from procfs. Per-process write
// counters come from /proc/<pid>/io (write_bytes), which requires no special
// privileges for processes owned by the invoking user.
type procEnumerator struct {
	root string
}

func newPlatformEnumerator() (Enumerator, error) {
	return &procEnumerator{root: "/proc"}, nil
}

func (e *procEnumerator) List() ([]common.ProcessInfo, error) {
	entries, err := os.ReadDir(e.root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", e.root, err)
	}

	var procs []common.ProcessInfo

	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		writeBytes, err := e.readWriteBytes(pid)
		if err != nil {
			// The process may have exited between ReadDir and the read, or
			// /proc/<pid>/io may be unreadable for another user's process.
			// Either way this pid is simply not part of the snapshot.
			log.Tracef("Skipping pid %d: %v", pid, err)
			continue
		}

		procs = append(procs, common.ProcessInfo{
			Pid:        pid,
			Name:       e.readName(pid),
			Path:       e.readPath(pid),
			WriteBytes: writeBytes,
		})
	}

	return procs, nil
}

func (e *procEnumerator) readWriteBytes(pid int) (uint64, error) {
	f, err := os.Open(filepath.Join(e.root, strconv.Itoa(pid), "io"))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if value, ok := strings.CutPrefix(line, "write_bytes: "); ok {
			return strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		}
	}

	return 0, fmt.Errorf("no write_bytes entry for pid %d", pid)
}

func (e *procEnumerator) readName(pid int) string {
	data, err := os.ReadFile(filepath.Join(e.root, strconv.Itoa(pid), "comm"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (e *procEnumerator) readPath(pid int) string {
	// Fails for processes of other users; the path stays empty and the
	// path-prefix filter simply does not apply to them.
	path, err := os.Readlink(filepath.Join(e.root, strconv.Itoa(pid), "exe"))
	if err != nil {
		return ""
	}
	return path
}
