package subscriber

import (
	"fmt"

	"github.com/petermattis/goid"
)

// currentThread reports the calling goroutine's ID and a display name.
// Go goroutines have no equivalent of a settable OS thread name, so the
// name always falls back to a synthetic "goroutine-<id>" label, mirroring
// how the original falls back to a debug-formatted thread::Id when no
// name was set.
func currentThread() (id uint64, name string) {
	id = uint64(goid.Get())
	return id, fmt.Sprintf("goroutine-%d", id)
}
