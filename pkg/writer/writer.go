// Package writer provides the synchronous Writer implementations a
// subscriber writes serialized records to: locked stdout/stderr, and
// any io.Writer guarded by a mutex. Asynchronous, non-blocking delivery
// lives in the sibling nonblocking package.
package writer

import (
	"io"
	"os"
	"sync"

	"github.com/buildbarn/bb-event-log/pkg/util"
)

// Writer accepts pre-serialized record bytes. Implementations must be
// safe for concurrent use, as a subscriber may be invoked from many
// goroutines at once.
type Writer interface {
	Write(data []byte) error
}

type lockedFileWriter struct {
	file *os.File
}

// Write writes data to the underlying *os.File without locking of its
// own; Stdout and Stderr wrap it in a lockedMutexWriter, mirroring
// Stdout.lock()/Stderr.lock() semantics: concurrent writers never
// interleave partial records.
func (w lockedFileWriter) Write(data []byte) error {
	_, err := w.file.Write(data)
	return err
}

// Stdout is a Writer that writes to the process's standard output.
var Stdout Writer = &lockedMutexWriter{inner: lockedFileWriter{file: os.Stdout}}

// Stderr is a Writer that writes to the process's standard error.
var Stderr Writer = &lockedMutexWriter{inner: lockedFileWriter{file: os.Stderr}}

// lockedMutexWriter serializes concurrent writes with a mutex. *os.File
// itself is already safe for concurrent use at the syscall level, but
// wrapping it keeps the discipline uniform with NewWriter below, where
// the underlying io.Writer may not be.
type lockedMutexWriter struct {
	mu    sync.Mutex
	inner Writer
}

func (w *lockedMutexWriter) Write(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.inner.Write(data)
}

type ioWriterAdapter struct {
	w io.Writer
}

func (a ioWriterAdapter) Write(data []byte) error {
	_, err := a.w.Write(data)
	return err
}

// NewWriter wraps an arbitrary io.Writer as a Writer, serializing
// concurrent callers with a mutex.
func NewWriter(w io.Writer) Writer {
	return &lockedMutexWriter{inner: ioWriterAdapter{w: w}}
}

// WarnOnError wraps w so that write errors are reported to logger
// instead of being silently dropped or returned to a caller that has no
// way to act on them (the subscriber calling Write is not in a position
// to propagate an error back to the tracing call site that triggered
// it).
func WarnOnError(w Writer, logger util.ErrorLogger) Writer {
	return warnOnErrorWriter{inner: w, logger: logger}
}

type warnOnErrorWriter struct {
	inner  Writer
	logger util.ErrorLogger
}

func (w warnOnErrorWriter) Write(data []byte) error {
	if err := w.inner.Write(data); err != nil {
		w.logger.Log(err)
	}
	return nil
}

// PanicOnError wraps w so that a write error panics instead of being
// swallowed. Use this where a broken log sink should be treated as a
// fatal condition for the process, rather than a degraded one.
func PanicOnError(w Writer) Writer {
	return panicOnErrorWriter{inner: w}
}

type panicOnErrorWriter struct {
	inner Writer
}

func (w panicOnErrorWriter) Write(data []byte) error {
	if err := w.inner.Write(data); err != nil {
		panic(err)
	}
	return nil
}
