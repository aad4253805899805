// Package nonblocking provides a Writer that hands serialized records
// off to a dedicated background goroutine, so that a hot tracing call
// site never blocks on the underlying sink's I/O. Two backpressure
// policies are supported: Blocking (the default) backs up the caller
// once the internal queue is full, and Lossy drops records instead.
package nonblocking

import (
	"io"
	"sync"

	"github.com/buildbarn/bb-event-log/pkg/util"
	"github.com/buildbarn/bb-event-log/pkg/writer"
)

// defaultBufferSize matches the host tracing ecosystem's own default
// non-blocking channel capacity (tracing-appender's 128_000 records).
const defaultBufferSize = 128000

// PanicWriterThreadDied is the panic message raised when a write is
// attempted (or a FlushGuard is released) after the background writer
// goroutine has already exited. Reaching this indicates a bug: the
// writer goroutine only exits once Close has been called and has
// drained the queue, so no further sends should be in flight.
const PanicWriterThreadDied = "nonblocking: writer thread has died"

// message is sent over the internal channel; shutdown is a single
// sentinel value sent exactly once, when the writer is closed.
type message struct {
	data     []byte
	shutdown bool
}

// Builder configures a NonBlocking writer before it is started.
type Builder struct {
	bufferSize int
	lossy      bool
	logger     util.ErrorLogger
}

// NewBuilder returns a Builder with the defaults: a 128 000-message
// buffer, blocking backpressure, and errors reported via
// util.DefaultErrorLogger.
func NewBuilder() *Builder {
	return &Builder{bufferSize: defaultBufferSize, logger: util.DefaultErrorLogger}
}

// BufferSize sets the channel capacity between callers and the writer
// goroutine.
func (b *Builder) BufferSize(n int) *Builder {
	b.bufferSize = n
	return b
}

// Lossy selects the backpressure policy: if enabled, Write drops a
// record instead of blocking when the internal queue is full.
func (b *Builder) Lossy(lossy bool) *Builder {
	b.lossy = lossy
	return b
}

// ErrorLogger sets where write errors from the underlying sink are
// reported, since they can no longer be returned to the original
// caller once control has passed to the background goroutine.
func (b *Builder) ErrorLogger(logger util.ErrorLogger) *Builder {
	b.logger = logger
	return b
}

// Finish starts the background writer goroutine over sink and returns
// the NonBlocking writer and a FlushGuard. The caller must eventually
// call the guard's Close to drain any buffered records and stop the
// goroutine; sink.Flush (if it implements one) runs exactly once, right
// before the goroutine exits.
func (b *Builder) Finish(sink io.Writer) (*NonBlocking, *FlushGuard) {
	queue := make(chan message, b.bufferSize)
	t := &writerThread{queue: queue, sink: sink, logger: b.logger}

	done := make(chan struct{})
	go func() {
		defer close(done)
		t.run()
		// Closing the queue after the goroutine has exited turns any
		// further send (a misuse: a Write or a second Close racing
		// with an already-finished worker) into a native "send on
		// closed channel" panic, which Write/Close recover and
		// re-raise as PanicWriterThreadDied.
		close(queue)
	}()

	nb := &NonBlocking{queue: queue, lossy: b.lossy}
	guard := &FlushGuard{queue: queue, done: done}
	return nb, guard
}

// NonBlocking is a writer.Writer that enqueues records for a background
// goroutine instead of writing them synchronously.
type NonBlocking struct {
	queue chan<- message
	lossy bool
}

var _ writer.Writer = (*NonBlocking)(nil)

// Write enqueues data for the writer goroutine. Under the blocking
// policy this blocks until the queue has room; under the lossy policy
// it drops data immediately if the queue is full, returning nil (a
// dropped record is not treated as a write error, matching the
// fire-and-forget contract this writer offers).
func (w *NonBlocking) Write(data []byte) error {
	defer func() {
		if recover() != nil {
			panic(PanicWriterThreadDied)
		}
	}()

	msg := message{data: data}
	if w.lossy {
		select {
		case w.queue <- msg:
		default:
		}
		return nil
	}

	w.queue <- msg
	return nil
}

// FlushGuard stops the background writer goroutine and waits for it to
// drain any buffered records. It plays the role Rust's Drop impl plays
// for the same type: the caller is expected to call Close exactly once,
// typically via defer, when the owning subscriber is torn down.
type FlushGuard struct {
	queue    chan<- message
	done     <-chan struct{}
	closeOne sync.Once
	closed   bool
}

// Close sends the shutdown sentinel and blocks until the writer
// goroutine has drained its queue, flushed the sink, and exited. It is
// safe to call more than once; only the first call has effect. Calling
// it after the writer goroutine has already died on its own (which
// should not happen in normal operation) panics with
// PanicWriterThreadDied.
func (g *FlushGuard) Close() {
	g.closeOne.Do(func() {
		g.closed = true
		func() {
			defer func() {
				if recover() != nil {
					panic(PanicWriterThreadDied)
				}
			}()
			g.queue <- message{shutdown: true}
		}()
		<-g.done
	})
}

type writerThread struct {
	queue  <-chan message
	sink   io.Writer
	logger util.ErrorLogger
}

func (t *writerThread) run() {
	for msg := range t.queue {
		if msg.shutdown {
			t.drain()
			break
		}
		t.handle(msg)
	}
	if f, ok := t.sink.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			t.logger.Log(err)
		}
	}
}

// drain processes any records already queued ahead of the shutdown
// sentinel without blocking for more: once shutdown has been sent, no
// further sends are expected.
func (t *writerThread) drain() {
	for {
		select {
		case msg := <-t.queue:
			if !msg.shutdown {
				t.handle(msg)
			}
		default:
			return
		}
	}
}

func (t *writerThread) handle(msg message) {
	if _, err := t.sink.Write(msg.data); err != nil {
		t.logger.Log(err)
	}
}
