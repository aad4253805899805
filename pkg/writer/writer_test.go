package writer_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/buildbarn/bb-event-log/pkg/writer"
	"github.com/stretchr/testify/require"
)

type erroringWriter struct {
	err error
}

func (w erroringWriter) Write(data []byte) error {
	return w.err
}

type recordingErrorLogger struct {
	logged []error
}

func (l *recordingErrorLogger) Log(err error) {
	l.logged = append(l.logged, err)
}

func TestNewWriterWritesThrough(t *testing.T) {
	var buf bytes.Buffer
	w := writer.NewWriter(&buf)
	require.NoError(t, w.Write([]byte("hello\n")))
	require.Equal(t, "hello\n", buf.String())
}

func TestWarnOnErrorReportsAndSwallows(t *testing.T) {
	wantErr := errors.New("disk full")
	logger := &recordingErrorLogger{}
	w := writer.WarnOnError(erroringWriter{err: wantErr}, logger)

	require.NoError(t, w.Write([]byte("x")))
	require.Equal(t, []error{wantErr}, logger.logged)
}

func TestPanicOnErrorPanics(t *testing.T) {
	wantErr := errors.New("disk full")
	w := writer.PanicOnError(erroringWriter{err: wantErr})

	require.PanicsWithValue(t, wantErr, func() {
		_ = w.Write([]byte("x"))
	})
}
