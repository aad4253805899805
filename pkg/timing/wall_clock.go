package timing

import "time"

// UnixTime is a point in time expressed as seconds and nanoseconds since
// the UNIX epoch. It is the wire representation of a timestamp; see
// WallClock for how one is obtained.
type UnixTime struct {
	Seconds uint64
	Nanos   uint32
}

// WallClock optionally produces a timestamp for an emitted record. It is
// independent of the monotonic clock used by SpanTimer: WallClock is
// consulted once per event, while SpanTimer accumulates durations across
// a span's lifetime.
type WallClock interface {
	// Time returns the current time of day, or false if no timestamp
	// should be attached (either because the clock is a no-op, or
	// because the underlying system clock reports a time before the
	// UNIX epoch).
	Time() (UnixTime, bool)
}

type noopWallClock struct{}

func (noopWallClock) Time() (UnixTime, bool) {
	return UnixTime{}, false
}

// NoopWallClock never produces a timestamp. It is the default used when a
// subscriber is not configured with a WallClock.
var NoopWallClock WallClock = noopWallClock{}

type systemWallClock struct{}

func (systemWallClock) Time() (UnixTime, bool) {
	now := time.Now()
	if now.Unix() < 0 {
		return UnixTime{}, false
	}
	return UnixTime{
		Seconds: uint64(now.Unix()),
		Nanos:   uint32(now.Nanosecond()),
	}, true
}

// SystemWallClock reports the operating system's current time of day.
var SystemWallClock WallClock = systemWallClock{}
