package consumer

import (
	"encoding/base64"
	"encoding/binary"

	"github.com/lazybeaver/xorshift"
)

// hashSpanID renders a span's numeric ID as a short, deterministic
// string suitable for a terminal: the ID seeds a XorShift64Star
// sequence, two rounds of output
// are concatenated, and the first 9 bytes of that are base64-encoded to
// exactly 12 characters.
func hashSpanID(id uint64) string {
	seed := id
	if seed == 0 {
		// XorShift64Star's state must be nonzero or every subsequent
		// value it produces is zero too.
		seed = 1
	}
	sequence := xorshift.NewXorShift64Star(seed)

	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], sequence.Next())
	binary.LittleEndian.PutUint64(buf[8:16], sequence.Next())

	return base64.RawURLEncoding.EncodeToString(buf[:9])
}
