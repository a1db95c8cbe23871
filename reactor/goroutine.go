package reactor

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineToken returns an identifier for the calling goroutine, used only
// to let Dispatch tell whether it is already running on the reactor's
// worker goroutine (and may therefore run synchronously) or must hand the
// task to Post instead. Parsing runtime.Stack's header is the standard
// trick for this since the runtime does not expose goroutine IDs directly.
func goroutineToken() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
