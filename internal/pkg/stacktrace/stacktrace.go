// Package stacktrace produces short stack traces limited to this module's
// internal packages, for panic logs.
package stacktrace

import (
	"runtime"
	"strconv"
	"strings"
)

const maxFrames = 32

// Internal returns "internal/<pkg>/<file>.go:<line>" entries for the calling
// goroutine, skipping the first skip frames. Frames outside an /internal/
// directory are omitted.
func Internal(skip int) []string {
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+1, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var out []string
	for {
		f, more := frames.Next()
		if i := strings.Index(f.File, "/internal/"); i >= 0 {
			out = append(out, f.File[i+1:]+":"+strconv.Itoa(f.Line))
		}
		if !more {
			break
		}
	}
	return out
}
