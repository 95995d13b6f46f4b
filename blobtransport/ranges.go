package blobtransport

import (
	"errors"
	"strconv"
	"strings"
)

var errUnsatisfiable = errors.New("unsatisfiable range")

// parseRange parses a single-range Range header value (RFC 9110 section
// 14.1.2) against an object of the given size, returning the offset and
// length of the range. The end is clamped to the size. Multiple ranges are
// not supported.
func parseRange(s string, size int64) (start, length int64, err error) {
	spec, ok := strings.CutPrefix(s, "bytes=")
	if !ok || strings.Contains(spec, ",") {
		return 0, 0, errUnsatisfiable
	}

	first, last, ok := strings.Cut(strings.TrimSpace(spec), "-")
	if !ok {
		return 0, 0, errUnsatisfiable
	}

	first, last = strings.TrimSpace(first), strings.TrimSpace(last)

	// suffix range: the last n bytes
	if first == "" {
		n, err := strconv.ParseInt(last, 10, 64)
		if err != nil || n <= 0 || size == 0 {
			return 0, 0, errUnsatisfiable
		}

		n = min(n, size)

		return size - n, n, nil
	}

	start, err = strconv.ParseInt(first, 10, 64)
	if err != nil || start < 0 || start >= size {
		return 0, 0, errUnsatisfiable
	}

	end := size - 1

	if last != "" {
		end, err = strconv.ParseInt(last, 10, 64)
		if err != nil || end < start {
			return 0, 0, errUnsatisfiable
		}

		end = min(end, size-1)
	}

	return start, end - start + 1, nil
}
