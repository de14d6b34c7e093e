package subtitles

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedTimecode = errors.New("malformed timecode")

// ParseTimecode converts "HH:MM:SS,mmm" to milliseconds.
func ParseTimecode(s string) (int64, error) {
	if len(s) != len("00:00:00,000") || s[2] != ':' || s[5] != ':' || s[8] != ',' {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimecode, s)
	}
	// With the comma removed the last field reads as SS*1000+mmm, since mmm is
	// always three digits.
	parts := strings.Split(strings.Replace(s, ",", "", 1), ":")
	var v [3]int64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTimecode, s)
		}
		v[i] = int64(n)
	}
	hours, minutes, secMS := v[0], v[1], v[2]
	if minutes >= 60 || secMS >= 60_000 {
		return 0, fmt.Errorf("%w: %q out of range", ErrMalformedTimecode, s)
	}
	return hours*3_600_000 + minutes*60_000 + secMS, nil
}

// FormatTimecode is the inverse of ParseTimecode.
func FormatTimecode(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
