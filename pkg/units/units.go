// Package units renders flame-graph weights as human-readable strings.
//
// The unit comes from the analysis dimension: "ns" for time, "byte" for
// sizes, anything else (samples, counts) is printed as a plain integer with
// thousands separators.
package units

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Known units.
const (
	Nanoseconds = "ns"
	Bytes       = "byte"
	Samples     = "samples"
)

// ToReadableValue formats value in the given unit.
//
// Times compose minutes, seconds and milliseconds, largest first, skipping
// zero components. The value is rounded to whole milliseconds first; a
// sub-millisecond value falls back to nanoseconds. Sizes compose TB, GB, MB
// and KB the same way after rounding to whole kilobytes, falling back to
// bytes. "0ms" and "0B" are the zero values.
func ToReadableValue(unit string, value int64) string {
	switch unit {
	case Nanoseconds:
		return readableDuration(value)
	case Bytes:
		return readableSize(value)
	default:
		return humanize.Comma(value)
	}
}

func readableDuration(v int64) string {
	ns := v % 1_000_000
	ms := roundDiv(v, 1_000_000)

	var parts []string
	if m := ms / 60_000; m > 0 {
		parts = append(parts, humanize.Comma(m)+"m")
	}
	if s := (ms / 1000) % 60; s > 0 {
		parts = append(parts, strconv.FormatInt(s, 10)+"s")
	}
	if rem := ms % 1000; rem > 0 {
		parts = append(parts, strconv.FormatInt(rem, 10)+"ms")
	}
	if len(parts) == 0 {
		if ns > 0 {
			return strconv.FormatInt(ns, 10) + "ns"
		}
		return "0ms"
	}
	return strings.Join(parts, " ")
}

var sizeUnits = []string{"KB", "MB", "GB", "TB"}

func readableSize(v int64) string {
	bytes := v % 1024
	rest := roundDiv(v, 1024)

	parts := make([]string, 0, len(sizeUnits))
	for i, u := range sizeUnits {
		n := rest
		if i < len(sizeUnits)-1 {
			n = rest % 1024
		}
		if n > 0 {
			parts = append(parts, strconv.FormatInt(n, 10)+u)
		}
		rest /= 1024
	}
	if len(parts) == 0 {
		if bytes == 0 {
			return "0B"
		}
		return strconv.FormatInt(bytes, 10) + "bytes"
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " ")
}

// roundDiv divides and rounds half away from zero.
func roundDiv(v, d int64) int64 {
	return int64(math.Round(float64(v) / float64(d)))
}

// Percent returns value as a percentage of total with two decimals. A
// non-positive total is treated as 1.
func Percent(value, total int64) string {
	if total <= 0 {
		total = 1
	}
	return strconv.FormatFloat(float64(value)/float64(total)*100, 'f', 2, 64)
}
