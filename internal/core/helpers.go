package core

import (
	"context"
	"github.com/agamayoga/fsscan/pkg/logx"
	"github.com/dustin/go-humanize"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

var sizeSuffixes = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// oneDecimal renders a number with thousands separators and exactly one decimal digit.
const oneDecimal = "#,###.#"

// NormalizeKey reduces a manifest path to its comparison key: the first prefixLength
// characters (the volume prefix) are dropped and the remainder is lower-cased.
// Paths not longer than the prefix reduce to the empty key.
func NormalizeKey(path string, prefixLength int) string {
	rest := path
	for i := 0; i < prefixLength; i++ {
		if rest == "" {
			return ""
		}
		_, size := utf8.DecodeRuneInString(rest)
		rest = rest[size:]
	}
	return strings.ToLower(rest)
}

// BytesToString formats a byte count with a binary unit suffix and one decimal digit,
// for example 1536 -> "1.5KB". Zero is rendered as "0B". Halves round to even.
func BytesToString(byteCount int64) string {
	if byteCount == 0 {
		return "0" + sizeSuffixes[0]
	}

	bytes := uint64(byteCount)
	if byteCount < 0 {
		bytes = uint64(-(byteCount + 1)) + 1
	}

	place := 0
	for v := bytes; v >= 1024 && place < len(sizeSuffixes)-1; v /= 1024 {
		place++
	}

	num := math.RoundToEven(float64(bytes)/math.Pow(1024, float64(place))*10) / 10
	if byteCount < 0 {
		num = -num
	}

	return humanize.FormatFloat(oneDecimal, num) + sizeSuffixes[place]
}

// FormatPercent renders a percentage with one decimal digit.
func FormatPercent(p float64) string {
	return humanize.FormatFloat(oneDecimal, p)
}

// percentOf returns current as a percentage of total. total must be positive.
func percentOf(current, total int64) float64 {
	return 100 * float64(current) / float64(total)
}

// ApplyDelay applies a delay to the execution of the current context.
func ApplyDelay(ctx context.Context, delay time.Duration) {
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			logx.As().Warn().Msg("context cancelled during delay")
		}
	}
}
