package utils

import "github.com/dustin/go-humanize"

// FormatCount renders n with thousands separators, as in 1,234,567.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
