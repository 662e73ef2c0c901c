// Package format holds pure presentation helpers for the HTML layer. None of
// them touch collector state; the numeric API payloads stay raw.
package format

import (
	"fmt"
	"math"
)

// Percent renders a nullable percentage with one decimal, or a dash.
func Percent(v *float64) string {
	if v == nil {
		return "–"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

// Bytes renders a byte count with a binary unit suffix.
func Bytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Duration renders a second count as the largest non-zero day/hour/minute
// parts, e.g. "3d 4h 12m". Sub-minute durations render as seconds.
func Duration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		return "–"
	}
	total := int64(seconds)
	if total < 60 {
		return fmt.Sprintf("%ds", total)
	}
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
