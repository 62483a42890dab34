package util

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const byteUnits = "KMGTPE"

// FormatBytes renders a byte count with a binary prefix and the given
// number of decimals, e.g. FormatBytes(1536, 2) == "1.50 KB".
// Values below 1024 are rendered as plain bytes ("512 B").
func FormatBytes(b uint64, precision int) string {
	if b < 1024 {
		return strconv.FormatUint(b, 10) + " B"
	}
	div, exp := uint64(1024), 0
	for n := b / 1024; n >= 1024 && exp < len(byteUnits)-1; n /= 1024 {
		div *= 1024
		exp++
	}
	value := float64(b) / float64(div)
	return strconv.FormatFloat(value, 'f', precision, 64) + " " + string(byteUnits[exp]) + "B"
}

// FormatUptime renders d as days, hours, minutes and seconds, dropping
// leading zero units: "2d 3h 4m 5s", "4m 5s", "5s".
func FormatUptime(d time.Duration) string {
	seconds := int64(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours%24, minutes%60, seconds%60)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes%60, seconds%60)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// Ratio returns part/total*100 unrounded, or 0 when total is 0.
func Ratio(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}

// Round rounds v to the given number of decimals.
func Round(v float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(v*p) / p
}
