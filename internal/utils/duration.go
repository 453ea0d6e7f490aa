package utils

import (
	"fmt"
	"time"
)

// FormatDuration renders an elapsed time with the largest unit that keeps the value at or above one.
func FormatDuration(elapsed time.Duration) string {
	switch {
	case elapsed >= time.Second:
		return fmt.Sprintf("%.3fs", elapsed.Seconds())
	case elapsed >= time.Millisecond:
		return fmt.Sprintf("%.3fms", float64(elapsed)/float64(time.Millisecond))
	case elapsed >= time.Microsecond:
		return fmt.Sprintf("%.3fµs", float64(elapsed)/float64(time.Microsecond))
	default:
		return fmt.Sprintf("%dns", elapsed.Nanoseconds())
	}
}
