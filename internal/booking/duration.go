package booking

import "fmt"

func normalizeDuration(minutes int) int {
	if minutes <= 0 {
		return DefaultDuration
	}

	return minutes
}

// FormatDuration renders a slot length the way the site shows it.
func FormatDuration(minutes int) string {
	n := normalizeDuration(minutes)

	switch {
	case n == 90: //nolint:gomnd
		return "1 hora y media"
	case n == 60: //nolint:gomnd
		return "1 hora"
	case n > 60 && n%60 == 0:
		return fmt.Sprintf("%d horas", n/60) //nolint:gomnd
	default:
		return fmt.Sprintf("%d min", n)
	}
}
