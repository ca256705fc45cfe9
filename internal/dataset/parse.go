package dataset

import (
	"strconv"
	"strings"
	"time"
)

// Layouts tried in order when coercing a cell to a timestamp. The sample
// sales files use US month-first dates with a bare hour ("2/24/2003 0:00");
// processed exports use ISO dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006 15:04",
	"1/2/2006",
	"01/02/2006",
	"02/01/2006 15:04",
	"2006/01/02",
}

// ParseDate coerces a raw cell to a timestamp. Returns false for anything
// that matches no known layout, mirroring to_datetime(errors="coerce").
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var currencyMarkers = []string{"R$", "US$", "$", "€", "£"}

// ParseNumber coerces a raw cell to a float. Currency symbols, thousands
// separators and surrounding spaces are tolerated; anything else that fails
// strconv is reported as not-a-number rather than an error.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		lastComma := strings.LastIndex(s, ",")
		lastDot := strings.LastIndex(s, ".")
		switch {
		case lastDot > lastComma:
			// "1,234.56": comma is a thousands separator
			s = strings.ReplaceAll(s, ",", "")
		case lastDot >= 0:
			// "1.234,56": dot thousands, decimal comma
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		default:
			if parts := strings.Split(s, ","); len(parts) == 2 && len(parts[1]) != 3 {
				// "1234,56": decimal comma
				s = parts[0] + "." + parts[1]
			} else {
				// "1,234" or "1,234,567": thousands separators
				s = strings.ReplaceAll(s, ",", "")
			}
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}
