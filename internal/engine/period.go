package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"vendas-dashboard/internal/models"
)

var ErrInvalidPeriod = errors.New("period must be monthly, quarterly or yearly")

// ParsePeriod normalizes a period selector token. Besides the canonical
// names it accepts the single-letter tokens of the legacy dashboard
// ("M"/"T"/"A") and their Portuguese labels.
func ParsePeriod(s string) (models.Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "mensal", "m", "me", "month":
		return models.PeriodMonthly, nil
	case "quarterly", "trimestral", "t", "q", "qe", "quarter":
		return models.PeriodQuarterly, nil
	case "yearly", "anual", "a", "y", "ye", "year":
		return models.PeriodYearly, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrInvalidPeriod, s)
	}
}

// periodEnd maps a timestamp to the period-end label date of its bucket:
// last calendar day of the month, quarter or year.
func periodEnd(t time.Time, p models.Period) time.Time {
	y, m, _ := t.Date()
	switch p {
	case models.PeriodMonthly:
		return endOfMonth(y, m)
	case models.PeriodQuarterly:
		lastMonth := time.Month((int(m-1)/3)*3 + 3)
		return endOfMonth(y, lastMonth)
	case models.PeriodYearly:
		return time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return endOfMonth(y, m)
}

// nextPeriodEnd steps one bucket forward from a period-end date.
func nextPeriodEnd(end time.Time, p models.Period) time.Time {
	y, m, _ := end.Date()
	switch p {
	case models.PeriodMonthly:
		return endOfMonth(y, m+1)
	case models.PeriodQuarterly:
		return endOfMonth(y, m+3)
	case models.PeriodYearly:
		return time.Date(y+1, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return endOfMonth(y, m+1)
}

func endOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}
