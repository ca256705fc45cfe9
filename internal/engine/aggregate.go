package engine

import (
	"fmt"
	"slices"
	"time"

	"vendas-dashboard/internal/dataset"
	"vendas-dashboard/internal/models"
)

// Observation is one cleaned row: a parsed timestamp and numeric value.
type Observation struct {
	Date  time.Time
	Value float64
}

// Clean coerces the designated columns of every row, dropping rows whose
// date or value fails to parse. Drops are counted, never fatal; zero
// surviving rows is a legitimate empty result.
func Clean(t *dataset.Table, dateCol, valueCol string) ([]Observation, models.CleanStats, error) {
	stats := models.CleanStats{Input: t.RecordCount()}
	if !t.Has(dateCol) {
		return nil, stats, fmt.Errorf("%w: column %q not in table", ErrNoDateColumn, dateCol)
	}
	if !t.Has(valueCol) {
		return nil, stats, fmt.Errorf("%w: column %q not in table", ErrNoValueColumn, valueCol)
	}

	obs := make([]Observation, 0, t.RecordCount())
	for i := 0; i < t.RecordCount(); i++ {
		when, ok := dataset.ParseDate(t.Cell(i, dateCol))
		if !ok {
			stats.DroppedDates++
			continue
		}
		value, ok := dataset.ParseNumber(t.Cell(i, valueCol))
		if !ok {
			stats.DroppedValues++
			continue
		}
		obs = append(obs, Observation{Date: when, Value: value})
	}
	stats.Kept = len(obs)
	return obs, stats, nil
}

// GroupByPeriod sums observations into period-end buckets, keeping only
// buckets that received at least one row. Output is chronological.
func GroupByPeriod(obs []Observation, p models.Period) ([]models.Bucket, error) {
	switch p {
	case models.PeriodMonthly, models.PeriodQuarterly, models.PeriodYearly:
	default:
		return nil, fmt.Errorf("%w: got %q", ErrInvalidPeriod, p)
	}

	totals := make(map[time.Time]float64)
	for _, o := range obs {
		totals[periodEnd(o.Date, p)] += o.Value
	}

	buckets := make([]models.Bucket, 0, len(totals))
	for end, total := range totals {
		buckets = append(buckets, models.Bucket{End: end, Total: total})
	}
	slices.SortFunc(buckets, func(a, b models.Bucket) int {
		return a.End.Compare(b.End)
	})
	return buckets, nil
}

// Reindex fills the calendar gaps of a sparse bucket sequence with
// zero-total buckets so that consecutive entries are always exactly one
// period apart. With dense buckets an index offset is a true calendar
// offset, which the YoY comparison depends on.
func Reindex(buckets []models.Bucket, p models.Period) []models.Bucket {
	if len(buckets) < 2 {
		return buckets
	}
	dense := make([]models.Bucket, 0, len(buckets))
	next := 0
	for end := buckets[0].End; !end.After(buckets[len(buckets)-1].End); end = nextPeriodEnd(end, p) {
		if next < len(buckets) && buckets[next].End.Equal(end) {
			dense = append(dense, buckets[next])
			next++
			continue
		}
		dense = append(dense, models.Bucket{End: end})
	}
	return dense
}

// Aggregate buckets observations at the requested granularity and fills
// calendar gaps with zero, covering the min..max range densely.
func Aggregate(obs []Observation, p models.Period) ([]models.Bucket, error) {
	buckets, err := GroupByPeriod(obs, p)
	if err != nil {
		return nil, err
	}
	return Reindex(buckets, p), nil
}
