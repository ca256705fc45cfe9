package engine

import (
	"math"
	"slices"

	"vendas-dashboard/internal/models"
)

// ComputeGrowth derives the percent-change series of a chronological
// bucket sequence. The first record and any record whose predecessor
// totalled zero carry a nil growth: a division by zero is reported as
// "not available", never as ±Inf.
func ComputeGrowth(buckets []models.Bucket) []models.GrowthRecord {
	records := make([]models.GrowthRecord, len(buckets))
	for i, b := range buckets {
		records[i] = models.GrowthRecord{Period: b.Label(), Total: b.Total}
		if i == 0 || buckets[i-1].Total == 0 {
			continue
		}
		pct := round2((b.Total - buckets[i-1].Total) / buckets[i-1].Total * 100)
		records[i].GrowthPct = &pct
	}
	return records
}

// SummarizeGrowth computes headline statistics over the non-nil growth
// values. With fewer than two samples the summary is marked unavailable.
func SummarizeGrowth(records []models.GrowthRecord) models.GrowthSummary {
	var values []float64
	var periods []string
	for _, r := range records {
		if r.GrowthPct != nil {
			values = append(values, *r.GrowthPct)
			periods = append(periods, r.Period)
		}
	}

	summary := models.GrowthSummary{Samples: len(values)}
	if len(values) < 2 {
		return summary
	}
	summary.Available = true

	var sum float64
	best, worst := 0, 0
	for i, v := range values {
		sum += v
		if v > values[best] {
			best = i
		}
		if v < values[worst] {
			worst = i
		}
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	summary.Mean = round2(mean)
	summary.Std = round2(math.Sqrt(sq / float64(len(values)-1)))
	summary.Min = values[worst]
	summary.Max = values[best]
	summary.Q1 = round2(quantile(sorted, 0.25))
	summary.Median = round2(quantile(sorted, 0.5))
	summary.Q3 = round2(quantile(sorted, 0.75))
	summary.BestPeriod = periods[best]
	summary.WorstPeriod = periods[worst]
	return summary
}

// quantile interpolates linearly over a sorted sample.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
