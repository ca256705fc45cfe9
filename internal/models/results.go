package models

import "time"

// Period granularities accepted by the aggregator.
type Period string

const (
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

// Bucket is one calendar-aligned aggregation unit, labelled by its
// period-end date.
type Bucket struct {
	End   time.Time `json:"-"`
	Total float64   `json:"total"`
}

// Label is the ISO period-end date used in result tables and exports.
func (b Bucket) Label() string {
	return b.End.Format("2006-01-02")
}

// GrowthRecord extends a bucket with percent change versus the previous
// bucket. GrowthPct is nil for the first bucket and whenever the previous
// total is zero.
type GrowthRecord struct {
	Period    string   `json:"period"`
	Total     float64  `json:"total"`
	GrowthPct *float64 `json:"growth_pct"`
}

// GrowthSummary describes the non-nil growth series. Available is false
// when fewer than two growth values exist; all other fields are then
// meaningless.
type GrowthSummary struct {
	Available   bool    `json:"available"`
	Samples     int     `json:"samples"`
	Mean        float64 `json:"mean"`
	Std         float64 `json:"std"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Q1          float64 `json:"q1"`
	Median      float64 `json:"median"`
	Q3          float64 `json:"q3"`
	BestPeriod  string  `json:"best_period"`
	WorstPeriod string  `json:"worst_period"`
}

// ParetoRow is one ranked dimension value with its share of the grand
// total and the running cumulative share.
type ParetoRow struct {
	Dimension   string  `json:"dimension"`
	Total       float64 `json:"total"`
	Rank        int     `json:"rank"`
	SharePct    float64 `json:"share_pct"`
	CumSharePct float64 `json:"cum_share_pct"`
}

// Concentration is the Top-N headline derived from a Pareto table.
type Concentration struct {
	SharePct float64 `json:"share_pct"`
	Labels   string  `json:"labels"`
}

// YoYRow compares a monthly bucket against the same month one year
// earlier. Both deltas are nil when no prior month exists; when the prior
// total is zero only the percentage is nil.
type YoYRow struct {
	Period string   `json:"period"`
	Total  float64  `json:"total"`
	YoYAbs *float64 `json:"yoy_abs"`
	YoYPct *float64 `json:"yoy_pct"`
}

// CleanStats counts what per-row coercion dropped. Surfaced for
// diagnostics, never as a failure.
type CleanStats struct {
	Input         int `json:"input"`
	Kept          int `json:"kept"`
	DroppedDates  int `json:"dropped_dates"`
	DroppedValues int `json:"dropped_values"`
}

// Overview carries the executive headline metrics.
type Overview struct {
	TotalRevenue float64        `json:"total_revenue"`
	PeakMonth    string         `json:"peak_month"`
	Top3         *Concentration `json:"top3,omitempty"`
	MeanGrowth   *float64       `json:"mean_growth,omitempty"`
	LastTotal    float64        `json:"last_total"`
	Records      int            `json:"records"`
	RealData     bool           `json:"real_data"`
	Source       string         `json:"source,omitempty"`
}
