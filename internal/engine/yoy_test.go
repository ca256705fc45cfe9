package engine

import (
	"math"
	"testing"
	"time"
)

func TestComputeYoY_TwoDenseYears(t *testing.T) {
	var obs []Observation
	totals := make([]float64, 24)
	for i := range totals {
		totals[i] = float64(1000 + 10*i)
		obs = append(obs, Observation{
			Date:  time.Date(2022, time.January, 15, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0),
			Value: totals[i],
		})
	}

	rows, err := ComputeYoY(obs)
	if err != nil {
		t.Fatalf("ComputeYoY() error = %v", err)
	}
	if len(rows) != 24 {
		t.Fatalf("got %d rows, want 24", len(rows))
	}
	for i := 0; i < 12; i++ {
		if rows[i].YoYAbs != nil || rows[i].YoYPct != nil {
			t.Errorf("row %d has YoY values without a prior year", i)
		}
	}
	for i := 12; i < 24; i++ {
		wantPct := (totals[i]/totals[i-12] - 1) * 100
		if rows[i].YoYPct == nil || math.Abs(*rows[i].YoYPct-wantPct) > 1e-9 {
			t.Errorf("row %d yoy_pct = %v, want %v", i, rows[i].YoYPct, wantPct)
		}
		if rows[i].YoYAbs == nil || math.Abs(*rows[i].YoYAbs-(totals[i]-totals[i-12])) > 1e-9 {
			t.Errorf("row %d yoy_abs = %v, want %v", i, rows[i].YoYAbs, totals[i]-totals[i-12])
		}
	}
}

func TestComputeYoY_ZeroPrior(t *testing.T) {
	obs := []Observation{
		{Date: day(2022, time.March, 1), Value: 0},
		{Date: day(2022, time.April, 1), Value: 100},
		{Date: day(2023, time.March, 1), Value: 50},
		{Date: day(2023, time.April, 1), Value: 150},
	}
	rows, err := ComputeYoY(obs)
	if err != nil {
		t.Fatalf("ComputeYoY() error = %v", err)
	}

	byPeriod := make(map[string]int)
	for i, r := range rows {
		byPeriod[r.Period] = i
	}

	march := rows[byPeriod["2023-03-31"]]
	if march.YoYPct != nil {
		t.Errorf("zero prior total must give nil yoy_pct, got %v", *march.YoYPct)
	}
	if march.YoYAbs == nil || *march.YoYAbs != 50 {
		t.Errorf("yoy_abs over zero prior = %v, want 50", march.YoYAbs)
	}

	april := rows[byPeriod["2023-04-30"]]
	if april.YoYPct == nil || *april.YoYPct != 50 {
		t.Errorf("April yoy_pct = %v, want 50", april.YoYPct)
	}
}

// Months absent from the source must not shift the year-back alignment:
// the monthly sequence is densified before the offset comparison.
func TestComputeYoY_GappyMonths(t *testing.T) {
	obs := []Observation{
		{Date: day(2022, time.January, 10), Value: 100},
		// Feb..Apr 2022 missing entirely.
		{Date: day(2022, time.May, 10), Value: 200},
		{Date: day(2023, time.January, 10), Value: 110},
		{Date: day(2023, time.May, 10), Value: 300},
	}
	rows, err := ComputeYoY(obs)
	if err != nil {
		t.Fatalf("ComputeYoY() error = %v", err)
	}

	byPeriod := make(map[string]int)
	for i, r := range rows {
		byPeriod[r.Period] = i
	}

	jan := rows[byPeriod["2023-01-31"]]
	if jan.YoYPct == nil || math.Abs(*jan.YoYPct-10.0) > 1e-9 {
		t.Errorf("Jan 2023 yoy_pct = %v, want 10.0 (aligned with Jan 2022)", jan.YoYPct)
	}
	may := rows[byPeriod["2023-05-31"]]
	if may.YoYPct == nil || math.Abs(*may.YoYPct-50.0) > 1e-9 {
		t.Errorf("May 2023 yoy_pct = %v, want 50.0 (aligned with May 2022)", may.YoYPct)
	}
	// A gap month compared against a gap month: prior total is zero.
	feb := rows[byPeriod["2023-02-28"]]
	if feb.YoYPct != nil {
		t.Errorf("Feb 2023 (zero vs zero) yoy_pct = %v, want nil", *feb.YoYPct)
	}
}

func TestComputeYoY_FlatYearScenario(t *testing.T) {
	// 12 flat months of 2023 at 1000, then Jan/Feb 2024 at 1100.
	var obs []Observation
	for m := time.January; m <= time.December; m++ {
		obs = append(obs, Observation{Date: day(2023, m, 10), Value: 1000})
	}
	obs = append(obs,
		Observation{Date: day(2024, time.January, 10), Value: 1100},
		Observation{Date: day(2024, time.February, 10), Value: 1100},
	)

	rows, err := ComputeYoY(obs)
	if err != nil {
		t.Fatalf("ComputeYoY() error = %v", err)
	}
	for _, r := range rows {
		switch r.Period {
		case "2024-01-31", "2024-02-29":
			if r.YoYPct == nil || math.Abs(*r.YoYPct-10.0) > 1e-9 {
				t.Errorf("%s yoy_pct = %v, want 10.0", r.Period, r.YoYPct)
			}
		default:
			if r.YoYPct != nil {
				t.Errorf("%s yoy_pct = %v, want nil (2023 has no prior year)", r.Period, *r.YoYPct)
			}
		}
	}
}
