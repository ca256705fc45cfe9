package engine

import (
	"testing"
	"time"

	"vendas-dashboard/internal/dataset"
	"vendas-dashboard/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClean(t *testing.T) {
	table := dataset.New([]string{"DATA", "VENDAS", "PRODUTO"})
	table.Append([]string{"2023-01-15", "100.50", "A"})
	table.Append([]string{"not-a-date", "200", "B"})
	table.Append([]string{"2023-02-01", "abc", "C"})
	table.Append([]string{"2023-02-10", "$1,250.75", "D"})

	obs, stats, err := Clean(table, "DATA", "VENDAS")
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if stats.Input != 4 || stats.Kept != 2 {
		t.Errorf("stats = %+v, want input=4 kept=2", stats)
	}
	if stats.DroppedDates != 1 || stats.DroppedValues != 1 {
		t.Errorf("stats = %+v, want 1 dropped date and 1 dropped value", stats)
	}
	if obs[1].Value != 1250.75 {
		t.Errorf("currency cell parsed to %v, want 1250.75", obs[1].Value)
	}
}

func TestClean_MissingColumns(t *testing.T) {
	table := dataset.New([]string{"A", "B"})
	table.Append([]string{"1", "2"})

	if _, _, err := Clean(table, "DATA", "B"); err == nil {
		t.Error("Clean() with missing date column should error")
	}
	if _, _, err := Clean(table, "A", "VENDAS"); err == nil {
		t.Error("Clean() with missing value column should error")
	}
}

func TestAggregate_PeriodEnds(t *testing.T) {
	obs := []Observation{
		{Date: day(2023, time.January, 5), Value: 100},
		{Date: day(2023, time.January, 20), Value: 50},
		{Date: day(2023, time.February, 1), Value: 30},
	}

	tests := []struct {
		name      string
		period    models.Period
		wantLen   int
		wantFirst string
		wantTotal float64
	}{
		{"monthly", models.PeriodMonthly, 2, "2023-01-31", 150},
		{"quarterly", models.PeriodQuarterly, 1, "2023-03-31", 180},
		{"yearly", models.PeriodYearly, 1, "2023-12-31", 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buckets, err := Aggregate(obs, tt.period)
			if err != nil {
				t.Fatalf("Aggregate() error = %v", err)
			}
			if len(buckets) != tt.wantLen {
				t.Fatalf("got %d buckets, want %d", len(buckets), tt.wantLen)
			}
			if buckets[0].Label() != tt.wantFirst {
				t.Errorf("first label = %s, want %s", buckets[0].Label(), tt.wantFirst)
			}
			if buckets[0].Total != tt.wantTotal {
				t.Errorf("first total = %v, want %v", buckets[0].Total, tt.wantTotal)
			}
		})
	}
}

func TestAggregate_InvalidPeriod(t *testing.T) {
	if _, err := Aggregate(nil, models.Period("weekly")); err == nil {
		t.Error("Aggregate() with unknown period should error")
	}
}

func TestAggregate_ChronologicalNoDuplicates(t *testing.T) {
	obs := []Observation{
		{Date: day(2024, time.March, 3), Value: 1},
		{Date: day(2023, time.November, 30), Value: 2},
		{Date: day(2024, time.March, 28), Value: 3},
		{Date: day(2023, time.February, 14), Value: 4},
	}
	for _, period := range []models.Period{models.PeriodMonthly, models.PeriodQuarterly, models.PeriodYearly} {
		buckets, err := Aggregate(obs, period)
		if err != nil {
			t.Fatalf("Aggregate(%s) error = %v", period, err)
		}
		for i := 1; i < len(buckets); i++ {
			if !buckets[i-1].End.Before(buckets[i].End) {
				t.Errorf("%s buckets not strictly chronological at %d: %s >= %s",
					period, i, buckets[i-1].Label(), buckets[i].Label())
			}
		}
	}
}

func TestAggregate_FillsGapsWithZero(t *testing.T) {
	// January and April only: February and March must appear as zeros.
	obs := []Observation{
		{Date: day(2023, time.January, 10), Value: 100},
		{Date: day(2023, time.April, 10), Value: 400},
	}
	buckets, err := Aggregate(obs, models.PeriodMonthly)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(buckets) != 4 {
		t.Fatalf("got %d buckets, want 4 (dense calendar)", len(buckets))
	}
	if buckets[1].Label() != "2023-02-28" || buckets[1].Total != 0 {
		t.Errorf("gap bucket = %s/%v, want 2023-02-28/0", buckets[1].Label(), buckets[1].Total)
	}
	if buckets[2].Label() != "2023-03-31" || buckets[2].Total != 0 {
		t.Errorf("gap bucket = %s/%v, want 2023-03-31/0", buckets[2].Label(), buckets[2].Total)
	}
}

func TestGroupByPeriod_SparseKeepsGaps(t *testing.T) {
	obs := []Observation{
		{Date: day(2023, time.January, 10), Value: 100},
		{Date: day(2023, time.April, 10), Value: 400},
	}
	buckets, err := GroupByPeriod(obs, models.PeriodMonthly)
	if err != nil {
		t.Fatalf("GroupByPeriod() error = %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("got %d sparse buckets, want 2", len(buckets))
	}
}

func TestAggregate_LeapFebruary(t *testing.T) {
	obs := []Observation{{Date: day(2024, time.February, 5), Value: 10}}
	buckets, err := Aggregate(obs, models.PeriodMonthly)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if buckets[0].Label() != "2024-02-29" {
		t.Errorf("leap February ends at %s, want 2024-02-29", buckets[0].Label())
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	buckets, err := Aggregate(nil, models.PeriodMonthly)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(buckets) != 0 {
		t.Errorf("empty input should yield empty output, got %d buckets", len(buckets))
	}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		token   string
		want    models.Period
		wantErr bool
	}{
		{"monthly", models.PeriodMonthly, false},
		{"Mensal", models.PeriodMonthly, false},
		{"M", models.PeriodMonthly, false},
		{"T", models.PeriodQuarterly, false},
		{"quarterly", models.PeriodQuarterly, false},
		{"A", models.PeriodYearly, false},
		{"yearly", models.PeriodYearly, false},
		{"weekly", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParsePeriod(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePeriod(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePeriod(%q) = %s, want %s", tt.token, got, tt.want)
			}
		})
	}
}
