package engine

import (
	"errors"
	"math"
	"testing"

	"vendas-dashboard/internal/dataset"
)

func paretoTable(rows ...[2]string) *dataset.Table {
	t := dataset.New([]string{"PRODUTO", "VENDAS"})
	for _, r := range rows {
		t.Append([]string{r[0], r[1]})
	}
	return t
}

func TestComputePareto(t *testing.T) {
	table := paretoTable(
		[2]string{"A", "30"},
		[2]string{"B", "20"},
		[2]string{"A", "40"},
		[2]string{"C", "10"},
	)

	rows, err := ComputePareto(table, "PRODUTO", "VENDAS")
	if err != nil {
		t.Fatalf("ComputePareto() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	wantDims := []string{"A", "B", "C"}
	wantShares := []float64{70.0, 20.0, 10.0}
	wantCum := []float64{70.0, 90.0, 100.0}
	for i, row := range rows {
		if row.Dimension != wantDims[i] || row.Rank != i+1 {
			t.Errorf("row %d = %s rank %d, want %s rank %d", i, row.Dimension, row.Rank, wantDims[i], i+1)
		}
		if math.Abs(row.SharePct-wantShares[i]) > 1e-9 {
			t.Errorf("share[%d] = %v, want %v", i, row.SharePct, wantShares[i])
		}
		if math.Abs(row.CumSharePct-wantCum[i]) > 1e-9 {
			t.Errorf("cum share[%d] = %v, want %v", i, row.CumSharePct, wantCum[i])
		}
	}

	top3 := TopConcentration(rows, 3)
	if math.Abs(top3.SharePct-100.0) > 1e-9 {
		t.Errorf("top-3 concentration = %v, want 100", top3.SharePct)
	}
	if top3.Labels != "A, B, C" {
		t.Errorf("top-3 labels = %q, want \"A, B, C\"", top3.Labels)
	}
}

func TestComputePareto_MissingDimensionColumn(t *testing.T) {
	table := paretoTable([2]string{"A", "100"})
	if _, err := ComputePareto(table, "CATEGORIA", "VENDAS"); !errors.Is(err, ErrNoDimensionColumn) {
		t.Errorf("ComputePareto() error = %v, want ErrNoDimensionColumn", err)
	}
}

func TestComputePareto_SkipsBadRows(t *testing.T) {
	table := paretoTable(
		[2]string{"A", "100"},
		[2]string{"", "999"},
		[2]string{"B", "oops"},
		[2]string{"B", "50"},
	)
	rows, err := ComputePareto(table, "PRODUTO", "VENDAS")
	if err != nil {
		t.Fatalf("ComputePareto() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// Grand total over retained rows only: 150, not 150+999.
	if math.Abs(rows[0].SharePct-100.0/1.5) > 1e-9 {
		t.Errorf("share[0] = %v, want %v", rows[0].SharePct, 100.0/1.5)
	}
}

func TestComputePareto_ZeroGrandTotal(t *testing.T) {
	table := paretoTable(
		[2]string{"A", "0"},
		[2]string{"B", "0"},
	)
	rows, err := ComputePareto(table, "PRODUTO", "VENDAS")
	if err != nil {
		t.Fatalf("ComputePareto() error = %v", err)
	}
	for _, row := range rows {
		if row.SharePct != 0 || row.CumSharePct != 0 {
			t.Errorf("row %s shares = %v/%v, want explicit zeros", row.Dimension, row.SharePct, row.CumSharePct)
		}
		if math.IsNaN(row.SharePct) || math.IsInf(row.SharePct, 0) {
			t.Errorf("row %s share is non-finite", row.Dimension)
		}
	}
}

func TestComputePareto_StableTies(t *testing.T) {
	table := paretoTable(
		[2]string{"X", "50"},
		[2]string{"Y", "50"},
		[2]string{"Z", "50"},
	)
	rows, err := ComputePareto(table, "PRODUTO", "VENDAS")
	if err != nil {
		t.Fatalf("ComputePareto() error = %v", err)
	}
	want := []string{"X", "Y", "Z"}
	for i, row := range rows {
		if row.Dimension != want[i] {
			t.Errorf("tie order broken at %d: got %s, want %s", i, row.Dimension, want[i])
		}
	}
}

func TestComputePareto_SingleRow(t *testing.T) {
	rows, err := ComputePareto(paretoTable([2]string{"A", "42"}), "PRODUTO", "VENDAS")
	if err != nil {
		t.Fatalf("ComputePareto() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	r := rows[0]
	if r.Rank != 1 || r.SharePct != 100 || r.CumSharePct != 100 {
		t.Errorf("single row = %+v, want rank 1 with 100%% shares", r)
	}
}

func TestComputePareto_CumulativeMonotone(t *testing.T) {
	table := paretoTable(
		[2]string{"A", "5"},
		[2]string{"B", "15"},
		[2]string{"C", "25"},
		[2]string{"D", "55"},
	)
	rows, err := ComputePareto(table, "PRODUTO", "VENDAS")
	if err != nil {
		t.Fatalf("ComputePareto() error = %v", err)
	}
	prev := 0.0
	for _, row := range rows {
		if row.CumSharePct < prev {
			t.Errorf("cumulative share decreased at %s", row.Dimension)
		}
		prev = row.CumSharePct
	}
	if math.Abs(prev-100.0) > 1e-9 {
		t.Errorf("last cumulative share = %v, want ~100", prev)
	}
}

func TestTruncatePareto(t *testing.T) {
	table := paretoTable(
		[2]string{"A", "40"},
		[2]string{"B", "30"},
		[2]string{"C", "20"},
		[2]string{"D", "10"},
	)
	rows, _ := ComputePareto(table, "PRODUTO", "VENDAS")

	if got := TruncatePareto(rows, 2); len(got) != 2 {
		t.Errorf("TruncatePareto(2) kept %d rows", len(got))
	}
	if got := TruncatePareto(rows, 0); len(got) != 4 {
		t.Errorf("TruncatePareto(0) should keep everything, kept %d", len(got))
	}
	if got := TruncatePareto(rows, 99); len(got) != 4 {
		t.Errorf("TruncatePareto(99) should keep everything, kept %d", len(got))
	}
}
