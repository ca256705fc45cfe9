package engine

import (
	"fmt"
	"sort"
	"strings"

	"vendas-dashboard/internal/dataset"
	"vendas-dashboard/internal/models"
)

// ComputePareto groups rows by a categorical dimension, ranks the groups
// by total value descending and derives share and cumulative share of the
// grand total. Rows with an empty dimension or unparseable value are
// skipped; the grand total is taken over the retained groups only. When
// every group sums to zero all shares are explicit zeros.
func ComputePareto(t *dataset.Table, dimCol, valueCol string) ([]models.ParetoRow, error) {
	if !t.Has(dimCol) {
		return nil, fmt.Errorf("%w: column %q not in table", ErrNoDimensionColumn, dimCol)
	}
	if !t.Has(valueCol) {
		return nil, fmt.Errorf("%w: column %q not in table", ErrNoValueColumn, valueCol)
	}

	totals := make(map[string]float64)
	firstSeen := make(map[string]int)
	var order []string
	for i := 0; i < t.RecordCount(); i++ {
		dim := strings.TrimSpace(t.Cell(i, dimCol))
		if dim == "" {
			continue
		}
		value, ok := dataset.ParseNumber(t.Cell(i, valueCol))
		if !ok {
			continue
		}
		if _, seen := firstSeen[dim]; !seen {
			firstSeen[dim] = len(order)
			order = append(order, dim)
		}
		totals[dim] += value
	}

	// Stable sort: ties keep first-encountered group order.
	sort.SliceStable(order, func(a, b int) bool {
		return totals[order[a]] > totals[order[b]]
	})

	var grandTotal float64
	for _, dim := range order {
		grandTotal += totals[dim]
	}

	rows := make([]models.ParetoRow, len(order))
	var cum float64
	for i, dim := range order {
		share := 0.0
		if grandTotal != 0 {
			share = totals[dim] / grandTotal * 100
		}
		cum += share
		rows[i] = models.ParetoRow{
			Dimension:   dim,
			Total:       totals[dim],
			Rank:        i + 1,
			SharePct:    share,
			CumSharePct: cum,
		}
	}
	return rows, nil
}

// TopConcentration sums the share of the first n ranks (fewer if the
// dimension has fewer distinct values) and joins their labels.
func TopConcentration(rows []models.ParetoRow, n int) models.Concentration {
	if n > len(rows) {
		n = len(rows)
	}
	var c models.Concentration
	labels := make([]string, 0, n)
	for _, r := range rows[:n] {
		c.SharePct += r.SharePct
		labels = append(labels, r.Dimension)
	}
	c.Labels = strings.Join(labels, ", ")
	return c
}

// TruncatePareto bounds a ranked table for charting. The full table stays
// available for export; only the view is cut.
func TruncatePareto(rows []models.ParetoRow, topN int) []models.ParetoRow {
	if topN <= 0 || topN >= len(rows) {
		return rows
	}
	return rows[:topN]
}
