package engine

import "vendas-dashboard/internal/models"

// yoyOffset is fixed: YoY is month-denominated regardless of the
// dashboard's period selector.
const yoyOffset = 12

// ComputeYoY aggregates observations monthly and compares each month with
// the same calendar month one year earlier. The monthly sequence is dense
// (gaps zero-filled by Aggregate), so the 12-back index offset always
// lands on the right calendar month. Deltas are nil while no prior month
// exists and when the prior total is zero.
func ComputeYoY(obs []Observation) ([]models.YoYRow, error) {
	buckets, err := Aggregate(obs, models.PeriodMonthly)
	if err != nil {
		return nil, err
	}

	rows := make([]models.YoYRow, len(buckets))
	for i, b := range buckets {
		rows[i] = models.YoYRow{Period: b.Label(), Total: b.Total}
		if i < yoyOffset {
			continue
		}
		prior := buckets[i-yoyOffset].Total
		abs := b.Total - prior
		rows[i].YoYAbs = &abs
		if prior == 0 {
			continue
		}
		pct := (b.Total/prior - 1) * 100
		rows[i].YoYPct = &pct
	}
	return rows, nil
}
