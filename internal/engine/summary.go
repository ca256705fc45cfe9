package engine

import (
	"fmt"
	"time"
)

var monthNamesPT = map[time.Month]string{
	time.January: "Jan", time.February: "Fev", time.March: "Mar",
	time.April: "Abr", time.May: "Mai", time.June: "Jun",
	time.July: "Jul", time.August: "Ago", time.September: "Set",
	time.October: "Out", time.November: "Nov", time.December: "Dez",
}

// MonthNamePT is the abbreviated Portuguese month name used on the
// seasonal-peak card.
func MonthNamePT(m time.Month) string {
	if name, ok := monthNamesPT[m]; ok {
		return name
	}
	return fmt.Sprintf("%d", int(m))
}

// TotalRevenue sums the value of every cleaned observation.
func TotalRevenue(obs []Observation) float64 {
	var sum float64
	for _, o := range obs {
		sum += o.Value
	}
	return sum
}

// PeakMonth finds the calendar month (across all years) with the highest
// summed value and returns it formatted as "Jan (1)". Empty input yields
// ok=false.
func PeakMonth(obs []Observation) (string, bool) {
	if len(obs) == 0 {
		return "", false
	}
	totals := make(map[time.Month]float64)
	for _, o := range obs {
		totals[o.Date.Month()] += o.Value
	}
	peak := time.January
	found := false
	for m := time.January; m <= time.December; m++ {
		total, ok := totals[m]
		if !ok {
			continue
		}
		if !found || total > totals[peak] {
			peak = m
			found = true
		}
	}
	return fmt.Sprintf("%s (%d)", MonthNamePT(peak), int(peak)), true
}
