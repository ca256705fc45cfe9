package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

const sampleSeed = 42

var sampleCategories = []string{"Eletrônicos", "Móveis", "Roupas", "Livros"}

// Sample builds a deterministic two-year daily sales table used when no
// real data source is configured: a rising trend with yearly seasonality
// and noise, floored at 500, plus random product/customer/category labels.
func Sample() *Table {
	r := rand.New(rand.NewSource(sampleSeed))

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	days := int(end.Sub(start).Hours()/24) + 1

	products := make([]string, 20)
	for i := range products {
		products[i] = fmt.Sprintf("PROD_%03d", i+1)
	}
	customers := make([]string, 50)
	for i := range customers {
		customers[i] = fmt.Sprintf("CLI_%03d", i+1)
	}

	t := New([]string{"DATA", "VENDAS", "QUANTIDADE", "PRODUTO", "CLIENTE", "CATEGORIA"})
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		trend := 1000 + 1000*float64(i)/float64(days-1)
		seasonality := 500 * math.Sin(2*math.Pi*float64(i)/365)
		noise := r.NormFloat64() * 100
		sales := math.Max(trend+seasonality+noise, 500)

		t.Append([]string{
			day.Format("2006-01-02"),
			fmt.Sprintf("%d", int(sales)),
			fmt.Sprintf("%d", 1+r.Intn(49)),
			products[r.Intn(len(products))],
			customers[r.Intn(len(customers))],
			sampleCategories[r.Intn(len(sampleCategories))],
		})
	}
	return t
}
