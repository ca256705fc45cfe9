// Package star builds a star-schema model (one fact table plus product,
// customer and time dimensions) from a flat transaction table, ready for
// BI tools that expect dimensional CSVs.
package star

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"vendas-dashboard/internal/dataset"
)

// ErrEmptyAfterCleaning reports that date coercion dropped every row, so
// no model can be built.
var ErrEmptyAfterCleaning = errors.New("no rows survived cleaning")

// Mapping names the flat-table columns that feed the model. Attribute
// columns absent from the table are skipped; key columns are required.
type Mapping struct {
	DateCol       string
	ProductKey    string
	ProductAttrs  []string
	CustomerKey   string
	CustomerAttrs []string
	FactCols      []string
}

// DefaultMapping matches the classic sales transaction export layout.
func DefaultMapping() Mapping {
	return Mapping{
		DateCol:       "ORDERDATE",
		ProductKey:    "PRODUCTCODE",
		ProductAttrs:  []string{"PRODUCTLINE", "MSRP"},
		CustomerKey:   "CUSTOMERNAME",
		CustomerAttrs: []string{"COUNTRY", "CITY", "STATE", "POSTALCODE", "TERRITORY", "PHONE"},
		FactCols: []string{
			"ORDERNUMBER", "ORDERLINENUMBER",
			"QUANTITYORDERED", "PRICEEACH", "SALES", "STATUS", "DEALSIZE",
		},
	}
}

// Schema is a built dimensional model. Fact rows reference dimensions by
// the surrogate ID columns PRODUCT_ID, CUSTOMER_ID and DATE_ID.
type Schema struct {
	Fact      *dataset.Table
	Products  *dataset.Table
	Customers *dataset.Table
	Time      *dataset.Table

	Start time.Time
	End   time.Time
}

var fullMonthPT = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

var dayNamePT = map[time.Weekday]string{
	time.Sunday:    "Domingo",
	time.Monday:    "Segunda-feira",
	time.Tuesday:   "Terça-feira",
	time.Wednesday: "Quarta-feira",
	time.Thursday:  "Quinta-feira",
	time.Friday:    "Sexta-feira",
	time.Saturday:  "Sábado",
}

// factorizer assigns dense 1-based surrogate IDs in first-seen order.
type factorizer struct {
	ids   map[string]int
	order []string
}

func newFactorizer() *factorizer {
	return &factorizer{ids: make(map[string]int)}
}

func (f *factorizer) id(key string) int {
	if id, ok := f.ids[key]; ok {
		return id
	}
	id := len(f.order) + 1
	f.ids[key] = id
	f.order = append(f.order, key)
	return id
}

// Build derives the dimensional model from a flat table. Rows whose date
// fails to parse are dropped; everything else is carried verbatim.
func Build(t *dataset.Table, m Mapping) (*Schema, error) {
	for _, required := range []string{m.DateCol, m.ProductKey, m.CustomerKey} {
		if !t.Has(required) {
			return nil, fmt.Errorf("star model: column %q not in table", required)
		}
	}

	productAttrs := present(t, m.ProductAttrs)
	customerAttrs := present(t, m.CustomerAttrs)
	factCols := present(t, m.FactCols)

	products := newFactorizer()
	customers := newFactorizer()
	dates := newFactorizer()

	// First values win: a key seen twice with diverging attributes keeps
	// the attributes of its first row, like a drop_duplicates on the key.
	productRows := make(map[int][]string)
	customerRows := make(map[int][]string)
	dateValues := make(map[int]time.Time)

	factHeader := append([]string{}, factCols...)
	factHeader = append(factHeader, "DATE_ID", "PRODUCT_ID", "CUSTOMER_ID")
	fact := dataset.New(factHeader)

	var start, end time.Time
	for i := 0; i < t.RecordCount(); i++ {
		when, ok := dataset.ParseDate(t.Cell(i, m.DateCol))
		if !ok {
			continue
		}
		if start.IsZero() || when.Before(start) {
			start = when
		}
		if when.After(end) {
			end = when
		}

		dateID := dates.id(when.Format("2006-01-02"))
		dateValues[dateID] = when

		productID := products.id(t.Cell(i, m.ProductKey))
		if _, seen := productRows[productID]; !seen {
			row := []string{t.Cell(i, m.ProductKey)}
			for _, col := range productAttrs {
				row = append(row, t.Cell(i, col))
			}
			productRows[productID] = row
		}

		customerID := customers.id(t.Cell(i, m.CustomerKey))
		if _, seen := customerRows[customerID]; !seen {
			row := []string{t.Cell(i, m.CustomerKey)}
			for _, col := range customerAttrs {
				row = append(row, t.Cell(i, col))
			}
			customerRows[customerID] = row
		}

		row := make([]string, 0, len(factHeader))
		for _, col := range factCols {
			row = append(row, t.Cell(i, col))
		}
		row = append(row,
			strconv.Itoa(dateID),
			strconv.Itoa(productID),
			strconv.Itoa(customerID),
		)
		fact.Append(row)
	}

	if fact.RecordCount() == 0 {
		return nil, fmt.Errorf("%w: no rows with a parseable %q date", ErrEmptyAfterCleaning, m.DateCol)
	}

	return &Schema{
		Fact:      fact,
		Products:  buildDim("PRODUCT_ID", m.ProductKey, productAttrs, products, productRows),
		Customers: buildDim("CUSTOMER_ID", m.CustomerKey, customerAttrs, customers, customerRows),
		Time:      buildTimeDim(dates, dateValues),
		Start:     start,
		End:       end,
	}, nil
}

func present(t *dataset.Table, cols []string) []string {
	kept := make([]string, 0, len(cols))
	for _, col := range cols {
		if t.Has(col) {
			kept = append(kept, col)
		}
	}
	return kept
}

func buildDim(idCol, keyCol string, attrs []string, f *factorizer, rows map[int][]string) *dataset.Table {
	header := append([]string{idCol, keyCol}, attrs...)
	dim := dataset.New(header)
	for id := 1; id <= len(f.order); id++ {
		dim.Append(append([]string{strconv.Itoa(id)}, rows[id]...))
	}
	return dim
}

func buildTimeDim(f *factorizer, values map[int]time.Time) *dataset.Table {
	dim := dataset.New([]string{
		"DATE_ID", "DATA", "ANO", "MES", "MES_NOME",
		"TRIMESTRE", "DIA", "DIA_SEMANA", "SEMANA_ANO", "FIM_SEMANA",
	})
	for id := 1; id <= len(f.order); id++ {
		when := values[id]
		_, week := when.ISOWeek()
		weekday := when.Weekday()
		dim.Append([]string{
			strconv.Itoa(id),
			when.Format("2006-01-02"),
			strconv.Itoa(when.Year()),
			strconv.Itoa(int(when.Month())),
			fullMonthPT[when.Month()-1],
			strconv.Itoa((int(when.Month())-1)/3 + 1),
			strconv.Itoa(when.Day()),
			dayNamePT[weekday],
			strconv.Itoa(week),
			strconv.FormatBool(weekday == time.Saturday || weekday == time.Sunday),
		})
	}
	return dim
}
