// Package export writes processed tables to the formats the BI handoff
// expects: plain CSVs, a multi-sheet workbook, a Power Query import
// script and a metadata manifest.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"vendas-dashboard/internal/dataset"
	"vendas-dashboard/internal/models"
	"vendas-dashboard/internal/star"
)

// Schema file names, shared by the CSV writer, the workbook sheets and
// the Power Query script.
const (
	FactFile      = "fato_vendas.csv"
	ProductsFile  = "dim_produtos.csv"
	CustomersFile = "dim_clientes.csv"
	TimeFile      = "dim_tempo.csv"
)

// WriteTableCSV writes a table as UTF-8 CSV, header first.
func WriteTableCSV(w io.Writer, t *dataset.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSchemaCSVs writes the four star-model tables into dir.
func WriteSchemaCSVs(dir string, s *star.Schema) error {
	tables := []struct {
		name  string
		table *dataset.Table
	}{
		{FactFile, s.Fact},
		{ProductsFile, s.Products},
		{CustomersFile, s.Customers},
		{TimeFile, s.Time},
	}
	for _, entry := range tables {
		if err := writeCSVFile(filepath.Join(dir, entry.name), entry.table); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVFile(path string, t *dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := WriteTableCSV(f, t); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// WriteGrowthCSV writes the growth series with ISO period labels and
// dot-decimal numbers. Absent deltas are empty cells.
func WriteGrowthCSV(w io.Writer, records []models.GrowthRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "total", "growth_pct"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Period, formatFloat(r.Total), formatPtr(r.GrowthPct)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteParetoCSV writes the full ranking, never the chart truncation.
func WriteParetoCSV(w io.Writer, rows []models.ParetoRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"dimension", "total", "rank", "share_pct", "cum_share_pct"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Dimension,
			formatFloat(r.Total),
			strconv.Itoa(r.Rank),
			formatFloat(r.SharePct),
			formatFloat(r.CumSharePct),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteYoYCSV writes the month-denominated comparison.
func WriteYoYCSV(w io.Writer, rows []models.YoYRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "total", "yoy_abs", "yoy_pct"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.Period, formatFloat(r.Total), formatPtr(r.YoYAbs), formatPtr(r.YoYPct)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
