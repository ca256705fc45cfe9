package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"vendas-dashboard/internal/dataset"
	"vendas-dashboard/internal/star"
)

// WorkbookFile is the single-file alternative to the four CSVs.
const WorkbookFile = "modelo_vendas.xlsx"

var workbookSheets = []string{"FATO_VENDAS", "DIM_PRODUTOS", "DIM_CLIENTES", "DIM_TEMPO"}

// WriteWorkbook writes the star model as one workbook with a sheet per
// table, mirroring the CSV layout.
func WriteWorkbook(path string, s *star.Schema) error {
	f := excelize.NewFile()
	defer f.Close()

	tables := []*dataset.Table{s.Fact, s.Products, s.Customers, s.Time}
	for i, sheet := range workbookSheets {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, tables[i]); err != nil {
			return err
		}
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t *dataset.Table) error {
	header := make([]any, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("sheet %s header: %w", sheet, err)
	}

	for i, row := range t.Rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			// Numbers round-trip as numbers so BI tools type them.
			if v, ok := dataset.ParseNumber(cell); ok {
				cells[j] = v
				continue
			}
			cells[j] = cell
		}
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, ref, &cells); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
