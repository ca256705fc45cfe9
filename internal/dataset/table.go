package dataset

// Table is a row-oriented view of a delimited file whose schema is only
// known at runtime. Cell values stay raw strings until a caller asks for
// a typed interpretation of a column.
type Table struct {
	Columns []string
	Rows    [][]string
}

// dtypeSampleSize caps how many cells a numeric sniff inspects per column.
const dtypeSampleSize = 100

func New(columns []string) *Table {
	return &Table{Columns: columns}
}

func (t *Table) Append(row []string) {
	t.Rows = append(t.Rows, row)
}

func (t *Table) RecordCount() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of name in the header, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t *Table) Has(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Cell returns the raw value at (row, column name). Short rows read as "".
func (t *Table) Cell(row int, name string) string {
	idx := t.ColumnIndex(name)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][idx]
}

// Column copies the raw values of one column, "" for short rows.
func (t *Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// IsNumeric reports whether a sample of the column parses as numbers.
// Empty cells are skipped; a column with no non-empty sample cells is not
// numeric.
func (t *Table) IsNumeric(name string) bool {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return false
	}
	seen := 0
	for _, row := range t.Rows {
		if idx >= len(row) || row[idx] == "" {
			continue
		}
		if _, ok := ParseNumber(row[idx]); !ok {
			return false
		}
		seen++
		if seen >= dtypeSampleSize {
			break
		}
	}
	return seen > 0
}

// NumericColumns returns the header-ordered subset of numeric columns.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.Columns {
		if t.IsNumeric(c) {
			out = append(out, c)
		}
	}
	return out
}

// CategoricalColumns returns the header-ordered non-numeric columns.
func (t *Table) CategoricalColumns() []string {
	var out []string
	for _, c := range t.Columns {
		if !t.IsNumeric(c) {
			out = append(out, c)
		}
	}
	return out
}
