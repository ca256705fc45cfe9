package engine

import (
	"errors"
	"strings"

	"github.com/samber/lo"

	"vendas-dashboard/internal/dataset"
)

var (
	ErrNoDateColumn      = errors.New("no date column could be identified")
	ErrNoValueColumn     = errors.New("no value column could be identified")
	ErrNoDimensionColumn = errors.New("no dimension column could be identified")
)

// KeywordConfig drives column-role inference. Matching is a
// case-insensitive substring test against the header name, except for
// Dimension which lists exact well-known business dimension names.
type KeywordConfig struct {
	Date      []string
	DateLoose []string
	Value     []string
	Dimension []string
}

// DefaultKeywords matches the column vocabularies of the sample sales
// datasets (English plus Portuguese). DateLoose additionally matches "id"
// for legacy DATE_ID-style surrogate keys.
func DefaultKeywords() KeywordConfig {
	return KeywordConfig{
		Date:      []string{"date", "data", "dia", "mes", "orderdate"},
		DateLoose: []string{"date", "data", "id"},
		Value:     []string{"sales", "venda", "price", "total", "valor", "receita"},
		Dimension: []string{
			"PRODUCTLINE", "PRODUTO", "CATEGORIA", "PRODUCT", "CATEGORY",
			"COUNTRY", "PAIS", "REGIAO", "REGION", "CUSTOMERNAME", "CLIENTE",
		},
	}
}

func matchesAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DateCandidates ranks columns likely to hold the order date. Strict
// keyword hits come first, then loose hits; with no hit at all every
// column is returned so a caller can still offer a manual pick.
func DateCandidates(columns []string, kw KeywordConfig) []string {
	strict := lo.Filter(columns, func(c string, _ int) bool {
		return matchesAny(c, kw.Date)
	})
	loose := lo.Filter(columns, func(c string, _ int) bool {
		return matchesAny(c, kw.DateLoose)
	})
	merged := lo.Uniq(append(strict, loose...))
	if len(merged) == 0 {
		return columns
	}
	return merged
}

// ValueCandidates ranks columns likely to hold the sales value: keyword
// hits first, then every numeric column, deduplicated preserving order.
func ValueCandidates(t *dataset.Table, kw KeywordConfig) ([]string, error) {
	byName := lo.Filter(t.Columns, func(c string, _ int) bool {
		return matchesAny(c, kw.Value)
	})
	merged := lo.Uniq(append(byName, t.NumericColumns()...))
	if len(merged) == 0 {
		return nil, ErrNoValueColumn
	}
	return merged, nil
}

// DimensionCandidates ranks categorical columns for Pareto/Top-N: known
// business dimensions present in the header first, then every non-numeric
// column.
func DimensionCandidates(t *dataset.Table, kw KeywordConfig) []string {
	var hints []string
	for _, want := range kw.Dimension {
		for _, c := range t.Columns {
			if strings.EqualFold(c, want) {
				hints = append(hints, c)
			}
		}
	}
	return lo.Uniq(append(hints, t.CategoricalColumns()...))
}
