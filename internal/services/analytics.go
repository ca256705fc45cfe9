package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"vendas-dashboard/internal/dataset"
	"vendas-dashboard/internal/engine"
	"vendas-dashboard/internal/models"
	"vendas-dashboard/internal/observability"
	"vendas-dashboard/internal/star"
)

// Selectors is what the UI hands the engine: column mapping, growth
// granularity and the Pareto dimension with its chart truncation.
type Selectors struct {
	DateCol      string        `json:"date_col"`
	ValueCol     string        `json:"value_col"`
	Period       models.Period `json:"period"`
	DimensionCol string        `json:"dimension_col,omitempty"`
	TopN         int           `json:"top_n,omitempty"`
}

// Columns is the ranked candidate lists offered for column mapping.
type Columns struct {
	All       []string `json:"all"`
	Date      []string `json:"date"`
	Value     []string `json:"value"`
	Dimension []string `json:"dimension"`
}

// Results is one full recompute of every result table. Tables are
// immutable snapshots; a new recompute builds a new Results.
type Results struct {
	Growth        []models.GrowthRecord `json:"growth"`
	GrowthSummary models.GrowthSummary  `json:"growth_summary"`
	Pareto        []models.ParetoRow    `json:"pareto,omitempty"`
	Top3          *models.Concentration `json:"top3,omitempty"`
	YoY           []models.YoYRow       `json:"yoy"`
	CleanStats    models.CleanStats     `json:"clean_stats"`
}

// Analytics owns the working table and recomputes result tables on
// demand. The table is read-only once set; concurrent readers need no
// coordination beyond the swap lock.
type Analytics struct {
	mu       sync.RWMutex
	table    *dataset.Table
	realData bool
	source   string
	defaults Selectors

	keywords engine.KeywordConfig
	cache    *sourceCache
	logger   *slog.Logger
}

func NewAnalytics(logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		table:    dataset.New(nil),
		keywords: engine.DefaultKeywords(),
		cache:    newSourceCache(),
		logger:   logger,
	}
}

// LoadFile loads a CSV from disk, reusing a cached parse when the file
// fingerprint (path plus modification time) is unchanged.
func (a *Analytics) LoadFile(ctx context.Context, path, encoding string) error {
	key, err := fingerprintFile(path)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	if cached, ok := a.cache.get(key); ok {
		a.logger.Info("source loaded from cache", "path", path, "records", cached.RecordCount())
		return a.setTable(cached, true, path)
	}

	start := time.Now()
	table, err := dataset.ReadCSVFile(path, encoding)
	if err != nil {
		return fmt.Errorf("load csv: %w", err)
	}
	a.cache.put(key, table)

	a.logger.Info("csv loaded",
		"path", path,
		"records", table.RecordCount(),
		"columns", len(table.Columns),
		"duration", time.Since(start),
	)
	return a.setTable(table, true, path)
}

// LoadUpload replaces the working table with an uploaded CSV and
// invalidates nothing else: uploads are keyed by content hash, so
// re-uploading identical bytes hits the cache.
func (a *Analytics) LoadUpload(name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	key := fingerprintBytes(data)

	table, ok := a.cache.get(key)
	if !ok {
		table, err = dataset.ReadCSV(bytes.NewReader(data), dataset.EncodingLatin1)
		if err != nil {
			return fmt.Errorf("parse upload: %w", err)
		}
		a.cache.put(key, table)
	}

	a.logger.Info("upload accepted", "name", name, "records", table.RecordCount())
	return a.setTable(table, true, name)
}

// UseSample installs the generated fallback dataset.
func (a *Analytics) UseSample() error {
	a.logger.Info("using generated sample data")
	return a.setTable(dataset.Sample(), false, "")
}

func (a *Analytics) setTable(t *dataset.Table, real bool, source string) error {
	defaults, err := a.inferDefaults(t)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.table = t
	a.realData = real
	a.source = source
	a.defaults = defaults
	return nil
}

// inferDefaults picks the top-ranked candidate per role so the dashboard
// renders before the user maps anything.
func (a *Analytics) inferDefaults(t *dataset.Table) (Selectors, error) {
	sel := Selectors{Period: models.PeriodMonthly, TopN: 15}

	dates := engine.DateCandidates(t.Columns, a.keywords)
	if len(dates) == 0 {
		return sel, engine.ErrNoDateColumn
	}
	sel.DateCol = dates[0]

	values, err := engine.ValueCandidates(t, a.keywords)
	if err != nil {
		return sel, err
	}
	sel.ValueCol = values[0]

	if dims := engine.DimensionCandidates(t, a.keywords); len(dims) > 0 {
		sel.DimensionCol = dims[0]
	}
	return sel, nil
}

// snapshot returns the current table and flags under the read lock.
func (a *Analytics) snapshot() (*dataset.Table, bool, string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.table, a.realData, a.source
}

// Defaults returns the inferred selector defaults for the current table.
func (a *Analytics) Defaults() Selectors {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.defaults
}

// Columns lists ranked candidate columns per role for the current table.
func (a *Analytics) Columns() (Columns, error) {
	table, _, _ := a.snapshot()

	values, err := engine.ValueCandidates(table, a.keywords)
	if err != nil {
		return Columns{}, err
	}
	return Columns{
		All:       table.Columns,
		Date:      engine.DateCandidates(table.Columns, a.keywords),
		Value:     values,
		Dimension: engine.DimensionCandidates(table, a.keywords),
	}, nil
}

func (a *Analytics) resolve(sel Selectors) Selectors {
	defaults := a.Defaults()
	if sel.DateCol == "" {
		sel.DateCol = defaults.DateCol
	}
	if sel.ValueCol == "" {
		sel.ValueCol = defaults.ValueCol
	}
	if sel.Period == "" {
		sel.Period = defaults.Period
	}
	if sel.DimensionCol == "" {
		sel.DimensionCol = defaults.DimensionCol
	}
	return sel
}

// Growth cleans the table and computes the period growth series with its
// summary. Zero surviving rows yields empty tables, not an error.
func (a *Analytics) Growth(sel Selectors) ([]models.GrowthRecord, models.GrowthSummary, models.CleanStats, error) {
	sel = a.resolve(sel)
	table, _, _ := a.snapshot()

	obs, stats, err := engine.Clean(table, sel.DateCol, sel.ValueCol)
	if err != nil {
		return nil, models.GrowthSummary{}, stats, err
	}
	a.warnOnEmpty(stats)

	buckets, err := engine.Aggregate(obs, sel.Period)
	if err != nil {
		return nil, models.GrowthSummary{}, stats, err
	}
	records := engine.ComputeGrowth(buckets)
	return records, engine.SummarizeGrowth(records), stats, nil
}

// Pareto ranks the configured dimension. The returned table is always
// complete; charting truncation happens at the presentation edge.
func (a *Analytics) Pareto(sel Selectors) ([]models.ParetoRow, models.Concentration, error) {
	sel = a.resolve(sel)
	if sel.DimensionCol == "" {
		return nil, models.Concentration{}, fmt.Errorf("%w: none selected", engine.ErrNoDimensionColumn)
	}
	table, _, _ := a.snapshot()

	rows, err := engine.ComputePareto(table, sel.DimensionCol, sel.ValueCol)
	if err != nil {
		return nil, models.Concentration{}, err
	}
	return rows, engine.TopConcentration(rows, 3), nil
}

// YoY is always month-denominated regardless of the period selector.
func (a *Analytics) YoY(sel Selectors) ([]models.YoYRow, models.CleanStats, error) {
	sel = a.resolve(sel)
	table, _, _ := a.snapshot()

	obs, stats, err := engine.Clean(table, sel.DateCol, sel.ValueCol)
	if err != nil {
		return nil, stats, err
	}
	a.warnOnEmpty(stats)

	rows, err := engine.ComputeYoY(obs)
	return rows, stats, err
}

// Overview assembles the executive headline cards.
func (a *Analytics) Overview(sel Selectors) (models.Overview, error) {
	sel = a.resolve(sel)
	table, real, source := a.snapshot()

	obs, stats, err := engine.Clean(table, sel.DateCol, sel.ValueCol)
	if err != nil {
		return models.Overview{}, err
	}

	overview := models.Overview{
		TotalRevenue: engine.TotalRevenue(obs),
		Records:      stats.Kept,
		RealData:     real,
		Source:       source,
	}
	if peak, ok := engine.PeakMonth(obs); ok {
		overview.PeakMonth = peak
	}

	buckets, err := engine.Aggregate(obs, sel.Period)
	if err != nil {
		return models.Overview{}, err
	}
	if len(buckets) > 0 {
		overview.LastTotal = buckets[len(buckets)-1].Total
	}
	records := engine.ComputeGrowth(buckets)
	if summary := engine.SummarizeGrowth(records); summary.Available {
		mean := summary.Mean
		overview.MeanGrowth = &mean
	}

	if sel.DimensionCol != "" {
		if rows, top3, err := a.Pareto(sel); err == nil && len(rows) > 0 {
			overview.Top3 = &top3
		}
	}
	return overview, nil
}

// Compute runs the three calculators concurrently over one cleaned
// snapshot and returns a complete Results.
func (a *Analytics) Compute(ctx context.Context, sel Selectors) (*Results, error) {
	sel = a.resolve(sel)
	ctx, span := observability.StartSpan(ctx, "analytics.compute")
	defer span.Finish(a.logger)
	span.SetTag("period", string(sel.Period))

	table, _, _ := a.snapshot()
	obs, stats, err := engine.Clean(table, sel.DateCol, sel.ValueCol)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	a.warnOnEmpty(stats)

	results := &Results{CleanStats: stats}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		buckets, err := engine.Aggregate(obs, sel.Period)
		if err != nil {
			return err
		}
		results.Growth = engine.ComputeGrowth(buckets)
		results.GrowthSummary = engine.SummarizeGrowth(results.Growth)
		return nil
	})
	g.Go(func() error {
		rows, err := engine.ComputeYoY(obs)
		if err != nil {
			return err
		}
		results.YoY = rows
		return nil
	})
	if sel.DimensionCol != "" {
		g.Go(func() error {
			rows, err := engine.ComputePareto(table, sel.DimensionCol, sel.ValueCol)
			if err != nil {
				return err
			}
			top3 := engine.TopConcentration(rows, 3)
			results.Pareto = rows
			results.Top3 = &top3
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.SetError(err)
		return nil, err
	}
	return results, nil
}

// StarSchema builds the dimensional export model from the current table.
// The classic sales layout maps directly; other layouts fall back to the
// inferred date column and the top dimension candidates as keys.
func (a *Analytics) StarSchema() (*star.Schema, error) {
	table, _, _ := a.snapshot()
	m := star.DefaultMapping()

	if !table.Has(m.DateCol) {
		m.DateCol = a.Defaults().DateCol
	}
	if !table.Has(m.ProductKey) || !table.Has(m.CustomerKey) {
		dims := engine.DimensionCandidates(table, a.keywords)
		if !table.Has(m.ProductKey) {
			if len(dims) == 0 {
				return nil, fmt.Errorf("star model: no dimension column to key products on")
			}
			m.ProductKey = dims[0]
			m.ProductAttrs = nil
		}
		if !table.Has(m.CustomerKey) {
			m.CustomerKey = m.ProductKey
			if len(dims) > 1 {
				m.CustomerKey = dims[1]
			}
			m.CustomerAttrs = nil
		}
	}

	hasFact := false
	for _, col := range m.FactCols {
		if table.Has(col) {
			hasFact = true
			break
		}
	}
	if !hasFact {
		m.FactCols = []string{a.Defaults().ValueCol}
	}

	return star.Build(table, m)
}

func (a *Analytics) warnOnEmpty(stats models.CleanStats) {
	if stats.Input > 0 && stats.Kept == 0 {
		a.logger.Warn("all rows dropped during cleaning",
			"input", stats.Input,
			"dropped_dates", stats.DroppedDates,
			"dropped_values", stats.DroppedValues,
		)
	}
}

// Stats powers the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	table, real, source := a.snapshot()
	return map[string]any{
		"records":       table.RecordCount(),
		"columns":       len(table.Columns),
		"real_data":     real,
		"source":        source,
		"cached_tables": a.cache.len(),
	}
}

// Invalidate drops every cached source parse.
func (a *Analytics) Invalidate() {
	a.cache.clear()
}
