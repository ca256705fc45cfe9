package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"vendas-dashboard/internal/star"
)

// All writes every export artifact into dir: the four schema CSVs, the
// workbook, the Power Query script and the metadata manifest.
func All(dir string, s *star.Schema, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	start := time.Now()
	if err := WriteSchemaCSVs(dir, s); err != nil {
		return err
	}
	if err := WriteWorkbook(filepath.Join(dir, WorkbookFile), s); err != nil {
		return err
	}
	if err := WritePowerQuery(dir); err != nil {
		return err
	}
	if err := WriteMetadata(filepath.Join(dir, MetadataFile), NewMetadata(s, time.Now())); err != nil {
		return err
	}

	logger.Info("export complete",
		"dir", dir,
		"fact_rows", s.Fact.RecordCount(),
		"products", s.Products.RecordCount(),
		"customers", s.Customers.RecordCount(),
		"dates", s.Time.RecordCount(),
		"duration", time.Since(start),
	)
	return nil
}
