package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"vendas-dashboard/internal/star"
)

// MetadataFile describes the last export next to the exported tables.
const MetadataFile = "metadata.json"

type Metadata struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Tables      map[string]int `json:"tables"`
	Period      Period         `json:"period"`
}

type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func NewMetadata(s *star.Schema, now time.Time) Metadata {
	return Metadata{
		GeneratedAt: now,
		Tables: map[string]int{
			"fato_vendas":  s.Fact.RecordCount(),
			"dim_produtos": s.Products.RecordCount(),
			"dim_clientes": s.Customers.RecordCount(),
			"dim_tempo":    s.Time.RecordCount(),
		},
		Period: Period{
			Start: s.Start.Format("2006-01-02"),
			End:   s.End.Format("2006-01-02"),
		},
	}
}

// WriteMetadata writes the manifest as indented JSON.
func WriteMetadata(path string, meta Metadata) error {
	data, err := json.MarshalIndent(meta, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}
