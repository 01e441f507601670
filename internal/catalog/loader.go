package catalog

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalogYAML []byte

// Load reads and validates a catalog YAML file. An empty path falls back to
// the embedded default catalog.
func Load(path string, logger *slog.Logger) (*Catalog, error) {
	data := defaultCatalogYAML
	source := "embedded"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
		}
		data = b
		source = path
	}

	var entries map[string]Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML from %s: %w", source, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog from %s contains no insurers", source)
	}

	for insurer, entry := range entries {
		if err := entry.validate(insurer); err != nil {
			return nil, fmt.Errorf("catalog validation failed: %w", err)
		}
	}

	logger.Info("Product catalog loaded", "source", source, "insurers", len(entries))
	return &Catalog{entries: entries}, nil
}
