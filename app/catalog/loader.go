package catalog

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	Categories []Category `yaml:"categories"`
}

// LoadFile reads a YAML catalog:
//
//	categories:
//	  - id: topic
//	    name: Topic
//	    values: [Equality, Healthcare reform]
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}

	slog.Debug("Catalog loaded", "path", path, "categories", c.Len())
	return c, nil
}

func Parse(data []byte) (*Catalog, error) {
	var config fileConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(config.Categories) == 0 {
		return nil, fmt.Errorf("at least one category is required")
	}

	return New(config.Categories)
}
