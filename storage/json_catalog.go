package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"property-search/models"
)

// JSONCatalog reads the property catalog from a JSON array on disk.
type JSONCatalog struct {
	path string
}

// NewJSONCatalog returns a catalog backed by the file at path.
func NewJSONCatalog(path string) *JSONCatalog {
	return &JSONCatalog{path: path}
}

// Properties loads and returns every record in file order.
func (c *JSONCatalog) Properties() ([]*models.Property, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %q: %w", c.path, err)
	}

	var properties []*models.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, fmt.Errorf("catalog: decode %q: %w", c.path, err)
	}
	for _, p := range properties {
		if p.Area > 0 && p.PricePerArea == 0 {
			p.PricePerArea = p.Price / p.Area
		}
	}
	return properties, nil
}

// Write merges properties into the file by id. Existing records keep their
// position; new ones are appended. A missing file is created.
func (c *JSONCatalog) Write(properties []*models.Property) error {
	existing, err := c.Properties()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	index := make(map[string]int, len(existing))
	for i, p := range existing {
		index[p.ID] = i
	}
	for _, p := range properties {
		if i, ok := index[p.ID]; ok {
			existing[i] = p
			continue
		}
		index[p.ID] = len(existing)
		existing = append(existing, p)
	}

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return fmt.Errorf("catalog: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("catalog: create dir: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("catalog: write %q: %w", c.path, err)
	}
	return nil
}

// Close is a no-op; the file is written in full on every Write.
func (c *JSONCatalog) Close() error { return nil }
