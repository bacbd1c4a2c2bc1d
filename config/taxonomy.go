package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed taxonomy.toml
var defaultTaxonomy []byte

// Location is a searchable place. Region is its parent island.
type Location struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Region      string `toml:"region"`
	Description string `toml:"description"`
	Popularity  int    `toml:"popularity"`
}

// PropertyType is a searchable property category.
type PropertyType struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	Popularity  int    `toml:"popularity"`
}

// FeatureGroup is one category of the comparison feature table.
type FeatureGroup struct {
	Category string   `toml:"category"`
	Features []string `toml:"features"`
}

// Taxonomy is the static search vocabulary.
type Taxonomy struct {
	Locations     []Location     `toml:"locations"`
	PropertyTypes []PropertyType `toml:"property_types"`
	FeatureGroups []FeatureGroup `toml:"feature_groups"`
}

// LoadTaxonomy reads a TOML taxonomy from path. An empty path returns the
// built-in Cape Verde taxonomy.
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data := defaultTaxonomy
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("taxonomy: read %q: %w", path, err)
		}
		data = b
	}
	return ParseTaxonomy(data)
}

// ParseTaxonomy decodes and validates a TOML taxonomy document.
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var t Taxonomy
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("taxonomy: decode: %w", err)
	}

	seen := make(map[string]struct{})
	for _, l := range t.Locations {
		if err := checkID(seen, "location", l.ID); err != nil {
			return nil, err
		}
	}
	for _, pt := range t.PropertyTypes {
		if err := checkID(seen, "property type", pt.ID); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func checkID(seen map[string]struct{}, kind, id string) error {
	if id == "" {
		return fmt.Errorf("taxonomy: %s with empty id", kind)
	}
	if _, dup := seen[id]; dup {
		return fmt.Errorf("taxonomy: duplicate id %q", id)
	}
	seen[id] = struct{}{}
	return nil
}
