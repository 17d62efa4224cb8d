// Package seed loads operator-provided store layouts and item cache
// backfills from files.
package seed

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pantryops/aisleflow/internal/model"
)

// File is the top-level structure of a layout seed file.
type File struct {
	Stores []Store `yaml:"stores"`
}

// Store describes one store location and its zone walk order.
type Store struct {
	Name  string `yaml:"name"`
	Chain string `yaml:"chain"`
	City  string `yaml:"city"`
	State string `yaml:"state"`
	Zip   string `yaml:"zip"`
	Zones []Zone `yaml:"zones"`
}

// Zone is one ordered zone with the categories it shelves.
type Zone struct {
	Name       string   `yaml:"name"`
	Categories []string `yaml:"categories"`
}

// Load reads and validates a layout seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(f.Stores) == 0 {
		return nil, fmt.Errorf("seed file %s contains no stores", path)
	}

	for i, store := range f.Stores {
		if strings.TrimSpace(store.Name) == "" {
			return nil, fmt.Errorf("store %d has no name", i)
		}
		if len(store.Zones) == 0 {
			return nil, fmt.Errorf("store %q has no zones", store.Name)
		}
	}

	return &f, nil
}

// Model converts a seed store into the registry and layout records to
// persist. Category names are validated against the known enumeration.
func (s Store) Model() (model.Store, model.StoreLayout, error) {
	store := model.Store{
		Name:       s.Name,
		Chain:      s.Chain,
		City:       s.City,
		State:      s.State,
		PostalCode: s.Zip,
	}

	layout := model.StoreLayout{
		StoreName:  s.Name,
		PostalCode: s.Zip,
		Zones:      make([]model.Zone, 0, len(s.Zones)),
	}
	for _, z := range s.Zones {
		zone := model.Zone{Name: z.Name, Categories: make([]model.Category, 0, len(z.Categories))}
		for _, raw := range z.Categories {
			c, err := model.ParseCategory(raw)
			if err != nil {
				return model.Store{}, model.StoreLayout{}, fmt.Errorf("store %q zone %q: %w", s.Name, z.Name, err)
			}
			zone.Categories = append(zone.Categories, c)
		}
		layout.Zones = append(layout.Zones, zone)
	}

	return store, layout, nil
}

// CacheEntry is one row of an item cache backfill.
type CacheEntry struct {
	Key            string
	NormalizedName string
	Category       model.Category
	Source         model.Source
}

// LoadItemsCSV reads an item cache backfill. The file must carry a
// header with item, category, normalized_name and optionally source
// columns; rows with a blank item are skipped, matching the layout of
// exported cache dumps.
func LoadItemsCSV(path string) ([]CacheEntry, error) {
	f, err := os.Open(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("failed to open items file: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse items file: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("items file %s contains no rows", path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"item", "category", "normalized_name"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("items file missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	entries := make([]CacheEntry, 0, len(records)-1)
	for n, row := range records[1:] {
		item := field(row, "item")
		if item == "" {
			continue
		}
		category, err := model.ParseCategory(field(row, "category"))
		if err != nil {
			return nil, fmt.Errorf("items file row %d: %w", n+2, err)
		}
		source := model.Source(field(row, "source"))
		if source == "" {
			source = model.SourceRule
		}
		name := field(row, "normalized_name")
		if name == "" {
			name = item
		}
		entries = append(entries, CacheEntry{
			Key:            item,
			NormalizedName: name,
			Category:       category,
			Source:         source,
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("items file %s contains no usable rows", path)
	}

	return entries, nil
}
