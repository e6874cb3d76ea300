package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileSchema is the shape of an optional catalog overlay file:
//
//	sectors:
//	  Containers: https://example.com/rss/containers
//	topics:
//	  Decarbonisation: https://example.com/rss/decarbonisation
type fileSchema map[string]map[string]string

// NewFromFile builds a catalog from the defaults overlaid with entries
// from a YAML file. Overlay entries replace same-named defaults; unknown
// categories are rejected so a typo does not silently create a dead
// category.
func NewFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var overlay fileSchema
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}

	c := NewDefault()
	for cat, feeds := range overlay {
		if _, ok := c.feeds[cat]; !ok {
			return nil, fmt.Errorf("unknown catalog category %q in %s", cat, path)
		}
		for name, url := range feeds {
			if url == "" {
				// Empty URL removes the entry, letting deployments hide feeds.
				delete(c.feeds[cat], name)
				continue
			}
			c.feeds[cat][name] = url
		}
	}
	return c, nil
}
