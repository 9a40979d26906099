package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// Catalog holds the static scenario definitions. The engine treats it
// as read-only; Put exists for loading and tests only.
type Catalog struct {
	mu        sync.RWMutex
	scenarios map[string]models.Scenario
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{scenarios: make(map[string]models.Scenario)}
}

// Default returns a catalog preloaded with the built-in scenarios
func Default() *Catalog {
	c := New()
	for _, s := range defaultScenarios() {
		c.Put(s)
	}
	return c
}

// LoadFile reads scenarios from a JSON file into the catalog
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	var file struct {
		Scenarios []models.Scenario `json:"scenarios"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	for _, s := range file.Scenarios {
		c.Put(s)
	}
	return nil
}

// Put stores a scenario
func (c *Catalog) Put(s models.Scenario) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scenarios[s.ID] = s
}

// Lookup retrieves a scenario by id
func (c *Catalog) Lookup(id string) (models.Scenario, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.scenarios[id]
	return s, ok
}

// List returns all scenarios ordered by id
func (c *Catalog) List() []models.Scenario {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Scenario, 0, len(c.scenarios))
	for _, s := range c.scenarios {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
