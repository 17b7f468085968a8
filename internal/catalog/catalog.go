// Package catalog loads the tree-species catalog from a TOML file. The
// catalog is the seed source for the tree_types tables and is reference
// data only; per-user trees snapshot what they need from it at redeem time.
package catalog

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Stage struct {
	Name          string  `toml:"name"`
	HoursRequired float64 `toml:"hours_required"`
	ImageURL      string  `toml:"image_url"`
	Description   string  `toml:"description"`
}

type Species struct {
	ID             string  `toml:"id"`
	Name           string  `toml:"name"`
	ScientificName string  `toml:"scientific_name"`
	Description    string  `toml:"description"`
	CareLevel      string  `toml:"care_level"`
	MaxHeight      string  `toml:"max_height"`
	Lifespan       string  `toml:"lifespan"`
	NativeTo       string  `toml:"native_to"`
	Cost           int64   `toml:"cost"`
	Stages         []Stage `toml:"stages"`
}

type Catalog struct {
	Species []Species `toml:"species"`
}

// MaxStage is the highest stage index a tree of this species can reach.
func (s Species) MaxStage() int {
	if len(s.Stages) == 0 {
		return 0
	}
	return len(s.Stages) - 1
}

// TotalHoursRequired is the accumulated-hours mark at which the final
// stage is reached plus one full hour of growth within it.
func (s Species) TotalHoursRequired() float64 {
	if len(s.Stages) == 0 {
		return 0
	}
	return s.Stages[len(s.Stages)-1].HoursRequired + 1
}

func (c *Catalog) validate() error {
	if len(c.Species) == 0 {
		return fmt.Errorf("catalog has no species")
	}
	seen := make(map[string]bool, len(c.Species))
	for _, sp := range c.Species {
		if sp.ID == "" || sp.Name == "" {
			return fmt.Errorf("species %q: id and name are required", sp.ID)
		}
		if seen[sp.ID] {
			return fmt.Errorf("duplicate species id %q", sp.ID)
		}
		seen[sp.ID] = true
		if sp.Cost < 0 {
			return fmt.Errorf("species %q: negative cost", sp.ID)
		}
		prev := -1.0
		for i, st := range sp.Stages {
			if st.HoursRequired <= prev {
				return fmt.Errorf("species %q: stage %d hours_required must increase", sp.ID, i)
			}
			prev = st.HoursRequired
		}
	}
	return nil
}

// Parse decodes and validates catalog TOML.
func Parse(data string) (*Catalog, error) {
	var c Catalog
	if _, err := toml.Decode(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads and parses a catalog TOML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(string(data))
}
