package engine

import "fmt"

// Blueprint is the static text layout of one level
type Blueprint struct {
	Name string   `json:"name"`
	Rows []string `json:"rows"`
}

// Catalog is an immutable, ordered list of levels
type Catalog struct {
	id          string
	name        string
	description string
	levels      []Blueprint
}

// NewCatalog builds a catalog and parses every level once so that a malformed
// blueprint is reported at load time rather than when the level is reached.
func NewCatalog(id, name, description string, levels ...Blueprint) (*Catalog, error) {
	if id == "" {
		return nil, fmt.Errorf("catalog validation: id is required")
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("catalog validation: %s has no levels", id)
	}

	c := &Catalog{
		id:          id,
		name:        name,
		description: description,
		levels:      make([]Blueprint, len(levels)),
	}
	for i, bp := range levels {
		if _, err := Parse(bp); err != nil {
			return nil, fmt.Errorf("catalog %s level %d: %w", id, i+1, err)
		}
		c.levels[i] = copyBlueprint(bp)
	}
	return c, nil
}

// MustCatalog is NewCatalog for compiled-in level tables.
func MustCatalog(id, name, description string, levels ...Blueprint) *Catalog {
	c, err := NewCatalog(id, name, description, levels...)
	if err != nil {
		panic(err)
	}
	return c
}

// ID returns the catalog identifier
func (c *Catalog) ID() string {
	return c.id
}

// Name returns the display name
func (c *Catalog) Name() string {
	return c.name
}

// Description returns the catalog description
func (c *Catalog) Description() string {
	return c.description
}

// LevelCount returns the number of levels
func (c *Catalog) LevelCount() int {
	return len(c.levels)
}

// Blueprint returns a copy of the level at index
func (c *Catalog) Blueprint(index int) (Blueprint, error) {
	if index < 0 || index >= len(c.levels) {
		return Blueprint{}, fmt.Errorf("%w: level %d not in [0,%d)", ErrOutOfRange, index, len(c.levels))
	}
	return copyBlueprint(c.levels[index]), nil
}

// IsLast reports whether index is the final level
func (c *Catalog) IsLast(index int) bool {
	return index == len(c.levels)-1
}

func copyBlueprint(bp Blueprint) Blueprint {
	rows := make([]string, len(bp.Rows))
	copy(rows, bp.Rows)
	return Blueprint{Name: bp.Name, Rows: rows}
}
