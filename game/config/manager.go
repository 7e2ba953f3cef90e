package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/wricardo/sokoban-game/game/engine"
	"github.com/wricardo/sokoban-game/game/service"
)

var (
	ErrCatalogNotFound = errors.New("catalog not found")
	ErrInvalidCatalog  = errors.New("invalid catalog")
)

// Manager keeps the registered catalogs and the default one
type Manager struct {
	catalogs       map[string]*engine.Catalog
	order          []string
	defaultCatalog *engine.Catalog
	mu             sync.RWMutex
}

// NewManager creates a manager holding the given catalogs. Without arguments
// it registers the built-in ones. The first catalog becomes the default.
func NewManager(catalogs ...*engine.Catalog) (*Manager, error) {
	if len(catalogs) == 0 {
		catalogs = Builtin()
	}

	m := &Manager{
		catalogs: make(map[string]*engine.Catalog),
	}
	for _, catalog := range catalogs {
		if err := m.Register(catalog); err != nil {
			return nil, err
		}
	}
	m.defaultCatalog = m.catalogs[m.order[0]]

	return m, nil
}

// Register adds a catalog under its ID
func (m *Manager) Register(catalog *engine.Catalog) error {
	if catalog == nil {
		return fmt.Errorf("%w: catalog cannot be nil", ErrInvalidCatalog)
	}
	key := normalizeID(catalog.ID())

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.catalogs[key]; exists {
		return fmt.Errorf("%w: duplicate catalog id %q", ErrInvalidCatalog, catalog.ID())
	}
	m.catalogs[key] = catalog
	m.order = append(m.order, key)
	return nil
}

// LoadCatalog returns a catalog by ID (case-insensitive)
func (m *Manager) LoadCatalog(id string) (*engine.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	catalog, exists := m.catalogs[normalizeID(id)]
	if !exists {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrCatalogNotFound, id, strings.Join(m.order, ", "))
	}
	return catalog, nil
}

// ListCatalogs describes every registered catalog in registration order
func (m *Manager) ListCatalogs() ([]*service.CatalogInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]*service.CatalogInfo, 0, len(m.order))
	for _, key := range m.order {
		catalog := m.catalogs[key]
		infos = append(infos, &service.CatalogInfo{
			ID:          catalog.ID(),
			Name:        catalog.Name(),
			Description: catalog.Description(),
			LevelCount:  catalog.LevelCount(),
			Default:     catalog == m.defaultCatalog,
		})
	}
	return infos, nil
}

// GetDefault returns the default catalog
func (m *Manager) GetDefault() *engine.Catalog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultCatalog
}

// SetDefault sets the default catalog by ID
func (m *Manager) SetDefault(id string) error {
	catalog, err := m.LoadCatalog(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultCatalog = catalog
	return nil
}

// Count returns the number of registered catalogs
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.catalogs)
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
