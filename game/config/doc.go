// Package config provides the level catalogs for the box-pushing game.
//
// The config package handles:
//   - The built-in catalogs compiled into the binary
//   - Catalog lookup by ID
//   - Default catalog management
//   - Catalog discovery and listing
//
// Available Catalogs:
//
//   - classic: the three original levels
//   - tutorial: small levels that introduce pushing one rule at a time
//
// Usage:
//
//	manager, err := config.NewManager()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific catalog
//	catalog, err := manager.LoadCatalog("tutorial")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Get default catalog
//	defaultCatalog := manager.GetDefault()
//
//	// List available catalogs
//	catalogs, err := manager.ListCatalogs()
//
// Validation:
//
// Every level of a registered catalog has already been parsed by
// engine.NewCatalog, so a catalog handed out by the Manager never fails to
// start a game.
package config
