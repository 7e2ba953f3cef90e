package config

import "github.com/wricardo/sokoban-game/game/engine"

const (
	ClassicID  = "classic"
	TutorialID = "tutorial"
)

var classicLevels = []engine.Blueprint{
	{
		Name: "Warehouse",
		Rows: []string{
			"##########",
			"#     O  #",
			"# P  B   #",
			"#        #",
			"##########",
		},
	},
	{
		Name: "Twin Targets",
		Rows: []string{
			"##########",
			"#   O   O#",
			"#  B B  P#",
			"#        #",
			"##########",
		},
	},
	{
		Name: "Pillars",
		Rows: []string{
			"#########",
			"#  O   P#",
			"# B##B  #",
			"#   O  ##",
			"#########",
		},
	},
}

var tutorialLevels = []engine.Blueprint{
	{
		Name: "First Push",
		Rows: []string{
			"#######",
			"#P B O#",
			"#######",
		},
	},
	{
		Name: "Around the Corner",
		Rows: []string{
			"######",
			"#P   #",
			"# B  #",
			"#  O #",
			"######",
		},
	},
	{
		Name: "Mind the Wall",
		Rows: []string{
			"#######",
			"#O   O#",
			"# B B #",
			"#  P  #",
			"#######",
		},
	},
}

// Classic returns the catalog with the original three levels
func Classic() *engine.Catalog {
	return engine.MustCatalog(ClassicID, "Classic", "The original three warehouse levels", classicLevels...)
}

// Tutorial returns a short catalog for new players
func Tutorial() *engine.Catalog {
	return engine.MustCatalog(TutorialID, "Tutorial", "Small levels that teach pushing, turning corners and avoiding walls", tutorialLevels...)
}

// Builtin returns every compiled-in catalog, default first
func Builtin() []*engine.Catalog {
	return []*engine.Catalog{Classic(), Tutorial()}
}
