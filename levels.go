package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/wricardo/sokoban-game/game/config"
	"github.com/wricardo/sokoban-game/game/engine"
	"github.com/wricardo/sokoban-game/game/solver"
)

// runLevels prints every level of one catalog, or of all catalogs when
// catalogID is empty. With solve set, each level is run through the solver
// and an error is returned if any level has no solution.
func runLevels(ctx context.Context, w io.Writer, catalogID string, solve bool) error {
	manager, err := config.NewManager()
	if err != nil {
		return err
	}

	var catalogs []*engine.Catalog
	if catalogID != "" {
		catalog, err := manager.LoadCatalog(catalogID)
		if err != nil {
			return err
		}
		catalogs = append(catalogs, catalog)
	} else {
		infos, err := manager.ListCatalogs()
		if err != nil {
			return err
		}
		for _, info := range infos {
			catalog, err := manager.LoadCatalog(info.ID)
			if err != nil {
				return err
			}
			catalogs = append(catalogs, catalog)
		}
	}

	failed := 0
	for i, catalog := range catalogs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		n, err := printCatalog(ctx, w, catalog, solve)
		if err != nil {
			return err
		}
		failed += n
	}

	if failed > 0 {
		return fmt.Errorf("%d level(s) could not be solved", failed)
	}
	return nil
}

// printCatalog writes one table row per level and returns how many levels failed to solve
func printCatalog(ctx context.Context, w io.Writer, catalog *engine.Catalog, solve bool) (int, error) {
	fmt.Fprintf(w, "%s (%s): %d levels\n", catalog.Name(), catalog.ID(), catalog.LevelCount())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "#\tNAME\tSIZE\tBOXES\tTARGETS"
	if solve {
		header += "\tSOLUTION"
	}
	fmt.Fprintln(tw, header)

	failed := 0
	for i := 0; i < catalog.LevelCount(); i++ {
		if err := ctx.Err(); err != nil {
			return failed, err
		}

		bp, err := catalog.Blueprint(i)
		if err != nil {
			return failed, err
		}
		board, err := engine.Parse(bp)
		if err != nil {
			return failed, fmt.Errorf("level %d: %w", i+1, err)
		}

		row := fmt.Sprintf("%d\t%s\t%dx%d\t%d\t%d", i+1, bp.Name, board.Width(), board.Height(),
			len(board.Boxes()), len(board.Targets()))
		if solve {
			verdict, ok := solveVerdict(board)
			if !ok {
				failed++
			}
			row += "\t" + verdict
		}
		fmt.Fprintln(tw, row)
	}

	return failed, tw.Flush()
}

// solveVerdict summarizes the solver result for a level
func solveVerdict(board *engine.Board) (string, bool) {
	solution, err := solver.Solve(board, solver.DefaultLimit)
	switch {
	case err == nil:
		return fmt.Sprintf("%d moves, %d pushes", len(solution.Moves), solution.Pushes), true
	case errors.Is(err, solver.ErrUnsolvable):
		return "unsolvable", false
	case errors.Is(err, solver.ErrSearchLimit):
		return "search limit reached", false
	default:
		return err.Error(), false
	}
}
