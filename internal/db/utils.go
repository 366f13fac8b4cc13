package db

import (
	"errors"
	"fmt"

	dbpkg "github.com/dtnitsch/finchunk/pkg/db"
	"github.com/urfave/cli/v2"
)

// GetRunOrLatest returns the run named in args, or the latest run if none is given
func GetRunOrLatest(c *cli.Context, database *dbpkg.DB) (*dbpkg.Run, error) {
	return resolveRun(c.Args().First(), database)
}

func resolveRun(runID string, database *dbpkg.DB) (*dbpkg.Run, error) {
	if runID == "" {
		run, err := database.GetLatestRun()
		if errors.Is(err, dbpkg.ErrRunNotFound) {
			return nil, fmt.Errorf("no runs found. Run 'finchunk locate --period ... <files>' first")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get latest run: %w", err)
		}
		return run, nil
	}

	run, err := database.GetRun(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}
