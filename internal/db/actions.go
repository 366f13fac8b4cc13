package db

import (
	"fmt"
	"io"
	"os"
	"strings"

	dbpkg "github.com/dtnitsch/finchunk/pkg/db"
	"github.com/urfave/cli/v2"
)

func RunsAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	var runs []dbpkg.Run
	if batchID := c.String("batch"); batchID != "" {
		runs, err = database.GetBatchRuns(batchID)
	} else {
		runs, err = database.ListRuns(c.Int("limit"))
	}
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	printRuns(os.Stdout, runs)
	fmt.Printf("\nTip: Use 'finchunk run <run_id>' to see details\n")

	return nil
}

// RunAction shows details for a specific run
func RunAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	run, err := GetRunOrLatest(c, database)
	if err != nil {
		return err
	}

	chunks, err := database.GetRunChunks(run.RunID)
	if err != nil {
		return fmt.Errorf("failed to get run chunks: %w", err)
	}

	printRun(os.Stdout, run, chunks)
	return nil
}

func printRuns(w io.Writer, runs []dbpkg.Run) {
	fmt.Fprintf(w, "%-36s %-20s %-5s %-10s %-4s %-10s %s\n",
		"Run ID", "Created", "Kind", "Period", "Lang", "Status", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, r := range runs {
		fmt.Fprintf(w, "%-36s %-20s %-5s %-10s %-4s %-10s %s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Kind,
			r.Period,
			r.Language,
			r.Status,
			r.Source,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d runs\n", len(runs))
}

func printRun(w io.Writer, run *dbpkg.Run, chunks []dbpkg.RunChunk) {
	fmt.Fprintf(w, "Run %s\n", run.RunID)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Source:    %s\n", run.Source)
	fmt.Fprintf(w, "Batch:     %s\n", run.BatchID)
	fmt.Fprintf(w, "Created:   %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	if run.FinishedAt != nil {
		fmt.Fprintf(w, "Finished:  %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintf(w, "Kind:      %s\n", run.Kind)
	fmt.Fprintf(w, "Period:    %s\n", run.Period)
	if run.Title != "" {
		fmt.Fprintf(w, "Title:     %s\n", run.Title)
	}
	fmt.Fprintf(w, "Status:    %s\n", run.Status)
	if run.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:     %s\n", run.ErrorMessage)
	}
	if run.Language != "" {
		fmt.Fprintf(w, "Language:  %s\n", run.Language)
	}

	if len(chunks) == 0 {
		return
	}

	fmt.Fprintf(w, "\nStatements (%d):\n", len(chunks))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, ch := range chunks {
		fmt.Fprintf(w, "%-10s hits %d/%d/%d/%d/%d  start %d  runes %d  units %d\n",
			ch.Statement,
			ch.FirstUniqueHits, ch.SecondUniqueHits, ch.ThirdUniqueHits, ch.FourthUniqueHits, ch.FifthUniqueHits,
			ch.ChunkStart, ch.ChunkRunes, ch.Units)
		if len(ch.Indicators) > 0 {
			fmt.Fprintf(w, "           %s\n", strings.Join(ch.Indicators, ", "))
		}
	}
}
