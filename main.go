package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/finchunk/internal/db"
	"github.com/dtnitsch/finchunk/internal/extract"
	"github.com/dtnitsch/finchunk/internal/locate"
	"github.com/dtnitsch/finchunk/pkg/help"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func pageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "pages",
			Usage: `PDF page range such as "3-9"; overrides --first/--last`,
		},
		&cli.StringFlag{
			Name:  "first",
			Usage: "first PDF page to read",
		},
		&cli.StringFlag{
			Name:  "last",
			Usage: "last PDF page to read (at most 100 pages are read without it)",
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Usage:   "path to the run store (default: finchunk.db next to the binary)",
		EnvVars: []string{"FINCHUNK_DB"},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "finchunk",
		Usage: "locate balance sheet, income statement and cash flow chunks in financial filings",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
				EnvVars: []string{"FINCHUNK_QUIET"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug output",
				EnvVars: []string{"FINCHUNK_VERBOSE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "quickstart",
				Usage: "print a YAML quick reference",
				Action: func(c *cli.Context) error {
					fmt.Print(help.QuickstartYAML)
					return nil
				},
			},
			{
				Name:      "normalize",
				Usage:     "print the flat text of a MIME, HTML or text document",
				ArgsUsage: "<file|url>",
				Action:    extract.NormalizeAction,
			},
			{
				Name:      "pdf",
				Usage:     "print the reconstructed text of a PDF",
				ArgsUsage: "<file|url>",
				Flags:     pageFlags(),
				Action:    extract.PDFAction,
			},
			{
				Name:      "locate",
				Usage:     "locate the financial statements in one or more documents",
				ArgsUsage: "<file|url>...",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "period",
						Usage:    "reporting period passed to the cleaner, e.g. 2024-FY",
						Required: true,
						EnvVars:  []string{"FINCHUNK_PERIOD"},
					},
					&cli.IntFlag{
						Name:    "workers",
						Value:   4,
						Usage:   "number of concurrent workers",
						EnvVars: []string{"FINCHUNK_WORKERS"},
					},
					&cli.StringFlag{
						Name:    "format",
						Value:   "json",
						Usage:   "report format: json or yaml",
						EnvVars: []string{"FINCHUNK_FORMAT"},
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Value:   "finchunk-results",
						Usage:   "directory for reports, the summary and the text cache",
						EnvVars: []string{"FINCHUNK_OUTPUT_DIR"},
					},
					&cli.StringFlag{
						Name:    "config",
						Usage:   "YAML file overriding locator settings and indicators",
						EnvVars: []string{"FINCHUNK_CONFIG"},
					},
					&cli.StringFlag{
						Name:    "max-age",
						Value:   "24h",
						Usage:   "how long cached flat text stays fresh (0 never expires)",
						EnvVars: []string{"FINCHUNK_MAX_AGE"},
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "ignore the text cache",
					},
					dbFlag(),
				}, pageFlags()...),
				Action: locate.LocateAction,
			},
			{
				Name:  "runs",
				Usage: "list recorded locate runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "number of runs to show",
					},
					&cli.StringFlag{
						Name:  "batch",
						Usage: "only show runs of this batch id",
					},
					dbFlag(),
				},
				Action: db.RunsAction,
			},
			{
				Name:      "run",
				Usage:     "show one run and its located statements (latest if omitted)",
				ArgsUsage: "[run_id]",
				Flags:     []cli.Flag{dbFlag()},
				Action:    db.RunAction,
			},
		},
	}
}
