// Command fleetsearch imports bus inventories and searches them from the
// command line or an interactive shell.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const defaultDir = ".fleetsearch"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	expressionUsage := "[expression]  e.g. volvo cidade:Curitiba preco:100000..300000 -opcional:wifi"

	return &cli.App{
		Name:  "fleetsearch",
		Usage: "Search, filter and facet a bus inventory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"FLEETSEARCH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Data directory holding the inventory store",
				Value:   defaultDir,
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (console, json)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Store a JSON inventory file as a new snapshot",
				ArgsUsage: "<file>",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "keep",
						Usage: "Number of snapshots to keep (0 keeps all)",
					},
				},
			},
			{
				Name:   "snapshots",
				Usage:  "List stored snapshots",
				Action: snapshotsCommand,
			},
			{
				Name:      "generate",
				Usage:     "Write a synthetic inventory file",
				ArgsUsage: "<file>",
				Action:    generateCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Number of vehicles",
						Value:   1000,
					},
					&cli.Uint64Flag{
						Name:  "seed",
						Usage: "Random seed",
						Value: 1,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the inventory",
				ArgsUsage: expressionUsage,
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "sort",
						Aliases: []string{"s"},
						Usage:   "Sort mode (relevance, price_asc, price_desc, model_year_asc, model_year_desc, updated_desc)",
					},
					&cli.IntFlag{
						Name:    "page",
						Aliases: []string{"p"},
						Usage:   "Page number",
						Value:   1,
					},
					&cli.IntFlag{
						Name:  "size",
						Usage: "Page size (defaults to the configured page size)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the response as JSON",
					},
					&cli.BoolFlag{
						Name:  "facets",
						Usage: "Print the facet panel after the results",
					},
				}, sourceFlags()...),
			},
			{
				Name:      "facets",
				Usage:     "Print facet counts for a search",
				ArgsUsage: expressionUsage,
				Action:    facetsCommand,
				Flags: append([]cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the panel as JSON",
					},
				}, sourceFlags()...),
			},
			{
				Name:      "export",
				Usage:     "Write the full ordered result of a search as JSON",
				ArgsUsage: expressionUsage,
				Action:    exportCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output file (stdout when empty)",
					},
					&cli.StringSliceFlag{
						Name:  "id",
						Usage: "Restrict the export to these vehicle IDs",
					},
					&cli.StringFlag{
						Name:    "sort",
						Aliases: []string{"s"},
						Usage:   "Sort mode",
					},
				}, sourceFlags()...),
			},
			{
				Name:   "shell",
				Usage:  "Start an interactive search shell",
				Action: shellCommand,
				Flags:  sourceFlags(),
			},
		},
	}
}

// sourceFlags select the records a command loads.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Search a JSON inventory file instead of the stored snapshot",
		},
		&cli.Uint64Flag{
			Name:  "epoch",
			Usage: "Search a stored snapshot other than the latest",
		},
	}
}
