// Playground for trying fleet searches by hand.
//
// Run with: go run ./cmd/playground
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"harshagw/fleetsearch/internal/catalog"
	"harshagw/fleetsearch/internal/config"
	"harshagw/fleetsearch/internal/engine"
	"harshagw/fleetsearch/internal/filter"
	"harshagw/fleetsearch/internal/logging"
	"harshagw/fleetsearch/internal/query"
	"harshagw/fleetsearch/internal/signal"
)

func runQueries(e *engine.Engine, exprs []string) {
	for _, expr := range exprs {
		fmt.Printf("Query: %s\n", expr)
		fmt.Println(strings.Repeat("-", 60))

		res, err := query.Compile(expr, filter.Default())
		if err != nil {
			fmt.Printf("  Error: %v\n\n", err)
			continue
		}
		if s := signal.Parse(res.Query); !s.Empty() {
			fmt.Printf("  Signals: %s\n", s)
		}

		resp := e.Search(engine.Request{Query: res.Query, Filters: res.Filters, Sort: res.Sort, Size: 5})
		if resp.Total == 0 {
			fmt.Println("  No results found")
			fmt.Println()
			continue
		}

		fmt.Printf("  %d results (sort %s)\n", resp.Total, resp.Sort)
		for i, v := range resp.Items {
			var score float64
			contributions, _ := e.Explain(v.ID, res.Query)
			for _, c := range contributions {
				score += c.Points
			}
			fmt.Printf("  %d. %s  %s  %s (score: %.0f)\n", i+1, v.ID, v.Title, v.PriceFormatted, score)
		}
		fmt.Println()
	}
}

func main() {
	dir, err := os.MkdirTemp("", "fleetsearch-playground-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	fmt.Println("=== Fleet Search Playground ===")
	fmt.Println()

	cfg := config.Default(dir)
	cfg.Logging.Level = "debug"
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if os.Getenv("PLAYGROUND_QUIET") != "" {
		logger = zerolog.Nop()
	}

	e := engine.New(cfg, logger)
	e.Load(catalog.Generate(500, 7))
	fmt.Printf("Loaded %d vehicles\n\n", e.Stats().Vehicles)

	fmt.Println("=== Text and fuzzy queries ===")
	fmt.Println()
	runQueries(e, []string{
		"volvo",
		"scnia",
		"merc curitiba",
		`"sao paulo" rodoviario`,
	})

	fmt.Println("=== Signal queries ===")
	fmt.Println()
	runQueries(e, []string{
		"scania 6x2",
		"volvo 6x2 ordem:price_asc",
		"mercedes 4x2 cidade:Curitiba",
	})

	fmt.Println("=== Filter expressions ===")
	fmt.Println()
	runQueries(e, []string{
		"categoria:Rodoviário opcional:wifi preco:..500000",
		"chassi:Volvo,Scania eixos:3 ordem:model_year_desc",
		"freioMotor:sim -opcional:banheiro",
		"cidade:",
	})

	fmt.Println("=== Explain ===")
	fmt.Println()
	resp := e.Search(engine.Request{Query: "volvo 6x2", Filters: filter.Default(), Size: 1})
	if len(resp.Items) > 0 {
		v := resp.Items[0]
		fmt.Printf("%s %s\n", v.ID, v.Title)
		contributions, _ := e.Explain(v.ID, "volvo 6x2")
		for _, c := range contributions {
			fmt.Printf("  %-28s %+.0f\n", c.Reason, c.Points)
		}
		fmt.Println()
	}

	fmt.Println("=== Facets for categoria:Urbano ===")
	fmt.Println()
	panel := e.Facets("", filter.WithCategories(filter.Default(), "Urbano"))
	for _, n := range panel.Categories {
		fmt.Printf("  %s (%d)\n", n.Name, n.Count)
		for _, c := range n.Children {
			fmt.Printf("    %s (%d)\n", c.Name, c.Count)
		}
	}
	for _, n := range panel.Chassis {
		fmt.Printf("  %s (%d)\n", n.Name, n.Count)
	}
}
