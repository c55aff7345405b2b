package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"harshagw/fleetsearch/internal/config"
	"harshagw/fleetsearch/internal/engine"
	"harshagw/fleetsearch/internal/filter"
	"harshagw/fleetsearch/internal/query"
	"harshagw/fleetsearch/internal/vehicle"
)

const numVehicles = 10000

func main() {
	benchDir := getBenchDir()

	// Handle generate command
	if len(os.Args) >= 2 && os.Args[1] == "generate" {
		target := defaultTarget
		if len(os.Args) >= 3 {
			if t, err := strconv.Atoi(os.Args[2]); err == nil && t > 0 {
				target = t
			}
		}

		fmt.Println("Fleet Generator")
		fmt.Println("===============")
		fmt.Println()

		if err := GenerateFleet(benchDir, target); err != nil {
			fmt.Printf("\nError: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Fleet Search Benchmark")
	fmt.Println("======================")
	fmt.Println()

	benchStart := time.Now()

	raws, err := LoadFleet(benchDir, numVehicles)
	if err != nil {
		fmt.Printf("Error loading fleet: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d vehicles\n\n", len(raws))

	indexed := runLoadBenchmark(raws, true)
	printIndexInfo(indexed)
	runAllQueryBenchmarks("INDEXED", indexed)
	runFacetBenchmark(indexed)

	unindexed := runLoadBenchmark(raws, false)
	runAllQueryBenchmarks("SUBSTRING", unindexed)

	fmt.Printf("Total time: %.2f seconds\n", time.Since(benchStart).Seconds())
}

func getBenchDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Dir(filename)
}

func newEngine(indexed bool) *engine.Engine {
	cfg := config.Default(os.TempDir())
	cfg.Index.Enabled = indexed
	return engine.New(cfg, zerolog.Nop())
}

func runLoadBenchmark(raws []vehicle.RawVehicle, indexed bool) *engine.Engine {
	if indexed {
		fmt.Println("LOAD (normalize + index)")
		fmt.Println("------------------------")
	} else {
		fmt.Println("LOAD (normalize only)")
		fmt.Println("---------------------")
	}

	// Warm up run
	newEngine(indexed).Load(raws[:min(100, len(raws))])

	var totalTime time.Duration
	runs := 3

	var e *engine.Engine
	for i := 0; i < runs; i++ {
		e = newEngine(indexed)
		start := time.Now()
		e.Load(raws)
		totalTime += time.Since(start)
	}

	avgTime := totalTime / time.Duration(runs)
	throughput := float64(len(raws)) / avgTime.Seconds()

	fmt.Printf("  Vehicles:   %d\n", len(raws))
	fmt.Printf("  Time:       %v\n", avgTime.Round(time.Millisecond))
	fmt.Printf("  Throughput: %.0f vehicles/sec\n", throughput)
	fmt.Println()

	return e
}

func printIndexInfo(e *engine.Engine) {
	stats := e.Stats()
	fmt.Println("INDEX INFO")
	fmt.Println("----------")
	fmt.Printf("  Indexed: %v\n", stats.Indexed)

	total := 0
	for _, f := range stats.Fields {
		total += f.Terms
		fmt.Printf("    [%s] weight %.1f, %d terms\n", f.Name, f.Weight, f.Terms)
	}

	fmt.Println()
	fmt.Printf("  Total Terms: %d\n", total)
	fmt.Println()
}

func runAllQueryBenchmarks(mode string, e *engine.Engine) {
	fmt.Printf("==== %s ====\n\n", mode)

	fmt.Println("TEXT QUERIES")
	fmt.Println("------------")
	runQueries(e, []string{
		// manufacturers, from common to rare
		"mercedes",
		"volvo",
		"scania",
		"agrale",
		// locations and categories
		"curitiba",
		"sao paulo",
		"rodoviario",
		"urbano articulado",
		// models
		"o 500",
		"k 440",
		"b450r",
	})

	fmt.Println("FUZZY/PREFIX QUERIES")
	fmt.Println("--------------------")
	runQueries(e, []string{
		"merc",
		"volks",
		"scnia",
		"curitba",
		"rodoviaro",
		"marcoplo paradiso",
	})

	fmt.Println("SIGNAL QUERIES")
	fmt.Println("--------------")
	runQueries(e, []string{
		"6x2",
		"volvo 6x2",
		"scania 6x4",
		"mercedes 4x2",
	})

	fmt.Println("FILTER EXPRESSIONS")
	fmt.Println("------------------")
	runQueries(e, []string{
		"cidade:Curitiba",
		"categoria:Rodoviário",
		"categoria:Urbano subcategoria:Articulado",
		"chassi:Volvo,Scania",
		"chassi:Volvo chassiModelo:B450R",
		"eixos:3",
		"tracao:6x2",
		"preco:200000..500000",
		"anoModelo:2015..",
		"potencia:300..",
		"opcional:wifi,banheiro",
		"freioMotor:sim",
	})

	fmt.Println("MIXED")
	fmt.Println("-----")
	runQueries(e, []string{
		"volvo cidade:Curitiba",
		"scania preco:..400000",
		"rodoviario opcional:wifi anoModelo:2018..",
		"volvo 6x2 chassi:Volvo -opcional:banheiro",
	})

	fmt.Println("SORTED")
	fmt.Println("------")
	runQueries(e, []string{
		"ordem:price_asc",
		"ordem:updated_desc",
		"volvo ordem:relevance",
		"categoria:Urbano ordem:model_year_desc",
	})
}

// runFacetBenchmark compares a cold facet panel with one served from the
// context memo.
func runFacetBenchmark(e *engine.Engine) {
	fmt.Println("FACET PANEL")
	fmt.Println("-----------")

	for _, expr := range []string{
		"",
		"volvo",
		"categoria:Urbano cidade:Curitiba",
		"chassi:Scania preco:200000..",
	} {
		res, err := query.Compile(expr, filter.Default())
		if err != nil {
			fmt.Printf("  %-55s error: %v\n", expr, err)
			continue
		}

		start := time.Now()
		e.Facets(res.Query, res.Filters)
		cold := time.Since(start)

		iterations := 500
		start = time.Now()
		for i := 0; i < iterations; i++ {
			e.Facets(res.Query, res.Filters)
		}
		warm := time.Since(start) / time.Duration(iterations)

		label := expr
		if label == "" {
			label = "(all)"
		}
		fmt.Printf("  %-55s cold %s  warm %s\n", label, formatLatency(cold), formatLatency(warm))
	}
	fmt.Println()
}

func runQueries(e *engine.Engine, exprs []string) {
	for _, expr := range exprs {
		latency, hits, err := benchmarkQuery(e, expr)
		if err != nil {
			fmt.Printf("  %-55s error: %v\n", expr, err)
			continue
		}
		fmt.Printf("  %-55s %s  (%d hits)\n", expr, formatLatency(latency), hits)
	}
	fmt.Println()
}

func benchmarkQuery(e *engine.Engine, expr string) (time.Duration, int, error) {
	res, err := query.Compile(expr, filter.Default())
	if err != nil {
		return 0, 0, err
	}
	req := engine.Request{Query: res.Query, Filters: res.Filters, Sort: res.Sort}

	var hits int

	// Warm up
	for i := 0; i < 5; i++ {
		hits = e.Search(req).Total
	}

	iterations := 100
	start := time.Now()
	for i := 0; i < iterations; i++ {
		e.Search(req)
	}
	return time.Since(start) / time.Duration(iterations), hits, nil
}

func formatLatency(d time.Duration) string {
	return fmt.Sprintf("%10.2f µs", float64(d.Nanoseconds())/1000)
}
