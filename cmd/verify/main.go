package main

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"harshagw/fleetsearch/internal/config"
	"harshagw/fleetsearch/internal/engine"
	"harshagw/fleetsearch/internal/filter"
	"harshagw/fleetsearch/internal/query"
	"harshagw/fleetsearch/internal/vehicle"
)

// TestCase is an expression with its expected vehicle IDs.
type TestCase struct {
	Expr     string
	Expected []string // order only matters when Ordered is set
	Ordered  bool
	Error    bool
}

type TestCategory struct {
	Name  string
	Cases []TestCase
}

func main() {
	fmt.Println("Fleet Search Verification")
	fmt.Println("=========================")
	fmt.Println()

	var raws []vehicle.RawVehicle
	if err := json.Unmarshal([]byte(fleetJSON), &raws); err != nil {
		fmt.Printf("Error decoding fleet: %v\n", err)
		os.Exit(1)
	}

	passed, failed := 0, 0
	for _, indexed := range []bool{true, false} {
		cfg := config.Default(os.TempDir())
		cfg.Index.Enabled = indexed
		e := engine.New(cfg, zerolog.Nop())
		e.Load(raws)

		mode := "fuzzy index"
		if !indexed {
			mode = "substring fallback"
		}
		fmt.Printf("\n>>> %d vehicles, %s\n", e.Stats().Vehicles, mode)

		for _, category := range getTestCategories(indexed) {
			fmt.Printf("\n%s\n", category.Name)
			fmt.Println(strings.Repeat("-", len(category.Name)))

			for _, tc := range category.Cases {
				if runTestCase(e, tc) {
					passed++
				} else {
					failed++
				}
			}
		}
	}

	fmt.Println()
	fmt.Println("========================================")
	fmt.Printf("Results: %d passed, %d failed, %d total\n", passed, failed, passed+failed)

	if failed > 0 {
		os.Exit(1)
	}
	fmt.Println("\nAll tests passed!")
}

func runTestCase(e *engine.Engine, tc TestCase) bool {
	res, err := query.Compile(tc.Expr, filter.Default())
	if tc.Error {
		if err == nil {
			fmt.Printf("  ✗ %s\n", tc.Expr)
			fmt.Printf("    Expected a syntax error\n")
			return false
		}
		fmt.Printf("  ✓ %s (%v)\n", tc.Expr, err)
		return true
	}
	if err != nil {
		fmt.Printf("  ✗ %s\n", tc.Expr)
		fmt.Printf("    Error: %v\n", err)
		return false
	}

	resp := e.Search(engine.Request{
		Query:   res.Query,
		Filters: res.Filters,
		Sort:    res.Sort,
		Size:    len(e.Vehicles()) + 1,
	})

	gotIDs := make([]string, len(resp.Items))
	for i, v := range resp.Items {
		gotIDs[i] = v.ID
	}
	expected := slices.Clone(tc.Expected)
	if !tc.Ordered {
		slices.Sort(gotIDs)
		slices.Sort(expected)
	}

	if !slices.Equal(gotIDs, expected) {
		fmt.Printf("  ✗ %s\n", tc.Expr)
		fmt.Printf("    Expected: %v\n", expected)
		fmt.Printf("    Got:      %v\n", gotIDs)
		return false
	}

	fmt.Printf("  ✓ %s\n", tc.Expr)
	return true
}

// fleetJSON is the deterministic inventory the cases run against. b6 is
// listed as 6x2 in its title while its chassis is declared 4x2.
const fleetJSON = `[
	{"_id": "b1", "identificacao": {"sku": "1001", "titulo": "Mercedes-Benz OF 1721 Apache Vip"},
	 "categoria": "Urbano", "subcategoria": "Convencional",
	 "localizacao": {"cidade": "Curitiba", "estado": "PR"},
	 "chassiInfo": {"fabricante": "Mercedes-Benz", "modelo": "OF 1721", "tracao": "4x2", "eixos": 2,
	  "potencia": "208 cv", "localizacaoMotor": "Dianteiro", "freioMotor": "Sim"},
	 "carroceriaInfo": {"fabricante": "Caio", "modelo": "Apache Vip"},
	 "dadosVeiculo": {"anoFabricacao": 2015, "anoModelo": 2016, "valor": 180000},
	 "opcionais": {"arCondicionado": false},
	 "updatedAt": "2024-01-10T00:00:00Z"},
	{"_id": "b2", "identificacao": {"sku": "1002", "titulo": "Volvo B340M 6x2 Millennium"},
	 "categoria": "Urbano", "subcategoria": "Articulado",
	 "localizacao": {"cidade": "Curitiba", "estado": "PR"},
	 "chassiInfo": {"fabricante": "Volvo", "modelo": "B340M", "tracao": "6x2", "eixos": 3,
	  "potencia": "340 cv", "localizacaoMotor": "Central"},
	 "carroceriaInfo": {"fabricante": "Caio", "modelo": "Millennium"},
	 "dadosVeiculo": {"anoModelo": 2012, "valor": "a combinar"},
	 "opcionais": {"arCondicionado": true},
	 "updatedAt": "2024-03-01T00:00:00Z"},
	{"_id": "b3", "identificacao": {"sku": "1003", "titulo": "Scania K 360 6x2 Paradiso 1800 DD"},
	 "categoria": "Rodoviário", "subcategoria": "Double Deck",
	 "localizacao": {"cidade": "São Paulo", "estado": "SP"},
	 "chassiInfo": {"fabricante": "Scania", "modelo": "K 360", "tracao": "6x2", "eixos": 3,
	  "potencia": "360 cv", "localizacaoMotor": "Traseiro", "retarder": "Voith", "freioMotor": "Sim",
	  "suspensao": "Pneumática"},
	 "carroceriaInfo": {"fabricante": "Marcopolo", "modelo": "Paradiso 1800 DD"},
	 "dadosVeiculo": {"anoModelo": 2020, "valor": 650000},
	 "opcionais": {"arCondicionado": true, "wifi": true, "banheiro": true},
	 "updatedAt": "2023-12-01T00:00:00Z"},
	{"_id": "b4", "identificacao": {"sku": "1004", "titulo": "Volvo B450R 6x2 Irizar i8"},
	 "categoria": "Rodoviário", "subcategoria": "Executivo",
	 "localizacao": {"cidade": "Recife", "estado": "PE"},
	 "chassiInfo": {"fabricante": "Volvo", "modelo": "B450R", "tracao": "6x2", "eixos": 3,
	  "potencia": "450 cv", "localizacaoMotor": "Traseiro", "retarder": "Não", "freioMotor": "Não"},
	 "carroceriaInfo": {"fabricante": "Irizar", "modelo": "i8"},
	 "dadosVeiculo": {"anoModelo": 2021, "valor": 890000},
	 "opcionais": {"arCondicionado": true, "wifi": true},
	 "updatedAt": "2024-02-15T00:00:00Z"},
	{"_id": "b5", "identificacao": {"sku": "1005", "titulo": "Mercedes-Benz LO 916 Senior"},
	 "categoria": "Micro",
	 "localizacao": {"cidade": "Belo Horizonte", "estado": "MG"},
	 "chassiInfo": {"fabricante": "Mercedes-Benz", "modelo": "LO 916", "tracao": "4x2", "eixos": 2,
	  "potencia": "156 cv", "localizacaoMotor": "Dianteiro"},
	 "carroceriaInfo": {"fabricante": "Marcopolo", "modelo": "Senior"},
	 "dadosVeiculo": {"anoModelo": 2019, "valor": 210000},
	 "updatedAt": "2024-01-20T00:00:00Z"},
	{"_id": "b6", "identificacao": {"sku": "1006", "titulo": "Volkswagen 17.230 OD Torino 6x2"},
	 "categoria": "Urbano", "subcategoria": "Convencional", "status": "Vendido",
	 "localizacao": {"cidade": "São Paulo", "estado": "SP"},
	 "chassiInfo": {"fabricante": "Volkswagen", "modelo": "17.230 OD", "tracao": "4x2", "eixos": 2,
	  "potencia": "230 cv", "localizacaoMotor": "Dianteiro"},
	 "carroceriaInfo": {"fabricante": "Marcopolo", "modelo": "Torino"},
	 "dadosVeiculo": {"anoModelo": 2018, "valor": 320000},
	 "updatedAt": "2023-11-05T00:00:00Z"}
]`

// getTestCategories returns the cases grouped by feature. Fuzzy cases only
// run against the index.
func getTestCategories(indexed bool) []TestCategory {
	categories := []TestCategory{
		{
			Name: "TEXT QUERIES",
			Cases: []TestCase{
				{Expr: "volvo", Expected: []string{"b2", "b4"}},
				{Expr: "rodoviario", Expected: []string{"b3", "b4"}},
				{Expr: "São Paulo", Expected: []string{"b3", "b6"}},
				{Expr: "volvo recife", Expected: []string{"b4"}},
				{Expr: "urbano convencional", Expected: []string{"b1", "b6"}},
				{Expr: "mercedes scania", Expected: []string{}},
				{Expr: "merc", Expected: []string{"b1", "b5"}},
			},
		},
		{
			Name: "SIGNALS",
			Cases: []TestCase{
				// b6 mentions 6x2 but its chassis is 4x2
				{Expr: "6x2", Expected: []string{"b2", "b3", "b4"}},
				{Expr: "volvo 6x2", Expected: []string{"b2", "b4"}},
				// signal words still need a text match
				{Expr: "volvo traseiro", Expected: []string{}},
			},
		},
		{
			Name: "FIELD FILTERS",
			Cases: []TestCase{
				{Expr: "cidade:Curitiba", Expected: []string{"b1", "b2"}},
				{Expr: "cidade:curitiba,recife", Expected: []string{"b1", "b2", "b4"}},
				{Expr: "categoria:Urbano subcategoria:Convencional", Expected: []string{"b1", "b6"}},
				{Expr: "chassi:Volvo chassiModelo:B450R", Expected: []string{"b4"}},
				{Expr: "carroceria:Marcopolo", Expected: []string{"b3", "b5", "b6"}},
				{Expr: "tracao:6x2", Expected: []string{"b2", "b3", "b4"}},
				{Expr: "eixos:3", Expected: []string{"b2", "b3", "b4"}},
				{Expr: "motorPosicao:traseiro", Expected: []string{"b3", "b4"}},
				{Expr: "status:Vendido", Expected: []string{"b6"}},
				{Expr: "retarder:Voith", Expected: []string{"b3"}},
				{Expr: "suspensao:pneumatica", Expected: []string{"b3"}},
				{Expr: "cidade:Curitiba,Recife -cidade:Curitiba", Expected: []string{"b4"}},
			},
		},
		{
			Name: "RANGES",
			Cases: []TestCase{
				{Expr: "preco:200000..700000", Expected: []string{"b3", "b5", "b6"}},
				// unpriced listings read as 0
				{Expr: "preco:..200000", Expected: []string{"b1", "b2"}},
				{Expr: "anoModelo:2019..2021", Expected: []string{"b3", "b4", "b5"}},
				{Expr: "potencia:300..", Expected: []string{"b2", "b3", "b4"}},
				{Expr: "anoModelo:2012", Expected: []string{"b2"}},
			},
		},
		{
			Name: "EQUIPMENT",
			Cases: []TestCase{
				{Expr: "opcional:wifi", Expected: []string{"b3", "b4"}},
				{Expr: "opcional:wifi,banheiro", Expected: []string{"b3"}},
				{Expr: "-opcional:arCondicionado", Expected: []string{"b1", "b5", "b6"}},
				{Expr: "freioMotor:sim", Expected: []string{"b1", "b3"}},
				{Expr: "freioMotor:nao", Expected: []string{"b2", "b4", "b5", "b6"}},
				{Expr: "-freioMotor:nao", Expected: []string{"b1", "b3"}},
			},
		},
		{
			Name: "MIXED",
			Cases: []TestCase{
				{Expr: "volvo cidade:Curitiba", Expected: []string{"b2"}},
				{Expr: "6x2 opcional:wifi", Expected: []string{"b3", "b4"}},
				{Expr: "merc carroceria:Marcopolo", Expected: []string{"b5"}},
				{Expr: "volvo preco:500000..", Expected: []string{"b4"}},
			},
		},
		{
			Name: "SORTING",
			Cases: []TestCase{
				// unpriced first when ascending, last when descending
				{Expr: "ordem:price_asc", Expected: []string{"b2", "b1", "b5", "b6", "b3", "b4"}, Ordered: true},
				{Expr: "ordem:price_desc", Expected: []string{"b4", "b3", "b6", "b5", "b1", "b2"}, Ordered: true},
				{Expr: "ordem:updated_desc", Expected: []string{"b2", "b4", "b5", "b1", "b3", "b6"}, Ordered: true},
				{Expr: "ordem:model_year_desc", Expected: []string{"b4", "b3", "b5", "b6", "b1", "b2"}, Ordered: true},
				{Expr: "carroceria:Marcopolo ordem:model_year_asc", Expected: []string{"b6", "b5", "b3"}, Ordered: true},
			},
		},
		{
			Name: "SYNTAX ERRORS",
			Cases: []TestCase{
				{Expr: "cidade:", Error: true},
				{Expr: `"paradiso 1800`, Error: true},
				{Expr: "cor:azul", Error: true},
				{Expr: "eixos:tres", Error: true},
				{Expr: "preco:900000..100000", Error: true},
				{Expr: "-preco:..100000", Error: true},
				{Expr: "ordem:cheapest", Error: true},
			},
		},
	}

	if indexed {
		categories = append(categories, TestCategory{
			Name: "FUZZY QUERIES",
			Cases: []TestCase{
				{Expr: "scnia", Expected: []string{"b3"}},
				{Expr: "curitba", Expected: []string{"b1", "b2"}},
				{Expr: "volvoo recife", Expected: []string{"b4"}},
				{Expr: "paradizo", Expected: []string{"b3"}},
			},
		})
	}
	return categories
}
