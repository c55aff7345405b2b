package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"harshagw/fleetsearch/internal/config"
	"harshagw/fleetsearch/internal/engine"
	"harshagw/fleetsearch/internal/filter"
	"harshagw/fleetsearch/internal/search"
	"harshagw/fleetsearch/internal/store"
	"harshagw/fleetsearch/internal/vehicle"
)

const inventoryJSON = `[
	{"_id": "1", "identificacao": {"sku": "U-1", "titulo": "Mercedes-Benz OF 1721 Apache"},
	 "categoria": "Urbano", "subcategoria": "Convencional",
	 "localizacao": {"cidade": "Curitiba", "estado": "PR"},
	 "chassiInfo": {"fabricante": "Mercedes-Benz", "modelo": "OF 1721"},
	 "carroceriaInfo": {"fabricante": "Caio", "modelo": "Apache Vip"},
	 "dadosVeiculo": {"anoModelo": 2016, "valor": 180000},
	 "updatedAt": "2024-01-10T00:00:00Z"},
	{"_id": "2", "identificacao": {"sku": "U-2", "titulo": "Volvo B340M Millennium"},
	 "categoria": "Urbano", "subcategoria": "Articulado",
	 "localizacao": {"cidade": "Curitiba", "estado": "PR"},
	 "chassiInfo": {"fabricante": "Volvo", "modelo": "B340M"},
	 "carroceriaInfo": {"fabricante": "Caio", "modelo": "Millennium"},
	 "dadosVeiculo": {"anoModelo": 2012, "valor": "abc"},
	 "updatedAt": "2024-03-01T00:00:00Z"},
	{"_id": "3", "identificacao": {"sku": "R-3", "titulo": "Scania K 360 Paradiso"},
	 "categoria": "Rodoviário", "subcategoria": "Double Deck",
	 "localizacao": {"cidade": "São Paulo", "estado": "SP"},
	 "chassiInfo": {"fabricante": "Scania", "modelo": "K 360"},
	 "carroceriaInfo": {"fabricante": "Marcopolo", "modelo": "Paradiso 1800 DD"},
	 "dadosVeiculo": {"anoModelo": 2020, "valor": 650000},
	 "updatedAt": "2023-12-01T00:00:00Z"}
]`

// run executes the app with args and returns what it wrote.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"fleetsearch"}, args...))
	return out.String(), err
}

func writeInventory(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte(inventoryJSON), 0o644))
	return path
}

type searchOutput struct {
	Total int `json:"total"`
	Pages int `json:"pages"`
	Items []struct {
		ID string `json:"id"`
	} `json:"items"`
}

func resultIDs(items []struct {
	ID string `json:"id"`
}) string {
	var s strings.Builder
	for _, it := range items {
		s.WriteString(it.ID)
	}
	return s.String()
}

func findFlag(flags []cli.Flag, name string) cli.Flag {
	for _, f := range flags {
		for _, n := range f.Names() {
			if n == name {
				return f
			}
		}
	}
	return nil
}

func TestAppFlags(t *testing.T) {
	app := newApp()

	t.Run("dir has default value", func(t *testing.T) {
		f, ok := findFlag(app.Flags, "dir").(*cli.StringFlag)
		require.True(t, ok)
		assert.Equal(t, defaultDir, f.Value)
	})

	t.Run("config reads the environment", func(t *testing.T) {
		f, ok := findFlag(app.Flags, "config").(*cli.StringFlag)
		require.True(t, ok)
		assert.Contains(t, f.EnvVars, "FLEETSEARCH_CONFIG")
	})

	t.Run("generate count defaults to 1000", func(t *testing.T) {
		cmd := app.Command("generate")
		require.NotNil(t, cmd)
		f, ok := findFlag(cmd.Flags, "count").(*cli.IntFlag)
		require.True(t, ok)
		assert.Equal(t, 1000, f.Value)
	})

	t.Run("source flags are not shared", func(t *testing.T) {
		a := findFlag(app.Command("search").Flags, "file")
		b := findFlag(app.Command("facets").Flags, "file")
		require.NotNil(t, a)
		require.NotNil(t, b)
		assert.NotSame(t, a, b)
	})
}

func TestImportAndSearch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	file := writeInventory(t)

	out, err := run(t, "--dir", dir, "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 3 vehicles as snapshot 1")

	t.Run("text query", func(t *testing.T) {
		out, err := run(t, "--dir", dir, "search", "--json", "volvo")
		require.NoError(t, err)
		var resp searchOutput
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, "2", resultIDs(resp.Items))
	})

	t.Run("field clause and sort flag", func(t *testing.T) {
		out, err := run(t, "--dir", dir, "search", "--json", "--sort", "price_desc", "cidade:Curitiba")
		require.NoError(t, err)
		var resp searchOutput
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "12", resultIDs(resp.Items))
	})

	t.Run("sort clause", func(t *testing.T) {
		out, err := run(t, "--dir", dir, "search", "--json", "ordem:price_asc")
		require.NoError(t, err)
		var resp searchOutput
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "213", resultIDs(resp.Items))
	})

	t.Run("page size", func(t *testing.T) {
		out, err := run(t, "--dir", dir, "search", "--json", "--size", "2", "--page", "2")
		require.NoError(t, err)
		var resp searchOutput
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, 3, resp.Total)
		assert.Equal(t, 2, resp.Pages)
		assert.Len(t, resp.Items, 1)
	})

	t.Run("table output", func(t *testing.T) {
		out, err := run(t, "--dir", dir, "search", "--facets", "scania")
		require.NoError(t, err)
		assert.Contains(t, out, "Scania K 360 Paradiso")
		assert.Contains(t, out, "Rodoviário")
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := run(t, "--dir", dir, "search", "cidade:")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "position")
	})

	t.Run("bad sort flag", func(t *testing.T) {
		_, err := run(t, "--dir", dir, "search", "--sort", "cheapest")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown sort mode")
	})

	t.Run("export", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.json")
		_, err := run(t, "--dir", dir, "export", "--out", path, "--sort", "price_desc")
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var vehicles []vehicle.Vehicle
		require.NoError(t, json.Unmarshal(data, &vehicles))
		require.Len(t, vehicles, 3)
		assert.Equal(t, "3", vehicles[0].ID)
		assert.Equal(t, "2", vehicles[2].ID)
	})

	t.Run("export selected ids", func(t *testing.T) {
		out, err := run(t, "--dir", dir, "export", "--id", "3", "--id", "1", "--sort", "price_desc")
		require.NoError(t, err)
		var vehicles []vehicle.Vehicle
		require.NoError(t, json.Unmarshal([]byte(out), &vehicles))
		require.Len(t, vehicles, 2)
		assert.Equal(t, "3", vehicles[0].ID)
		assert.Equal(t, "1", vehicles[1].ID)
	})

	t.Run("facets", func(t *testing.T) {
		out, err := run(t, "--dir", dir, "facets", "--json", "cidade:Curitiba")
		require.NoError(t, err)
		var panel struct {
			Categories []struct {
				Name  string `json:"name"`
				Count int    `json:"count"`
			} `json:"categories"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &panel))
		require.Len(t, panel.Categories, 1)
		assert.Equal(t, "Urbano", panel.Categories[0].Name)
		assert.Equal(t, 2, panel.Categories[0].Count)
	})

	t.Run("snapshots", func(t *testing.T) {
		_, err := run(t, "--dir", dir, "import", "--keep", "1", file)
		require.NoError(t, err)

		out, err := run(t, "--dir", dir, "snapshots")
		require.NoError(t, err)
		assert.Contains(t, out, "EPOCH")
		assert.NotContains(t, out, "\n1 ")

		out, err = run(t, "--dir", dir, "search", "--json", "--epoch", "2", "volvo")
		require.NoError(t, err)
		var resp searchOutput
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, 1, resp.Total)
	})
}

func TestSearch_NoSnapshot(t *testing.T) {
	_, err := run(t, "--dir", t.TempDir(), "search", "volvo")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNoSnapshot)
	assert.Contains(t, err.Error(), "fleetsearch import")
}

func TestGenerateAndSearchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleet.json")

	out, err := run(t, "generate", "-n", "50", "--seed", "7", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 50 vehicles")

	raws, err := store.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, raws, 50)

	out, err = run(t, "--dir", t.TempDir(), "search", "--json", "--file", path)
	require.NoError(t, err)
	var resp searchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 50, resp.Total)

	_, err = run(t, "generate", "-n", "0", path)
	require.Error(t, err)
}

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()
	var raws []vehicle.RawVehicle
	require.NoError(t, json.Unmarshal([]byte(inventoryJSON), &raws))

	e := engine.New(config.Default(t.TempDir()), zerolog.Nop())
	e.Load(raws)

	var out bytes.Buffer
	return newShell(e, &out, func() ([]vehicle.RawVehicle, error) { return raws, nil }), &out
}

func TestShell(t *testing.T) {
	t.Run("search sets query and filters", func(t *testing.T) {
		s, out := newTestShell(t)
		s.execute("search volvo cidade:Curitiba")
		assert.Equal(t, "volvo", s.query)
		assert.Equal(t, []string{"Curitiba"}, s.filters.Values(filter.DimCity))
		assert.Contains(t, out.String(), "Volvo B340M Millennium")
	})

	t.Run("filter keeps the query", func(t *testing.T) {
		s, out := newTestShell(t)
		s.execute("search volvo")
		s.execute("filter categoria:Urbano")
		assert.Equal(t, "volvo", s.query)
		assert.Equal(t, []string{"Urbano"}, s.filters.Values(filter.DimCategory))

		out.Reset()
		s.execute("filter scania")
		assert.Contains(t, out.String(), "field clauses only")
	})

	t.Run("toggle and clear", func(t *testing.T) {
		s, _ := newTestShell(t)
		s.execute("toggle cidade São Paulo")
		assert.Equal(t, []string{"São Paulo"}, s.filters.Values(filter.DimCity))
		s.execute("toggle cidade São Paulo")
		assert.Empty(t, s.filters.Values(filter.DimCity))

		s.execute("search preco:100000..200000 chassi:Volvo")
		assert.True(t, s.filters.RangeActive(filter.RangePrice))
		s.execute("clear preco")
		assert.False(t, s.filters.RangeActive(filter.RangePrice))
		assert.Equal(t, []string{"Volvo"}, s.filters.Values(filter.DimChassisManufacturer))
		s.execute("clear")
		assert.False(t, s.filters.Active())
	})

	t.Run("sort and paging", func(t *testing.T) {
		s, out := newTestShell(t)
		s.execute("sort price_desc")
		assert.Equal(t, search.SortPriceDesc, s.sort)

		out.Reset()
		s.execute("sort cheapest")
		assert.Contains(t, out.String(), "unknown sort mode")
		assert.Equal(t, search.SortPriceDesc, s.sort)

		s.execute("next")
		assert.Equal(t, 2, s.page)
		s.execute("prev")
		s.execute("prev")
		assert.Equal(t, 1, s.page)

		out.Reset()
		s.execute("page 0")
		assert.Contains(t, out.String(), "Invalid page")
	})

	t.Run("syntax error keeps state", func(t *testing.T) {
		s, out := newTestShell(t)
		s.execute("search volvo")
		s.execute("search cidade:")
		assert.Contains(t, out.String(), "position")
		assert.Equal(t, "volvo", s.query)
	})

	t.Run("inspection", func(t *testing.T) {
		s, out := newTestShell(t)
		s.execute("show 2")
		assert.Contains(t, out.String(), `"id": "2"`)

		out.Reset()
		s.execute("explain 9")
		assert.Contains(t, out.String(), "No vehicle 9")

		out.Reset()
		s.execute("terms chassisManufacturer")
		assert.Contains(t, out.String(), "volvo (1)")

		out.Reset()
		s.execute("postings chassisManufacturer scania")
		assert.Contains(t, out.String(), "(1 vehicles): 3")

		out.Reset()
		s.execute("terms nosuchfield")
		assert.Contains(t, out.String(), "unknown field")
	})

	t.Run("reload and stats", func(t *testing.T) {
		s, out := newTestShell(t)
		s.execute("reload")
		assert.Contains(t, out.String(), "Reloaded 3 vehicles")

		out.Reset()
		s.execute("stats")
		assert.Contains(t, out.String(), "Epoch:    2")
	})

	t.Run("unknown and quit", func(t *testing.T) {
		s, out := newTestShell(t)
		s.execute("bogus")
		assert.Contains(t, out.String(), "Unknown command: bogus")
		assert.False(t, s.done)
		s.execute("quit")
		assert.True(t, s.done)
	})
}
