package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"harshagw/fleetsearch/internal/catalog"
	"harshagw/fleetsearch/internal/config"
	"harshagw/fleetsearch/internal/engine"
	"harshagw/fleetsearch/internal/filter"
	"harshagw/fleetsearch/internal/logging"
	"harshagw/fleetsearch/internal/query"
	"harshagw/fleetsearch/internal/search"
	"harshagw/fleetsearch/internal/store"
	"harshagw/fleetsearch/internal/vehicle"
)

// env is what every command needs: configuration, a logger and the output.
type env struct {
	cfg    *config.Config
	logger zerolog.Logger
	out    io.Writer
}

// setup resolves the configuration. Flags override the environment, which
// overrides the config file.
func setup(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"), c.String("dir"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("dir") {
		cfg.Store.Dir = c.String("dir")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Logging.Format = c.String("log-format")
	}

	return &env{
		cfg:    cfg,
		logger: logging.New(cfg.Logging.Level, cfg.Logging.Format, c.App.ErrWriter),
		out:    c.App.Writer,
	}, nil
}

// loadRecords reads the records selected by --file or --epoch.
func loadRecords(c *cli.Context, env *env) ([]vehicle.RawVehicle, error) {
	if path := c.String("file"); path != "" {
		return store.ReadFile(path)
	}

	inv, err := store.Open(env.cfg.Store.Dir)
	if err != nil {
		return nil, err
	}
	defer inv.Close()

	var (
		raws []vehicle.RawVehicle
		snap store.Snapshot
	)
	if c.IsSet("epoch") {
		raws, snap, err = inv.LoadEpoch(c.Uint64("epoch"))
	} else {
		raws, snap, err = inv.Load()
	}
	if errors.Is(err, store.ErrNoSnapshot) {
		return nil, fmt.Errorf("%w in %s; run 'fleetsearch import <file>' first", err, env.cfg.Store.Dir)
	}
	if err != nil {
		return nil, err
	}

	env.logger.Debug().Uint64("epoch", snap.Epoch).Int("records", len(raws)).Msg("Snapshot read")
	return raws, nil
}

func openEngine(c *cli.Context, env *env) (*engine.Engine, error) {
	raws, err := loadRecords(c, env)
	if err != nil {
		return nil, err
	}
	e := engine.New(env.cfg, env.logger)
	e.Load(raws)
	return e, nil
}

// compileArgs parses the command arguments as one filter expression.
func compileArgs(c *cli.Context) (query.Result, error) {
	return query.Compile(strings.Join(c.Args().Slice(), " "), filter.Default())
}

// sortFlag returns the --sort flag when given, otherwise fallback.
func sortFlag(c *cli.Context, fallback search.SortMode) (search.SortMode, error) {
	if !c.IsSet("sort") {
		return fallback, nil
	}
	return search.ParseSortMode(c.String("sort"))
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected one inventory file, got %d arguments", c.NArg())
	}
	env, err := setup(c)
	if err != nil {
		return err
	}

	raws, err := store.ReadFile(c.Args().First())
	if err != nil {
		return err
	}

	inv, err := store.Open(env.cfg.Store.Dir)
	if err != nil {
		return err
	}
	defer inv.Close()

	snap, err := inv.Save(raws)
	if err != nil {
		return err
	}
	env.logger.Info().
		Uint64("epoch", snap.Epoch).
		Int("records", snap.Count).
		Int("bytes", snap.Bytes).
		Msg("Inventory imported")

	if keep := c.Int("keep"); keep > 0 {
		removed, err := inv.Prune(keep)
		if err != nil {
			return fmt.Errorf("failed to prune snapshots: %w", err)
		}
		if removed > 0 {
			env.logger.Info().Int("removed", removed).Msg("Old snapshots pruned")
		}
	}

	fmt.Fprintf(env.out, "Imported %s vehicles as snapshot %d (%s compressed)\n",
		humanize.Comma(int64(snap.Count)), snap.Epoch, humanize.Bytes(uint64(snap.Bytes)))
	return nil
}

func snapshotsCommand(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	inv, err := store.Open(env.cfg.Store.Dir)
	if err != nil {
		return err
	}
	defer inv.Close()

	snaps, err := inv.Snapshots()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintln(env.out, "No snapshots")
		return nil
	}
	renderSnapshots(env.out, snaps)
	return nil
}

func generateCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected one output file, got %d arguments", c.NArg())
	}
	if c.Int("count") < 1 {
		return fmt.Errorf("count must be greater than 0")
	}
	env, err := setup(c)
	if err != nil {
		return err
	}

	raws := catalog.Generate(c.Int("count"), c.Uint64("seed"))
	if err := store.WriteFile(c.Args().First(), raws); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "Wrote %s vehicles to %s\n", humanize.Comma(int64(len(raws))), c.Args().First())
	return nil
}

func searchCommand(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	res, err := compileArgs(c)
	if err != nil {
		return err
	}
	mode, err := sortFlag(c, res.Sort)
	if err != nil {
		return err
	}
	page := res.Page
	if c.IsSet("page") || page == 0 {
		page = c.Int("page")
	}

	e, err := openEngine(c, env)
	if err != nil {
		return err
	}
	resp := e.Search(engine.Request{
		Query:   res.Query,
		Filters: res.Filters,
		Sort:    mode,
		Page:    page,
		Size:    c.Int("size"),
	})

	if c.Bool("json") {
		return writeJSON(env.out, resp)
	}
	renderResults(env.out, resp)
	if c.Bool("facets") {
		fmt.Fprintln(env.out)
		renderPanel(env.out, resp.Panel)
	}
	return nil
}

func facetsCommand(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	res, err := compileArgs(c)
	if err != nil {
		return err
	}
	e, err := openEngine(c, env)
	if err != nil {
		return err
	}

	panel := e.Facets(res.Query, res.Filters)
	if c.Bool("json") {
		return writeJSON(env.out, panel)
	}
	renderPanel(env.out, panel)
	return nil
}

func exportCommand(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	res, err := compileArgs(c)
	if err != nil {
		return err
	}
	mode, err := sortFlag(c, res.Sort)
	if err != nil {
		return err
	}
	e, err := openEngine(c, env)
	if err != nil {
		return err
	}

	vehicles := e.Export(engine.Request{Query: res.Query, Filters: res.Filters, Sort: mode}, c.StringSlice("id")...)

	out := env.out
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := writeJSON(out, vehicles); err != nil {
		return err
	}
	env.logger.Info().Int("vehicles", len(vehicles)).Str("out", c.String("out")).Msg("Export written")
	return nil
}

func shellCommand(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	e, err := openEngine(c, env)
	if err != nil {
		return err
	}
	return runShell(newShell(e, env.out, func() ([]vehicle.RawVehicle, error) {
		return loadRecords(c, env)
	}))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
