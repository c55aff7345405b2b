package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"harshagw/fleetsearch/internal/catalog"
	"harshagw/fleetsearch/internal/store"
	"harshagw/fleetsearch/internal/vehicle"
)

const (
	cacheFile     = "testdata/fleet.json"
	defaultTarget = 10000
	fleetSeed     = 42
)

// GenerateFleet writes a synthetic inventory of count vehicles to the cache
// file, replacing any previous one.
func GenerateFleet(benchDir string, count int) error {
	cachePath := filepath.Join(benchDir, cacheFile)
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return fmt.Errorf("failed to create testdata dir: %w", err)
	}

	raws := catalog.Generate(count, fleetSeed)
	if err := store.WriteFile(cachePath, raws); err != nil {
		return err
	}

	info, err := os.Stat(cachePath)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s vehicles to %s (%s)\n",
		humanize.Comma(int64(len(raws))), cachePath, humanize.Bytes(uint64(info.Size())))
	return nil
}

// LoadFleet reads the cached inventory, generating it on first use.
func LoadFleet(benchDir string, count int) ([]vehicle.RawVehicle, error) {
	cachePath := filepath.Join(benchDir, cacheFile)

	raws, err := store.ReadFile(cachePath)
	if errors.Is(err, os.ErrNotExist) {
		fmt.Printf("No cached fleet at %s, generating %d vehicles\n", cachePath, count)
		if err := GenerateFleet(benchDir, count); err != nil {
			return nil, err
		}
		raws, err = store.ReadFile(cachePath)
	}
	if err != nil {
		return nil, err
	}

	if len(raws) < count {
		fmt.Printf("Warning: Only %d vehicles cached (wanted %d)\n", len(raws), count)
		fmt.Println("Run 'go run ./cmd/bench generate' to regenerate")
		return raws, nil
	}
	return raws[:count], nil
}
