package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"

	"harshagw/fleetsearch/internal/vehicle"
)

// ReadFile reads raw inventory records from a JSON dump. The file may hold a
// JSON array, an object wrapping the array under "data" or "veiculos", or
// one record per line. The file is memory-mapped while decoding.
func ReadFile(path string) ([]vehicle.RawVehicle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Size() == 0 {
		return nil, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to mmap %s: %w", path, err)
	}
	defer data.Unmap()

	raws, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raws, nil
}

// Decode parses raw inventory records in any of the layouts ReadFile accepts.
func Decode(data []byte) ([]vehicle.RawVehicle, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var raws []vehicle.RawVehicle
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("failed to decode inventory: %w", err)
		}
		return raws, nil
	case '{':
		if raws, ok := decodeWrapped(trimmed); ok {
			return raws, nil
		}
		return decodeStream(trimmed)
	}
	return nil, fmt.Errorf("failed to decode inventory: unexpected %q", trimmed[0])
}

func decodeWrapped(data []byte) ([]vehicle.RawVehicle, bool) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, false
	}
	for _, key := range []string{"data", "veiculos"} {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		var raws []vehicle.RawVehicle
		if err := json.Unmarshal(raw, &raws); err == nil {
			return raws, true
		}
	}
	return nil, false
}

// decodeStream decodes consecutive JSON objects.
func decodeStream(data []byte) ([]vehicle.RawVehicle, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var raws []vehicle.RawVehicle
	for {
		var raw vehicle.RawVehicle
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			return raws, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", len(raws)+1, err)
		}
		raws = append(raws, raw)
	}
}

// WriteFile writes raws as an indented JSON array.
func WriteFile(path string, raws []vehicle.RawVehicle) error {
	data, err := json.MarshalIndent(raws, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write inventory file: %w", err)
	}
	return nil
}
