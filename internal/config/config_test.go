package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default("/tmp/fleet")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
	if !cfg.Index.Enabled || cfg.Search.PageSize != 20 || cfg.Store.Dir != "/tmp/fleet" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fleetsearch.yaml")
	data := `
store:
  dir: data
index:
  enabled: false
  threshold: 0.2
  weights:
    title: 5
search:
  page_size: 50
logging:
  format: json
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	cfg, err := Load(path, "/unused")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Store.Dir != filepath.Join(dir, "data") {
		t.Errorf("Store.Dir = %q", cfg.Store.Dir)
	}
	if cfg.Index.Enabled || cfg.Index.Threshold != 0.2 || cfg.Index.Weights["title"] != 5 {
		t.Errorf("Index = %+v", cfg.Index)
	}
	if cfg.Search.PageSize != 50 || cfg.Search.DefaultSort != "relevance" {
		t.Errorf("Search = %+v", cfg.Search)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FLEETSEARCH_INDEX", "false")
	t.Setenv("FLEETSEARCH_LOG_LEVEL", "debug")

	cfg, err := Load("", t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Index.Enabled || cfg.Logging.Level != "debug" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml"), dir); err == nil || !strings.Contains(err.Error(), "read config file") {
		t.Errorf("missing file error = %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("index: ["), 0644)
	if _, err := Load(bad, dir); err == nil || !strings.Contains(err.Error(), "parse config file") {
		t.Errorf("bad yaml error = %v", err)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("index:\n  threshold: 3\n"), 0644)
	if _, err := Load(invalid, dir); err == nil || !strings.Contains(err.Error(), "threshold") {
		t.Errorf("invalid threshold error = %v", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	cfg := Default(dir)
	cfg.Index.Weights = map[string]float64{"sku": 4}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	back, err := Load(path, dir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if back.Index.Weights["sku"] != 4 || back.Store.Dir != dir {
		t.Errorf("round trip = %+v", back)
	}
}
