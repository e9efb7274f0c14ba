package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
environment: test
server:
  port: 9090
  read_timeout: 5s
  write_timeout: 5s
  shutdown_timeout: 5s
fred:
  base_url: https://api.stlouisfed.org/fred
  timeout: 30s
  series:
    productivity: OPHNFB
    gdp: GDP
    profits: CPROFIT
    compensation: COE
cache:
  dir: data/raw
  ttl: 24h
analysis:
  hac_lags: 4
  bins: 20
  sample_start: 1947-01-01
  adf_max_lags: -1
output:
  processed_dir: data/processed
  results_dir: results
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadSample(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.Fred.Timeout != 30*time.Second {
		t.Fatalf("timeout = %v", cfg.Fred.Timeout)
	}
	if cfg.Analysis.HACLags != 4 || cfg.Analysis.Bins != 20 {
		t.Fatalf("analysis = %+v", cfg.Analysis)
	}
	want := time.Date(1947, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !cfg.SampleStartDate().Equal(want) {
		t.Fatalf("sample start = %v", cfg.SampleStartDate())
	}
}

func TestSeriesIDsOrder(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ids := cfg.SeriesIDs()
	want := []string{"OPHNFB", "GDP", "CPROFIT", "COE"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v", ids)
		}
	}
}

func TestValidateRejectsMissingSeries(t *testing.T) {
	bad := `
environment: test
analysis:
  hac_lags: 4
  bins: 20
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidateRejectsBadSampleStart(t *testing.T) {
	bad := `
environment: test
fred:
  series:
    productivity: OPHNFB
    gdp: GDP
    profits: CPROFIT
    compensation: COE
analysis:
  hac_lags: 4
  bins: 20
  sample_start: January 1947
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected sample_start error")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("FRED_API_KEY", "secret-key")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := LoadWithEnv(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Fred.APIKey != "secret-key" {
		t.Fatalf("api key not overridden")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:9092" {
		t.Fatalf("brokers = %v", cfg.Kafka.Brokers)
	}
}

func TestSampleStartDefault(t *testing.T) {
	cfg := &Config{}
	want := time.Date(1947, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !cfg.SampleStartDate().Equal(want) {
		t.Fatalf("default sample start = %v", cfg.SampleStartDate())
	}
}
