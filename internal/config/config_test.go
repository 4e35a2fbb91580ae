package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  name: test\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Name != "test" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "test")
	}
	if cfg.Pool.InitialPrice != 1200 {
		t.Errorf("Pool.InitialPrice = %v, want 1200", cfg.Pool.InitialPrice)
	}
	if cfg.Pool.BaseFee != 0.003 {
		t.Errorf("Pool.BaseFee = %v, want 0.003", cfg.Pool.BaseFee)
	}
	if cfg.Pool.Surcharge.Policy != "conditional" {
		t.Errorf("Pool.Surcharge.Policy = %q, want conditional", cfg.Pool.Surcharge.Policy)
	}
	if cfg.Simulation.BlockTime != 13200*time.Millisecond {
		t.Errorf("Simulation.BlockTime = %s, want 13.2s", cfg.Simulation.BlockTime)
	}
	if got := cfg.Simulation.BlocksPerDay(); got != 6545 {
		t.Errorf("BlocksPerDay() = %d, want 6545", got)
	}
	if cfg.Market.Gas.CacheTTL != 12*time.Second {
		t.Errorf("Market.Gas.CacheTTL = %s, want 12s", cfg.Market.Gas.CacheTTL)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
pool:
  initial_price: 2000
  liquidity: 50000
  alpha: 0.25
simulation:
  paths: 3
  block_time: 12s
`)
	t.Setenv("AMM_PATHS", "7")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pool.InitialPrice != 2000 || cfg.Pool.Liquidity != 50000 || cfg.Pool.Alpha != 0.25 {
		t.Errorf("pool section not read from file: %+v", cfg.Pool)
	}
	if cfg.Simulation.Paths != 7 {
		t.Errorf("Simulation.Paths = %d, want env override 7", cfg.Simulation.Paths)
	}
	if got := cfg.Simulation.BlocksPerDay(); got != 7200 {
		t.Errorf("BlocksPerDay() = %d, want 7200", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "zero_price", body: "pool:\n  initial_price: 0\n"},
		{name: "base_fee_one", body: "pool:\n  base_fee: 1\n"},
		{name: "alpha_out_of_range", body: "pool:\n  alpha: 1.5\n"},
		{name: "unknown_surcharge", body: "pool:\n  surcharge:\n    policy: tiered\n"},
		{name: "no_paths", body: "simulation:\n  paths: 0\n"},
		{name: "cex_without_url", body: "market:\n  pressure:\n    source: cex\n"},
		{name: "ethereum_without_rpc", body: "market:\n  gas:\n    source: ethereum\n"},
		{name: "unknown_gas_source", body: "market:\n  gas:\n    source: oracle\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestGasConfig_MaxGasPriceWei(t *testing.T) {
	c := GasConfig{MaxGwei: 500}
	if got := c.MaxGasPriceWei().String(); got != "500000000000" {
		t.Errorf("MaxGasPriceWei() = %s, want 500000000000", got)
	}

	c.MaxGwei = 0
	if c.MaxGasPriceWei() != nil {
		t.Error("MaxGasPriceWei() expected nil when unset")
	}
}
