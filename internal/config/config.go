// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Pool       PoolConfig       `mapstructure:"pool"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Market     MarketConfig     `mapstructure:"market"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	TUIMode     bool   `mapstructure:"-"` // Set at runtime, not from config file
}

// PoolConfig holds the pool and fee-model parameters.
type PoolConfig struct {
	InitialPrice         float64         `mapstructure:"initial_price"`
	Liquidity            float64         `mapstructure:"liquidity"`
	BaseFee              float64         `mapstructure:"base_fee"`
	M                    float64         `mapstructure:"m"`
	N                    float64         `mapstructure:"n"`
	Alpha                float64         `mapstructure:"alpha"`
	IntentThreshold      float64         `mapstructure:"intent_threshold"`
	SubmittedFeeMultiple float64         `mapstructure:"submitted_fee_multiple"`
	PressureWeight       float64         `mapstructure:"pressure_weight"`
	Surcharge            SurchargeConfig `mapstructure:"surcharge"`
}

// SurchargeConfig selects the first-transaction surcharge policy.
type SurchargeConfig struct {
	Policy             string  `mapstructure:"policy"` // conditional, flat or none
	Factor             float64 `mapstructure:"factor"`
	LiquidityThreshold float64 `mapstructure:"liquidity_threshold"`
	SlippageThreshold  float64 `mapstructure:"slippage_threshold"`
}

// SimulationConfig holds Monte-Carlo run settings.
type SimulationConfig struct {
	Paths          int           `mapstructure:"paths"`
	Days           int           `mapstructure:"days"`
	DailySigma     float64       `mapstructure:"daily_sigma"`
	BlockTime      time.Duration `mapstructure:"block_time"`
	SwapsPerBlock  int           `mapstructure:"swaps_per_block"`
	GasCost        float64       `mapstructure:"gas_cost"`
	InformedRatio  float64       `mapstructure:"informed_ratio"`
	SubmitFeeRatio float64       `mapstructure:"submit_fee_ratio"`
	SwapperPool    int           `mapstructure:"swapper_pool"`
	Seed           uint64        `mapstructure:"seed"`
	Workers        int           `mapstructure:"workers"`
}

// BlocksPerDay returns the number of blocks in a simulated day.
func (c *SimulationConfig) BlocksPerDay() int {
	if c.BlockTime <= 0 {
		return 0
	}
	return int((24 * time.Hour) / c.BlockTime)
}

// MarketConfig holds the external signal sources.
type MarketConfig struct {
	Pressure PressureConfig `mapstructure:"pressure"`
	Gas      GasConfig      `mapstructure:"gas"`
}

// PressureConfig selects the order-book pressure source.
type PressureConfig struct {
	Source            string        `mapstructure:"source"` // neutral or cex
	URL               string        `mapstructure:"url"`
	Symbol            string        `mapstructure:"symbol"`
	Depth             int           `mapstructure:"depth"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Levels            int           `mapstructure:"levels"` // 1 for L1 pressure, more for L2
}

// GasConfig selects the gas cost source.
type GasConfig struct {
	Source   string        `mapstructure:"source"` // fixed or ethereum
	RPCURL   string        `mapstructure:"rpc_url"`
	GasLimit uint64        `mapstructure:"gas_limit"`
	MaxGwei  float64       `mapstructure:"max_gwei"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// MaxGasPriceWei returns MaxGwei in wei, or nil when unset.
func (c *GasConfig) MaxGasPriceWei() *big.Int {
	if c.MaxGwei <= 0 {
		return nil
	}
	return decimal.NewFromFloat(c.MaxGwei).Shift(9).BigInt()
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	ServiceName      string  `mapstructure:"service_name"`
	OTLPEndpoint     string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders      string  `mapstructure:"otlp_headers"`
	TraceProvider    string  `mapstructure:"trace_provider"` // zipkin, otlp-grpc, otlp-http, console or empty
	TraceProbability float64 `mapstructure:"trace_probability"`
	PrometheusPort   int     `mapstructure:"prometheus_port"`
	HealthPort       int     `mapstructure:"health_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("AMM")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "AMM_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "AMM_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "AMM_LOG_LEVEL", "LOG_LEVEL")

	// Pool
	v.BindEnv("pool.initial_price", "AMM_INITIAL_PRICE")
	v.BindEnv("pool.liquidity", "AMM_LIQUIDITY")
	v.BindEnv("pool.base_fee", "AMM_BASE_FEE")
	v.BindEnv("pool.alpha", "AMM_ALPHA")
	v.BindEnv("pool.surcharge.policy", "AMM_SURCHARGE_POLICY")

	// Simulation
	v.BindEnv("simulation.paths", "AMM_PATHS")
	v.BindEnv("simulation.days", "AMM_DAYS")
	v.BindEnv("simulation.seed", "AMM_SEED")
	v.BindEnv("simulation.workers", "AMM_WORKERS")

	// Market
	v.BindEnv("market.pressure.source", "AMM_PRESSURE_SOURCE")
	v.BindEnv("market.pressure.url", "AMM_PRESSURE_URL")
	v.BindEnv("market.gas.source", "AMM_GAS_SOURCE")
	v.BindEnv("market.gas.rpc_url", "AMM_ETH_HTTP_URL", "ETH_HTTP_URL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "AMM_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "AMM_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "AMM_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.trace_provider", "AMM_TRACE_PROVIDER")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "dynfee-amm")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Pool defaults
	v.SetDefault("pool.initial_price", 1200.0)
	v.SetDefault("pool.liquidity", 166666.67)
	v.SetDefault("pool.base_fee", 0.003)
	v.SetDefault("pool.m", 1.0)
	v.SetDefault("pool.n", 2.0)
	v.SetDefault("pool.alpha", 0.5)
	v.SetDefault("pool.intent_threshold", 0.5)
	v.SetDefault("pool.submitted_fee_multiple", 3.0)
	v.SetDefault("pool.pressure_weight", 0.0)
	v.SetDefault("pool.surcharge.policy", "conditional")
	v.SetDefault("pool.surcharge.factor", 2.0)
	v.SetDefault("pool.surcharge.liquidity_threshold", 100.0)
	v.SetDefault("pool.surcharge.slippage_threshold", 0.01)

	// Simulation defaults
	v.SetDefault("simulation.paths", 20)
	v.SetDefault("simulation.days", 1)
	v.SetDefault("simulation.daily_sigma", 0.05)
	v.SetDefault("simulation.block_time", "13.2s")
	v.SetDefault("simulation.swaps_per_block", 1)
	v.SetDefault("simulation.gas_cost", 0.0)
	v.SetDefault("simulation.informed_ratio", 1.0)
	v.SetDefault("simulation.submit_fee_ratio", 0.5)
	v.SetDefault("simulation.swapper_pool", 16)
	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.workers", 4)

	// Market defaults
	v.SetDefault("market.pressure.source", "neutral")
	v.SetDefault("market.pressure.symbol", "ETHUSDC")
	v.SetDefault("market.pressure.depth", 20)
	v.SetDefault("market.pressure.timeout", "5s")
	v.SetDefault("market.pressure.requests_per_minute", 1200)
	v.SetDefault("market.pressure.levels", 1)
	v.SetDefault("market.gas.source", "fixed")
	v.SetDefault("market.gas.gas_limit", 200000)
	v.SetDefault("market.gas.max_gwei", 500.0)
	v.SetDefault("market.gas.cache_ttl", "12s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "dynfee-amm")
	v.SetDefault("telemetry.trace_probability", 1.0)
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8080)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	p := c.Pool
	if p.InitialPrice <= 0 {
		return fmt.Errorf("pool.initial_price must be positive: %v", p.InitialPrice)
	}
	if p.Liquidity <= 0 {
		return fmt.Errorf("pool.liquidity must be positive: %v", p.Liquidity)
	}
	if p.BaseFee <= 0 || p.BaseFee >= 1 {
		return fmt.Errorf("pool.base_fee must be in (0,1): %v", p.BaseFee)
	}
	if p.Alpha < 0 || p.Alpha > 1 {
		return fmt.Errorf("pool.alpha must be in [0,1]: %v", p.Alpha)
	}
	if p.IntentThreshold <= 0 || p.IntentThreshold >= 1 {
		return fmt.Errorf("pool.intent_threshold must be in (0,1): %v", p.IntentThreshold)
	}
	if p.M < 0 || p.N < 0 {
		return fmt.Errorf("pool.m and pool.n must be non-negative")
	}
	switch p.Surcharge.Policy {
	case "conditional", "flat", "none":
	default:
		return fmt.Errorf("invalid pool.surcharge.policy: %q", p.Surcharge.Policy)
	}

	s := c.Simulation
	if s.Paths <= 0 {
		return fmt.Errorf("simulation.paths must be positive: %d", s.Paths)
	}
	if s.Days <= 0 {
		return fmt.Errorf("simulation.days must be positive: %d", s.Days)
	}
	if s.BlocksPerDay() == 0 {
		return fmt.Errorf("simulation.block_time must be positive and under a day: %s", s.BlockTime)
	}
	if s.SwapsPerBlock <= 0 {
		return fmt.Errorf("simulation.swaps_per_block must be positive: %d", s.SwapsPerBlock)
	}
	if s.GasCost < 0 {
		return fmt.Errorf("simulation.gas_cost must be non-negative: %v", s.GasCost)
	}
	if s.InformedRatio < 0 || s.InformedRatio > 1 {
		return fmt.Errorf("simulation.informed_ratio must be in [0,1]: %v", s.InformedRatio)
	}
	if s.SubmitFeeRatio < 0 || s.SubmitFeeRatio > 1 {
		return fmt.Errorf("simulation.submit_fee_ratio must be in [0,1]: %v", s.SubmitFeeRatio)
	}

	switch c.Market.Pressure.Source {
	case "neutral":
	case "cex":
		if c.Market.Pressure.URL == "" {
			return fmt.Errorf("market.pressure.url is required for the cex source")
		}
	default:
		return fmt.Errorf("invalid market.pressure.source: %q", c.Market.Pressure.Source)
	}

	switch c.Market.Gas.Source {
	case "fixed":
	case "ethereum":
		if c.Market.Gas.RPCURL == "" {
			return fmt.Errorf("market.gas.rpc_url is required for the ethereum source")
		}
	default:
		return fmt.Errorf("invalid market.gas.source: %q", c.Market.Gas.Source)
	}

	return nil
}
