package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"hedgerisk/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App        AppConfig               `mapstructure:"app"`
	Logging    logging.Config          `mapstructure:"logging"`
	Market     string                  `mapstructure:"market"`
	Markets    map[string]MarketConfig `mapstructure:"markets"`
	Simulation SimulationConfig        `mapstructure:"simulation"`
	Portfolio  PortfolioConfig         `mapstructure:"portfolio"`
	Swap       SwapConfig              `mapstructure:"swap"`
	Risk       RiskConfig              `mapstructure:"risk"`
	Database   DatabaseConfig          `mapstructure:"database"`
	Export     ExportConfig            `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// MarketConfig holds the short-rate model inputs of one market. Rates are
// fractions (0.10 == 10%).
type MarketConfig struct {
	Alpha            float64 `mapstructure:"alpha"`
	Mu               float64 `mapstructure:"mu"`
	Sigma            float64 `mapstructure:"sigma"`
	R0               float64 `mapstructure:"r0"`
	MortgageVariable float64 `mapstructure:"mortgage_variable"`
	// MortgageSpread overrides MortgageVariable − R0 when non-zero.
	MortgageSpread float64 `mapstructure:"mortgage_spread"`
	FloorSpread    float64 `mapstructure:"floor_spread"`
}

// SpreadOverMortgage is the variable mortgage spread over the short rate.
func (m MarketConfig) SpreadOverMortgage() float64 {
	if m.MortgageSpread != 0 {
		return m.MortgageSpread
	}
	return m.MortgageVariable - m.R0
}

// SimulationConfig governs the scenario rate paths.
type SimulationConfig struct {
	Seed          uint64  `mapstructure:"seed"`
	HorizonMonths int     `mapstructure:"horizon_months"`
	Cap           float64 `mapstructure:"cap"`
	Floor         float64 `mapstructure:"floor"`
}

// PortfolioConfig captures the mortgage book.
type PortfolioConfig struct {
	Principal    float64 `mapstructure:"principal"`
	TermMonths   int     `mapstructure:"term_months"`
	ListRate     float64 `mapstructure:"list_rate"`
	DiscountRate float64 `mapstructure:"discount_rate"`
}

// SpreadConfig is the swap spread per scenario, as a fraction.
type SpreadConfig struct {
	Optimistic  float64 `mapstructure:"optimistic"`
	Base        float64 `mapstructure:"base"`
	Pessimistic float64 `mapstructure:"pessimistic"`
}

// SweepConfig is the sensitivity grid in basis points.
type SweepConfig struct {
	FromBP float64 `mapstructure:"from_bp"`
	ToBP   float64 `mapstructure:"to_bp"`
	StepBP float64 `mapstructure:"step_bp"`
}

// SwapConfig drives the static comparison.
type SwapConfig struct {
	Method       string       `mapstructure:"method"`
	Basis        string       `mapstructure:"basis"`
	Amortization string       `mapstructure:"amortization"`
	Discount     string       `mapstructure:"discount"`
	Spreads      SpreadConfig `mapstructure:"spreads"`
	Sweep        SweepConfig  `mapstructure:"sweep"`
}

// RiskConfig drives the Monte Carlo engine.
type RiskConfig struct {
	HorizonMonths int     `mapstructure:"horizon_months"`
	Paths         int     `mapstructure:"paths"`
	Confidence    float64 `mapstructure:"confidence"`
	Seed          uint64  `mapstructure:"seed"`
	Workers       int     `mapstructure:"workers"`
	Intercept     bool    `mapstructure:"intercept"`
	Basis         string  `mapstructure:"basis"`
	HistorySource string  `mapstructure:"history_source"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity for rate histories.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	HistoryTable    string        `mapstructure:"history_table"`
}

// ExportConfig sets where result tables and charts go.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
	CSV bool   `mapstructure:"csv"`
	PNG bool   `mapstructure:"png"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("HEDGERISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "hedgerisk")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("market", "colombia")
	v.SetDefault("markets.colombia.alpha", 0.2)
	v.SetDefault("markets.colombia.mu", 0.08)
	v.SetDefault("markets.colombia.sigma", 0.035)
	v.SetDefault("markets.colombia.r0", 0.10)
	v.SetDefault("markets.colombia.mortgage_variable", 0.135)
	v.SetDefault("markets.colombia.floor_spread", 0.05)

	v.SetDefault("simulation.seed", 42)
	v.SetDefault("simulation.horizon_months", 180)
	v.SetDefault("simulation.cap", 0.015)
	v.SetDefault("simulation.floor", 0.01)

	v.SetDefault("portfolio.principal", 100_000_000.0)
	v.SetDefault("portfolio.term_months", 180)
	v.SetDefault("portfolio.list_rate", 0.13)
	v.SetDefault("portfolio.discount_rate", 0.10)

	v.SetDefault("swap.method", "list-rate")
	v.SetDefault("swap.basis", "effective")
	v.SetDefault("swap.spreads.optimistic", 0.015)
	v.SetDefault("swap.spreads.base", 0.02)
	v.SetDefault("swap.spreads.pessimistic", 0.025)
	v.SetDefault("swap.sweep.from_bp", 150.0)
	v.SetDefault("swap.sweep.to_bp", 350.0)
	v.SetDefault("swap.sweep.step_bp", 50.0)

	v.SetDefault("risk.horizon_months", 12)
	v.SetDefault("risk.paths", 10_000)
	v.SetDefault("risk.confidence", 0.95)
	v.SetDefault("risk.seed", 42)
	v.SetDefault("risk.workers", 0)
	v.SetDefault("risk.intercept", false)
	v.SetDefault("risk.basis", "effective")
	v.SetDefault("risk.history_source", "simulated")

	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("database.max_idle_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.history_table", "rate_history")

	v.SetDefault("export.dir", "out")
	v.SetDefault("export.csv", true)
	v.SetDefault("export.png", false)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// ActiveMarket returns the parameters of the selected market.
func (c *Config) ActiveMarket() (MarketConfig, error) {
	m, ok := c.Markets[strings.ToLower(c.Market)]
	if !ok {
		return MarketConfig{}, Invalid("market", "no parameters for market %q", c.Market)
	}
	return m, nil
}

// Validate performs sanity checks on the configuration values.
func (c *Config) Validate() error {
	m, err := c.ActiveMarket()
	if err != nil {
		return err
	}
	key := "markets." + strings.ToLower(c.Market)
	if m.Alpha < 0 {
		return Invalid(key+".alpha", "cannot be negative")
	}
	if m.Sigma < 0 {
		return Invalid(key+".sigma", "cannot be negative")
	}
	if c.Simulation.HorizonMonths <= 0 {
		return Invalid("simulation.horizon_months", "must be greater than zero")
	}
	if c.Simulation.Cap < 0 {
		return Invalid("simulation.cap", "cannot be negative")
	}
	if c.Portfolio.Principal <= 0 {
		return Invalid("portfolio.principal", "must be greater than zero")
	}
	if c.Portfolio.TermMonths <= 0 {
		return Invalid("portfolio.term_months", "must be greater than zero")
	}
	if c.Portfolio.TermMonths > c.Simulation.HorizonMonths {
		return Invalid("portfolio.term_months", "cannot exceed simulation.horizon_months (%d > %d)",
			c.Portfolio.TermMonths, c.Simulation.HorizonMonths)
	}
	if c.Swap.Sweep.StepBP <= 0 {
		return Invalid("swap.sweep.step_bp", "must be greater than zero")
	}
	if c.Risk.HorizonMonths <= 0 {
		return Invalid("risk.horizon_months", "must be greater than zero")
	}
	if c.Risk.Paths <= 0 {
		return Invalid("risk.paths", "must be greater than zero")
	}
	if c.Risk.Confidence <= 0 || c.Risk.Confidence >= 1 {
		return Invalid("risk.confidence", "must be between 0 and 1")
	}
	switch c.Risk.HistorySource {
	case "simulated":
	case "database":
		if c.Database.DSN == "" {
			return Invalid("database.dsn", "required when risk.history_source is database")
		}
	default:
		return Invalid("risk.history_source", "unknown source %q", c.Risk.HistorySource)
	}
	return nil
}
