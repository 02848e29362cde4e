package config

import (
	"fmt"

	"github.com/caarlos0/env/v9"
	"github.com/shopspring/decimal"
)

type Config struct {
	Env        string `env:"APP_ENV" envDefault:"development"`
	DBUser     string `env:"DB_USER,required"`
	DBPassword string `env:"DB_PASSWORD,required"`
	DBHost     string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/var/run/mysqld/mysqld.sock)
	DBName     string `env:"DB_NAME,required"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`

	// Per-level referral commission rates as decimal fractions.
	// Loaded once at process start and immutable afterwards.
	CommissionRateL1 string `env:"COMMISSION_RATE_L1" envDefault:"0.10"`
	CommissionRateL2 string `env:"COMMISSION_RATE_L2" envDefault:"0.05"`
	CommissionRateL3 string `env:"COMMISSION_RATE_L3" envDefault:"0.02"`
}

// CommissionRates holds the parsed per-level rates.
type CommissionRates struct {
	L1 decimal.Decimal
	L2 decimal.Decimal
	L3 decimal.Decimal
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Production() bool {
	return c.Env == "production"
}

// Rates parses the configured commission rate strings into exact decimals.
func (c *Config) Rates() (CommissionRates, error) {
	var rates CommissionRates
	for _, f := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"COMMISSION_RATE_L1", c.CommissionRateL1, &rates.L1},
		{"COMMISSION_RATE_L2", c.CommissionRateL2, &rates.L2},
		{"COMMISSION_RATE_L3", c.CommissionRateL3, &rates.L3},
	} {
		d, err := decimal.NewFromString(f.raw)
		if err != nil {
			return CommissionRates{}, fmt.Errorf("parse %s=%q: %w", f.name, f.raw, err)
		}
		if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
			return CommissionRates{}, fmt.Errorf("%s=%q out of range [0,1]", f.name, f.raw)
		}
		*f.dst = d
	}
	return rates, nil
}
