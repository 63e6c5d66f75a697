package sweep

import (
	"time"

	"github.com/mekadomus/aquaflow/internal/config"
)

const (
	defaultCooldown = 20 * time.Minute
	defaultPageSize = 100
)

type Config struct {
	// Cooldown is the minimum spacing between sweep invocations.
	Cooldown time.Duration
	// PageSize bounds how many meters one page of the sweep holds.
	PageSize int
}

func (c Config) withDefaults() Config {
	if c.Cooldown <= 0 {
		c.Cooldown = defaultCooldown
	}
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
	return c
}

// FromConfig maps application configuration onto the sweep's knobs.
func FromConfig(cfg config.Config) Config {
	return Config{
		Cooldown: cfg.Alerts.SweepCooldown,
		PageSize: cfg.Alerts.MetersPageSize,
	}.withDefaults()
}
