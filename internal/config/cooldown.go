package config

import "time"

// CooldownConfig controls the per-actor cooldown applied to real
// assignment runs.  An actor may trigger at most one real run per
// window; simulations are exempt.  When Enabled is false or no
// Redis client is configured, the cooldown is disabled.
type CooldownConfig struct {
	Enabled bool
	Window  time.Duration
	Prefix  string
}

// LoadCooldownConfig reads environment variables to build a
// CooldownConfig.  Defaults are used when variables are not set.
func LoadCooldownConfig() CooldownConfig {
	return CooldownConfig{
		Enabled: envBool("RUN_COOLDOWN_ENABLED", true),
		Window:  envDur("RUN_COOLDOWN_WINDOW", 30*time.Second),
		Prefix:  envStr("RUN_COOLDOWN_PREFIX", "runcd"),
	}
}
