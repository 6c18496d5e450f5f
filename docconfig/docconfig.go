// Package docconfig provides environment and flag-backed configuration for
// the docgraphd demo host. It is never imported by the core document graph
// packages: a Document has no notion of configuration, only constructor
// options. The API mirrors the EnvConfig helper style used elsewhere in the
// corpus this was adapted from (config/config.go's GetString/GetInt/
// GetBool/GetDuration with defaults), backed by viper so flags and
// environment variables resolve through one place. It reads no config file.
package docconfig

import (
	"time"

	"github.com/spf13/viper"
)

// Config wraps a *viper.Viper scoped to one environment-variable prefix.
type Config struct {
	v *viper.Viper
}

// New returns a Config that reads <envPrefix>_* environment variables
// (AutomaticEnv with the given prefix) on top of whatever flags the caller
// binds to the returned viper instance via Viper.
func New(envPrefix string) *Config {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return &Config{v: v}
}

// Viper exposes the underlying instance so cobra flags can be bound to it.
func (c *Config) Viper() *viper.Viper { return c.v }

func (c *Config) GetString(key, defaultValue string) string {
	if c.v.IsSet(key) {
		return c.v.GetString(key)
	}
	return defaultValue
}

func (c *Config) GetInt(key string, defaultValue int) int {
	if c.v.IsSet(key) {
		return c.v.GetInt(key)
	}
	return defaultValue
}

func (c *Config) GetBool(key string, defaultValue bool) bool {
	if c.v.IsSet(key) {
		return c.v.GetBool(key)
	}
	return defaultValue
}

func (c *Config) GetDuration(key string, defaultValue time.Duration) time.Duration {
	if c.v.IsSet(key) {
		return c.v.GetDuration(key)
	}
	return defaultValue
}
