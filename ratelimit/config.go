/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"errors"
	"time"

	"github.com/acronis/go-crptkit/config"
)

const cfgDefaultKeyPrefix = "rateLimit"

const (
	cfgKeyWindow      = "window"
	cfgKeyLimit       = "limit"
	cfgKeyWaitTimeout = "waitTimeout"
)

// DefaultWindow is a default duration of the rate-limiting window.
const DefaultWindow = time.Second

// Config represents a set of configuration parameters for rate-limiting gate.
type Config struct {
	// Window is a duration of the rolling rate-limiting window.
	Window time.Duration `mapstructure:"window" yaml:"window" json:"window"`

	// Limit is the maximum number of admissions per window
	// and, at the same time, the maximum number of in-flight requests.
	Limit int `mapstructure:"limit" yaml:"limit" json:"limit"`

	// WaitTimeout limits how long a caller may wait for admission.
	WaitTimeout time.Duration `mapstructure:"waitTimeout" yaml:"waitTimeout" json:"waitTimeout"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// NewConfig creates a new instance of the Config.
func NewConfig() *Config {
	return NewConfigWithKeyPrefix("")
}

// NewConfigWithKeyPrefix creates a new instance of the Config.
// Allows specifying key prefix which will be used for parsing configuration parameters.
func NewConfigWithKeyPrefix(keyPrefix string) *Config {
	if keyPrefix != "" {
		keyPrefix += "."
	}
	keyPrefix += cfgDefaultKeyPrefix
	return &Config{keyPrefix: keyPrefix}
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
// Implements config.KeyPrefixProvider interface.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values in config.DataProvider.
// Implements config.Config interface.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyWindow, DefaultWindow.String())
	dp.SetDefault(cfgKeyWaitTimeout, DefaultGateWaitTimeout.String())
}

// Set sets configuration values from config.DataProvider.
// Implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) error {
	window, err := dp.GetDuration(cfgKeyWindow)
	if err != nil {
		return err
	}
	if window <= 0 {
		return dp.WrapKeyErr(cfgKeyWindow, errors.New("window duration must be positive"))
	}
	c.Window = window

	limit, err := dp.GetInt(cfgKeyLimit)
	if err != nil {
		return err
	}
	if limit <= 0 {
		return dp.WrapKeyErr(cfgKeyLimit, errors.New("request limit must be positive"))
	}
	c.Limit = limit

	waitTimeout, err := dp.GetDuration(cfgKeyWaitTimeout)
	if err != nil {
		return err
	}
	if waitTimeout < 0 {
		return dp.WrapKeyErr(cfgKeyWaitTimeout, errors.New("wait timeout cannot be negative"))
	}
	c.WaitTimeout = waitTimeout

	return nil
}

// MakeGate creates a new Gate from the configuration.
func (c *Config) MakeGate() (*Gate, error) {
	return NewGate(c.Window, c.Limit)
}

// TransportOpts returns options for GateRoundTripper.
func (c *Config) TransportOpts() GateRoundTripperOpts {
	return GateRoundTripperOpts{WaitTimeout: c.WaitTimeout}
}
