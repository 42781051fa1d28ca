/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"errors"
	"time"

	"github.com/acronis/go-crptkit/config"
	"github.com/acronis/go-crptkit/ratelimit"
)

const cfgDefaultKeyPrefix = "crpt"

const (
	cfgKeyAddress        = "address"
	cfgKeyRequestTimeout = "requestTimeout"
	cfgKeyRateLimit      = "rateLimit"
)

const (
	// DefaultAddress is an address of the document creation endpoint in the production CRPT environment.
	DefaultAddress = "https://ismp.crpt.ru/api/v3/lk/documents/create"

	// DefaultRequestTimeout is a default timeout for the whole document creation request.
	DefaultRequestTimeout = 10 * time.Second
)

// Config represents a set of configuration parameters for the CRPT client.
type Config struct {
	// Address is a URL of the document creation endpoint.
	Address string `mapstructure:"address" yaml:"address" json:"address"`

	// RequestTimeout limits the duration of a single document creation request,
	// not including the admission wait.
	RequestTimeout time.Duration `mapstructure:"requestTimeout" yaml:"requestTimeout" json:"requestTimeout"`

	// RateLimit configures the client-side rate-limiting gate.
	RateLimit ratelimit.Config `mapstructure:"rateLimit" yaml:"rateLimit" json:"rateLimit"`

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
	dp.SetDefault(cfgKeyAddress, DefaultAddress)
	dp.SetDefault(cfgKeyRequestTimeout, DefaultRequestTimeout.String())
	c.RateLimit.SetProviderDefaults(config.NewKeyPrefixedDataProvider(dp, cfgKeyRateLimit))
}

// Set sets configuration values from config.DataProvider.
// Implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) error {
	address, err := dp.GetString(cfgKeyAddress)
	if err != nil {
		return err
	}
	if address == "" {
		return dp.WrapKeyErr(cfgKeyAddress, errors.New("cannot be empty"))
	}
	c.Address = address

	requestTimeout, err := dp.GetDuration(cfgKeyRequestTimeout)
	if err != nil {
		return err
	}
	if requestTimeout < 0 {
		return dp.WrapKeyErr(cfgKeyRequestTimeout, errors.New("cannot be negative"))
	}
	c.RequestTimeout = requestTimeout

	return c.RateLimit.Set(config.NewKeyPrefixedDataProvider(dp, cfgKeyRateLimit))
}
