/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

// Config is a common interface for configuration objects that may be populated by Loader.
type Config interface {
	SetProviderDefaults(dp DataProvider)
	Set(dp DataProvider) error
}

// KeyPrefixProvider is an interface for configuration objects that want all of their
// parameters to be looked up under a common key prefix.
type KeyPrefixProvider interface {
	KeyPrefix() string
}
