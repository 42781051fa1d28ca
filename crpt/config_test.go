/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package crpt

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-crptkit/config"
	"github.com/acronis/go-crptkit/ratelimit"
)

func TestConfigSet(t *testing.T) {
	tests := []struct {
		Name       string
		YAMLData   string
		Want       *Config
		WantErrMsg string
	}{
		{
			Name:     "limit only, defaults for the rest",
			YAMLData: "crpt:\n  rateLimit:\n    limit: 5",
			Want: &Config{
				Address:        DefaultAddress,
				RequestTimeout: DefaultRequestTimeout,
				RateLimit: ratelimit.Config{
					Window:      ratelimit.DefaultWindow,
					Limit:       5,
					WaitTimeout: ratelimit.DefaultGateWaitTimeout,
				},
			},
		},
		{
			Name: "all parameters",
			YAMLData: `
crpt:
  address: https://markirovka.sandbox.crptech.ru/api/v3/lk/documents/create
  requestTimeout: 20s
  rateLimit:
    window: 2s
    limit: 50
    waitTimeout: 1m
`,
			Want: &Config{
				Address:        "https://markirovka.sandbox.crptech.ru/api/v3/lk/documents/create",
				RequestTimeout: time.Second * 20,
				RateLimit: ratelimit.Config{
					Window:      time.Second * 2,
					Limit:       50,
					WaitTimeout: time.Minute,
				},
			},
		},
		{
			Name:       "empty address",
			YAMLData:   "crpt:\n  address: \"\"\n  rateLimit:\n    limit: 5",
			WantErrMsg: "crpt.address: cannot be empty",
		},
		{
			Name:       "negative request timeout",
			YAMLData:   "crpt:\n  requestTimeout: -1s\n  rateLimit:\n    limit: 5",
			WantErrMsg: "crpt.requestTimeout: cannot be negative",
		},
		{
			Name:       "missing rate limit",
			YAMLData:   "crpt: {}",
			WantErrMsg: "crpt.rateLimit.limit: request limit must be positive",
		},
		{
			Name:       "invalid window",
			YAMLData:   "crpt:\n  rateLimit:\n    window: -1s\n    limit: 5",
			WantErrMsg: "crpt.rateLimit.window: window duration must be positive",
		},
	}
	for i := range tests {
		tt := tests[i]
		t.Run(tt.Name, func(t *testing.T) {
			cfg := NewConfig()
			err := config.NewDefaultLoader("").LoadFromReader(
				bytes.NewBufferString(tt.YAMLData), config.DataTypeYAML, cfg)
			if tt.WantErrMsg != "" {
				require.ErrorContains(t, err, tt.WantErrMsg)
				return
			}
			require.NoError(t, err)
			cfg.keyPrefix = ""
			require.Equal(t, tt.Want, cfg)
		})
	}
}
