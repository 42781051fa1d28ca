/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testServiceConfig struct {
	Address     string
	Timeout     time.Duration
	Limit       int
	BufferSize  BytesCount
	enabledKeys []string
}

func (c *testServiceConfig) KeyPrefix() string {
	return "service"
}

func (c *testServiceConfig) SetProviderDefaults(dp DataProvider) {
	dp.SetDefault("timeout", "10s")
	dp.SetDefault("bufferSize", "1MB")
}

func (c *testServiceConfig) Set(dp DataProvider) (err error) {
	if c.Address, err = dp.GetString("address"); err != nil {
		return err
	}
	if c.Timeout, err = dp.GetDuration("timeout"); err != nil {
		return err
	}
	if c.Limit, err = dp.GetInt("limit"); err != nil {
		return err
	}
	if c.BufferSize, err = dp.GetBytesCount("bufferSize"); err != nil {
		return err
	}
	if c.enabledKeys, err = dp.GetStringSlice("enabledKeys"); err != nil {
		return err
	}
	return nil
}

func TestLoaderLoadFromReader(t *testing.T) {
	cfgData := bytes.NewBufferString(`
service:
  address: https://example.com
  limit: 5
  bufferSize: 256KB
  enabledKeys:
    - foo
    - bar
`)
	cfg := &testServiceConfig{}
	err := NewDefaultLoader("").LoadFromReader(cfgData, DataTypeYAML, cfg)
	require.NoError(t, err)
	require.Equal(t, "https://example.com", cfg.Address)
	require.Equal(t, 5, cfg.Limit)
	require.Equal(t, time.Second*10, cfg.Timeout, "default should be applied")
	require.Equal(t, BytesCount(256*1024), cfg.BufferSize)
	require.Equal(t, []string{"foo", "bar"}, cfg.enabledKeys)
}

func TestViperAdapterGetters(t *testing.T) {
	va := NewViperAdapter()
	va.Set("strVal", "hello")
	va.Set("intVal", 42)
	va.Set("boolVal", true)
	va.Set("durationVal", "1m30s")
	va.Set("bytesVal", "2MB")
	va.Set("modeVal", "Fast")

	s, err := va.GetString("strVal")
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	i, err := va.GetInt("intVal")
	require.NoError(t, err)
	require.Equal(t, 42, i)

	b, err := va.GetBool("boolVal")
	require.NoError(t, err)
	require.True(t, b)

	d, err := va.GetDuration("durationVal")
	require.NoError(t, err)
	require.Equal(t, time.Minute+time.Second*30, d)

	bc, err := va.GetBytesCount("bytesVal")
	require.NoError(t, err)
	require.Equal(t, BytesCount(2*1024*1024), bc)

	m, err := va.GetStringFromSet("modeVal", []string{"fast", "slow"}, true)
	require.NoError(t, err)
	require.Equal(t, "Fast", m)

	_, err = va.GetStringFromSet("modeVal", []string{"slow"}, true)
	require.ErrorContains(t, err, "should be one of")

	_, err = va.GetInt("strVal")
	require.ErrorContains(t, err, "strVal")
}

func TestKeyPrefixedDataProvider(t *testing.T) {
	va := NewViperAdapter()
	va.Set("outer.inner.key", "value")

	dp := NewKeyPrefixedDataProvider(va, "outer.inner")
	require.True(t, dp.IsSet("key"))
	v, err := dp.GetString("key")
	require.NoError(t, err)
	require.Equal(t, "value", v)

	err = dp.WrapKeyErr("key", errTest)
	require.EqualError(t, err, "outer.inner.key: test error")
}

var errTest = &testError{}

type testError struct{}

func (e *testError) Error() string { return "test error" }

func TestViperAdapterUnmarshalKey(t *testing.T) {
	va := NewViperAdapter()
	require.NoError(t, va.SetFromReader(bytes.NewBufferString(`
service:
  address: https://example.com
  timeout: 15s
  limit: 42
`), DataTypeYAML))

	var target struct {
		Address string        `mapstructure:"address"`
		Timeout time.Duration `mapstructure:"timeout"`
		Limit   int           `mapstructure:"limit"`
	}
	require.NoError(t, va.UnmarshalKey("service", &target))
	require.Equal(t, "https://example.com", target.Address)
	require.Equal(t, time.Second*15, target.Timeout)
	require.Equal(t, 42, target.Limit)
}
