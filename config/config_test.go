package config

import (
	"testing"
	"time"

	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/stretchr/testify/require"
)

const testAuthority = "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5"

func envOf(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, Validate(cfg))
	// the mempool window of 64 blocks must expire before a rate sample does
	require.Greater(t, cfg.MedianFilterExpire, 64*time.Duration(cfg.BlockTime)*time.Second)
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"NETWORK":              "testnet",
		"ALPHA_NUMERATOR":      "1",
		"ALPHA_DENOMINATOR":    "2",
		"INITIAL_BTC_RATE":     "10000",
		"INITIAL_ETH_RATE":     "200",
		"VOTE_THRESHOLD":       "3",
		"POSITIVE_VOTES":       "2",
		"MEDIAN_FILTER_WIDTH":  "7",
		"MEDIAN_FILTER_EXPIRE": "15m",
		"LOCKDROP_END":         "1700000000",
		"GENESIS_AUTHORITIES":  testAuthority + ", ",
		"BTC_BACKEND":          "blockcypher",
		"BLOCKCYPHER_TOKEN":    "token",
	}))
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	params := cfg.Params()
	require.Equal(t, lockdrop.Ratio{Num: 1, Den: 2}, params.Alpha)
	require.Equal(t, uint32(3), params.VoteThreshold)
	require.Equal(t, uint32(2), params.PositiveVotes)
	require.Equal(t, 7, params.MedianFilterWidth)
	require.Equal(t, 15*time.Minute, params.MedianFilterExpire)
	require.Equal(t, uint64(1700000000), params.LockdropEnd)

	genesis := cfg.Genesis()
	require.Len(t, genesis.Authorities, 1)
	require.Equal(t, testAuthority, genesis.Authorities[0].String())
	require.Equal(t, lockdrop.DollarRate{BTC: 10000, ETH: 200}, genesis.DollarRate)
}

func TestFromEnvErrors(t *testing.T) {
	cases := []map[string]string{
		{"VOTE_THRESHOLD": "-1"},
		{"VOTE_THRESHOLD": "4294967296"},
		{"MEDIAN_FILTER_WIDTH": "five"},
		{"MEDIAN_FILTER_EXPIRE": "10"},
		{"GENESIS_AUTHORITIES": "02abcd"},
	}
	for _, tc := range cases {
		_, err := FromEnv(envOf(tc))
		require.Error(t, err, "%v", tc)
	}
}

func TestValidate(t *testing.T) {
	type TestCase struct {
		name   string
		mutate func(*Config)
	}

	cases := []*TestCase{
		{name: "empty network", mutate: func(c *Config) { c.Network = " " }},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }},
		{name: "bad listen address", mutate: func(c *Config) { c.RPCListen = "9944" }},
		{name: "zero block time", mutate: func(c *Config) { c.BlockTime = 0 }},
		{name: "bad contract", mutate: func(c *Config) { c.EthereumContract = "0x1234" }},
		{name: "unknown backend", mutate: func(c *Config) { c.BTCBackend = "electrum" }},
		{name: "blockcypher without token", mutate: func(c *Config) { c.BTCBackend = BTCBackendBlockcypher }},
		{name: "alpha above one", mutate: func(c *Config) { c.AlphaNumerator = 2 }},
		{name: "zero filter width", mutate: func(c *Config) { c.MedianFilterWidth = 0 }},
		{name: "driver slower than blocks", mutate: func(c *Config) { c.DriverFrequency = 7 }},
		{name: "expire within submission window", mutate: func(c *Config) { c.BlockTime = 10 }},
		{name: "expire equal to submission window", mutate: func(c *Config) {
			c.BlockTime = 5
			c.MedianFilterExpire = 320 * time.Second
		}},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		require.Error(t, Validate(cfg), tc.name)
	}
}
