package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/incognitochain/lockdrop-workers/mempool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DevNetwork = "devnet"

	BTCBackendRPC         = "rpc"
	BTCBackendBlockcypher = "blockcypher"
)

type Config struct {
	Network  string
	DataDir  string
	LogLevel string

	RPCListen  string
	NodeRPCURL string

	AuthorityKeys      string
	GenesisAuthorities []lockdrop.AuthorityID

	AlphaNumerator     uint64
	AlphaDenominator   uint64
	InitialBTCRate     uint64
	InitialETHRate     uint64
	VoteThreshold      uint32
	PositiveVotes      uint32
	MedianFilterWidth  int
	MedianFilterExpire time.Duration
	EthereumContract   string
	LockdropEnd        uint64

	BlockTime       int // in sec
	DriverFrequency int // in sec

	BTCBackend       string
	BTCNodeHost      string
	BTCNodePort      string
	BTCNodeUsername  string
	BTCNodePassword  string
	BlockcypherToken string
	EthNodeURL       string
	PriceTickerURL   string
	AlertWebhookURL  string
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

func DefaultConfig() Config {
	return Config{
		Network:            DevNetwork,
		DataDir:            "db",
		LogLevel:           "info",
		RPCListen:          "127.0.0.1:9944",
		NodeRPCURL:         "http://127.0.0.1:9944/rpc",
		AlphaNumerator:     1,
		AlphaDenominator:   1,
		VoteThreshold:      1,
		PositiveVotes:      1,
		MedianFilterWidth:  5,
		MedianFilterExpire: 10 * time.Minute,
		BlockTime:          6,
		DriverFrequency:    3,
		BTCBackend:         BTCBackendRPC,
		BTCNodeHost:        "127.0.0.1",
		BTCNodePort:        "8332",
		EthNodeURL:         "http://127.0.0.1:8545",
		PriceTickerURL:     "https://api.coingecko.com/api/v3",
	}
}

// Load reads the optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("could not load .env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv overlays the non-empty variables returned by getenv on DefaultConfig.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()
	var err error

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	u64 := func(key string, dst *uint64) {
		v := strings.TrimSpace(getenv(key))
		if v == "" || err != nil {
			return
		}
		n, perr := strconv.ParseUint(v, 10, 64)
		if perr != nil {
			err = fmt.Errorf("invalid %s %q: %w", key, v, perr)
			return
		}
		*dst = n
	}
	u32 := func(key string, dst *uint32) {
		n := uint64(*dst)
		u64(key, &n)
		if n > uint64(^uint32(0)) && err == nil {
			err = fmt.Errorf("invalid %s: %d does not fit in 32 bits", key, n)
			return
		}
		*dst = uint32(n)
	}
	integer := func(key string, dst *int) {
		v := strings.TrimSpace(getenv(key))
		if v == "" || err != nil {
			return
		}
		n, perr := strconv.Atoi(v)
		if perr != nil {
			err = fmt.Errorf("invalid %s %q: %w", key, v, perr)
			return
		}
		*dst = n
	}

	str("NETWORK", &cfg.Network)
	str("DATA_DIR", &cfg.DataDir)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("RPC_LISTEN", &cfg.RPCListen)
	str("NODE_RPC_URL", &cfg.NodeRPCURL)
	str("AUTHORITY_KEYS", &cfg.AuthorityKeys)
	u64("ALPHA_NUMERATOR", &cfg.AlphaNumerator)
	u64("ALPHA_DENOMINATOR", &cfg.AlphaDenominator)
	u64("INITIAL_BTC_RATE", &cfg.InitialBTCRate)
	u64("INITIAL_ETH_RATE", &cfg.InitialETHRate)
	u32("VOTE_THRESHOLD", &cfg.VoteThreshold)
	u32("POSITIVE_VOTES", &cfg.PositiveVotes)
	integer("MEDIAN_FILTER_WIDTH", &cfg.MedianFilterWidth)
	str("ETHEREUM_CONTRACT", &cfg.EthereumContract)
	u64("LOCKDROP_END", &cfg.LockdropEnd)
	integer("BLOCK_TIME", &cfg.BlockTime)
	integer("DRIVER_FREQUENCY", &cfg.DriverFrequency)
	str("BTC_BACKEND", &cfg.BTCBackend)
	str("BTC_NODE_HOST", &cfg.BTCNodeHost)
	str("BTC_NODE_PORT", &cfg.BTCNodePort)
	str("BTC_NODE_USERNAME", &cfg.BTCNodeUsername)
	str("BTC_NODE_PASSWORD", &cfg.BTCNodePassword)
	str("BLOCKCYPHER_TOKEN", &cfg.BlockcypherToken)
	str("ETH_NODE_URL", &cfg.EthNodeURL)
	str("PRICE_TICKER_URL", &cfg.PriceTickerURL)
	str("ALERT_WEBHOOK_URL", &cfg.AlertWebhookURL)
	if err != nil {
		return Config{}, err
	}

	if v := strings.TrimSpace(getenv("MEDIAN_FILTER_EXPIRE")); v != "" {
		d, perr := time.ParseDuration(v)
		if perr != nil {
			return Config{}, fmt.Errorf("invalid MEDIAN_FILTER_EXPIRE %q: %w", v, perr)
		}
		cfg.MedianFilterExpire = d
	}
	if v := getenv("GENESIS_AUTHORITIES"); v != "" {
		authorities, perr := ParseAuthorities(v)
		if perr != nil {
			return Config{}, perr
		}
		cfg.GenesisAuthorities = authorities
	}
	return cfg, nil
}

// ParseAuthorities parses a comma separated list of hex encoded public keys.
func ParseAuthorities(list string) ([]lockdrop.AuthorityID, error) {
	var authorities []lockdrop.AuthorityID
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := lockdrop.PublicKeyFromHex(s)
		if err != nil {
			return nil, fmt.Errorf("invalid genesis authority %q: %w", s, err)
		}
		authorities = append(authorities, id)
	}
	return authorities, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Network) == "" {
		return errors.New("network is required")
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("data_dir is required")
	}
	if _, ok := allowedLogLevels[strings.ToLower(cfg.LogLevel)]; !ok {
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	if _, _, err := net.SplitHostPort(cfg.RPCListen); err != nil {
		return fmt.Errorf("invalid rpc_listen: %w", err)
	}
	if cfg.BlockTime <= 0 {
		return errors.New("block_time must be > 0")
	}
	if cfg.DriverFrequency <= 0 {
		return errors.New("driver_frequency must be > 0")
	}
	// the driver must tick at least once per block
	if cfg.DriverFrequency > cfg.BlockTime {
		return fmt.Errorf("driver_frequency %ds must not exceed block_time %ds", cfg.DriverFrequency, cfg.BlockTime)
	}
	// samples must outlive the pool's replay window
	if window := time.Duration(mempool.Longevity*cfg.BlockTime) * time.Second; cfg.MedianFilterExpire <= window {
		return fmt.Errorf("median_filter_expire %s must exceed the submission window %s", cfg.MedianFilterExpire, window)
	}
	if cfg.EthereumContract != "" && !common.IsHexAddress(cfg.EthereumContract) {
		return fmt.Errorf("invalid ethereum_contract %q", cfg.EthereumContract)
	}
	switch cfg.BTCBackend {
	case BTCBackendRPC:
	case BTCBackendBlockcypher:
		if cfg.BlockcypherToken == "" {
			return errors.New("blockcypher_token is required for the blockcypher backend")
		}
	default:
		return fmt.Errorf("invalid btc_backend %q", cfg.BTCBackend)
	}
	if err := cfg.Params().Validate(); err != nil {
		return fmt.Errorf("invalid lockdrop params: %w", err)
	}
	return nil
}

func (cfg Config) Params() lockdrop.Params {
	return lockdrop.Params{
		Alpha:              lockdrop.Ratio{Num: cfg.AlphaNumerator, Den: cfg.AlphaDenominator},
		VoteThreshold:      cfg.VoteThreshold,
		PositiveVotes:      cfg.PositiveVotes,
		MedianFilterWidth:  cfg.MedianFilterWidth,
		MedianFilterExpire: cfg.MedianFilterExpire,
		EthereumContract:   cfg.EthereumContract,
		LockdropEnd:        cfg.LockdropEnd,
	}
}

func (cfg Config) Genesis() lockdrop.Genesis {
	return lockdrop.Genesis{
		Authorities: cfg.GenesisAuthorities,
		DollarRate:  lockdrop.DollarRate{BTC: cfg.InitialBTCRate, ETH: cfg.InitialETHRate},
	}
}

func (cfg Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// DBPath is the leveldb directory of the named store.
func (cfg Config) DBPath(name string) string {
	return filepath.Join(cfg.DataDir, name)
}
