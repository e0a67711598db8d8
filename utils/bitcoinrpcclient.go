package utils

import (
	"fmt"

	"github.com/btcsuite/btcd/rpcclient"
)

type BTCNodeConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

func BuildBTCClient(cfg BTCNodeConfig) (*rpcclient.Client, error) {
	connCfg := &rpcclient.ConnConfig{
		Host:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		User:         cfg.Username,
		Pass:         cfg.Password,
		HTTPPostMode: true, // Bitcoin core only supports HTTP POST mode
		DisableTLS:   true, // Bitcoin core does not provide TLS by default
	}
	return rpcclient.New(connCfg, nil)
}
