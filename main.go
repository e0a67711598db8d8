package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/incognitochain/lockdrop-workers/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "lockdrop-workers",
		Short:         "Lockdrop claim oracle and settlement node",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		runCommand(),
		driverCommand(),
		requestCommand(),
		claimCommand(),
		claimIDCommand(),
		setAuthoritiesCommand(),
		keygenCommand(),
	)
	return root
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}
	logrus.SetLevel(cfg.Level())
	logrus.WithFields(logrus.Fields{
		"network":   cfg.Network,
		"dataDir":   cfg.DataDir,
		"rpcListen": cfg.RPCListen,
		"btc":       cfg.BTCBackend,
	}).Info("Loaded config")
	return cfg, nil
}
