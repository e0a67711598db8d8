package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/incognitochain/lockdrop-workers/clients"
	"github.com/incognitochain/lockdrop-workers/config"
	"github.com/incognitochain/lockdrop-workers/keystore"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/incognitochain/lockdrop-workers/mempool"
	"github.com/incognitochain/lockdrop-workers/metrics"
	"github.com/incognitochain/lockdrop-workers/node"
	"github.com/incognitochain/lockdrop-workers/utils"
	"github.com/incognitochain/lockdrop-workers/verifier"
	"github.com/incognitochain/lockdrop-workers/workers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/syndtr/goleveldb/leveldb"
)

func runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Runs a devnet node with its RPC server, block producer and lockdrop driver",
		RunE:  runFunc,
	}
}

func runFunc(c *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	chainDB, err := leveldb.OpenFile(cfg.DBPath("chain"), nil)
	if err != nil {
		return fmt.Errorf("could not open chain db: %w", err)
	}
	defer chainDB.Close()

	keys, err := keystore.Load(cfg.AuthorityKeys)
	if err != nil {
		return err
	}

	module, err := lockdrop.New(chainDB, cfg.Params(), lockdrop.NewBalanceLedger(chainDB),
		logrus.WithFields(logrus.Fields{"component": "lockdrop"}))
	if err != nil {
		return err
	}
	genesis := cfg.Genesis()
	if len(genesis.Authorities) == 0 {
		// devnet: local keys are the authority set
		for _, k := range keys.Keys() {
			genesis.Authorities = append(genesis.Authorities, k.Public())
		}
	}
	if err := module.InitGenesis(genesis); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		return err
	}
	pool, err := mempool.NewPool(0, m, logrus.WithFields(logrus.Fields{"component": "mempool"}))
	if err != nil {
		return err
	}
	n, err := node.New(module, pool, m, logrus.WithFields(logrus.Fields{"component": "node"}))
	if err != nil {
		return err
	}
	if cfg.Network == config.DevNetwork {
		n.EnableAuthorityRotation()
	}
	handler, err := node.NewHandler(n, registry)
	if err != nil {
		return err
	}

	listWorkers := []workers.Worker{}
	producer := &workers.BlockProducer{}
	if err := producer.Init(workers.BlockProducerID, "Block Producer", cfg.BlockTime, cfg.Network, cfg.AlertWebhookURL, n); err != nil {
		return err
	}
	listWorkers = append(listWorkers, producer)

	if len(keys.Keys()) == 0 {
		logrus.Info("No authority key configured, lockdrop driver is disabled")
	} else {
		driverDB, err := leveldb.OpenFile(cfg.DBPath("driver"), nil)
		if err != nil {
			return fmt.Errorf("could not open driver db: %w", err)
		}
		defer driverDB.Close()

		checker, shutdown, err := buildChecker(c.Context(), cfg)
		if err != nil {
			return err
		}
		defer shutdown()

		chain := node.NewLocalChain(n)
		driver := &workers.LockdropDriver{}
		err = driver.Init(workers.LockdropDriverID, "Lockdrop Driver", cfg.DriverFrequency, cfg.Network, cfg.AlertWebhookURL, workers.LockdropDriverDeps{
			Chain:     chain,
			Submitter: chain,
			Keys:      keys,
			Checker:   checker,
			Ticker:    clients.NewCoinGeckoTicker(cfg.PriceTickerURL),
			DB:        driverDB,
			Metrics:   m,
		})
		if err != nil {
			return err
		}
		listWorkers = append(listWorkers, driver)
	}

	s := NewServer(listWorkers, cfg.RPCListen, handler)
	s.Run()
	s.Wait()
	fmt.Println("Server stopped gracefully!")
	return nil
}

func driverCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "driver",
		Short: "Runs the lockdrop driver against a remote node",
		RunE:  driverFunc,
	}
}

func driverFunc(c *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	keys, err := keystore.Load(cfg.AuthorityKeys)
	if err != nil {
		return err
	}
	if len(keys.Keys()) == 0 {
		return fmt.Errorf("AUTHORITY_KEYS is required to run the driver")
	}
	driverDB, err := leveldb.OpenFile(cfg.DBPath("driver"), nil)
	if err != nil {
		return fmt.Errorf("could not open driver db: %w", err)
	}
	defer driverDB.Close()

	checker, shutdown, err := buildChecker(c.Context(), cfg)
	if err != nil {
		return err
	}
	defer shutdown()

	remote := clients.NewNodeRPC(cfg.NodeRPCURL)
	driver := &workers.LockdropDriver{}
	err = driver.Init(workers.LockdropDriverID, "Lockdrop Driver", cfg.DriverFrequency, cfg.Network, cfg.AlertWebhookURL, workers.LockdropDriverDeps{
		Chain:     remote,
		Submitter: remote,
		Keys:      keys,
		Checker:   checker,
		Ticker:    clients.NewCoinGeckoTicker(cfg.PriceTickerURL),
		DB:        driverDB,
	})
	if err != nil {
		return err
	}

	s := NewServer([]workers.Worker{driver}, "", nil)
	s.Run()
	s.Wait()
	fmt.Println("Driver stopped gracefully!")
	return nil
}

// buildChecker wires the configured bitcoin and ethereum backends.
func buildChecker(ctx context.Context, cfg config.Config) (verifier.Checker, func(), error) {
	shutdown := func() {}
	var btcFetcher verifier.TxFetcher
	switch cfg.BTCBackend {
	case config.BTCBackendBlockcypher:
		btcFetcher = clients.NewBlockcypherFetcher(cfg.BlockcypherToken, blockcypherChain(cfg.Network))
	default:
		f, err := clients.NewBitcoinRPCFetcher(utils.BTCNodeConfig{
			Host:     cfg.BTCNodeHost,
			Port:     cfg.BTCNodePort,
			Username: cfg.BTCNodeUsername,
			Password: cfg.BTCNodePassword,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to bitcoin node: %w", err)
		}
		btcFetcher = f
		shutdown = f.Shutdown
	}

	dialCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	ethFetcher, err := clients.DialEthereum(dialCtx, cfg.EthNodeURL)
	if err != nil {
		shutdown()
		return nil, nil, fmt.Errorf("could not connect to ethereum node: %w", err)
	}

	checker := verifier.New(
		verifier.NewBitcoinChecker(btcFetcher, logrus.WithFields(logrus.Fields{"component": "btc-checker"})),
		verifier.NewEthereumChecker(ethFetcher, common.HexToAddress(cfg.EthereumContract), logrus.WithFields(logrus.Fields{"component": "eth-checker"})),
	)
	return checker, shutdown, nil
}

func blockcypherChain(network string) string {
	if network == "mainnet" {
		return "main"
	}
	return "test3"
}

type lockdropFlags struct {
	asset     string
	publicKey string
	value     string
	duration  uint64
	txHash    string
}

func (f *lockdropFlags) register(c *cobra.Command) {
	flags := c.Flags()
	flags.StringVar(&f.asset, "asset", "btc", "locked asset, btc or eth")
	flags.StringVar(&f.publicKey, "public-key", "", "hex compressed public key of the locker")
	flags.StringVar(&f.value, "value", "0", "locked value in satoshi or wei")
	flags.Uint64Var(&f.duration, "duration", 0, "lock duration, blocks for btc and seconds for eth")
	flags.StringVar(&f.txHash, "tx-hash", "", "hex hash of the lock transaction")
}

func (f *lockdropFlags) lockdrop() (lockdrop.Lockdrop, error) {
	asset, err := lockdrop.ParseAsset(f.asset)
	if err != nil {
		return lockdrop.Lockdrop{}, err
	}
	public, err := lockdrop.PublicKeyFromHex(f.publicKey)
	if err != nil {
		return lockdrop.Lockdrop{}, fmt.Errorf("invalid public key: %w", err)
	}
	value, err := uint256.FromDecimal(f.value)
	if err != nil {
		return lockdrop.Lockdrop{}, fmt.Errorf("invalid value: %w", err)
	}
	txHash, err := lockdrop.HashFromHex(f.txHash)
	if err != nil {
		return lockdrop.Lockdrop{}, fmt.Errorf("invalid tx hash: %w", err)
	}
	return lockdrop.Lockdrop{
		Asset:           asset,
		PublicKey:       public,
		Value:           value,
		Duration:        f.duration,
		TransactionHash: txHash,
	}, nil
}

func claimIDCommand() *cobra.Command {
	flags := &lockdropFlags{}
	c := &cobra.Command{
		Use:   "claim-id",
		Short: "Prints the claim id of a lockdrop",
		RunE: func(c *cobra.Command, _ []string) error {
			params, err := flags.lockdrop()
			if err != nil {
				return err
			}
			id, err := params.ID()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), id)
			return nil
		},
	}
	flags.register(c)
	return c
}

func requestCommand() *cobra.Command {
	flags := &lockdropFlags{}
	var url string
	c := &cobra.Command{
		Use:   "request",
		Short: "Requests a lockdrop claim on a node",
		RunE: func(c *cobra.Command, _ []string) error {
			params, err := flags.lockdrop()
			if err != nil {
				return err
			}
			id, err := clients.NewNodeRPC(url).Request(c.Context(), params)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), id)
			return nil
		},
	}
	flags.register(c)
	c.Flags().StringVar(&url, "node", "http://127.0.0.1:9944/rpc", "node rpc url")
	return c
}

func claimCommand() *cobra.Command {
	var url, id string
	c := &cobra.Command{
		Use:   "claim",
		Short: "Settles an approved lockdrop claim on a node",
		RunE: func(c *cobra.Command, _ []string) error {
			claimID, err := lockdrop.HashFromHex(id)
			if err != nil {
				return fmt.Errorf("invalid claim id: %w", err)
			}
			payout, err := clients.NewNodeRPC(url).Claim(c.Context(), claimID)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "paid %s to %s\n", payout.Amount.Dec(), payout.Account)
			return nil
		},
	}
	c.Flags().StringVar(&url, "node", "http://127.0.0.1:9944/rpc", "node rpc url")
	c.Flags().StringVar(&id, "id", "", "hex claim id")
	return c
}

func setAuthoritiesCommand() *cobra.Command {
	var url, list string
	c := &cobra.Command{
		Use:   "set-authorities",
		Short: "Replaces the authority set of a devnet node from the next block on",
		RunE: func(c *cobra.Command, _ []string) error {
			authorities, err := config.ParseAuthorities(list)
			if err != nil {
				return err
			}
			height, err := clients.NewNodeRPC(url).ReplaceAuthorities(c.Context(), authorities)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "%d authorities take effect at block %d\n", len(authorities), height)
			return nil
		},
	}
	c.Flags().StringVar(&url, "node", "http://127.0.0.1:9944/rpc", "node rpc url")
	c.Flags().StringVar(&list, "authorities", "", "comma separated hex public keys")
	return c
}

func keygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generates an authority key",
		RunE: func(c *cobra.Command, _ []string) error {
			k, err := keystore.Generate()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "secret: %s\npublic: %s\n", k.Hex(), k.Public())
			return nil
		},
	}
}
