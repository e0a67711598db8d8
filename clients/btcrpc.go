package clients

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/incognitochain/lockdrop-workers/utils"
	"github.com/incognitochain/lockdrop-workers/verifier"
)

// lockOutput is the output index a lockdrop transaction pays the lock script to.
const lockOutput = 0

// BitcoinRPCFetcher loads lock transactions from a bitcoind node.
type BitcoinRPCFetcher struct {
	client *rpcclient.Client
}

func NewBitcoinRPCFetcher(cfg utils.BTCNodeConfig) (*BitcoinRPCFetcher, error) {
	client, err := utils.BuildBTCClient(cfg)
	if err != nil {
		return nil, err
	}
	return &BitcoinRPCFetcher{client: client}, nil
}

func (f *BitcoinRPCFetcher) Fetch(ctx context.Context, hash lockdrop.Hash) (*verifier.ChainTx, error) {
	txHash, err := chainhash.NewHashFromStr(hash.String())
	if err != nil {
		return nil, err
	}

	future := f.client.GetRawTransactionVerboseAsync(txHash)
	type result struct {
		tx  *btcjson.TxRawResult
		err error
	}
	done := make(chan result, 1)
	go func() {
		tx, err := future.Receive()
		done <- result{tx: tx, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		return chainTxFromRaw(res.tx)
	}
}

func (f *BitcoinRPCFetcher) Shutdown() {
	f.client.Shutdown()
}

func chainTxFromRaw(tx *btcjson.TxRawResult) (*verifier.ChainTx, error) {
	if len(tx.Vout) <= lockOutput {
		return nil, fmt.Errorf("tx %s has no output %d", tx.Txid, lockOutput)
	}
	out := tx.Vout[lockOutput]
	value, err := utils.SatoshiFromBTC(out.Value)
	if err != nil {
		return nil, err
	}
	script, err := hex.DecodeString(out.ScriptPubKey.Hex)
	if err != nil {
		return nil, fmt.Errorf("invalid output script of tx %s: %w", tx.Txid, err)
	}
	return &verifier.ChainTx{
		Confirmations: tx.Confirmations,
		Value:         value,
		Script:        script,
	}, nil
}
