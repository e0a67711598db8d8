package clients

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/blockcypher/gobcy"
	"github.com/holiman/uint256"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/incognitochain/lockdrop-workers/verifier"
)

// BlockcypherFetcher loads lock transactions from the BlockCypher API.
type BlockcypherFetcher struct {
	bcy gobcy.API
}

func NewBlockcypherFetcher(token, network string) *BlockcypherFetcher {
	return &BlockcypherFetcher{bcy: gobcy.API{Token: token, Coin: "btc", Chain: network}}
}

// bcyTX is the subset of a BlockCypher transaction the fetcher reads.
type bcyTX struct {
	Hash          string `json:"hash"`
	Confirmations uint64 `json:"confirmations"`
	Outputs       []struct {
		Value  json.Number `json:"value"`
		Script string      `json:"script"`
	} `json:"outputs"`
}

func (f *BlockcypherFetcher) Fetch(ctx context.Context, hash lockdrop.Hash) (*verifier.ChainTx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := f.bcy.GetTX(hash.String(), nil)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}
	return decodeBcyTX(raw)
}

func decodeBcyTX(raw []byte) (*verifier.ChainTx, error) {
	var tx bcyTX
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, err
	}
	if len(tx.Outputs) <= lockOutput {
		return nil, fmt.Errorf("tx %s has no output %d", tx.Hash, lockOutput)
	}
	out := tx.Outputs[lockOutput]
	value, err := uint256.FromDecimal(out.Value.String())
	if err != nil {
		return nil, fmt.Errorf("invalid output value %q of tx %s: %w", out.Value, tx.Hash, err)
	}
	script, err := hex.DecodeString(out.Script)
	if err != nil {
		return nil, fmt.Errorf("invalid output script of tx %s: %w", tx.Hash, err)
	}
	return &verifier.ChainTx{
		Confirmations: tx.Confirmations,
		Value:         value,
		Script:        script,
	}, nil
}
