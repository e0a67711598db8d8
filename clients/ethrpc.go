package clients

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/incognitochain/lockdrop-workers/verifier"
)

// ethBackend is the part of ethclient.Client the fetcher uses.
type ethBackend interface {
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// EthereumFetcher loads lock transactions from an Ethereum node.
type EthereumFetcher struct {
	backend ethBackend
}

func DialEthereum(ctx context.Context, url string) (*EthereumFetcher, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, err
	}
	return &EthereumFetcher{backend: client}, nil
}

func (f *EthereumFetcher) Fetch(ctx context.Context, hash lockdrop.Hash) (*verifier.ChainTx, error) {
	txHash := common.Hash(hash)
	tx, pending, err := f.backend.TransactionByHash(ctx, txHash)
	if err != nil {
		return nil, err
	}

	sender, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return nil, fmt.Errorf("could not recover sender of %s: %w", txHash.Hex(), err)
	}
	value, overflow := uint256.FromBig(tx.Value())
	if overflow {
		return nil, fmt.Errorf("value of %s overflows", txHash.Hex())
	}
	result := &verifier.ChainTx{
		Value:  value,
		Script: tx.Data(),
		Sender: sender.Hex(),
	}
	if to := tx.To(); to != nil {
		result.Recipient = to.Hex()
	}
	if pending {
		return result, nil
	}

	receipt, err := f.backend.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}
	// A reverted call locked nothing.
	if receipt.Status != types.ReceiptStatusSuccessful || receipt.BlockNumber == nil {
		return result, nil
	}
	head, err := f.backend.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	included := receipt.BlockNumber.Uint64()
	if head >= included {
		result.Confirmations = head - included + 1
	}
	return result, nil
}
