package verifier

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/incognitochain/lockdrop-workers/utils"
	"github.com/sirupsen/logrus"
)

const (
	BitcoinConfirmations  = 8
	EthereumConfirmations = 10
)

// ChainTx is the part of an external transaction a lock check looks at.
type ChainTx struct {
	Confirmations uint64
	Value         *uint256.Int
	// Script is the lock output script on Bitcoin and the call data on Ethereum.
	Script    []byte
	Sender    string
	Recipient string
}

// TxFetcher loads a transaction from an external chain.
type TxFetcher interface {
	Fetch(ctx context.Context, hash lockdrop.Hash) (*ChainTx, error)
}

// Checker decides whether a lockdrop matches what happened on chain. Failing
// to fetch is an error, not a negative verdict.
type Checker interface {
	Check(ctx context.Context, params lockdrop.Lockdrop) (bool, error)
}

type BitcoinChecker struct {
	fetcher TxFetcher
	logger  *logrus.Entry
}

func NewBitcoinChecker(fetcher TxFetcher, logger *logrus.Entry) *BitcoinChecker {
	return &BitcoinChecker{fetcher: fetcher, logger: logger}
}

func (c *BitcoinChecker) Check(ctx context.Context, params lockdrop.Lockdrop) (bool, error) {
	tx, err := c.fetcher.Fetch(ctx, params.TransactionHash)
	if err != nil {
		return false, fmt.Errorf("could not fetch bitcoin tx %s: %w", params.TransactionHash, err)
	}
	script, err := utils.LockOutputScript(params.PublicKey, params.Duration)
	if err != nil {
		return false, err
	}
	c.logger.Debugf("tx %s: expected lock script %x, got %x", params.TransactionHash, script, tx.Script)

	return tx.Confirmations > BitcoinConfirmations &&
		valueEq(tx.Value, params.Value) &&
		bytes.Equal(tx.Script, script), nil
}

type EthereumChecker struct {
	fetcher  TxFetcher
	contract common.Address
	logger   *logrus.Entry
}

func NewEthereumChecker(fetcher TxFetcher, contract common.Address, logger *logrus.Entry) *EthereumChecker {
	return &EthereumChecker{fetcher: fetcher, contract: contract, logger: logger}
}

func (c *EthereumChecker) Check(ctx context.Context, params lockdrop.Lockdrop) (bool, error) {
	tx, err := c.fetcher.Fetch(ctx, params.TransactionHash)
	if err != nil {
		return false, fmt.Errorf("could not fetch ethereum tx %s: %w", params.TransactionHash, err)
	}
	method, err := utils.LockMethod(params.Duration)
	if err != nil {
		return false, err
	}
	sender, err := utils.AddressFromPublic(params.PublicKey)
	if err != nil {
		// Not a point on the curve, nobody can have sent this lock.
		c.logger.Debugf("tx %s: invalid public key %s: %v", params.TransactionHash, params.PublicKey, err)
		return false, nil
	}
	c.logger.Debugf("tx %s: expected call data %x, got %x", params.TransactionHash, method, tx.Script)

	return tx.Confirmations > EthereumConfirmations &&
		valueEq(tx.Value, params.Value) &&
		bytes.Equal(tx.Script, method) &&
		sameAddress(tx.Recipient, c.contract) &&
		sameAddress(tx.Sender, sender), nil
}

// Verifier dispatches on the lockdrop asset.
type Verifier struct {
	checkers map[lockdrop.Asset]Checker
}

func New(bitcoin, ethereum Checker) *Verifier {
	return &Verifier{checkers: map[lockdrop.Asset]Checker{
		lockdrop.Bitcoin:  bitcoin,
		lockdrop.Ethereum: ethereum,
	}}
}

func (v *Verifier) Check(ctx context.Context, params lockdrop.Lockdrop) (bool, error) {
	checker, ok := v.checkers[params.Asset]
	if !ok || checker == nil {
		return false, fmt.Errorf("no checker for asset %s", params.Asset)
	}
	return checker.Check(ctx, params)
}

func valueEq(a, b *uint256.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Eq(b)
}

func sameAddress(s string, addr common.Address) bool {
	return common.IsHexAddress(s) && common.HexToAddress(s) == addr
}
