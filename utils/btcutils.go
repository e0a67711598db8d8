package utils

import (
	"encoding/hex"
	"fmt"
	"math"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/holiman/uint256"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
)

// LockScript builds the relative time lock redeem script:
// <duration> OP_CHECKSEQUENCEVERIFY OP_DROP <public key> OP_CHECKSIG
func LockScript(public lockdrop.PublicKey, duration uint64) ([]byte, error) {
	if duration > math.MaxInt64 {
		return nil, fmt.Errorf("lock duration %d out of script range", duration)
	}
	return txscript.NewScriptBuilder().
		AddInt64(int64(duration)).
		AddOp(txscript.OP_CHECKSEQUENCEVERIFY).
		AddOp(txscript.OP_DROP).
		AddData(public[:]).
		AddOp(txscript.OP_CHECKSIG).
		Script()
}

// P2SHScript returns the pay-to-script-hash output script of a redeem script.
func P2SHScript(redeemScript []byte) ([]byte, error) {
	// Output scripts do not depend on the network, only addresses do.
	addr, err := btcutil.NewAddressScriptHash(redeemScript, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}
	return txscript.PayToAddrScript(addr)
}

// LockOutputScript is the expected output script of a Bitcoin lockdrop.
func LockOutputScript(public lockdrop.PublicKey, duration uint64) ([]byte, error) {
	script, err := LockScript(public, duration)
	if err != nil {
		return nil, err
	}
	return P2SHScript(script)
}

// SatoshiFromBTC converts a BTC amount as reported by bitcoind into satoshi.
func SatoshiFromBTC(value float64) (*uint256.Int, error) {
	amount, err := btcutil.NewAmount(value)
	if err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, fmt.Errorf("negative amount %v", value)
	}
	return uint256.NewInt(uint64(amount)), nil
}

func HexToBytes(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return []byte{}, err
	}
	return b, nil
}
