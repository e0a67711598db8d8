package utils

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
)

const lockSignature = "lock(uint256)"

var uint256Type, _ = abi.NewType("uint256", "", nil)

// LockMethod returns the calldata of a lockdrop contract lock(duration) call.
func LockMethod(duration uint64) ([]byte, error) {
	args, err := abi.Arguments{{Type: uint256Type}}.Pack(new(big.Int).SetUint64(duration))
	if err != nil {
		return nil, err
	}
	return append(crypto.Keccak256([]byte(lockSignature))[:4], args...), nil
}

// AddressFromPublic derives the Ethereum address of a compressed public key.
func AddressFromPublic(public lockdrop.PublicKey) (common.Address, error) {
	pub, err := crypto.DecompressPubkey(public[:])
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}
