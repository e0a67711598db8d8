package lockdrop

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Asset is the external chain a lockdrop was made on.
type Asset uint8

const (
	Bitcoin Asset = iota
	Ethereum
)

func (a Asset) String() string {
	switch a {
	case Bitcoin:
		return "bitcoin"
	case Ethereum:
		return "ethereum"
	default:
		return fmt.Sprintf("asset(%d)", uint8(a))
	}
}

func (a Asset) Valid() bool {
	return a == Bitcoin || a == Ethereum
}

func ParseAsset(s string) (Asset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "btc", "bitcoin":
		return Bitcoin, nil
	case "eth", "ethereum":
		return Ethereum, nil
	default:
		return 0, fmt.Errorf("unknown asset %q", s)
	}
}

// PublicKey is a compressed secp256k1 public key.
type PublicKey [33]byte

// Hash is a 32 byte digest, e.g. an external transaction hash or a claim id.
type Hash [32]byte

// ClaimID is the content address of a Lockdrop.
type ClaimID = Hash

// AuthorityID identifies an authority by its compressed secp256k1 key.
type AuthorityID = PublicKey

// AccountID is the native account a claim is paid to.
type AccountID = Hash

// AuthorityIndex is the position of an authority in the current set.
type AuthorityIndex uint16

func (p PublicKey) String() string {
	return hex.EncodeToString(p[:])
}

func (p PublicKey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PublicKey) UnmarshalText(text []byte) error {
	return decodeFixedHex(string(text), p[:])
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	return decodeFixedHex(string(text), h[:])
}

// PublicKeyFromHex parses a hex encoded compressed public key.
func PublicKeyFromHex(s string) (PublicKey, error) {
	var p PublicKey
	err := decodeFixedHex(s, p[:])
	return p, err
}

// HashFromHex parses a hex encoded 32 byte hash.
func HashFromHex(s string) (Hash, error) {
	var h Hash
	err := decodeFixedHex(s, h[:])
	return h, err
}

func decodeFixedHex(s string, dst []byte) error {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != len(dst) {
		return fmt.Errorf("expected %d bytes, got %d", len(dst), len(b))
	}
	copy(dst, b)
	return nil
}

// Lockdrop describes a lock made on an external chain.
// Bitcoin durations are in blocks, Ethereum durations in seconds.
type Lockdrop struct {
	Asset           Asset        `json:"asset"`
	PublicKey       PublicKey    `json:"publicKey"`
	Value           *uint256.Int `json:"value"`
	Duration        uint64       `json:"duration"`
	TransactionHash Hash         `json:"transactionHash"`
}

// Claim is the on-chain record of a lockdrop claim request.
type Claim struct {
	Params   Lockdrop     `json:"params"`
	Approve  uint32       `json:"approve"`
	Decline  uint32       `json:"decline"`
	Amount   *uint256.Int `json:"amount"`
	Complete bool         `json:"complete"`
}

// ClaimVote is an authority's verdict on a claim.
type ClaimVote struct {
	ClaimID   ClaimID        `json:"claimId"`
	Approve   bool           `json:"approve"`
	Authority AuthorityIndex `json:"authority"`
}

// TickerRate is an authority's view of the BTC and ETH dollar rates.
type TickerRate struct {
	Authority AuthorityIndex `json:"authority"`
	BTC       uint64         `json:"btc"`
	ETH       uint64         `json:"eth"`
}

// RateSample is the last rate an authority submitted.
type RateSample struct {
	Timestamp uint64 `json:"timestamp"`
	BTC       uint64 `json:"btc"`
	ETH       uint64 `json:"eth"`
}

// DollarRate is the filtered BTC and ETH dollar rate.
type DollarRate struct {
	BTC uint64 `json:"btc"`
	ETH uint64 `json:"eth"`
}

func (r DollarRate) Of(asset Asset) uint64 {
	if asset == Ethereum {
		return r.ETH
	}
	return r.BTC
}
