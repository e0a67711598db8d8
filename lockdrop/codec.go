package lockdrop

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"golang.org/x/crypto/blake2b"
)

const (
	lockdropEncodedLen   = 1 + 33 + 16 + 8 + 32
	claimVoteEncodedLen  = 32 + 1 + 2
	tickerRateEncodedLen = 2 + 8 + 8
)

var errValueTooLarge = errors.New("locked value does not fit in 128 bits")

// Encode returns the canonical encoding of the lockdrop parameters:
// asset | public key | value (u128 LE) | duration (u64 LE) | tx hash.
func (l *Lockdrop) Encode() ([]byte, error) {
	if !l.Asset.Valid() {
		return nil, fmt.Errorf("unknown asset %d", l.Asset)
	}
	value := l.Value
	if value == nil {
		value = new(uint256.Int)
	}
	if value.BitLen() > 128 {
		return nil, errValueTooLarge
	}

	buf := make([]byte, 0, lockdropEncodedLen)
	buf = append(buf, byte(l.Asset))
	buf = append(buf, l.PublicKey[:]...)

	be := value.Bytes32()
	for i := 31; i >= 16; i-- {
		buf = append(buf, be[i])
	}
	buf = binary.LittleEndian.AppendUint64(buf, l.Duration)
	buf = append(buf, l.TransactionHash[:]...)
	return buf, nil
}

// DecodeLockdrop is the inverse of Lockdrop.Encode.
func DecodeLockdrop(b []byte) (*Lockdrop, error) {
	if len(b) != lockdropEncodedLen {
		return nil, fmt.Errorf("lockdrop encoding must be %d bytes, got %d", lockdropEncodedLen, len(b))
	}
	l := &Lockdrop{Asset: Asset(b[0])}
	if !l.Asset.Valid() {
		return nil, fmt.Errorf("unknown asset %d", b[0])
	}
	copy(l.PublicKey[:], b[1:34])

	var be [32]byte
	for i := 0; i < 16; i++ {
		be[31-i] = b[34+i]
	}
	l.Value = new(uint256.Int).SetBytes32(be[:])
	l.Duration = binary.LittleEndian.Uint64(b[50:58])
	copy(l.TransactionHash[:], b[58:])
	return l, nil
}

// ID returns the claim id: BLAKE2b-256 of the canonical encoding.
func (l *Lockdrop) ID() (ClaimID, error) {
	enc, err := l.Encode()
	if err != nil {
		return ClaimID{}, err
	}
	return blake2b.Sum256(enc), nil
}

// Encode returns claim id | approve | authority (u16 LE).
func (v *ClaimVote) Encode() []byte {
	buf := make([]byte, 0, claimVoteEncodedLen)
	buf = append(buf, v.ClaimID[:]...)
	if v.Approve {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	return binary.LittleEndian.AppendUint16(buf, uint16(v.Authority))
}

// Encode returns authority (u16 LE) | btc (u64 LE) | eth (u64 LE).
func (r *TickerRate) Encode() []byte {
	buf := make([]byte, 0, tickerRateEncodedLen)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(r.Authority))
	buf = binary.LittleEndian.AppendUint64(buf, r.BTC)
	return binary.LittleEndian.AppendUint64(buf, r.ETH)
}

// AccountOf derives the payout account of a lockdrop public key.
// Bitcoin and Ethereum lockdrops share one derivation.
func AccountOf(_ Asset, public PublicKey) AccountID {
	return blake2b.Sum256(public[:])
}
