package lockdrop

import (
	"errors"
	"math"
	"math/bits"

	"github.com/holiman/uint256"
)

const (
	day = 24 * 60 * 60
	// Average Bitcoin block interval in seconds.
	bitcoinBlockTime = 600
)

type unitScale struct {
	num uint64
	den uint64
}

var (
	// satoshi = BTC * 10^8, token unit = token * 10^15, times the protocol factor 10.
	bitcoinScale = unitScale{num: 1_000_000 * 10, den: 1}
	// wei = ETH * 10^18, token unit = token * 10^15, times the protocol factor 10.
	ethereumScale = unitScale{num: 10, den: 1_000}
)

// TimeBonus returns the issuance multiplier for a lock of the given length.
func TimeBonus(durationSec uint64) uint64 {
	switch {
	case durationSec < 30*day:
		return 0
	case durationSec < 100*day:
		return 24
	case durationSec < 300*day:
		return 100
	case durationSec < 1000*day:
		return 360
	default:
		return 1600
	}
}

// DurationSeconds converts a lockdrop duration into seconds. Bitcoin locks are
// measured in blocks.
func DurationSeconds(asset Asset, duration uint64) uint64 {
	if asset != Bitcoin {
		return duration
	}
	hi, lo := bits.Mul64(duration, bitcoinBlockTime)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// IssueAmount computes alpha * rate * bonus * value * K. Every factor is
// multiplied in before the single division, overflow is an error.
func IssueAmount(asset Asset, value *uint256.Int, duration uint64, alpha Ratio, rate DollarRate) (*uint256.Int, error) {
	if alpha.Den == 0 {
		return nil, errors.New("alpha denominator must be positive")
	}
	if value == nil {
		value = new(uint256.Int)
	}
	scale := bitcoinScale
	if asset == Ethereum {
		scale = ethereumScale
	}

	num := uint256.NewInt(alpha.Num)
	factors := []*uint256.Int{
		uint256.NewInt(rate.Of(asset)),
		uint256.NewInt(TimeBonus(DurationSeconds(asset, duration))),
		value,
		uint256.NewInt(scale.num),
	}
	for _, f := range factors {
		if _, overflow := num.MulOverflow(num, f); overflow {
			return nil, ErrIssuanceOverflow
		}
	}

	den := new(uint256.Int).Mul(uint256.NewInt(alpha.Den), uint256.NewInt(scale.den))
	amount := new(uint256.Int).Div(num, den)
	if amount.BitLen() > 128 {
		return nil, ErrIssuanceOverflow
	}
	return amount, nil
}
