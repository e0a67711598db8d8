package lockdrop

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestTimeBonus(t *testing.T) {
	type TestCase struct {
		duration uint64
		bonus    uint64
	}

	cases := []*TestCase{
		{duration: 0, bonus: 0},
		{duration: 30*day - 1, bonus: 0},
		{duration: 30 * day, bonus: 24},
		{duration: 100*day - 1, bonus: 24},
		{duration: 100 * day, bonus: 100},
		{duration: 300*day - 1, bonus: 100},
		{duration: 300 * day, bonus: 360},
		{duration: 1000*day - 1, bonus: 360},
		{duration: 1000 * day, bonus: 1600},
		{duration: math.MaxUint64, bonus: 1600},
	}

	for _, tc := range cases {
		require.Equal(t, tc.bonus, TimeBonus(tc.duration), "duration %d", tc.duration)
	}
}

func TestDurationSeconds(t *testing.T) {
	require.Equal(t, uint64(4320*600), DurationSeconds(Bitcoin, 4320))
	require.Equal(t, uint64(4320), DurationSeconds(Ethereum, 4320))
	require.Equal(t, uint64(math.MaxUint64), DurationSeconds(Bitcoin, math.MaxUint64/100))
}

func TestIssueAmount(t *testing.T) {
	type TestCase struct {
		name     string
		asset    Asset
		value    *uint256.Int
		duration uint64
		alpha    Ratio
		rate     DollarRate
		expected string
	}

	oneEther, _ := uint256.FromDecimal("1000000000000000000")

	cases := []*TestCase{
		{
			name:     "one bitcoin for 30 days",
			asset:    Bitcoin,
			value:    uint256.NewInt(100_000_000),
			duration: 4320,
			alpha:    Ratio{Num: 1, Den: 1},
			rate:     DollarRate{BTC: 10_000, ETH: 200},
			expected: "240000000000000000000",
		},
		{
			name:     "one ether for 100 days",
			asset:    Ethereum,
			value:    oneEther,
			duration: 8_640_000,
			alpha:    Ratio{Num: 1, Den: 2},
			rate:     DollarRate{BTC: 10_000, ETH: 200},
			expected: "100000000000000000000",
		},
		{
			name:     "short lock earns nothing",
			asset:    Ethereum,
			value:    oneEther,
			duration: 29 * day,
			alpha:    Ratio{Num: 1, Den: 1},
			rate:     DollarRate{ETH: 200},
			expected: "0",
		},
		{
			name:     "zero alpha",
			asset:    Bitcoin,
			value:    uint256.NewInt(100_000_000),
			duration: 4320,
			alpha:    Ratio{Num: 0, Den: 1},
			rate:     DollarRate{BTC: 10_000},
			expected: "0",
		},
	}

	for _, tc := range cases {
		amount, err := IssueAmount(tc.asset, tc.value, tc.duration, tc.alpha, tc.rate)
		require.NoError(t, err, tc.name)
		require.Equal(t, tc.expected, amount.Dec(), tc.name)
	}
}

func TestIssueAmountOverflow(t *testing.T) {
	value := new(uint256.Int).Lsh(uint256.NewInt(1), 127)
	_, err := IssueAmount(Bitcoin, value, 1000*day, Ratio{Num: 1, Den: 1}, DollarRate{BTC: math.MaxUint64})
	require.ErrorIs(t, err, ErrIssuanceOverflow)

	// Fits in 256 bits but not in 128 bits.
	_, err = IssueAmount(Bitcoin, uint256.NewInt(math.MaxUint64), 1000*day, Ratio{Num: 1, Den: 1}, DollarRate{BTC: math.MaxUint64})
	require.ErrorIs(t, err, ErrIssuanceOverflow)
}
