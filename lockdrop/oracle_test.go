package lockdrop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMedianFilter(t *testing.T) {
	f := newMedianFilter(3)
	require.Equal(t, uint64(5), f.Consume(5))
	// even window: upper middle
	require.Equal(t, uint64(9), f.Consume(9))
	require.Equal(t, uint64(5), f.Consume(1))
	// 5 is evicted, window is [9 1 7]
	require.Equal(t, uint64(7), f.Consume(7))
	require.Equal(t, uint64(7), f.Consume(100))
}

func TestFilterRates(t *testing.T) {
	a, b, c := testAuthority(1), testAuthority(2), testAuthority(3)
	prev := DollarRate{BTC: 42, ETH: 24}

	type TestCase struct {
		name     string
		samples  []AuthoritySample
		now      uint64
		expected DollarRate
		expired  []AuthorityID
	}

	cases := []*TestCase{
		{
			name:     "no samples keeps previous",
			now:      1000,
			expected: prev,
		},
		{
			name: "all fresh",
			samples: []AuthoritySample{
				{Authority: a, Sample: RateSample{Timestamp: 1000, BTC: 100, ETH: 10}},
				{Authority: b, Sample: RateSample{Timestamp: 990, BTC: 300, ETH: 30}},
				{Authority: c, Sample: RateSample{Timestamp: 980, BTC: 200, ETH: 20}},
			},
			now:      1000,
			expected: DollarRate{BTC: 200, ETH: 20},
		},
		{
			name: "expired samples are pruned",
			samples: []AuthoritySample{
				{Authority: a, Sample: RateSample{Timestamp: 1000, BTC: 100, ETH: 10}},
				{Authority: b, Sample: RateSample{Timestamp: 700, BTC: 300, ETH: 30}},
				{Authority: c, Sample: RateSample{Timestamp: 701, BTC: 200, ETH: 20}},
			},
			now:      1000,
			expected: DollarRate{BTC: 200, ETH: 20},
			expired:  []AuthorityID{b},
		},
		{
			name: "nothing fresh keeps previous",
			samples: []AuthoritySample{
				{Authority: a, Sample: RateSample{Timestamp: 1, BTC: 100, ETH: 10}},
			},
			now:      1000,
			expected: prev,
			expired:  []AuthorityID{a},
		},
		{
			name: "future timestamp counts as fresh",
			samples: []AuthoritySample{
				{Authority: a, Sample: RateSample{Timestamp: 2000, BTC: 100, ETH: 10}},
			},
			now:      1000,
			expected: DollarRate{BTC: 100, ETH: 10},
		},
	}

	for _, tc := range cases {
		rate, expired := filterRates(tc.samples, tc.now, 300*time.Second, 5, prev)
		require.Equal(t, tc.expected, rate, tc.name)
		require.Equal(t, tc.expired, expired, tc.name)
	}
}

func TestUpsertSampleKeepsKeyOrder(t *testing.T) {
	a, b, c := testAuthority(1), testAuthority(2), testAuthority(3)
	var samples []AuthoritySample
	samples = upsertSample(samples, c, RateSample{BTC: 3})
	samples = upsertSample(samples, a, RateSample{BTC: 1})
	samples = upsertSample(samples, b, RateSample{BTC: 2})
	samples = upsertSample(samples, a, RateSample{BTC: 10})

	require.Len(t, samples, 3)
	require.Equal(t, a, samples[0].Authority)
	require.Equal(t, uint64(10), samples[0].Sample.BTC)
	require.Equal(t, b, samples[1].Authority)
	require.Equal(t, c, samples[2].Authority)
}

func TestSetDollarRate(t *testing.T) {
	a, b, c := testAuthority(1), testAuthority(2), testAuthority(3)
	params := testParams()
	env := newTestEnv(t, params, a, b, c)
	m := env.module

	_, err := m.SetDollarRate(TickerRate{Authority: 0, BTC: 10_000, ETH: 300})
	require.NoError(t, err)
	_, err = m.SetDollarRate(TickerRate{Authority: 1, BTC: 12_000, ETH: 100})
	require.NoError(t, err)
	// latest sample per authority wins
	rate, err := m.SetDollarRate(TickerRate{Authority: 0, BTC: 11_000, ETH: 200})
	require.NoError(t, err)
	require.Equal(t, DollarRate{BTC: 12_000, ETH: 200}, rate)

	_, err = m.SetDollarRate(TickerRate{Authority: 9, BTC: 1, ETH: 1})
	require.ErrorIs(t, err, ErrUnknownAuthority)

	// a and b expire once c reports after the TTL
	require.NoError(t, m.BeginBlock(2, genesisTime.Add(params.MedianFilterExpire)))
	rate, err = m.SetDollarRate(TickerRate{Authority: 2, BTC: 9_000, ETH: 150})
	require.NoError(t, err)
	require.Equal(t, DollarRate{BTC: 9_000, ETH: 150}, rate)

	samples, err := m.Samples()
	require.NoError(t, err)
	require.Len(t, samples, 1)
	require.Equal(t, c, samples[0].Authority)

	stored, err := m.DollarRate()
	require.NoError(t, err)
	require.Equal(t, rate, stored)
}
