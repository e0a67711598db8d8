package mempool

import (
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/incognitochain/lockdrop-workers/keystore"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/incognitochain/lockdrop-workers/metadata"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

type fixture struct {
	module *lockdrop.Module
	keys   []*keystore.Key
	claim  lockdrop.ClaimID
}

func newFixture(t *testing.T) *fixture {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m, err := lockdrop.New(db, lockdrop.Params{
		Alpha:              lockdrop.Ratio{Num: 1, Den: 1},
		VoteThreshold:      1,
		PositiveVotes:      1,
		MedianFilterWidth:  3,
		MedianFilterExpire: time.Minute,
	}, lockdrop.NewBalanceLedger(db), nil)
	require.NoError(t, err)

	f := &fixture{module: m}
	var authorities []lockdrop.AuthorityID
	for i := 0; i < 2; i++ {
		k, err := keystore.Generate()
		require.NoError(t, err)
		f.keys = append(f.keys, k)
		authorities = append(authorities, k.Public())
	}
	require.NoError(t, m.InitGenesis(lockdrop.Genesis{Authorities: authorities, DollarRate: lockdrop.DollarRate{BTC: 1, ETH: 1}}))
	require.NoError(t, m.BeginBlock(1, time.Unix(1000, 0)))

	f.claim, err = m.Request(lockdrop.Lockdrop{Asset: lockdrop.Ethereum, Value: uint256.NewInt(1), Duration: 1})
	require.NoError(t, err)
	return f
}

func (f *fixture) vote(idx int, approve bool) *metadata.VoteSubmission {
	sub := metadata.NewVoteSubmission(lockdrop.ClaimVote{ClaimID: f.claim, Approve: approve, Authority: lockdrop.AuthorityIndex(idx)})
	sub.Signature = f.keys[idx].Sign(sub.Hash())
	return sub
}

func TestValidate(t *testing.T) {
	f := newFixture(t)

	validity, err := Validate(f.module, f.vote(0, true))
	require.NoError(t, err)
	require.Equal(t, uint64(Priority), validity.Priority)
	require.Equal(t, uint64(Longevity), validity.Longevity)
	require.True(t, validity.Propagate)
	require.Equal(t, metadata.Tag(f.vote(0, true)), validity.Provides)

	// signed by the wrong authority
	forged := f.vote(0, true)
	forged.Signature = f.keys[1].Sign(forged.Hash())
	_, err = Validate(f.module, forged)
	require.ErrorIs(t, err, ErrBadProof)

	unknownClaim := metadata.NewVoteSubmission(lockdrop.ClaimVote{ClaimID: lockdrop.ClaimID{9}, Authority: 0})
	unknownClaim.Signature = f.keys[0].Sign(unknownClaim.Hash())
	_, err = Validate(f.module, unknownClaim)
	require.ErrorIs(t, err, ErrInvalidCall)
	require.ErrorIs(t, err, lockdrop.ErrUnknownClaim)

	rate := metadata.NewRateSubmission(lockdrop.TickerRate{Authority: 5, BTC: 1, ETH: 1})
	rate.Signature = f.keys[0].Sign(rate.Hash())
	_, err = Validate(f.module, rate)
	require.ErrorIs(t, err, ErrInvalidCall)

	rate.Rate.Authority = 1
	rate.Signature = f.keys[1].Sign(rate.Hash())
	_, err = Validate(f.module, rate)
	require.NoError(t, err)

	require.NoError(t, f.module.Vote(lockdrop.ClaimVote{ClaimID: f.claim, Approve: true, Authority: 0}))
	_, err = Validate(f.module, f.vote(0, true))
	require.ErrorIs(t, err, ErrStaleSubmission)
}

func TestPoolDedupWindow(t *testing.T) {
	f := newFixture(t)
	pool, err := NewPool(16, nil, nil)
	require.NoError(t, err)
	pool.SetHeight(1)

	_, err = pool.Add(f.module, f.vote(0, true))
	require.NoError(t, err)
	_, err = pool.Add(f.module, f.vote(0, true))
	require.ErrorIs(t, err, ErrStaleSubmission)

	_, err = pool.Add(f.module, f.vote(1, false))
	require.NoError(t, err)

	subs := pool.Drain()
	require.Len(t, subs, 2)
	require.Equal(t, lockdrop.AuthorityIndex(0), subs[0].AuthorityIndex())
	require.Equal(t, lockdrop.AuthorityIndex(1), subs[1].AuthorityIndex())
	require.Zero(t, pool.Len())

	// still inside the window
	pool.SetHeight(1 + Longevity)
	_, err = pool.Add(f.module, f.vote(0, true))
	require.ErrorIs(t, err, ErrStaleSubmission)

	pool.SetHeight(2 + Longevity)
	_, err = pool.Add(f.module, f.vote(0, true))
	require.NoError(t, err)
}
