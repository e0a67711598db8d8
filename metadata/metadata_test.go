package metadata

import (
	"testing"

	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/stretchr/testify/require"
)

func TestSubmissionTagIgnoresSignature(t *testing.T) {
	vote := lockdrop.ClaimVote{ClaimID: lockdrop.ClaimID{1}, Approve: true, Authority: 3}
	a := NewVoteSubmission(vote)
	b := NewVoteSubmission(vote)
	b.Signature = []byte{1, 2, 3}

	require.Equal(t, Tag(a), Tag(b))
	require.Equal(t, a.Hash(), b.Hash())

	vote.Approve = false
	c := NewVoteSubmission(vote)
	require.NotEqual(t, Tag(a), Tag(c))
	require.NotEqual(t, a.Hash(), c.Hash())
}

func TestSubmissionTypesDoNotCollide(t *testing.T) {
	vote := NewVoteSubmission(lockdrop.ClaimVote{})
	rate := NewRateSubmission(lockdrop.TickerRate{})

	require.Equal(t, LockdropVoteMeta, vote.GetType())
	require.Equal(t, LockdropRateMeta, rate.GetType())
	require.NotEqual(t, vote.Hash(), rate.Hash())
	require.NotZero(t, rate.CalculateSize())
}
