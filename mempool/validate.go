package mempool

import (
	"errors"
	"fmt"
	"math"

	"github.com/incognitochain/lockdrop-workers/keystore"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/incognitochain/lockdrop-workers/metadata"
)

const (
	// Longevity is the number of blocks a submission tag stays in the dedup window.
	Longevity = 64
	// Priority of authority submissions, they go before anything else.
	Priority = math.MaxUint64
)

var (
	ErrBadProof        = errors.New("bad authority signature")
	ErrInvalidCall     = errors.New("invalid lockdrop call")
	ErrStaleSubmission = errors.New("stale submission")
)

// StateReader is the chain state the gate validates against.
type StateReader interface {
	ResolveVote(vote lockdrop.ClaimVote) (lockdrop.AuthorityID, error)
	ResolveRate(rate lockdrop.TickerRate) (lockdrop.AuthorityID, error)
}

// Validity describes an accepted submission.
type Validity struct {
	Priority  uint64
	Provides  string
	Longevity uint64
	Propagate bool
}

// Validate authenticates a submission against state without changing it.
func Validate(state StateReader, sub metadata.Submission) (*Validity, error) {
	var authority lockdrop.AuthorityID
	var err error
	switch s := sub.(type) {
	case *metadata.VoteSubmission:
		authority, err = state.ResolveVote(s.Vote)
	case *metadata.RateSubmission:
		authority, err = state.ResolveRate(s.Rate)
	default:
		return nil, fmt.Errorf("%w: unsupported submission type %d", ErrInvalidCall, sub.GetType())
	}
	switch {
	case errors.Is(err, lockdrop.ErrAlreadyVoted):
		return nil, fmt.Errorf("%w: %w", ErrStaleSubmission, err)
	case errors.Is(err, lockdrop.ErrUnknownClaim), errors.Is(err, lockdrop.ErrUnknownAuthority):
		return nil, fmt.Errorf("%w: %w", ErrInvalidCall, err)
	case err != nil:
		return nil, err
	}

	if err := keystore.Verify(authority, sub.Hash(), sub.GetSignature()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadProof, err)
	}
	return &Validity{
		Priority:  Priority,
		Provides:  metadata.Tag(sub),
		Longevity: Longevity,
		Propagate: true,
	}, nil
}
