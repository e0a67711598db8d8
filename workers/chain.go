package workers

import (
	"context"

	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/incognitochain/lockdrop-workers/metadata"
)

// ChainView is the chain state the driver reads.
type ChainView interface {
	Height(ctx context.Context) (uint64, error)
	Authorities(ctx context.Context) (lockdrop.AuthoritySet, error)
	Pending(ctx context.Context) ([]lockdrop.ClaimID, error)
	// Events returns up to limit log entries starting at sequence number from.
	Events(ctx context.Context, from uint64, limit int) ([]lockdrop.Event, error)
	GetClaim(ctx context.Context, id lockdrop.ClaimID) (*lockdrop.Claim, error)
	HasVote(ctx context.Context, authority lockdrop.AuthorityID, id lockdrop.ClaimID) (bool, error)
}

// Submitter hands signed submissions to the chain.
type Submitter interface {
	SubmitVote(ctx context.Context, sub *metadata.VoteSubmission) error
	SubmitRate(ctx context.Context, sub *metadata.RateSubmission) error
}
