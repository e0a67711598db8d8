package node

import (
	"context"

	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/incognitochain/lockdrop-workers/metadata"
)

// LocalChain gives an in-process driver access to the node.
type LocalChain struct {
	node *Node
}

func NewLocalChain(node *Node) *LocalChain {
	return &LocalChain{node: node}
}

func (c *LocalChain) Height(context.Context) (uint64, error) {
	return c.node.Height(), nil
}

func (c *LocalChain) Authorities(context.Context) (lockdrop.AuthoritySet, error) {
	return c.node.module.Authorities()
}

func (c *LocalChain) Pending(context.Context) ([]lockdrop.ClaimID, error) {
	return c.node.module.Requests()
}

func (c *LocalChain) Events(_ context.Context, from uint64, limit int) ([]lockdrop.Event, error) {
	return c.node.module.Events(from, limit)
}

func (c *LocalChain) GetClaim(_ context.Context, id lockdrop.ClaimID) (*lockdrop.Claim, error) {
	return c.node.module.GetClaim(id)
}

func (c *LocalChain) HasVote(_ context.Context, authority lockdrop.AuthorityID, id lockdrop.ClaimID) (bool, error) {
	return c.node.module.HasVote(authority, id)
}

func (c *LocalChain) SubmitVote(_ context.Context, sub *metadata.VoteSubmission) error {
	_, err := c.node.Submit(sub)
	return err
}

func (c *LocalChain) SubmitRate(_ context.Context, sub *metadata.RateSubmission) error {
	_, err := c.node.Submit(sub)
	return err
}
