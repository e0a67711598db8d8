package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/incognitochain/lockdrop-workers/entities"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/incognitochain/lockdrop-workers/mempool"
	"github.com/incognitochain/lockdrop-workers/metadata"
	"github.com/incognitochain/lockdrop-workers/utils"
)

// NodeRPC talks to a lockdrop node over JSON-RPC.
type NodeRPC struct {
	client *utils.HttpClient
}

func NewNodeRPC(url string) *NodeRPC {
	return &NodeRPC{client: utils.NewHttpClient(url)}
}

type rpcResponse interface {
	Err() error
}

func (n *NodeRPC) call(ctx context.Context, method string, args interface{}, res rpcResponse) error {
	if err := n.client.RPCCall(ctx, "lockdrop."+method, args, res); err != nil {
		return err
	}
	return res.Err()
}

var errEmptyResult = errors.New("empty rpc result")

func (n *NodeRPC) pending(ctx context.Context) (*entities.PendingReply, error) {
	var res entities.PendingRes
	if err := n.call(ctx, "Pending", entities.EmptyArgs{}, &res); err != nil {
		return nil, err
	}
	if res.Result == nil {
		return nil, errEmptyResult
	}
	return res.Result, nil
}

func (n *NodeRPC) Height(ctx context.Context) (uint64, error) {
	reply, err := n.pending(ctx)
	if err != nil {
		return 0, err
	}
	return reply.Height, nil
}

func (n *NodeRPC) Pending(ctx context.Context) ([]lockdrop.ClaimID, error) {
	reply, err := n.pending(ctx)
	if err != nil {
		return nil, err
	}
	return reply.ClaimIDs, nil
}

func (n *NodeRPC) Events(ctx context.Context, from uint64, limit int) ([]lockdrop.Event, error) {
	var res entities.EventsRes
	if err := n.call(ctx, "Events", entities.EventsArgs{From: from, Limit: limit}, &res); err != nil {
		return nil, err
	}
	if res.Result == nil {
		return nil, errEmptyResult
	}
	return res.Result.Events, nil
}

func (n *NodeRPC) ReplaceAuthorities(ctx context.Context, authorities []lockdrop.AuthorityID) (uint64, error) {
	var res entities.ReplaceAuthoritiesRes
	if err := n.call(ctx, "ReplaceAuthorities", entities.ReplaceAuthoritiesArgs{Authorities: authorities}, &res); err != nil {
		return 0, err
	}
	if res.Result == nil {
		return 0, errEmptyResult
	}
	return res.Result.Height, nil
}

func (n *NodeRPC) Authorities(ctx context.Context) (lockdrop.AuthoritySet, error) {
	var res entities.AuthoritiesRes
	if err := n.call(ctx, "Authorities", entities.EmptyArgs{}, &res); err != nil {
		return nil, err
	}
	if res.Result == nil {
		return nil, errEmptyResult
	}
	return res.Result.Authorities, nil
}

func (n *NodeRPC) GetClaim(ctx context.Context, id lockdrop.ClaimID) (*lockdrop.Claim, error) {
	var res entities.GetClaimRes
	if err := n.call(ctx, "GetClaim", entities.ClaimArgs{ClaimID: id}, &res); err != nil {
		return nil, err
	}
	if res.Result == nil {
		return nil, errEmptyResult
	}
	return res.Result.Claim, nil
}

func (n *NodeRPC) HasVote(ctx context.Context, authority lockdrop.AuthorityID, id lockdrop.ClaimID) (bool, error) {
	var res entities.HasVoteRes
	if err := n.call(ctx, "HasVote", entities.HasVoteArgs{Authority: authority, ClaimID: id}, &res); err != nil {
		return false, err
	}
	if res.Result == nil {
		return false, errEmptyResult
	}
	return res.Result.Voted, nil
}

func (n *NodeRPC) SubmitVote(ctx context.Context, sub *metadata.VoteSubmission) error {
	var res entities.SubmitRes
	return submissionErr(n.call(ctx, "SubmitVote", entities.SubmitVoteArgs{Submission: *sub}, &res))
}

func (n *NodeRPC) SubmitRate(ctx context.Context, sub *metadata.RateSubmission) error {
	var res entities.SubmitRes
	return submissionErr(n.call(ctx, "SubmitRate", entities.SubmitRateArgs{Submission: *sub}, &res))
}

// submissionErr restores the stale sentinel from a remote pool rejection.
func submissionErr(err error) error {
	if err != nil && strings.HasPrefix(err.Error(), mempool.ErrStaleSubmission.Error()) {
		return fmt.Errorf("%w: %v", mempool.ErrStaleSubmission, err)
	}
	return err
}

func (n *NodeRPC) Request(ctx context.Context, params lockdrop.Lockdrop) (lockdrop.ClaimID, error) {
	var res entities.RequestRes
	if err := n.call(ctx, "Request", entities.RequestArgs{Lockdrop: params}, &res); err != nil {
		return lockdrop.ClaimID{}, err
	}
	if res.Result == nil {
		return lockdrop.ClaimID{}, errEmptyResult
	}
	return res.Result.ClaimID, nil
}

func (n *NodeRPC) Claim(ctx context.Context, id lockdrop.ClaimID) (*lockdrop.Payout, error) {
	var res entities.ClaimRes
	if err := n.call(ctx, "Claim", entities.ClaimArgs{ClaimID: id}, &res); err != nil {
		return nil, err
	}
	if res.Result == nil {
		return nil, errEmptyResult
	}
	return res.Result.Payout, nil
}
