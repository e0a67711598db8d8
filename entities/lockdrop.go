package entities

import (
	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/incognitochain/lockdrop-workers/metadata"
)

type EmptyArgs struct{}

type RequestArgs struct {
	Lockdrop lockdrop.Lockdrop `json:"lockdrop"`
}

type RequestReply struct {
	ClaimID lockdrop.ClaimID `json:"claimId"`
}

type RequestRes struct {
	RPCBaseRes
	Result *RequestReply `json:"result"`
}

type ClaimArgs struct {
	ClaimID lockdrop.ClaimID `json:"claimId"`
}

type ClaimReply struct {
	Payout *lockdrop.Payout `json:"payout"`
}

type ClaimRes struct {
	RPCBaseRes
	Result *ClaimReply `json:"result"`
}

type GetClaimReply struct {
	Claim *lockdrop.Claim `json:"claim"`
}

type GetClaimRes struct {
	RPCBaseRes
	Result *GetClaimReply `json:"result"`
}

type SubmitVoteArgs struct {
	Submission metadata.VoteSubmission `json:"submission"`
}

type SubmitRateArgs struct {
	Submission metadata.RateSubmission `json:"submission"`
}

type SubmitReply struct {
	Tag string `json:"tag"`
}

type SubmitRes struct {
	RPCBaseRes
	Result *SubmitReply `json:"result"`
}

type HasVoteArgs struct {
	Authority lockdrop.AuthorityID `json:"authority"`
	ClaimID   lockdrop.ClaimID     `json:"claimId"`
}

type HasVoteReply struct {
	Voted bool `json:"voted"`
}

type HasVoteRes struct {
	RPCBaseRes
	Result *HasVoteReply `json:"result"`
}

type PendingReply struct {
	Height   uint64             `json:"height"`
	ClaimIDs []lockdrop.ClaimID `json:"claimIds"`
}

type PendingRes struct {
	RPCBaseRes
	Result *PendingReply `json:"result"`
}

type AuthoritiesReply struct {
	Authorities []lockdrop.AuthorityID `json:"authorities"`
}

type AuthoritiesRes struct {
	RPCBaseRes
	Result *AuthoritiesReply `json:"result"`
}

type ReplaceAuthoritiesArgs struct {
	Authorities []lockdrop.AuthorityID `json:"authorities"`
}

type ReplaceAuthoritiesReply struct {
	// Height is the block the new list takes effect in.
	Height uint64 `json:"height"`
}

type ReplaceAuthoritiesRes struct {
	RPCBaseRes
	Result *ReplaceAuthoritiesReply `json:"result"`
}

type DollarRateReply struct {
	Rate    lockdrop.DollarRate        `json:"rate"`
	Samples []lockdrop.AuthoritySample `json:"samples"`
}

type DollarRateRes struct {
	RPCBaseRes
	Result *DollarRateReply `json:"result"`
}

type EventsArgs struct {
	From  uint64 `json:"from"`
	Limit int    `json:"limit"`
}

type EventsReply struct {
	Events []lockdrop.Event `json:"events"`
}

type EventsRes struct {
	RPCBaseRes
	Result *EventsReply `json:"result"`
}
