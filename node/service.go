package node

import (
	"net/http"

	"github.com/incognitochain/lockdrop-workers/entities"
)

// Service is the lockdrop JSON-RPC service.
type Service struct {
	node *Node
}

func NewService(node *Node) *Service {
	return &Service{node: node}
}

// Request queues a lockdrop claim request for the next block.
func (s *Service) Request(_ *http.Request, args *entities.RequestArgs, reply *entities.RequestReply) error {
	id, err := s.node.SubmitRequest(args.Lockdrop)
	if err != nil {
		return err
	}
	reply.ClaimID = id
	return nil
}

// Claim pays out an approved claim.
func (s *Service) Claim(_ *http.Request, args *entities.ClaimArgs, reply *entities.ClaimReply) error {
	payout, err := s.node.module.Claim(args.ClaimID)
	if err != nil {
		return err
	}
	reply.Payout = payout
	return nil
}

func (s *Service) SubmitVote(_ *http.Request, args *entities.SubmitVoteArgs, reply *entities.SubmitReply) error {
	validity, err := s.node.Submit(&args.Submission)
	if err != nil {
		return err
	}
	reply.Tag = validity.Provides
	return nil
}

func (s *Service) SubmitRate(_ *http.Request, args *entities.SubmitRateArgs, reply *entities.SubmitReply) error {
	validity, err := s.node.Submit(&args.Submission)
	if err != nil {
		return err
	}
	reply.Tag = validity.Provides
	return nil
}

func (s *Service) GetClaim(_ *http.Request, args *entities.ClaimArgs, reply *entities.GetClaimReply) error {
	claim, err := s.node.module.GetClaim(args.ClaimID)
	if err != nil {
		return err
	}
	reply.Claim = claim
	return nil
}

func (s *Service) HasVote(_ *http.Request, args *entities.HasVoteArgs, reply *entities.HasVoteReply) error {
	voted, err := s.node.module.HasVote(args.Authority, args.ClaimID)
	if err != nil {
		return err
	}
	reply.Voted = voted
	return nil
}

// Pending returns the claims requested in the current block.
func (s *Service) Pending(_ *http.Request, _ *entities.EmptyArgs, reply *entities.PendingReply) error {
	snap, err := s.node.module.Snapshot()
	if err != nil {
		return err
	}
	defer snap.Release()

	height, err := snap.Height()
	if err != nil {
		return err
	}
	ids, err := snap.Requests()
	if err != nil {
		return err
	}
	reply.Height = height
	reply.ClaimIDs = ids
	return nil
}

func (s *Service) Authorities(_ *http.Request, _ *entities.EmptyArgs, reply *entities.AuthoritiesReply) error {
	authorities, err := s.node.module.Authorities()
	if err != nil {
		return err
	}
	reply.Authorities = authorities
	return nil
}

// ReplaceAuthorities installs a new authority list at the next block.
func (s *Service) ReplaceAuthorities(_ *http.Request, args *entities.ReplaceAuthoritiesArgs, reply *entities.ReplaceAuthoritiesReply) error {
	height, err := s.node.QueueAuthorities(args.Authorities)
	if err != nil {
		return err
	}
	reply.Height = height
	return nil
}

func (s *Service) DollarRate(_ *http.Request, _ *entities.EmptyArgs, reply *entities.DollarRateReply) error {
	snap, err := s.node.module.Snapshot()
	if err != nil {
		return err
	}
	defer snap.Release()

	rate, err := snap.DollarRate()
	if err != nil {
		return err
	}
	samples, err := snap.Samples()
	if err != nil {
		return err
	}
	reply.Rate = rate
	reply.Samples = samples
	return nil
}

func (s *Service) Events(_ *http.Request, args *entities.EventsArgs, reply *entities.EventsReply) error {
	events, err := s.node.module.Events(args.From, args.Limit)
	if err != nil {
		return err
	}
	reply.Events = events
	return nil
}
