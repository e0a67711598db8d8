package lockdrop

import "errors"

var (
	ErrClaimAlreadyPaid   = errors.New("claim should not be already paid")
	ErrUnknownClaim       = errors.New("claim does not exist")
	ErrNotEnoughVotes     = errors.New("this request don't get enough authority votes")
	ErrNotApproved        = errors.New("this request don't approved by authorities")
	ErrUnknownAuthority   = errors.New("unable to get authority by index")
	ErrAlreadyVoted       = errors.New("authority already voted on this claim")
	ErrLockdropEnded      = errors.New("lockdrop is already finished")
	ErrIssuanceOverflow   = errors.New("issue amount overflow")
	ErrTooManyAuthorities = errors.New("authority list exceeds index range")
)
