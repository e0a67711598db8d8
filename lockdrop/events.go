package lockdrop

import "github.com/holiman/uint256"

type EventKind string

const (
	// EventClaimRequest: lockdrop token claim requested by user.
	EventClaimRequest EventKind = "ClaimRequest"
	// EventClaimResponse: authority vote recorded.
	EventClaimResponse EventKind = "ClaimResponse"
	// EventClaimComplete: lockdrop token claim paid.
	EventClaimComplete EventKind = "ClaimComplete"
	// EventNewDollarRate: dollar rate updated by oracle.
	EventNewDollarRate EventKind = "NewDollarRate"
	// EventNewAuthorities: new authority list registered.
	EventNewAuthorities EventKind = "NewAuthorities"
)

// Event is an entry of the append-only event log.
type Event struct {
	Seq         uint64        `json:"seq"`
	Height      uint64        `json:"height"`
	Kind        EventKind     `json:"kind"`
	ClaimID     *ClaimID      `json:"claimId,omitempty"`
	Authority   *AuthorityID  `json:"authority,omitempty"`
	Approve     bool          `json:"approve,omitempty"`
	Account     *AccountID    `json:"account,omitempty"`
	Amount      *uint256.Int  `json:"amount,omitempty"`
	Rate        *DollarRate   `json:"rate,omitempty"`
	Authorities []AuthorityID `json:"authorities,omitempty"`
}
