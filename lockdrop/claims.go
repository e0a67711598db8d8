package lockdrop

import (
	"fmt"

	"github.com/holiman/uint256"
)

// Payout describes a completed claim.
type Payout struct {
	ClaimID ClaimID      `json:"claimId"`
	Account AccountID    `json:"account"`
	Amount  *uint256.Int `json:"amount"`
}

// Request registers a lockdrop for verification and returns its claim id. The
// issue amount is fixed when the claim is first created; repeated requests
// only put the id back on the pending list.
func (m *Module) Request(params Lockdrop) (ClaimID, error) {
	params.Value = copyValue(params.Value)
	id, err := params.ID()
	if err != nil {
		return ClaimID{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	claim, created, err := m.lookupRequest(id, params)
	if err != nil {
		return ClaimID{}, err
	}

	tx, err := m.begin()
	if err != nil {
		return ClaimID{}, err
	}
	if created {
		if err := tx.put(claimKey(id), claim); err != nil {
			return ClaimID{}, err
		}
	}

	pending, err := m.Requests()
	if err != nil {
		return ClaimID{}, err
	}
	if !containsClaim(pending, id) {
		pending = append(pending, id)
	}
	if err := tx.put(keyPending, pending); err != nil {
		return ClaimID{}, err
	}

	tx.emit(Event{Kind: EventClaimRequest, ClaimID: &id})
	if err := tx.commit(); err != nil {
		return ClaimID{}, err
	}
	return id, nil
}

// CheckRequest reports the error Request would return for params in the
// current block, without changing state.
func (m *Module) CheckRequest(params Lockdrop) (ClaimID, error) {
	id, err := params.ID()
	if err != nil {
		return ClaimID{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, _, err := m.lookupRequest(id, params); err != nil {
		return ClaimID{}, err
	}
	return id, nil
}

// lookupRequest returns the claim for id, building a new one from params
// when there is none yet.
func (m *Module) lookupRequest(id ClaimID, params Lockdrop) (*Claim, bool, error) {
	claim, err := m.GetClaim(id)
	if err != nil {
		return nil, false, err
	}
	if claim != nil && claim.Complete {
		return nil, false, ErrClaimAlreadyPaid
	}
	if end := m.params.LockdropEnd; end != 0 && m.blockTime() > end {
		return nil, false, ErrLockdropEnded
	}
	if claim != nil {
		return claim, false, nil
	}

	rate, err := m.DollarRate()
	if err != nil {
		return nil, false, err
	}
	amount, err := IssueAmount(params.Asset, params.Value, params.Duration, m.params.Alpha, rate)
	if err != nil {
		return nil, false, err
	}
	return &Claim{Params: params, Amount: amount}, true, nil
}

// Claim pays out an approved claim. The credit, the completion latch and the
// event are written atomically.
func (m *Module) Claim(id ClaimID) (*Payout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	claim, err := m.GetClaim(id)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, ErrUnknownClaim
	}
	if claim.Complete {
		return nil, ErrClaimAlreadyPaid
	}
	if uint64(claim.Approve)+uint64(claim.Decline) < uint64(m.params.VoteThreshold) {
		return nil, ErrNotEnoughVotes
	}
	if saturatingSub(claim.Approve, claim.Decline) < m.params.PositiveVotes {
		return nil, ErrNotApproved
	}

	account := AccountOf(claim.Params.Asset, claim.Params.PublicKey)
	amount := copyValue(claim.Amount)

	tx, err := m.begin()
	if err != nil {
		return nil, err
	}
	if err := m.ledger.Credit(tx, account, amount); err != nil {
		return nil, fmt.Errorf("could not credit %s: %w", account, err)
	}
	claim.Complete = true
	if err := tx.put(claimKey(id), claim); err != nil {
		return nil, err
	}
	tx.emit(Event{Kind: EventClaimComplete, ClaimID: &id, Account: &account, Amount: amount})
	if err := tx.commit(); err != nil {
		return nil, err
	}
	return &Payout{ClaimID: id, Account: account, Amount: amount}, nil
}

// recordVote bumps the approve or decline counter of claim.
func recordVote(claim *Claim, approve bool) {
	if approve {
		claim.Approve = saturatingAdd(claim.Approve, 1)
	} else {
		claim.Decline = saturatingAdd(claim.Decline, 1)
	}
}

func saturatingSub(a, b uint32) uint32 {
	if a < b {
		return 0
	}
	return a - b
}

func saturatingAdd(a, b uint32) uint32 {
	if c := a + b; c >= a {
		return c
	}
	return ^uint32(0)
}

func copyValue(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(v)
}

func containsClaim(ids []ClaimID, id ClaimID) bool {
	for _, elem := range ids {
		if elem == id {
			return true
		}
	}
	return false
}
