package lockdrop

// ResolveVote checks a vote against current state without changing it and
// returns the identity of the voting authority.
func (v *View) ResolveVote(vote ClaimVote) (AuthorityID, error) {
	authorities, err := v.Authorities()
	if err != nil {
		return AuthorityID{}, err
	}
	authority, ok := authorities.At(vote.Authority)
	if !ok {
		return AuthorityID{}, ErrUnknownAuthority
	}
	exists, err := v.HasClaim(vote.ClaimID)
	if err != nil {
		return AuthorityID{}, err
	}
	if !exists {
		return AuthorityID{}, ErrUnknownClaim
	}
	voted, err := v.HasVote(authority, vote.ClaimID)
	if err != nil {
		return AuthorityID{}, err
	}
	if voted {
		return AuthorityID{}, ErrAlreadyVoted
	}
	return authority, nil
}

// Vote records an authority vote on a claim. Every check runs before the
// counters, the vote guard and the event are written together.
func (m *Module) Vote(vote ClaimVote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	authority, err := m.ResolveVote(vote)
	if err != nil {
		return err
	}
	claim, err := m.GetClaim(vote.ClaimID)
	if err != nil {
		return err
	}
	if claim == nil {
		return ErrUnknownClaim
	}
	return m.acceptVote(authority, vote, claim)
}

func (m *Module) acceptVote(authority AuthorityID, vote ClaimVote, claim *Claim) error {
	tx, err := m.begin()
	if err != nil {
		return err
	}
	recordVote(claim, vote.Approve)
	if err := tx.put(claimKey(vote.ClaimID), claim); err != nil {
		return err
	}
	tx.batch.Put(voteKey(authority, vote.ClaimID), []byte{1})
	id := vote.ClaimID
	tx.emit(Event{Kind: EventClaimResponse, ClaimID: &id, Authority: &authority, Approve: vote.Approve})
	return tx.commit()
}
