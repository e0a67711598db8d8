package metadata

import "github.com/incognitochain/lockdrop-workers/lockdrop"

// VoteSubmission - authority verdict on a lockdrop claim
type VoteSubmission struct {
	MetadataBase
	Vote      lockdrop.ClaimVote
	Signature []byte
}

func NewVoteSubmission(vote lockdrop.ClaimVote) *VoteSubmission {
	return &VoteSubmission{
		MetadataBase: MetadataBase{Type: LockdropVoteMeta},
		Vote:         vote,
	}
}

func (v *VoteSubmission) Payload() []byte {
	return v.Vote.Encode()
}

func (v *VoteSubmission) Hash() lockdrop.Hash {
	return digest(v.MetadataBase, v.Payload())
}

func (v *VoteSubmission) GetSignature() []byte {
	return v.Signature
}

func (v *VoteSubmission) AuthorityIndex() lockdrop.AuthorityIndex {
	return v.Vote.Authority
}

func (v *VoteSubmission) CalculateSize() uint64 {
	return calculateSize(v)
}
