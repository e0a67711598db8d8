package metadata

import "github.com/incognitochain/lockdrop-workers/lockdrop"

// RateSubmission - authority dollar rate sample
type RateSubmission struct {
	MetadataBase
	Rate      lockdrop.TickerRate
	Signature []byte
}

func NewRateSubmission(rate lockdrop.TickerRate) *RateSubmission {
	return &RateSubmission{
		MetadataBase: MetadataBase{Type: LockdropRateMeta},
		Rate:         rate,
	}
}

func (r *RateSubmission) Payload() []byte {
	return r.Rate.Encode()
}

func (r *RateSubmission) Hash() lockdrop.Hash {
	return digest(r.MetadataBase, r.Payload())
}

func (r *RateSubmission) GetSignature() []byte {
	return r.Signature
}

func (r *RateSubmission) AuthorityIndex() lockdrop.AuthorityIndex {
	return r.Rate.Authority
}

func (r *RateSubmission) CalculateSize() uint64 {
	return calculateSize(r)
}
