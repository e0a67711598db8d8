package lockdrop

import (
	"errors"
	"fmt"
	"time"
)

// Ratio is a fraction Num/Den.
type Ratio struct {
	Num uint64 `json:"num"`
	Den uint64 `json:"den"`
}

// Params are the tunables loaded at genesis or runtime upgrade.
type Params struct {
	// Alpha scales issuance, must lie in [0, 1].
	Alpha Ratio
	// VoteThreshold is the minimum number of votes before a claim can be paid.
	VoteThreshold uint32
	// PositiveVotes is the minimum approve minus decline margin.
	PositiveVotes uint32
	// MedianFilterWidth is the window of the dollar rate median filter.
	MedianFilterWidth int
	// MedianFilterExpire is how long a submitted rate stays valid.
	MedianFilterExpire time.Duration
	// EthereumContract is the lockdrop contract address on Ethereum.
	EthereumContract string
	// LockdropEnd is the unix time after which requests are refused, 0 disables it.
	LockdropEnd uint64
}

// Genesis is the initial chain state.
type Genesis struct {
	Authorities []AuthorityID
	DollarRate  DollarRate
}

func (p Params) Validate() error {
	if p.Alpha.Den == 0 {
		return errors.New("alpha denominator must be positive")
	}
	if p.Alpha.Num > p.Alpha.Den {
		return fmt.Errorf("alpha %d/%d is greater than one", p.Alpha.Num, p.Alpha.Den)
	}
	if p.MedianFilterWidth < 1 {
		return errors.New("median filter width must be positive")
	}
	if p.MedianFilterExpire <= 0 {
		return errors.New("median filter expire must be positive")
	}
	return nil
}
