package lockdrop

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"sort"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Storage layout:
//
//	claim/<claim id>                  -> Claim (json)
//	vote/<authority><claim id>        -> 0x01
//	rate/<authority>                  -> RateSample (json)
//	event/<seq, 8 bytes big endian>   -> Event (json)
//	balance/<account>                 -> 32 byte big endian amount
//	meta/authorities                  -> []AuthorityID (json)
//	meta/dollar-rate                  -> DollarRate (json)
//	meta/pending                      -> []ClaimID requested in the current block (json)
//	meta/event-seq, meta/height       -> 8 bytes big endian
var (
	prefixClaim   = []byte("claim/")
	prefixVote    = []byte("vote/")
	prefixRate    = []byte("rate/")
	prefixEvent   = []byte("event/")
	prefixBalance = []byte("balance/")

	keyAuthorities = []byte("meta/authorities")
	keyDollarRate  = []byte("meta/dollar-rate")
	keyPending     = []byte("meta/pending")
	keyEventSeq    = []byte("meta/event-seq")
	keyHeight      = []byte("meta/height")
)

func concatKey(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func claimKey(id ClaimID) []byte { return concatKey(prefixClaim, id[:]) }

func voteKey(authority AuthorityID, id ClaimID) []byte {
	return concatKey(prefixVote, authority[:], id[:])
}

func rateKey(authority AuthorityID) []byte { return concatKey(prefixRate, authority[:]) }

func eventKey(seq uint64) []byte { return concatKey(prefixEvent, uint64Bytes(seq)) }

func balanceKey(account AccountID) []byte { return concatKey(prefixBalance, account[:]) }

func uint64Bytes(v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[:]
}

// reader is satisfied by both *leveldb.DB and *leveldb.Snapshot.
type reader interface {
	Get(key []byte, ro *opt.ReadOptions) ([]byte, error)
	Has(key []byte, ro *opt.ReadOptions) (bool, error)
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

// AuthoritySample is a stored rate sample together with its owner.
type AuthoritySample struct {
	Authority AuthorityID `json:"authority"`
	Sample    RateSample  `json:"sample"`
}

// View reads lockdrop state.
type View struct {
	r reader
}

// Snapshot is a consistent point-in-time View. It must be released.
type Snapshot struct {
	*View
	snap *leveldb.Snapshot
}

func (s *Snapshot) Release() {
	s.snap.Release()
}

func (v *View) getJSON(key []byte, out interface{}) (bool, error) {
	b, err := v.r.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, out)
}

func (v *View) getUint64(key []byte) (uint64, error) {
	b, err := v.r.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// GetClaim returns the claim with the given id, or nil if there is none.
func (v *View) GetClaim(id ClaimID) (*Claim, error) {
	var claim Claim
	found, err := v.getJSON(claimKey(id), &claim)
	if err != nil || !found {
		return nil, err
	}
	return &claim, nil
}

func (v *View) HasClaim(id ClaimID) (bool, error) {
	return v.r.Has(claimKey(id), nil)
}

// HasVote reports whether the authority already voted on the claim.
func (v *View) HasVote(authority AuthorityID, id ClaimID) (bool, error) {
	return v.r.Has(voteKey(authority, id), nil)
}

func (v *View) Authorities() (AuthoritySet, error) {
	var set AuthoritySet
	_, err := v.getJSON(keyAuthorities, &set)
	return set, err
}

func (v *View) DollarRate() (DollarRate, error) {
	var rate DollarRate
	_, err := v.getJSON(keyDollarRate, &rate)
	return rate, err
}

// Requests returns the claim ids requested in the current block.
func (v *View) Requests() ([]ClaimID, error) {
	var ids []ClaimID
	_, err := v.getJSON(keyPending, &ids)
	return ids, err
}

func (v *View) Height() (uint64, error) {
	return v.getUint64(keyHeight)
}

// Samples returns the stored rate samples ordered by authority key.
func (v *View) Samples() ([]AuthoritySample, error) {
	it := v.r.NewIterator(util.BytesPrefix(prefixRate), nil)
	defer it.Release()

	var samples []AuthoritySample
	for it.Next() {
		var s AuthoritySample
		copy(s.Authority[:], it.Key()[len(prefixRate):])
		if err := json.Unmarshal(it.Value(), &s.Sample); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, it.Error()
}

// Events returns up to limit events starting at sequence number from.
func (v *View) Events(from uint64, limit int) ([]Event, error) {
	it := v.r.NewIterator(&util.Range{
		Start: eventKey(from),
		Limit: util.BytesPrefix(prefixEvent).Limit,
	}, nil)
	defer it.Release()

	var events []Event
	for it.Next() && (limit <= 0 || len(events) < limit) {
		var ev Event
		if err := json.Unmarshal(it.Value(), &ev); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, it.Error()
}

func (v *View) eventSeq() (uint64, error) {
	return v.getUint64(keyEventSeq)
}

// upsertSample replaces or inserts the sample of authority, keeping key order.
func upsertSample(samples []AuthoritySample, authority AuthorityID, sample RateSample) []AuthoritySample {
	i := sort.Search(len(samples), func(i int) bool {
		return bytes.Compare(samples[i].Authority[:], authority[:]) >= 0
	})
	if i < len(samples) && samples[i].Authority == authority {
		samples[i].Sample = sample
		return samples
	}
	samples = append(samples, AuthoritySample{})
	copy(samples[i+1:], samples[i:])
	samples[i] = AuthoritySample{Authority: authority, Sample: sample}
	return samples
}
