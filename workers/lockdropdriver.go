package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/incognitochain/lockdrop-workers/clients"
	"github.com/incognitochain/lockdrop-workers/keystore"
	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/incognitochain/lockdrop-workers/mempool"
	"github.com/incognitochain/lockdrop-workers/metadata"
	"github.com/incognitochain/lockdrop-workers/metrics"
	"github.com/incognitochain/lockdrop-workers/verifier"
	"github.com/syndtr/goleveldb/leveldb"
)

// LockdropDriver is the offchain worker of a validator node. Once per block it
// reports dollar rates and votes on the pending lockdrop claims with every
// local authority key.
type LockdropDriver struct {
	WorkerAbs
	chain     ChainView
	submitter Submitter
	keys      *keystore.KeyStore
	checker   verifier.Checker
	ticker    clients.PriceTicker
	db        *leveldb.DB
	metrics   *metrics.Metrics
}

type LockdropDriverDeps struct {
	Chain     ChainView
	Submitter Submitter
	Keys      *keystore.KeyStore
	Checker   verifier.Checker
	Ticker    clients.PriceTicker
	DB        *leveldb.DB
	Metrics   *metrics.Metrics
}

// DriverState is persisted between ticks. NextEvent is the first event log
// entry not yet scanned for claim requests.
type DriverState struct {
	LastHeight uint64
	NextEvent  uint64
	RetryList  []lockdrop.ClaimID
}

type verifyResult struct {
	id    lockdrop.ClaimID
	valid bool
	err   error
	// done marks claims that no longer need a vote.
	done bool
}

func (d *LockdropDriver) Init(id int, name string, freq int, network string, alertURL string, deps LockdropDriverDeps) error {
	if err := d.WorkerAbs.Init(id, name, freq, network, alertURL); err != nil {
		return err
	}
	if deps.Chain == nil || deps.Submitter == nil || deps.Keys == nil || deps.Checker == nil || deps.Ticker == nil || deps.DB == nil {
		return fmt.Errorf("worker %s: missing dependency", name)
	}
	d.chain = deps.Chain
	d.submitter = deps.Submitter
	d.keys = deps.Keys
	d.checker = deps.Checker
	d.ticker = deps.Ticker
	d.db = deps.DB
	d.metrics = deps.Metrics
	if d.metrics == nil {
		d.metrics = metrics.NewUnregistered()
	}
	return nil
}

func (d *LockdropDriver) ExportErrorLog(msg string) {
	d.WorkerAbs.ExportErrorLog(msg)
}

func (d *LockdropDriver) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), ExecuteTimeout)
	defer cancel()
	d.execute(ctx)
}

func (d *LockdropDriver) execute(ctx context.Context) {
	state, err := d.loadState()
	if err != nil {
		d.ExportErrorLog(fmt.Sprintf("Could not load driver state from db - with err: %v", err))
		return
	}

	height, err := d.chain.Height(ctx)
	if err != nil {
		d.ExportErrorLog(fmt.Sprintf("Could not get chain height - with err: %v", err))
		return
	}
	if height == state.LastHeight {
		return
	}
	d.Logger.Debugf("LockdropDriver worker is executing for block %d...", height)

	authorities, err := d.chain.Authorities(ctx)
	if err != nil {
		d.ExportErrorLog(fmt.Sprintf("Could not get authority list - with err: %v", err))
		return
	}
	local := d.keys.Intersect(authorities)
	if len(local) == 0 {
		d.Logger.Debugf("No local authority key in the authority set of block %d", height)
		state.LastHeight = height
		d.saveState(state)
		return
	}

	d.sendDollarRate(ctx, local)

	// requests of blocks this driver did not tick in are only left in the event log
	known := state.RetryList
	requested, next, err := d.requestedSince(ctx, state.NextEvent)
	if err != nil {
		d.ExportErrorLog(fmt.Sprintf("Could not read claim requests from event %d - with err: %v", state.NextEvent, err))
	} else {
		known = unionClaims(requested, known)
		state.NextEvent = next
	}
	state.RetryList = d.claimRequestOracle(ctx, local, known)
	state.LastHeight = height
	d.saveState(state)
}

func (d *LockdropDriver) sendDollarRate(ctx context.Context, local []keystore.LocalAuthority) {
	btc, err := d.ticker.Fetch(ctx, lockdrop.Bitcoin)
	if err != nil {
		d.ExportErrorLog(fmt.Sprintf("Could not fetch BTC dollar rate - with err: %v", err))
		return
	}
	eth, err := d.ticker.Fetch(ctx, lockdrop.Ethereum)
	if err != nil {
		d.ExportErrorLog(fmt.Sprintf("Could not fetch ETH dollar rate - with err: %v", err))
		return
	}

	for _, authority := range local {
		sub := metadata.NewRateSubmission(lockdrop.TickerRate{Authority: authority.Index, BTC: btc, ETH: eth})
		sub.Signature = authority.Key.Sign(sub.Hash())
		err := d.submitter.SubmitRate(ctx, sub)
		d.countSubmission("rate", err)
		if errors.Is(err, mempool.ErrStaleSubmission) {
			d.Logger.Debugf("Dollar rate of authority %d is unchanged", authority.Index)
			continue
		}
		if err != nil {
			d.Logger.Warnf("Could not submit dollar rate of authority %d - with err: %v", authority.Index, err)
			continue
		}
		d.Logger.Debugf("Submitted dollar rate btc=%d eth=%d for authority %d", btc, eth, authority.Index)
	}
}

// requestedSince collects the claim ids of every ClaimRequest event from
// sequence number from on and returns the next sequence number to scan.
func (d *LockdropDriver) requestedSince(ctx context.Context, from uint64) ([]lockdrop.ClaimID, uint64, error) {
	next := from
	var ids []lockdrop.ClaimID
	for {
		events, err := d.chain.Events(ctx, next, eventPageSize)
		if err != nil {
			return nil, from, err
		}
		for _, ev := range events {
			if ev.Kind == lockdrop.EventClaimRequest && ev.ClaimID != nil {
				ids = append(ids, *ev.ClaimID)
			}
			next = ev.Seq + 1
		}
		if len(events) < eventPageSize {
			return ids, next, nil
		}
	}
}

// claimRequestOracle votes on pending and known claims and returns the claims
// that have to be retried next block.
func (d *LockdropDriver) claimRequestOracle(ctx context.Context, local []keystore.LocalAuthority, known []lockdrop.ClaimID) []lockdrop.ClaimID {
	pending, err := d.chain.Pending(ctx)
	if err != nil {
		d.ExportErrorLog(fmt.Sprintf("Could not get pending claims - with err: %v", err))
		return known
	}
	ids := unionClaims(pending, known)
	if len(ids) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	results := make(chan verifyResult, len(ids))
	for _, id := range ids {
		claimID := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- d.verifyClaim(ctx, claimID)
		}()
	}
	wg.Wait()
	close(results)

	var nextRetry []lockdrop.ClaimID
	for res := range results {
		switch {
		case res.done:
		case res.err != nil:
			d.Logger.Warnf("Could not verify claim %s, retry next block - with err: %v", res.id, res.err)
			nextRetry = append(nextRetry, res.id)
		default:
			if !d.vote(ctx, local, res.id, res.valid) {
				nextRetry = append(nextRetry, res.id)
			}
		}
	}
	return nextRetry
}

func (d *LockdropDriver) verifyClaim(ctx context.Context, id lockdrop.ClaimID) verifyResult {
	claim, err := d.chain.GetClaim(ctx, id)
	if err != nil {
		return verifyResult{id: id, err: err}
	}
	if claim == nil || claim.Complete {
		return verifyResult{id: id, done: true}
	}
	valid, err := d.checker.Check(ctx, claim.Params)
	if err != nil {
		d.metrics.Verifications.WithLabelValues(claim.Params.Asset.String(), "error").Inc()
		return verifyResult{id: id, err: err}
	}
	verdict := "decline"
	if valid {
		verdict = "approve"
	}
	d.metrics.Verifications.WithLabelValues(claim.Params.Asset.String(), verdict).Inc()
	return verifyResult{id: id, valid: valid}
}

// vote signs and submits the verdict with every local authority that has not
// voted yet. It reports false if some submission has to be retried.
func (d *LockdropDriver) vote(ctx context.Context, local []keystore.LocalAuthority, id lockdrop.ClaimID, approve bool) bool {
	ok := true
	for _, authority := range local {
		voted, err := d.chain.HasVote(ctx, authority.Key.Public(), id)
		if err != nil {
			d.Logger.Warnf("Could not check vote of authority %d on claim %s - with err: %v", authority.Index, id, err)
			ok = false
			continue
		}
		if voted {
			continue
		}

		sub := metadata.NewVoteSubmission(lockdrop.ClaimVote{ClaimID: id, Approve: approve, Authority: authority.Index})
		sub.Signature = authority.Key.Sign(sub.Hash())
		err = d.submitter.SubmitVote(ctx, sub)
		d.countSubmission("vote", err)
		if errors.Is(err, mempool.ErrStaleSubmission) {
			continue
		}
		if err != nil {
			d.Logger.Warnf("Could not submit vote of authority %d on claim %s - with err: %v", authority.Index, id, err)
			ok = false
			continue
		}
		d.ExportInfoLog(fmt.Sprintf("Authority %d voted %v on claim %s", authority.Index, approve, id))
	}
	return ok
}

func (d *LockdropDriver) countSubmission(kind string, err error) {
	result := "ok"
	switch {
	case errors.Is(err, mempool.ErrStaleSubmission):
		result = "duplicate"
	case err != nil:
		result = "error"
	}
	d.metrics.Submissions.WithLabelValues(kind, result).Inc()
}

func (d *LockdropDriver) loadState() (*DriverState, error) {
	state := &DriverState{}
	stateBytes, err := d.db.Get([]byte(driverStateKey), nil)
	if err == leveldb.ErrNotFound {
		return state, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stateBytes, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (d *LockdropDriver) saveState(state *DriverState) {
	stateBytes, _ := json.Marshal(state)
	if err := d.db.Put([]byte(driverStateKey), stateBytes, nil); err != nil {
		d.ExportErrorLog(fmt.Sprintf("Could not save driver state to db - with err: %v", err))
	}
}

func unionClaims(a, b []lockdrop.ClaimID) []lockdrop.ClaimID {
	seen := make(map[lockdrop.ClaimID]bool, len(a)+len(b))
	var ids []lockdrop.ClaimID
	for _, list := range [][]lockdrop.ClaimID{a, b} {
		for _, id := range list {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
