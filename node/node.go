package node

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/incognitochain/lockdrop-workers/lockdrop"
	"github.com/incognitochain/lockdrop-workers/mempool"
	"github.com/incognitochain/lockdrop-workers/metadata"
	"github.com/incognitochain/lockdrop-workers/metrics"
	"github.com/sirupsen/logrus"
)

// Node is a single process devnet chain: user requests and authority
// submissions are queued and applied when the next block executes.
type Node struct {
	module  *lockdrop.Module
	pool    *mempool.Pool
	metrics *metrics.Metrics
	logger  *logrus.Entry

	mu       sync.Mutex
	requests []lockdrop.Lockdrop
	height   uint64

	// authority rotation, devnet only
	rotation    bool
	authorities []lockdrop.AuthorityID
	rotate      bool
}

var ErrRotationDisabled = errors.New("authority rotation is disabled on this node")

func New(module *lockdrop.Module, pool *mempool.Pool, m *metrics.Metrics, logger *logrus.Entry) (*Node, error) {
	height, err := module.Height()
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	if logger == nil {
		logger = logrus.WithFields(logrus.Fields{"component": "node"})
	}
	return &Node{module: module, pool: pool, metrics: m, logger: logger, height: height}, nil
}

func (n *Node) Module() *lockdrop.Module {
	return n.module
}

func (n *Node) Height() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.height
}

// SubmitRequest queues a claim request for the next block.
func (n *Node) SubmitRequest(params lockdrop.Lockdrop) (lockdrop.ClaimID, error) {
	id, err := n.module.CheckRequest(params)
	if err != nil {
		return lockdrop.ClaimID{}, err
	}
	n.mu.Lock()
	n.requests = append(n.requests, params)
	n.mu.Unlock()
	return id, nil
}

// EnableAuthorityRotation lets QueueAuthorities stand in for the session
// collaborator that rotates the authority set.
func (n *Node) EnableAuthorityRotation() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rotation = true
}

// QueueAuthorities schedules a new authority list for the next block and
// returns that block's height.
func (n *Node) QueueAuthorities(authorities []lockdrop.AuthorityID) (uint64, error) {
	if len(authorities) > math.MaxUint16+1 {
		return 0, lockdrop.ErrTooManyAuthorities
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.rotation {
		return 0, ErrRotationDisabled
	}
	n.authorities = append([]lockdrop.AuthorityID{}, authorities...)
	n.rotate = true
	return n.height + 1, nil
}

// Submit admits an authority submission into the pool.
func (n *Node) Submit(sub metadata.Submission) (*mempool.Validity, error) {
	return n.pool.Add(n.module, sub)
}

// ExecuteBlock starts the next block and applies everything queued since the
// previous one: user requests first, then authority submissions.
func (n *Node) ExecuteBlock(now time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	height := n.height + 1
	if err := n.module.BeginBlock(height, now); err != nil {
		return fmt.Errorf("could not begin block %d: %w", height, err)
	}
	n.height = height
	n.pool.SetHeight(height)

	if n.rotate {
		if err := n.module.ReplaceAuthorities(n.authorities); err != nil {
			n.logger.Warnf("Could not replace authorities in block %d: %v", height, err)
		} else {
			n.logger.Infof("Installed %d authorities in block %d", len(n.authorities), height)
		}
		n.authorities, n.rotate = nil, false
	}

	requests := n.requests
	n.requests = nil
	for _, params := range requests {
		if _, err := n.module.Request(params); err != nil {
			n.logger.Warnf("Dropped request for tx %s in block %d: %v", params.TransactionHash, height, err)
		}
	}

	applied := 0
	for _, sub := range n.pool.Drain() {
		if err := n.Apply(sub); err != nil {
			n.logger.Debugf("Dropped submission %s in block %d: %v", metadata.Tag(sub), height, err)
			continue
		}
		applied++
	}
	n.metrics.Blocks.Inc()
	n.logger.Infof("Executed block %d with %d requests and %d submissions", height, len(requests), applied)
	return nil
}

// Apply dispatches an authority submission. It is validated again against the
// state of the current block.
func (n *Node) Apply(sub metadata.Submission) error {
	if _, err := mempool.Validate(n.module, sub); err != nil {
		return err
	}
	switch s := sub.(type) {
	case *metadata.VoteSubmission:
		return n.module.Vote(s.Vote)
	case *metadata.RateSubmission:
		_, err := n.module.SetDollarRate(s.Rate)
		return err
	}
	return errors.New("unsupported submission")
}
