package mempool

import (
	"errors"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/incognitochain/lockdrop-workers/metadata"
	"github.com/incognitochain/lockdrop-workers/metrics"
	"github.com/sirupsen/logrus"
)

const defaultWindowSize = 65536

type entry struct {
	sub      metadata.Submission
	validity *Validity
	seq      uint64
}

// Pool queues validated submissions until the next block drains them.
type Pool struct {
	mu      sync.Mutex
	height  uint64
	seq     uint64
	queue   []entry
	seen    *lru.Cache // tag -> last height of the dedup window
	metrics *metrics.Metrics
	logger  *logrus.Entry
}

func NewPool(windowSize int, m *metrics.Metrics, logger *logrus.Entry) (*Pool, error) {
	if windowSize <= 0 {
		windowSize = defaultWindowSize
	}
	seen, err := lru.New(windowSize)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	if logger == nil {
		logger = logrus.WithFields(logrus.Fields{"component": "mempool"})
	}
	return &Pool{seen: seen, metrics: m, logger: logger}, nil
}

// SetHeight moves the dedup window to the given block height.
func (p *Pool) SetHeight(height uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.height = height
}

// Add validates sub against state and queues it.
func (p *Pool) Add(state StateReader, sub metadata.Submission) (*Validity, error) {
	validity, err := Validate(state, sub)
	if err != nil {
		p.reject(sub, err)
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if until, ok := p.seen.Get(validity.Provides); ok && until.(uint64) >= p.height {
		p.reject(sub, ErrStaleSubmission)
		return nil, ErrStaleSubmission
	}
	p.seen.Add(validity.Provides, p.height+validity.Longevity)
	p.queue = append(p.queue, entry{sub: sub, validity: validity, seq: p.seq})
	p.seq++
	return validity, nil
}

// Drain empties the queue in priority then arrival order.
func (p *Pool) Drain() []metadata.Submission {
	p.mu.Lock()
	queue := p.queue
	p.queue = nil
	p.mu.Unlock()

	sort.SliceStable(queue, func(i, j int) bool {
		if queue[i].validity.Priority != queue[j].validity.Priority {
			return queue[i].validity.Priority > queue[j].validity.Priority
		}
		return queue[i].seq < queue[j].seq
	})
	subs := make([]metadata.Submission, 0, len(queue))
	for _, e := range queue {
		subs = append(subs, e.sub)
	}
	return subs
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

func (p *Pool) reject(sub metadata.Submission, err error) {
	reason := "other"
	switch {
	case errors.Is(err, ErrBadProof):
		reason = "bad_proof"
	case errors.Is(err, ErrStaleSubmission):
		reason = "stale"
	case errors.Is(err, ErrInvalidCall):
		reason = "invalid_call"
	}
	p.metrics.Rejections.WithLabelValues(reason).Inc()
	p.logger.Debugf("Rejected submission type %d from authority %d: %v", sub.GetType(), sub.AuthorityIndex(), err)
}
