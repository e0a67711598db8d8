package lockdrop

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/syndtr/goleveldb/leveldb"
)

// Module owns the lockdrop state. State transitions are serialized and each
// one is committed as a single leveldb batch.
type Module struct {
	*View

	mu     sync.Mutex
	db     *leveldb.DB
	params Params
	ledger Ledger
	logger *logrus.Entry

	height uint64
	now    time.Time

	listeners []func(Event)
}

func New(db *leveldb.DB, params Params, ledger Ledger, logger *logrus.Entry) (*Module, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid lockdrop params: %w", err)
	}
	if ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if logger == nil {
		logger = logrus.WithFields(logrus.Fields{"component": "lockdrop"})
	}
	m := &Module{
		View:   &View{r: db},
		db:     db,
		params: params,
		ledger: ledger,
		logger: logger,
	}
	height, err := m.View.Height()
	if err != nil {
		return nil, err
	}
	m.height = height
	return m, nil
}

func (m *Module) Params() Params {
	return m.params
}

// Snapshot returns a consistent read view that does not block writers.
func (m *Module) Snapshot() (*Snapshot, error) {
	snap, err := m.db.GetSnapshot()
	if err != nil {
		return nil, err
	}
	return &Snapshot{View: &View{r: snap}, snap: snap}, nil
}

// Subscribe registers fn to receive every committed event.
func (m *Module) Subscribe(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// InitGenesis writes the initial authorities and dollar rate. It is a no-op
// once the chain has been initialized.
func (m *Module) InitGenesis(genesis Genesis) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	initialized, err := m.db.Has(keyAuthorities, nil)
	if err != nil {
		return err
	}
	if initialized {
		return nil
	}
	if len(genesis.Authorities) > math.MaxUint16+1 {
		return ErrTooManyAuthorities
	}

	tx, err := m.begin()
	if err != nil {
		return err
	}
	authorities := append([]AuthorityID{}, genesis.Authorities...)
	if err := tx.put(keyAuthorities, authorities); err != nil {
		return err
	}
	if err := tx.put(keyDollarRate, genesis.DollarRate); err != nil {
		return err
	}
	if err := tx.put(keyPending, []ClaimID{}); err != nil {
		return err
	}
	return tx.commit()
}

// BeginBlock starts a new block: the pending request list is cleared and the
// block time becomes the clock used by the oracle and lockdrop end check.
func (m *Module) BeginBlock(height uint64, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx, err := m.begin()
	if err != nil {
		return err
	}
	tx.batch.Put(keyHeight, uint64Bytes(height))
	if err := tx.put(keyPending, []ClaimID{}); err != nil {
		return err
	}
	if err := tx.commit(); err != nil {
		return err
	}
	m.height = height
	m.now = now
	return nil
}

// blockTime is the unix time of the current block, 0 before the first block.
func (m *Module) blockTime() uint64 {
	if m.now.IsZero() || m.now.Unix() < 0 {
		return 0
	}
	return uint64(m.now.Unix())
}

// ReplaceAuthorities installs a new authority list. Votes already cast stay
// recorded under the previous identities.
func (m *Module) ReplaceAuthorities(authorities []AuthorityID) error {
	if len(authorities) > math.MaxUint16+1 {
		return ErrTooManyAuthorities
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx, err := m.begin()
	if err != nil {
		return err
	}
	list := append([]AuthorityID{}, authorities...)
	if err := tx.put(keyAuthorities, list); err != nil {
		return err
	}
	tx.emit(Event{Kind: EventNewAuthorities, Authorities: list})
	return tx.commit()
}

// txn collects the writes and events of one state transition.
type txn struct {
	m      *Module
	batch  *leveldb.Batch
	seq    uint64
	events []Event
}

func (m *Module) begin() (*txn, error) {
	seq, err := m.View.eventSeq()
	if err != nil {
		return nil, err
	}
	return &txn{m: m, batch: new(leveldb.Batch), seq: seq}, nil
}

func (tx *txn) put(key []byte, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	tx.batch.Put(key, b)
	return nil
}

// Put and Delete let a Ledger stage writes in the same batch.
func (tx *txn) Put(key, value []byte) { tx.batch.Put(key, value) }

func (tx *txn) Delete(key []byte) { tx.batch.Delete(key) }

func (tx *txn) emit(ev Event) {
	ev.Seq = tx.seq
	ev.Height = tx.m.height
	tx.seq++
	tx.events = append(tx.events, ev)
}

func (tx *txn) commit() error {
	for _, ev := range tx.events {
		if err := tx.put(eventKey(ev.Seq), ev); err != nil {
			return err
		}
	}
	if len(tx.events) > 0 {
		tx.batch.Put(keyEventSeq, uint64Bytes(tx.seq))
	}
	if err := tx.m.db.Write(tx.batch, nil); err != nil {
		return fmt.Errorf("could not commit lockdrop state: %w", err)
	}
	for _, ev := range tx.events {
		tx.m.logger.WithFields(logrus.Fields{"seq": ev.Seq, "height": ev.Height}).Infof("event %s", ev.Kind)
		for _, fn := range tx.m.listeners {
			fn(ev)
		}
	}
	return nil
}
