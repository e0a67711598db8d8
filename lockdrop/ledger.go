package lockdrop

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/syndtr/goleveldb/leveldb"
)

var ErrBalanceOverflow = errors.New("account balance overflow")

// Writer stages key/value writes of the running state transition.
type Writer interface {
	Put(key, value []byte)
	Delete(key []byte)
}

// Ledger credits issued tokens to accounts. Writes go through w so they are
// committed together with the claim that caused them.
type Ledger interface {
	Credit(w Writer, account AccountID, amount *uint256.Int) error
}

// BalanceLedger keeps account balances next to the lockdrop state.
type BalanceLedger struct {
	db *leveldb.DB
}

func NewBalanceLedger(db *leveldb.DB) *BalanceLedger {
	return &BalanceLedger{db: db}
}

func (l *BalanceLedger) Balance(account AccountID) (*uint256.Int, error) {
	b, err := l.db.Get(balanceKey(account), nil)
	if err == leveldb.ErrNotFound {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(b), nil
}

func (l *BalanceLedger) Credit(w Writer, account AccountID, amount *uint256.Int) error {
	balance, err := l.Balance(account)
	if err != nil {
		return err
	}
	if _, overflow := balance.AddOverflow(balance, amount); overflow {
		return ErrBalanceOverflow
	}
	b := balance.Bytes32()
	w.Put(balanceKey(account), b[:])
	return nil
}
