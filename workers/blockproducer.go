package workers

import (
	"fmt"
	"time"
)

// BlockExecutor runs one block of the chain.
type BlockExecutor interface {
	ExecuteBlock(now time.Time) error
}

// BlockProducer drives a devnet chain at a fixed block time.
type BlockProducer struct {
	WorkerAbs
	executor BlockExecutor
	clock    func() time.Time
}

func (b *BlockProducer) Init(id int, name string, freq int, network string, alertURL string, executor BlockExecutor) error {
	if err := b.WorkerAbs.Init(id, name, freq, network, alertURL); err != nil {
		return err
	}
	if executor == nil {
		return fmt.Errorf("worker %s: missing block executor", name)
	}
	b.executor = executor
	b.clock = time.Now
	return nil
}

func (b *BlockProducer) Execute() {
	if err := b.executor.ExecuteBlock(b.clock()); err != nil {
		b.ExportErrorLog(fmt.Sprintf("Could not execute block - with err: %v", err))
	}
}
