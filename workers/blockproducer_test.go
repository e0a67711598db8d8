package workers

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingExecutor struct {
	blocks []time.Time
	err    error
}

func (e *countingExecutor) ExecuteBlock(now time.Time) error {
	e.blocks = append(e.blocks, now)
	return e.err
}

func TestBlockProducer(t *testing.T) {
	executor := &countingExecutor{}
	b := &BlockProducer{}
	require.NoError(t, b.Init(BlockProducerID, "Block Producer", 6, "devnet", "", executor))

	now := time.Unix(1000, 0)
	b.clock = func() time.Time { return now }
	b.Execute()
	executor.err = errors.New("disk full")
	b.Execute()
	require.Equal(t, []time.Time{now, now}, executor.blocks)

	require.Error(t, (&BlockProducer{}).Init(BlockProducerID, "Block Producer", 6, "devnet", "", nil))
	require.Error(t, (&BlockProducer{}).Init(BlockProducerID, "Block Producer", 0, "devnet", "", executor))
}
