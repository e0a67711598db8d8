package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.Submissions.WithLabelValues("vote", "ok").Inc()
	m.Blocks.Add(2)
	require.Equal(t, float64(1), testutil.ToFloat64(m.Submissions.WithLabelValues("vote", "ok")))
	require.Equal(t, float64(2), testutil.ToFloat64(m.Blocks))

	_, err = New(reg)
	require.Error(t, err)
}
