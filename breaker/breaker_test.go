package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowPassesWhenClosedAndUnderLossBudget(t *testing.T) {
	b := New(Config{Name: "test", MaxConsecutiveFailures: 3, MaxCumulativeLossMist: 1000, Cooldown: time.Minute})

	assert.NoError(t, b.Allow())
}

func TestExecuteTripsOpenAfterConsecutiveFailures(t *testing.T) {
	b := New(Config{Name: "test", MaxConsecutiveFailures: 2, MaxCumulativeLossMist: 0, Cooldown: time.Minute})
	failing := func() (int64, error) { return 0, errors.New("boom") }

	require.Error(t, b.Execute(failing))
	require.Error(t, b.Execute(failing))

	assert.Equal(t, gobreaker.StateOpen, b.State())
	assert.ErrorIs(t, b.Allow(), gobreaker.ErrOpenState)
}

func TestExecuteTripsOnCumulativeLossBudget(t *testing.T) {
	b := New(Config{Name: "test", MaxConsecutiveFailures: 100, MaxCumulativeLossMist: 100, Cooldown: time.Minute})

	lossy := func() (int64, error) { return -60, nil }
	require.NoError(t, b.Execute(lossy))
	require.NoError(t, b.Execute(lossy))

	err := b.Allow()
	assert.ErrorIs(t, err, ErrCumulativeLossExceeded)
}

func TestExecuteDoesNotAccumulateLossOnProfit(t *testing.T) {
	b := New(Config{Name: "test", MaxConsecutiveFailures: 100, MaxCumulativeLossMist: 100, Cooldown: time.Minute})

	profitable := func() (int64, error) { return 500, nil }
	require.NoError(t, b.Execute(profitable))
	require.NoError(t, b.Execute(profitable))

	assert.NoError(t, b.Allow())
}

func TestResetClearsCumulativeLoss(t *testing.T) {
	b := New(Config{Name: "test", MaxConsecutiveFailures: 100, MaxCumulativeLossMist: 100, Cooldown: time.Minute})
	lossy := func() (int64, error) { return -60, nil }
	require.NoError(t, b.Execute(lossy))
	require.NoError(t, b.Execute(lossy))
	require.ErrorIs(t, b.Allow(), ErrCumulativeLossExceeded)

	b.Reset()

	assert.NoError(t, b.Allow())
}

func TestSuccessRateGaugeTracksOutcomeRatio(t *testing.T) {
	reg := prometheus.NewRegistry()
	b := New(Config{Name: "test", MaxConsecutiveFailures: 100, MaxCumulativeLossMist: 0, Cooldown: time.Minute, Registerer: reg})

	ok := func() (int64, error) { return 10, nil }
	fail := func() (int64, error) { return 0, errors.New("boom") }

	require.NoError(t, b.Execute(ok))
	require.NoError(t, b.Execute(ok))
	require.Error(t, b.Execute(fail))

	assert.InDelta(t, 2.0/3.0, gaugeValue(b.successRate), 0.0001)
}

func gaugeValue(g prometheus.Gauge) float64 {
	ch := make(chan prometheus.Metric, 1)
	g.(prometheus.Collector).Collect(ch)
	metric := <-ch
	m := &dto.Metric{}
	if err := metric.Write(m); err != nil || m.Gauge == nil {
		return 0
	}
	return m.Gauge.GetValue()
}

func TestZeroMaxCumulativeLossDisablesLossTrip(t *testing.T) {
	b := New(Config{Name: "test", MaxConsecutiveFailures: 100, MaxCumulativeLossMist: 0, Cooldown: time.Minute})
	lossy := func() (int64, error) { return -1_000_000, nil }

	require.NoError(t, b.Execute(lossy))

	assert.NoError(t, b.Allow())
}
