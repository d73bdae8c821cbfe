package venue

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rvasquez-dev/suiarb/types"
)

// FlashSourceSelector picks which venue supplies the flash-borrow leg of
// a two-hop composition when more than one candidate pool exists for the
// same asset. Adapted from the teacher's flashloan/manager.go
// FlashLoanManager: a mutex-protected candidate list plus Prometheus
// counters, "select the provider with the lowest fee" — here the
// candidates are venue pools rather than lending protocols, and the
// selection criterion is lowest fee-bps among pools that
// SupportsFlashSwap for the requested asset pair.
type FlashSourceSelector struct {
	mu sync.RWMutex

	selections *prometheus.CounterVec
	errors     *prometheus.CounterVec
}

func NewFlashSourceSelector(reg prometheus.Registerer) *FlashSourceSelector {
	s := &FlashSourceSelector{
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suiarb",
			Subsystem: "flashsource",
			Name:      "selections_total",
			Help:      "Count of flash-source selections by venue.",
		}, []string{"venue"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "suiarb",
			Subsystem: "flashsource",
			Name:      "errors_total",
			Help:      "Count of flash-source selection failures by reason.",
		}, []string{"reason"}),
	}
	if reg != nil {
		reg.MustRegister(s.selections, s.errors)
	}
	return s
}

// SelectOptimal returns the lowest-fee pool among candidates that
// supports flash swaps, or an error if none qualify.
func (s *FlashSourceSelector) SelectOptimal(candidates []*types.PoolSnapshot) (*types.PoolSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *types.PoolSnapshot
	var bestFee uint64
	for _, c := range candidates {
		if !c.SupportsFlashSwap() {
			continue
		}
		fee := uint64(30)
		if c.FeeRateBps != nil {
			fee = *c.FeeRateBps
		}
		if best == nil || fee < bestFee {
			best, bestFee = c, fee
		}
	}
	if best == nil {
		s.errors.WithLabelValues("no_flash_capable_candidate").Inc()
		return nil, fmt.Errorf("flashsource: no candidate pool supports flash swap")
	}
	s.selections.WithLabelValues(best.Dex.String()).Inc()
	return best, nil
}
