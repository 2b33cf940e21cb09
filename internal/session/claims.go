package session

import (
	"context"
	"sync"
	"time"
)

// claimSet is the only mutable state shared across concurrent correlation
// tasks. The mutex serializes "filter, select, record" so no window is ever
// bound twice and no spec holds more than one claim.
type claimSet struct {
	mu       sync.Mutex
	byWindow map[WindowID]int
	bySpec   map[int]Claim
}

func newClaimSet() *claimSet {
	return &claimSet{
		byWindow: make(map[WindowID]int),
		bySpec:   make(map[int]Claim),
	}
}

// tryClaim inspects one inventory snapshot for a spec: claimed windows are
// filtered out, the remainder is filtered through the hint matcher, and the
// lowest window ID among the candidates wins the tie-break. On success the
// claim is recorded atomically.
func (cs *claimSet) tryClaim(specIndex int, records []WindowRecord, hints []compiledHint, method HintMethod) (Claim, bool) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if claim, ok := cs.bySpec[specIndex]; ok {
		return claim, true
	}

	found := false
	var best WindowID
	for _, record := range records {
		if _, claimed := cs.byWindow[record.ID]; claimed {
			continue
		}
		if !matches(record, hints, method) {
			continue
		}
		if !found || record.ID < best {
			found = true
			best = record.ID
		}
	}
	if !found {
		return Claim{}, false
	}

	claim := Claim{SpecIndex: specIndex, Window: best, At: time.Now()}
	cs.byWindow[best] = specIndex
	cs.bySpec[specIndex] = claim
	return claim, true
}

// resolver drives correlation for one load.
type resolver struct {
	inventory Inventory
	claims    *claimSet
	opts      Options
	debugf    func(format string, args ...any)
}

// resolve polls the inventory until the spec claims a window or its timeout
// elapses. The timeout clock starts when polling starts, which for hint-less
// specs is after their gate opens. Cancellation is observed between poll
// rounds; a cancelled spec is reported as timed out.
func (r *resolver) resolve(ctx context.Context, specIndex int, spec WindowSpec, hints []compiledHint) (Claim, error) {
	timeout := r.opts.Timeout
	if spec.Timeout > 0 {
		timeout = spec.Timeout
	}
	deadline := time.Now().Add(timeout)

	ticker := time.NewTicker(r.opts.PollInterval)
	defer ticker.Stop()

	for round := 1; ; round++ {
		records, err := r.inventory.ListWindows()
		if err != nil {
			if r.debugf != nil {
				r.debugf("window %q: round %d: inventory snapshot failed: %v", spec.Name, round, err)
			}
		} else if claim, ok := r.claims.tryClaim(specIndex, records, hints, spec.HintMethod); ok {
			if r.debugf != nil {
				r.debugf("window %q: claimed 0x%08x after %d round(s)", spec.Name, uint32(claim.Window), round)
			}
			return claim, nil
		}

		if time.Now().After(deadline) {
			return Claim{}, &CorrelationTimeoutError{Window: spec.Name, Timeout: timeout}
		}

		select {
		case <-ctx.Done():
			return Claim{}, &CorrelationTimeoutError{Window: spec.Name, Timeout: timeout}
		case <-ticker.C:
		}
	}
}
