package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

const loadDebugEnv = "XSESSIONP_DEBUG_LOAD"

func loadDebugEnabled() bool {
	v := strings.TrimSpace(os.Getenv(loadDebugEnv))
	if v == "" {
		return false
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func newLoadDebugf() func(format string, args ...any) {
	if !loadDebugEnabled() {
		return nil
	}
	return func(format string, args ...any) {
		log.Printf("session: debug: "+format, args...)
	}
}

// windowMetadata is stamped onto claimed windows as the _XSESSIONP_METADATA
// property so managed windows can be found again by list/close commands.
type windowMetadata struct {
	Name      string `json:"name"`
	WindowID  uint32 `json:"window_id"`
	ClaimedAt string `json:"claimed_at"`
}

// Load runs one full session load: it launches every spec, correlates each
// with the window its process creates, and applies placement per claim. It
// returns one outcome per spec, in spec order.
//
// Hint compilation happens before anything is spawned; a ConfigurationError
// fails the whole load with a nil outcome slice. Every other failure is
// scoped to its spec: the load always completes and reports per-spec results.
func Load(ctx context.Context, inv Inventory, specs []WindowSpec, opts Options) ([]Outcome, error) {
	if inv == nil {
		return nil, fmt.Errorf("inventory is nil")
	}
	opts = opts.withDefaults()
	debugf := newLoadDebugf()

	// Fail fast on configuration errors, nothing launched.
	compiled := make([][]compiledHint, len(specs))
	for i, spec := range specs {
		hints, err := compileHints(spec)
		if err != nil {
			return nil, err
		}
		compiled[i] = hints
	}

	if debugf != nil {
		debugf("Load start specs=%d poll=%s timeout=%s deadline=%s grace=%s fanout=%d",
			len(specs), opts.PollInterval, opts.Timeout, opts.Deadline, opts.HintlessGrace, opts.MaxConcurrent)
	}

	outcomes := make([]Outcome, len(specs))
	handles := make([]*processHandle, len(specs))
	for i, spec := range specs {
		outcomes[i] = Outcome{Window: spec.Name, State: StatePending}

		handle, err := launchWindow(spec)
		if err != nil {
			outcomes[i].State = StateLaunchFailed
			outcomes[i].Errors = append(outcomes[i].Errors, &LaunchError{Window: spec.Name, Err: err})
			if debugf != nil {
				debugf("window %q: launch failed: %v", spec.Name, err)
			}
			continue
		}
		handles[i] = handle
		outcomes[i].State = StateLaunched
		if debugf != nil {
			debugf("window %q: launched pid=%d cmd=%q", spec.Name, handle.cmd.Process.Pid, ShellJoin(spec.Command))
		}
	}

	if opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Deadline)
		defer cancel()
	}

	res := &resolver{inventory: inv, claims: newClaimSet(), opts: opts, debugf: debugf}

	// Hint-less specs are gated so they cannot steal a window intended for a
	// stricter spec: they start polling once every hinted spec has concluded
	// or the grace period elapses, whichever comes first. The full hinted
	// count is registered before the Wait goroutine starts; Add and Wait on a
	// zero counter must not race.
	var hinted sync.WaitGroup
	for i := range specs {
		if outcomes[i].State == StateLaunched && len(compiled[i]) > 0 {
			hinted.Add(1)
		}
	}

	hintedDone := make(chan struct{})
	hintlessGate := make(chan struct{})
	go func() {
		hinted.Wait()
		close(hintedDone)
	}()
	go func() {
		timer := time.NewTimer(opts.HintlessGrace)
		defer timer.Stop()
		select {
		case <-hintedDone:
		case <-timer.C:
		case <-ctx.Done():
		}
		close(hintlessGate)
	}()

	sem := make(chan struct{}, opts.MaxConcurrent)

	var wg sync.WaitGroup
	for i := range specs {
		if outcomes[i].State != StateLaunched {
			continue
		}
		wg.Add(1)
		go func(i int, spec WindowSpec, hints []compiledHint, handle *processHandle) {
			defer wg.Done()
			outcome := &outcomes[i]

			if len(hints) == 0 {
				<-hintlessGate
			} else {
				defer hinted.Done()
			}

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				outcome.State = StateUnresolved
				outcome.Errors = append(outcome.Errors, &CorrelationTimeoutError{Window: spec.Name, Timeout: opts.Timeout})
				return
			}

			claim, err := res.resolve(ctx, i, spec, hints)
			if err != nil {
				outcome.State = StateUnresolved
				outcome.Errors = append(outcome.Errors, err)
				if exited, exitErr := handle.Exited(); exited {
					if exitErr != nil {
						outcome.Errors = append(outcome.Errors, fmt.Errorf("process exited before a window was claimed: %w", exitErr))
					} else {
						outcome.Errors = append(outcome.Errors, fmt.Errorf("process exited cleanly before a window was claimed"))
					}
				}
				return
			}

			outcome.State = StateClaimed
			outcome.WindowID = claim.Window

			if mw, ok := inv.(MetadataWriter); ok {
				data, merr := json.Marshal(windowMetadata{
					Name:      spec.Name,
					WindowID:  uint32(claim.Window),
					ClaimedAt: claim.At.UTC().Format(time.RFC3339),
				})
				if merr == nil {
					merr = mw.SetMetadata(claim.Window, string(data))
				}
				if merr != nil && debugf != nil {
					debugf("window %q: metadata stamp failed: %v", spec.Name, merr)
				}
			}

			outcome.Errors = append(outcome.Errors, applyPlacement(inv, spec, claim.Window)...)
			outcome.State = StatePlaced
			if debugf != nil {
				debugf("window %q: placed 0x%08x (%d placement error(s))", spec.Name, uint32(claim.Window), len(outcome.Errors))
			}
		}(i, specs[i], compiled[i], handles[i])
	}

	wg.Wait()
	if debugf != nil {
		debugf("Load complete")
	}
	return outcomes, nil
}
