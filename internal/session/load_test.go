package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func testSpec(name string, hints map[string]string) WindowSpec {
	return WindowSpec{
		Name:            name,
		Command:         []string{"true"},
		CopyEnvironment: true,
		Hints:           hints,
		HintMethod:      HintMethodAnd,
	}
}

func TestLoadClaimsAndPlaces(t *testing.T) {
	inv := newFakeInventory(
		WindowRecord{ID: 100, Name: "Unrelated"},
		WindowRecord{ID: 200, Name: "Foo"},
	)

	spec := testSpec("app", map[string]string{"name": "^Foo$"})
	spec.Desktop = intPtr(1)
	spec.Geometry = &Geometry{Width: 640, Height: 480}
	spec.Focus = true

	outcomes, err := Load(context.Background(), inv, []WindowSpec{spec}, fastOptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(outcomes))
	}

	out := outcomes[0]
	if out.State != StatePlaced {
		t.Fatalf("state = %s, want PLACED (errors: %v)", out.State, out.Errors)
	}
	if out.WindowID != 200 {
		t.Errorf("claimed 0x%x, want 0xc8", uint32(out.WindowID))
	}
	if len(out.Errors) != 0 {
		t.Errorf("unexpected errors: %v", out.Errors)
	}
	if _, ok := inv.metadata[200]; !ok {
		t.Error("claimed window was not stamped with metadata")
	}
}

func TestLoadConfigurationErrorFailsFast(t *testing.T) {
	specs := []WindowSpec{
		testSpec("good", map[string]string{"name": "Foo"}),
		testSpec("bad", map[string]string{"bogus-attr": ".*"}),
	}

	outcomes, err := Load(context.Background(), newFakeInventory(), specs, fastOptions())
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigurationError, got %T: %v", err, err)
	}
	if outcomes != nil {
		t.Errorf("expected no outcomes on configuration error, got %v", outcomes)
	}
}

func TestLoadContendingSpecsOneWindow(t *testing.T) {
	inv := newFakeInventory(WindowRecord{ID: 50, Name: "Foo"})
	specs := []WindowSpec{
		testSpec("first", map[string]string{"name": "^Foo$"}),
		testSpec("second", map[string]string{"name": "^Foo$"}),
	}
	for i := range specs {
		specs[i].Timeout = 50 * time.Millisecond
	}

	outcomes, err := Load(context.Background(), inv, specs, fastOptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	placed, unresolved := 0, 0
	for _, out := range outcomes {
		switch out.State {
		case StatePlaced:
			placed++
			if out.WindowID != 50 {
				t.Errorf("window %q claimed 0x%x, want 0x32", out.Window, uint32(out.WindowID))
			}
		case StateUnresolved:
			unresolved++
			var timeoutErr *CorrelationTimeoutError
			if len(out.Errors) == 0 || !errors.As(out.Errors[0], &timeoutErr) {
				t.Errorf("window %q: expected timeout error, got %v", out.Window, out.Errors)
			}
		default:
			t.Errorf("window %q: unexpected state %s", out.Window, out.State)
		}
	}
	if placed != 1 || unresolved != 1 {
		t.Errorf("placed=%d unresolved=%d, want 1 and 1", placed, unresolved)
	}
}

func TestLoadLaunchFailureIsIsolated(t *testing.T) {
	inv := newFakeInventory(WindowRecord{ID: 1, Name: "Foo"})
	broken := testSpec("broken", map[string]string{"name": "Bar"})
	broken.Command = []string{"/nonexistent/xsessionp-test-binary"}
	working := testSpec("working", map[string]string{"name": "^Foo$"})

	outcomes, err := Load(context.Background(), inv, []WindowSpec{broken, working}, fastOptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if outcomes[0].State != StateLaunchFailed {
		t.Errorf("broken spec state = %s, want LAUNCH_FAILED", outcomes[0].State)
	}
	var launchErr *LaunchError
	if len(outcomes[0].Errors) == 0 || !errors.As(outcomes[0].Errors[0], &launchErr) {
		t.Errorf("broken spec errors = %v, want a *LaunchError", outcomes[0].Errors)
	}
	if outcomes[1].State != StatePlaced {
		t.Errorf("working spec state = %s, want PLACED", outcomes[1].State)
	}
}

func TestLoadHintlessDefersToHintedSpecs(t *testing.T) {
	inv := newFakeInventory(
		WindowRecord{ID: 10, Name: "Foo"},
		WindowRecord{ID: 20, Name: "Bar"},
	)
	hinted := testSpec("hinted", map[string]string{"name": "^Foo$"})
	hintless := testSpec("hintless", nil)

	// Hint-less spec listed first to prove ordering comes from the gate, not
	// from slice position. The long grace forces the gate to open via hinted
	// conclusion rather than the timer.
	opts := fastOptions()
	opts.HintlessGrace = 2 * time.Second

	outcomes, err := Load(context.Background(), inv, []WindowSpec{hintless, hinted}, opts)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if outcomes[1].State != StatePlaced || outcomes[1].WindowID != 10 {
		t.Fatalf("hinted spec = %s on 0x%x, want PLACED on 0xa", outcomes[1].State, uint32(outcomes[1].WindowID))
	}
	if outcomes[0].State != StatePlaced || outcomes[0].WindowID != 20 {
		t.Fatalf("hint-less spec = %s on 0x%x, want PLACED on 0x14 (the remaining window)", outcomes[0].State, uint32(outcomes[0].WindowID))
	}
}

// The hinted-spec count must be registered on the gate before anything waits
// on it; otherwise the gate can open early and a hint-less spec steals a
// window a hinted spec would have claimed. Repeated loads shake out ordering
// mistakes that a single run can miss.
func TestLoadHintlessNeverStealsHintedWindow(t *testing.T) {
	for i := 0; i < 25; i++ {
		inv := newFakeInventory(
			WindowRecord{ID: 10, Name: "Foo"},
			WindowRecord{ID: 20, Name: "Bar"},
		)
		hinted := testSpec("hinted", map[string]string{"name": "^Foo$"})
		hintless := testSpec("hintless", nil)

		opts := fastOptions()
		opts.HintlessGrace = 2 * time.Second

		outcomes, err := Load(context.Background(), inv, []WindowSpec{hintless, hinted}, opts)
		if err != nil {
			t.Fatalf("iteration %d: Load failed: %v", i, err)
		}
		if outcomes[1].WindowID != 10 {
			t.Fatalf("iteration %d: hinted spec claimed 0x%x, want 0xa", i, uint32(outcomes[1].WindowID))
		}
		if outcomes[0].WindowID != 20 {
			t.Fatalf("iteration %d: hint-less spec claimed 0x%x, want 0x14", i, uint32(outcomes[0].WindowID))
		}
	}
}

func TestLoadHintlessDeterministicTieBreak(t *testing.T) {
	inv := newFakeInventory(
		WindowRecord{ID: 300, Name: "B"},
		WindowRecord{ID: 100, Name: "A"},
	)
	outcomes, err := Load(context.Background(), inv, []WindowSpec{testSpec("hintless", nil)}, fastOptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if outcomes[0].State != StatePlaced || outcomes[0].WindowID != 100 {
		t.Errorf("hint-less spec = %s on 0x%x, want PLACED on lowest ID 0x64", outcomes[0].State, uint32(outcomes[0].WindowID))
	}
}

func TestLoadUnresolvedReportsProcessExit(t *testing.T) {
	inv := newFakeInventory() // nothing will ever match
	spec := testSpec("ghost", map[string]string{"name": "^NeverAppears$"})
	// Long enough for the spawned "true" to have exited before correlation
	// gives up, so the outcome carries the exit note.
	spec.Timeout = 500 * time.Millisecond

	outcomes, err := Load(context.Background(), inv, []WindowSpec{spec}, fastOptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	out := outcomes[0]
	if out.State != StateUnresolved {
		t.Fatalf("state = %s, want UNRESOLVED", out.State)
	}

	foundExitNote := false
	for _, e := range out.Errors {
		if strings.Contains(e.Error(), "process exited") {
			foundExitNote = true
		}
	}
	if !foundExitNote {
		t.Errorf("expected a process-exit note in errors, got %v", out.Errors)
	}
}

func TestLoadOverallDeadline(t *testing.T) {
	inv := newFakeInventory()
	spec := testSpec("slow", map[string]string{"name": "^NeverAppears$"})
	spec.Timeout = time.Hour

	opts := fastOptions()
	opts.Deadline = 50 * time.Millisecond

	start := time.Now()
	outcomes, err := Load(context.Background(), inv, []WindowSpec{spec}, opts)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("deadline not honored: load took %s", elapsed)
	}
	if outcomes[0].State != StateUnresolved {
		t.Errorf("state = %s, want UNRESOLVED after deadline", outcomes[0].State)
	}
}
