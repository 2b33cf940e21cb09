package session

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func intPtr(i int) *int { return &i }

func TestApplyPlacementOrder(t *testing.T) {
	inv := newFakeInventory()
	spec := WindowSpec{
		Name:     "w",
		Desktop:  intPtr(1),
		Geometry: &Geometry{Width: 800, Height: 600},
		Position: &Point{X: 10, Y: 20},
		Focus:    true,
	}

	errs := applyPlacement(inv, spec, 7)
	if len(errs) != 0 {
		t.Fatalf("unexpected placement errors: %v", errs)
	}

	want := []string{"desktop:7", "geometry:7", "position:7", "focus:7"}
	if got := inv.recordedOps(); !reflect.DeepEqual(got, want) {
		t.Errorf("placement order = %v, want %v", got, want)
	}
}

func TestApplyPlacementSkipsUnsetFields(t *testing.T) {
	inv := newFakeInventory()
	spec := WindowSpec{Name: "w", Position: &Point{X: 5, Y: 5}}

	if errs := applyPlacement(inv, spec, 3); len(errs) != 0 {
		t.Fatalf("unexpected placement errors: %v", errs)
	}
	want := []string{"position:3"}
	if got := inv.recordedOps(); !reflect.DeepEqual(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

func TestApplyPlacementBestEffort(t *testing.T) {
	inv := newFakeInventory()
	inv.fail["geometry"] = fmt.Errorf("window gone")
	spec := WindowSpec{
		Name:     "w",
		Desktop:  intPtr(2),
		Geometry: &Geometry{Width: 100, Height: 100},
		Position: &Point{X: 1, Y: 1},
		Focus:    true,
	}

	errs := applyPlacement(inv, spec, 9)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	var placeErr *PlacementError
	if !errors.As(errs[0], &placeErr) {
		t.Fatalf("expected *PlacementError, got %T", errs[0])
	}
	if placeErr.Op != "geometry" {
		t.Errorf("failed op = %q, want %q", placeErr.Op, "geometry")
	}

	// Failure of geometry must not prevent position and focus.
	want := []string{"desktop:9", "geometry:9", "position:9", "focus:9"}
	if got := inv.recordedOps(); !reflect.DeepEqual(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}

// Re-applying placement after a failed step yields the same final operations
// against a fixed inventory state.
func TestApplyPlacementRetryIdempotent(t *testing.T) {
	inv := newFakeInventory()
	inv.fail["position"] = fmt.Errorf("rejected")
	spec := WindowSpec{Name: "w", Geometry: &Geometry{Width: 1, Height: 1}, Position: &Point{X: 0, Y: 0}}

	first := applyPlacement(inv, spec, 4)
	second := applyPlacement(inv, spec, 4)
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("error counts = %d, %d; want 1, 1", len(first), len(second))
	}

	want := []string{"geometry:4", "position:4", "geometry:4", "position:4"}
	if got := inv.recordedOps(); !reflect.DeepEqual(got, want) {
		t.Errorf("ops = %v, want %v", got, want)
	}
}
