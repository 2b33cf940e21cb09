package session

import (
	"fmt"
	"sync"
)

// fakeInventory is an in-memory Inventory for tests. Mutations are recorded
// as "op:windowID" strings; ops listed in fail return a canned error.
type fakeInventory struct {
	mu       sync.Mutex
	windows  []WindowRecord
	ops      []string
	fail     map[string]error
	metadata map[WindowID]string
}

func newFakeInventory(windows ...WindowRecord) *fakeInventory {
	return &fakeInventory{
		windows:  windows,
		fail:     make(map[string]error),
		metadata: make(map[WindowID]string),
	}
}

func (f *fakeInventory) ListWindows() ([]WindowRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]WindowRecord, len(f.windows))
	copy(out, f.windows)
	return out, nil
}

func (f *fakeInventory) addWindow(w WindowRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append(f.windows, w)
}

func (f *fakeInventory) apply(op string, id WindowID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, fmt.Sprintf("%s:%d", op, id))
	if err, ok := f.fail[op]; ok {
		return err
	}
	return nil
}

func (f *fakeInventory) SetDesktop(id WindowID, desktop int) error {
	return f.apply("desktop", id)
}

func (f *fakeInventory) SetGeometry(id WindowID, width, height int) error {
	return f.apply("geometry", id)
}

func (f *fakeInventory) SetPosition(id WindowID, x, y int) error {
	return f.apply("position", id)
}

func (f *fakeInventory) Focus(id WindowID) error {
	return f.apply("focus", id)
}

func (f *fakeInventory) SetMetadata(id WindowID, data string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadata[id] = data
	return nil
}

func (f *fakeInventory) recordedOps() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.ops))
	copy(out, f.ops)
	return out
}
