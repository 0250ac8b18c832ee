package rivet

import "testing"

func TestBootstrapInitOnce(t *testing.T) {
	eng := newFakeEngine()
	b := NewBootstrap(eng)

	if b.Initialized() {
		t.Fatalf("initialized before first Handle")
	}
	if eng.initCalls != 0 {
		t.Fatalf("Init ran eagerly")
	}

	for i := 0; i < 3; i++ {
		got, err := b.Handle()
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if got != Engine(eng) {
			t.Fatalf("Handle returned a different engine")
		}
	}
	if eng.initCalls != 1 {
		t.Errorf("initCalls = %d, want 1", eng.initCalls)
	}
	if !b.Initialized() {
		t.Errorf("not marked initialized after Handle")
	}
}

func TestBootstrapReadyCallbacks(t *testing.T) {
	eng := newFakeEngine()
	b := NewBootstrap(eng)

	var order []string
	b.Ready(func(e Engine, err error) {
		if e != Engine(eng) || err != nil {
			t.Errorf("queued callback got (%v, %v)", e, err)
		}
		order = append(order, "queued")
	})
	if len(order) != 0 {
		t.Fatalf("callback ran before init")
	}

	b.Handle()
	if len(order) != 1 {
		t.Fatalf("queued callback did not run on first Handle")
	}

	// Already initialized: fires immediately.
	b.Ready(func(e Engine, err error) { order = append(order, "late") })
	if len(order) != 2 || order[1] != "late" {
		t.Errorf("late callback did not run immediately: %v", order)
	}
}

func TestBootstrapInitErrorSticks(t *testing.T) {
	eng := newFakeEngine()
	eng.initErr = errorString("wasm fetch failed")
	b := NewBootstrap(eng)

	_, err1 := b.Handle()
	_, err2 := b.Handle()
	if err1 == nil || err2 == nil {
		t.Fatalf("errors: %v, %v; want both non-nil", err1, err2)
	}
	if eng.initCalls != 1 {
		t.Errorf("initCalls = %d, want 1 (failure must not retry)", eng.initCalls)
	}
}
