package rivet

import "fmt"

// Bootstrap initializes an engine lazily and exactly once. The first Handle
// call runs Engine.Init and memoizes the result; every later call, including
// calls made while loads triggered by earlier callers are still in flight,
// observes the same handle or the same error. No duplicate startup occurs.
//
// A Bootstrap belongs to one Runtime. It is not a process-wide singleton, so
// tests can run several independently initialized engines in one process.
// (No sync.Once — rivet is single-threaded.)
type Bootstrap struct {
	engine Engine
	inited bool
	err    error
	ready  []func(Engine, error)
}

// NewBootstrap wraps an engine without initializing it.
func NewBootstrap(engine Engine) *Bootstrap {
	return &Bootstrap{engine: engine}
}

// Handle returns the initialized engine, running Init on first call.
// A failed Init is memoized: the engine is never retried and every caller
// receives the same error.
func (b *Bootstrap) Handle() (Engine, error) {
	if !b.inited {
		b.inited = true
		if err := b.engine.Init(); err != nil {
			b.err = fmt.Errorf("rivet: engine init: %w", err)
		}
		for _, fn := range b.ready {
			fn(b.result())
		}
		b.ready = nil
	}
	return b.result()
}

// Ready registers fn to run with the init result. If initialization already
// happened, fn runs immediately; otherwise it runs during the first Handle,
// after Init returns.
func (b *Bootstrap) Ready(fn func(Engine, error)) {
	if b.inited {
		fn(b.result())
		return
	}
	b.ready = append(b.ready, fn)
}

// Initialized reports whether Init has been attempted.
func (b *Bootstrap) Initialized() bool {
	return b.inited
}

func (b *Bootstrap) result() (Engine, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.engine, nil
}
