package rivet

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// AssetResolver turns a source key (URL, path, or alias) into raw file bytes.
// Resolve either calls deliver synchronously before returning, or arranges
// for it to be called later from the host tick thread (see AsyncResolver).
// A resolver never calls deliver twice for one Resolve.
type AssetResolver interface {
	Resolve(key string, deliver func(data []byte, err error))
}

// FileResolver reads keys as file paths relative to Root ("" means the
// working directory). Delivery is synchronous.
type FileResolver struct {
	Root string
}

// Resolve reads the file and delivers its bytes immediately.
func (f FileResolver) Resolve(key string, deliver func(data []byte, err error)) {
	data, err := os.ReadFile(filepath.Join(f.Root, key))
	if err != nil {
		deliver(nil, fmt.Errorf("rivet: read asset %q: %w", key, err))
		return
	}
	deliver(data, nil)
}

// HTTPResolver fetches keys as URLs. Delivery is synchronous; wrap in an
// AsyncResolver to keep network waits off the tick thread.
type HTTPResolver struct {
	// Client to fetch with. Nil uses http.DefaultClient.
	Client *http.Client
}

// Resolve issues a GET for the key and delivers the response body.
func (h HTTPResolver) Resolve(key string, deliver func(data []byte, err error)) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(key)
	if err != nil {
		deliver(nil, fmt.Errorf("rivet: fetch asset %q: %w", key, err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		deliver(nil, fmt.Errorf("rivet: fetch asset %q: status %s", key, resp.Status))
		return
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		deliver(nil, fmt.Errorf("rivet: fetch asset %q: %w", key, err))
		return
	}
	deliver(data, nil)
}

// AsyncResolver runs an inner resolver on its own goroutine and holds
// completed deliveries until Pump is called from the tick thread. This is
// the only place rivet touches another goroutine: the continuation always
// resumes on the thread that pumps, so the document cache's map is still
// mutated single-threaded.
type AsyncResolver struct {
	inner   AssetResolver
	pending chan func()
}

// NewAsyncResolver wraps inner. The queue holds up to 64 undelivered
// completions; more block their fetch goroutines until pumped.
func NewAsyncResolver(inner AssetResolver) *AsyncResolver {
	return &AsyncResolver{
		inner:   inner,
		pending: make(chan func(), 64),
	}
}

// Resolve starts the fetch in the background and queues its delivery.
func (r *AsyncResolver) Resolve(key string, deliver func(data []byte, err error)) {
	go r.inner.Resolve(key, func(data []byte, err error) {
		r.pending <- func() { deliver(data, err) }
	})
}

// Pump runs every completion queued so far. Runtime.Tick calls this before
// advancing the scheduler.
func (r *AsyncResolver) Pump() {
	for {
		select {
		case fn := <-r.pending:
			fn()
		default:
			return
		}
	}
}
