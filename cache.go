package rivet

// DocumentCache maps source keys to loaded, reference-counted documents so
// that many sprites sharing one animation file parse it once. A document's
// refcount equals the number of live holders that loaded it by key; the
// document is released and evicted only when the count reaches zero.
//
// The cache map is only ever mutated from the host tick thread, so there is
// no locking. Concurrent Load calls for a not-yet-resolved key attach to the
// single in-flight fetch+parse rather than duplicating it.
type DocumentCache struct {
	bootstrap *Bootstrap
	resolver  AssetResolver
	entries   map[string]*cacheEntry
	closed    bool
}

// cacheEntry tracks one keyed document. While pending, waiters holds the
// continuation of every Load issued so far; refs already counts them, so a
// Release arriving before resolution leaves the entry doomed and it is
// evicted the moment the parse completes.
type cacheEntry struct {
	doc     Document
	refs    int
	pending bool
	waiters []func(Document, error)
}

// NewDocumentCache creates a cache resolving keys through resolver and
// parsing through the bootstrap's engine.
func NewDocumentCache(bootstrap *Bootstrap, resolver AssetResolver) *DocumentCache {
	return &DocumentCache{
		bootstrap: bootstrap,
		resolver:  resolver,
		entries:   make(map[string]*cacheEntry),
	}
}

// Load resolves key to a document and calls done with the result. A cached
// key increments its refcount and completes without I/O. An in-flight key
// attaches to the pending load. Otherwise the key is fetched, parsed, and
// inserted with refcount 1.
//
// done may run synchronously (cache hit, or a synchronous resolver) or later
// from the tick thread. Failed loads are never cached; every attached caller
// receives the same error and holds no reference afterward.
func (c *DocumentCache) Load(key string, done func(Document, error)) {
	if c.closed {
		done(nil, errCacheClosed)
		return
	}
	if e, ok := c.entries[key]; ok {
		e.refs++
		if e.pending {
			e.waiters = append(e.waiters, done)
			return
		}
		done(e.doc, nil)
		return
	}

	engine, err := c.bootstrap.Handle()
	if err != nil {
		done(nil, err)
		return
	}

	e := &cacheEntry{refs: 1, pending: true, waiters: []func(Document, error){done}}
	c.entries[key] = e
	c.resolver.Resolve(key, func(data []byte, err error) {
		c.finish(key, e, engine, data, err)
	})
}

// LoadBytes parses an in-memory buffer. Buffer loads are never cached or
// refcounted: the caller owns the parse and must release the document
// itself.
func (c *DocumentCache) LoadBytes(data []byte, done func(Document, error)) {
	if c.closed {
		done(nil, errCacheClosed)
		return
	}
	engine, err := c.bootstrap.Handle()
	if err != nil {
		done(nil, err)
		return
	}
	done(engine.Parse(data))
}

// Release decrements key's refcount, releasing the document and evicting the
// entry at zero. Releasing an unknown key is a no-op. Releasing a still
// pending key is applied once its load resolves.
func (c *DocumentCache) Release(key string) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.pending {
		return
	}
	if e.refs <= 0 {
		delete(c.entries, key)
		e.doc.Release()
	}
}

// finish completes a pending load: parse, notify every attached waiter, then
// settle refcounts. Holders that released while the load was in flight have
// already decremented refs; if nothing is left the document is released
// immediately and the entry evicted.
func (c *DocumentCache) finish(key string, e *cacheEntry, engine Engine, data []byte, err error) {
	var doc Document
	if err == nil {
		doc, err = engine.Parse(data)
	}

	if c.closed {
		// The cache was purged while this load was in flight. Nothing may
		// take ownership now.
		if doc != nil {
			doc.Release()
		}
		for _, done := range e.waiters {
			done(nil, errCacheClosed)
		}
		e.waiters = nil
		return
	}

	waiters := e.waiters
	e.waiters = nil
	e.pending = false

	if err != nil {
		delete(c.entries, key)
		for _, done := range waiters {
			done(nil, err)
		}
		return
	}

	e.doc = doc
	for _, done := range waiters {
		done(doc, nil)
	}
	if e.refs <= 0 {
		delete(c.entries, key)
		doc.Release()
	}
}

// Refs returns key's current refcount, or zero for an uncached key.
func (c *DocumentCache) Refs(key string) int {
	if e, ok := c.entries[key]; ok {
		return e.refs
	}
	return 0
}

// Cached reports whether key has a live (resolved, unreleased) entry.
func (c *DocumentCache) Cached(key string) bool {
	e, ok := c.entries[key]
	return ok && !e.pending
}

// errCacheClosed is delivered to loads still in flight when the cache is
// purged at runtime shutdown.
var errCacheClosed = errorString("rivet: document cache closed")

// errorString is a trivial constant-friendly error type.
type errorString string

func (e errorString) Error() string { return string(e) }

// purge releases every resolved document, fails loads still in flight, and
// clears the map. Runtime shutdown calls this after destroying sprites so
// that leaked holders do not pin native resources.
func (c *DocumentCache) purge() {
	c.closed = true
	for key, e := range c.entries {
		if !e.pending {
			e.doc.Release()
		}
		delete(c.entries, key)
	}
}
