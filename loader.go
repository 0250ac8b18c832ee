package rivet

import "log"

// Loader glue: teaches a host asset pipeline to recognize the engine's file
// extension, buffer the fetched bytes, and hand them to the document cache
// without a second fetch.

// LoaderPriority is the priority loaders register at. High, so the animation
// parser claims its extension ahead of generic binary handlers.
const LoaderPriority = 100

// AssetPipeline is the host loader registry contract. Hosts with a
// pluggable asset pipeline implement this; the parse callback runs when the
// pipeline has fetched an asset whose extension matched.
type AssetPipeline interface {
	RegisterParser(extension string, priority int, parse func(key string, data []byte) (any, error))
}

// Loader buffers pipeline-fetched document bytes by key, so a later
// DocumentCache load for the same key parses the buffered bytes instead of
// fetching again. It wraps the runtime's resolver; keys the pipeline never
// touched fall through unchanged.
type Loader struct {
	fallback AssetResolver
	buffered map[string][]byte
}

// RegisterLoader registers a high-priority parser for every extension the
// runtime's engine declares, and splices the returned Loader in front of the
// runtime's resolver. Call once per runtime, before creating sprites for
// pipeline-managed assets.
func RegisterLoader(p AssetPipeline, rt *Runtime) *Loader {
	l := &Loader{
		fallback: rt.resolver,
		buffered: make(map[string][]byte),
	}
	rt.resolver = l
	rt.cache.resolver = l

	engine, err := rt.Engine()
	if err != nil {
		log.Printf("rivet: loader registration: %v", err)
		return l
	}
	for _, ext := range engine.FileExtensions() {
		p.RegisterParser(ext, LoaderPriority, func(key string, data []byte) (any, error) {
			l.buffered[key] = data
			return data, nil
		})
	}
	return l
}

// Resolve serves buffered bytes for keys the pipeline fetched, consuming the
// buffer, and falls back to the underlying resolver otherwise.
func (l *Loader) Resolve(key string, deliver func(data []byte, err error)) {
	if data, ok := l.buffered[key]; ok {
		delete(l.buffered, key)
		deliver(data, nil)
		return
	}
	l.fallback.Resolve(key, deliver)
}
