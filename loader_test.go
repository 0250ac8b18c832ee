package rivet

import "testing"

// recordingPipeline captures parser registrations.
type recordingPipeline struct {
	exts       []string
	priorities []int
	parsers    map[string]func(key string, data []byte) (any, error)
}

func (p *recordingPipeline) RegisterParser(ext string, priority int, parse func(key string, data []byte) (any, error)) {
	if p.parsers == nil {
		p.parsers = map[string]func(string, []byte) (any, error){}
	}
	p.exts = append(p.exts, ext)
	p.priorities = append(p.priorities, priority)
	p.parsers[ext] = parse
}

func TestRegisterLoaderClaimsEngineExtensions(t *testing.T) {
	eng := newFakeEngine()
	rt, _ := newTestRuntime(eng, bytesResolver{})
	pipe := &recordingPipeline{}

	RegisterLoader(pipe, rt)
	if len(pipe.exts) != 1 || pipe.exts[0] != ".fake" {
		t.Fatalf("registered extensions = %v, want [.fake]", pipe.exts)
	}
	if pipe.priorities[0] != LoaderPriority {
		t.Errorf("priority = %d, want %d", pipe.priorities[0], LoaderPriority)
	}
}

func TestLoaderServesBufferedBytesOnce(t *testing.T) {
	eng := newFakeEngine()
	fallback := bytesResolver{"other.fake": []byte("fallback")}
	rt, _ := newTestRuntime(eng, fallback)
	pipe := &recordingPipeline{}
	l := RegisterLoader(pipe, rt)

	// The pipeline fetches the asset and hands the bytes through the parser.
	if _, err := pipe.parsers[".fake"]("anim.fake", []byte("{}")); err != nil {
		t.Fatalf("parse: %v", err)
	}

	sp := readySprite(t, rt, Options{Asset: "anim.fake"})
	if eng.parseCalls != 1 {
		t.Errorf("parseCalls = %d, want 1", eng.parseCalls)
	}
	if _, ok := l.buffered["anim.fake"]; ok {
		t.Errorf("buffer not consumed by the load")
	}
	sp.Destroy()

	// Unbuffered keys fall through to the original resolver.
	var got []byte
	l.Resolve("other.fake", func(data []byte, err error) { got = data })
	if string(got) != "fallback" {
		t.Errorf("fallthrough data = %q, want %q", got, "fallback")
	}
}
