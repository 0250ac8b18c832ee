package rivet

import "time"

// Scheduler drives every registered sprite once per host tick. One scheduler
// serves all of a runtime's sprites so that a single wall-clock delta is
// shared by every instance — N independent timers would drift out of phase
// and make identical animations run at visibly different speeds.
//
// The scheduler is a plain callback target for the host's tick (ebiten
// hosts call Runtime.Tick from Update), not a goroutine.
type Scheduler struct {
	sprites []*Sprite
	scratch []*Sprite

	now     func() time.Time
	last    time.Time
	started bool
}

// NewScheduler creates a scheduler reading wall time from now, or time.Now
// when nil. Tests inject a fake clock for deterministic deltas.
func NewScheduler(now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{now: now}
}

// Add registers a sprite for ticking. Idempotent.
func (s *Scheduler) Add(sp *Sprite) {
	if sp.registered {
		return
	}
	sp.registered = true
	s.sprites = append(s.sprites, sp)
}

// Remove unregisters a sprite. Effective immediately: once Remove returns,
// the sprite sees no further advance or render, even if removal happens in
// the middle of a tick.
func (s *Scheduler) Remove(sp *Sprite) {
	if !sp.registered {
		return
	}
	sp.registered = false
	for i, cur := range s.sprites {
		if cur == sp {
			copy(s.sprites[i:], s.sprites[i+1:])
			s.sprites[len(s.sprites)-1] = nil
			s.sprites = s.sprites[:len(s.sprites)-1]
			return
		}
	}
}

// Len returns the number of registered sprites.
func (s *Scheduler) Len() int {
	return len(s.sprites)
}

// Tick computes the elapsed wall time since the previous tick and, for every
// registered enabled sprite with a live artboard, advances its playback and
// renders it. The first tick has a zero delta.
func (s *Scheduler) Tick() {
	t := s.now()
	var dt float64
	if s.started {
		dt = t.Sub(s.last).Seconds()
	}
	s.started = true
	s.last = t

	// Callbacks may register or destroy sprites mid-tick; iterate a
	// snapshot and re-check registration per sprite.
	s.scratch = append(s.scratch[:0], s.sprites...)
	for _, sp := range s.scratch {
		if !sp.registered || !sp.enabled {
			continue
		}
		sp.step(dt)
	}
	clear(s.scratch)
}
