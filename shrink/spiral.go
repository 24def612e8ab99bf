package shrink

import "math/rand"

// Spiral walls the interior in a clockwise inward spiral, one cell per step.
// After enough normal-paced steps it may break into a short turbo burst.
type Spiral struct {
	bounds
	pacer
	rng *rand.Rand
	cfg SpiralTuning

	x, y                   int
	heading                Direction
	minX, minY, maxX, maxY int
	done                   bool

	normalSteps int
	turboLeft   int
}

// NewSpiral returns a spiral over a width x height arena, starting at the
// top-left interior cell heading right.
func NewSpiral(width, height int, rng *rand.Rand, cfg SpiralTuning) *Spiral {
	s := &Spiral{bounds: bounds{width: width, height: height}, rng: rng, cfg: cfg}
	s.Init()
	return s
}

// Init rewinds the spiral to the outer ring.
func (s *Spiral) Init() {
	s.pacer = pacer{}
	s.minX, s.minY = 1, 1
	s.maxX, s.maxY = s.width-2, s.height-2
	s.x, s.y = s.minX, s.minY
	s.heading = DirRight
	s.done = s.minX > s.maxX || s.minY > s.maxY
	s.normalSteps = 0
	s.turboLeft = 0
}

// Tick walls one cell whenever the current pace has elapsed. The turbo roll
// happens once per normal step, so the burst rate does not depend on how
// often Tick is called.
func (s *Spiral) Tick(now int64, emit Emitter) {
	if s.anchor(now) || s.done {
		return
	}

	pace := s.cfg.NormalPaceMs
	if s.turboLeft > 0 {
		pace = s.cfg.TurboPaceMs
	}
	if !s.due(now, pace) {
		return
	}

	s.step(emit)
	if s.turboLeft > 0 {
		s.turboLeft--
		return
	}
	s.normalSteps++
	if s.normalSteps >= s.cfg.StepsBeforeTurbo && s.rng.Float64() < s.cfg.TurboChance {
		s.turboLeft = s.cfg.TurboSteps
		s.normalSteps = 0
	}
}

// Finished reports whether the spiral bound has collapsed.
func (s *Spiral) Finished() bool { return s.done }

// Turbo reports whether a turbo burst is in progress.
func (s *Spiral) Turbo() bool { return s.turboLeft > 0 }

// step walls the current cell, then advances; reaching a corner shrinks the
// edge that was just completed and turns clockwise.
func (s *Spiral) step(emit Emitter) {
	emit(WallAdd{X: s.x, Y: s.y})

	switch s.heading {
	case DirRight:
		if s.x < s.maxX {
			s.x++
		} else {
			s.minY++
			s.heading = DirDown
			s.y++
		}
	case DirDown:
		if s.y < s.maxY {
			s.y++
		} else {
			s.maxX--
			s.heading = DirLeft
			s.x--
		}
	case DirLeft:
		if s.x > s.minX {
			s.x--
		} else {
			s.maxY--
			s.heading = DirUp
			s.y--
		}
	case DirUp:
		if s.y > s.minY {
			s.y--
		} else {
			s.minX++
			s.heading = DirRight
			s.x++
		}
	}

	if s.minX > s.maxX || s.minY > s.maxY {
		s.done = true
	}
}
