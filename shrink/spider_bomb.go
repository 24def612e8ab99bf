package shrink

import (
	"math"
	"math/rand"

	"github.com/beka-birhanu/vinom-arena-server/arena"
)

// SpiderBomb scatters spider bombs over the interior every interval. The
// per-cell chance only ever ratchets up.
type SpiderBomb struct {
	bounds
	pacer
	rng *rand.Rand
	cfg SpiderBombTuning

	chance float64
}

// NewSpiderBomb returns a performer scattering spider bombs over the interior.
func NewSpiderBomb(width, height int, rng *rand.Rand, cfg SpiderBombTuning) *SpiderBomb {
	s := &SpiderBomb{bounds: bounds{width: width, height: height}, rng: rng, cfg: cfg}
	s.Init()
	return s
}

// Init restores the initial placement chance.
func (s *SpiderBomb) Init() {
	s.pacer = pacer{}
	s.chance = s.cfg.InitialChance
}

// Chance is the current per-cell placement probability.
func (s *SpiderBomb) Chance() float64 { return s.chance }

// Tick scatters items once per interval and may raise the chance.
func (s *SpiderBomb) Tick(now int64, emit Emitter) {
	if s.anchor(now) || !s.due(now, s.cfg.IntervalMs) {
		return
	}
	s.eachInterior(func(x, y int) {
		if s.rng.Float64() < s.chance {
			emit(ItemPlace{X: x, Y: y, Item: arena.ItemSpiderBomb})
		}
	})
	if s.rng.Float64() < s.cfg.RaiseChance {
		s.chance = math.Min(s.chance+s.cfg.ChanceStep, 1.0)
	}
}
