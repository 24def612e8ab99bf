package shrink

import (
	"math"
	"math/rand"
)

// escalation is the growth model of the bomb strategies: more items per wave,
// longer range, and fewer standing bombs as the range grows.
type escalation struct {
	cfg       BombTuning
	count     float64
	maxCount  float64
	bombRange int
	standing  float64
}

func (e *escalation) reset(b bounds) {
	e.count = 1
	e.maxCount = float64(b.width * b.height)
	e.bombRange = 1
	e.standing = e.cfg.StandingChance
}

func (e *escalation) items() int { return int(e.count) }

func (e *escalation) bomb(b bounds, rng *rand.Rand) BombPlace {
	x, y := b.randomInterior(rng)
	dir := DirNone
	if rng.Float64() >= e.standing {
		dir = Direction(1 + rng.Intn(4))
	}
	return BombPlace{X: x, Y: y, Range: e.bombRange, Direction: dir}
}

func (e *escalation) advance(rng *rand.Rand) {
	e.count = math.Min(e.count*e.cfg.Growth, e.maxCount)
	if rng.Float64() < e.cfg.RangeUpChance {
		e.bombRange++
		e.standing *= e.cfg.StandingDecay
	}
}

// Bomb drops a growing wave of bombs on random interior cells every interval.
type Bomb struct {
	bounds
	pacer
	escalation
	rng *rand.Rand
}

// NewBomb returns a bomb performer over a width x height arena.
func NewBomb(width, height int, rng *rand.Rand, cfg BombTuning) *Bomb {
	b := &Bomb{
		bounds:     bounds{width: width, height: height},
		escalation: escalation{cfg: cfg},
		rng:        rng,
	}
	b.Init()
	return b
}

// Init resets the wave size, range and standing chance.
func (b *Bomb) Init() {
	b.pacer = pacer{}
	b.reset(b.bounds)
}

// Tick drops the current wave once per interval, then escalates it.
func (b *Bomb) Tick(now int64, emit Emitter) {
	if b.anchor(now) || !b.due(now, b.cfg.IntervalMs) {
		return
	}
	for i, n := 0, b.items(); i < n; i++ {
		emit(b.bomb(b.bounds, b.rng))
	}
	b.advance(b.rng)
}

// BombAndWall runs the bomb escalation, but every item of a wave is either an
// instant wall or a bomb.
type BombAndWall struct {
	bounds
	pacer
	escalation
	rng *rand.Rand
}

// NewBombAndWall returns a performer that mixes bombs and death walls.
func NewBombAndWall(width, height int, rng *rand.Rand, cfg BombTuning) *BombAndWall {
	b := &BombAndWall{
		bounds:     bounds{width: width, height: height},
		escalation: escalation{cfg: cfg},
		rng:        rng,
	}
	b.Init()
	return b
}

// Init resets the escalation state.
func (b *BombAndWall) Init() {
	b.pacer = pacer{}
	b.reset(b.bounds)
}

// Tick places the current wave once per interval; each item is a wall with
// WallChance, otherwise a bomb.
func (b *BombAndWall) Tick(now int64, emit Emitter) {
	if b.anchor(now) || !b.due(now, b.cfg.IntervalMs) {
		return
	}
	for i, n := 0, b.items(); i < n; i++ {
		if b.rng.Float64() < b.cfg.WallChance {
			x, y := b.randomInterior(b.rng)
			emit(WallAdd{X: x, Y: y})
			continue
		}
		emit(b.bomb(b.bounds, b.rng))
	}
	b.advance(b.rng)
}
