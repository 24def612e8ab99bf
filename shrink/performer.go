// Package shrink implements the strategies that close the arena over the
// course of a match, and the scheduler that drives them every game tick.
package shrink

import (
	"errors"
	"fmt"
	"math/rand"
)

// Shrink errors.
var (
	ErrUnknownStrategy  = errors.New("unknown shrink strategy")
	ErrInvalidDimension = errors.New("arena has no interior")
)

// Emitter receives the events of one shrink step, in order.
type Emitter func(Event)

// Performer is one shrink strategy. Init resets all private state. Tick is
// called once per game tick with a monotonic millisecond clock reading and is
// a no-op unless the performer's own cadence has elapsed.
type Performer interface {
	Init()
	Tick(now int64, emit Emitter)
}

// Finisher is implemented by performers that eventually run out of work.
type Finisher interface {
	Finished() bool
}

// Strategy identifies a performer in match configuration.
type Strategy string

const (
	StrategyDefault     Strategy = "default"
	StrategyBinary      Strategy = "binary"
	StrategyBomb        Strategy = "bomb"
	StrategyBombAndWall Strategy = "bomb_and_wall"
	StrategyMassKill    Strategy = "mass_kill"
	StrategySpiderBomb  Strategy = "spider_bomb"
	StrategyDraw        Strategy = "draw"
)

// Strategies lists every known strategy identifier.
var Strategies = []Strategy{
	StrategyDefault,
	StrategyBinary,
	StrategyBomb,
	StrategyBombAndWall,
	StrategyMassKill,
	StrategySpiderBomb,
	StrategyDraw,
}

// ParseStrategy validates a configured strategy identifier.
func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// New builds the performer for strategy over a width x height arena.
func New(strategy Strategy, width, height int, rng *rand.Rand, t Tuning) (Performer, error) {
	if width < 3 || height < 3 {
		return nil, ErrInvalidDimension
	}
	switch strategy {
	case StrategyDefault:
		return NewSpiral(width, height, rng, t.Spiral), nil
	case StrategyBinary:
		return NewBinary(width, height, rng, t.Binary), nil
	case StrategyBomb:
		return NewBomb(width, height, rng, t.Bomb), nil
	case StrategyBombAndWall:
		return NewBombAndWall(width, height, rng, t.Bomb), nil
	case StrategyMassKill:
		return NewMassKill(width, height), nil
	case StrategySpiderBomb:
		return NewSpiderBomb(width, height, rng, t.SpiderBomb), nil
	case StrategyDraw:
		return NewDraw(width, height, t.Draw), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// bounds is the arena size a performer works on. The interior excludes the
// one-cell border.
type bounds struct {
	width, height int
}

func (b bounds) interiorCells() int { return (b.width - 2) * (b.height - 2) }

// randomInterior picks a uniformly random interior cell.
func (b bounds) randomInterior(rng *rand.Rand) (int, int) {
	return 1 + rng.Intn(b.width-2), 1 + rng.Intn(b.height-2)
}

// eachInterior visits interior cells row by row.
func (b bounds) eachInterior(fn func(x, y int)) {
	for y := 1; y < b.height-1; y++ {
		for x := 1; x < b.width-1; x++ {
			fn(x, y)
		}
	}
}

// pacer tracks when a performer last did work.
type pacer struct {
	anchored        bool
	lastOperationAt int64
}

// anchor records the first clock reading; it reports true only on that call.
func (p *pacer) anchor(now int64) bool {
	if p.anchored {
		return false
	}
	p.anchored = true
	p.lastOperationAt = now
	return true
}

// due reports whether cadence has elapsed and, if so, restarts the interval.
func (p *pacer) due(now, cadence int64) bool {
	if now-p.lastOperationAt < cadence {
		return false
	}
	p.lastOperationAt = now
	return true
}
