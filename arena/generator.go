package arena

import (
	"errors"
	"math/rand"
)

// Generation errors.
var (
	ErrNotBigEnoughDimension = errors.New("dimension is not big enough")
	ErrInvalidDensity        = errors.New("brick density must be within 0..100")
)

const (
	MinDimension = 5 // Border plus a non-degenerate interior.

	SpawnX = 1
	SpawnY = 1

	irregularPercent      = 5  // Chance an interior cell ignores the lattice.
	irregularBrickPercent = 70 // Share of irregular cells that become brick.
	spawnBrickPercent     = 50
	maxDeblockIterations  = 1000
)

type reach uint8

const (
	unknown reach = iota
	accessible
	blocked
)

// Generator builds arenas from an injected random stream.
// The same stream state always yields the same grid.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator drawing from rng.
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate creates a width x height arena whose non-concrete cells are all
// reachable from the spawn cell through non-concrete cells.
func (g *Generator) Generate(width, height, brickDensityPercent int) (*Grid, error) {
	if width < MinDimension || height < MinDimension {
		return nil, ErrNotBigEnoughDimension
	}
	if brickDensityPercent < 0 || brickDensityPercent > 100 {
		return nil, ErrInvalidDensity
	}

	grid := New(width, height)
	g.seed(grid, brickDensityPercent)

	for i := 0; i < maxDeblockIterations; i++ {
		status := markReachable(grid)
		if !hasUnknown(status) {
			break
		}
		deblock(grid, status)
	}
	return grid, nil
}

func (g *Generator) seed(grid *Grid, density int) {
	for y := 0; y < grid.height; y++ {
		for x := 0; x < grid.width; x++ {
			grid.SetObstacle(x, y, g.seedCell(grid, x, y, density))
		}
	}

	if g.rng.Intn(100) < spawnBrickPercent {
		grid.SetObstacle(SpawnX, SpawnY, Brick)
	} else {
		grid.SetObstacle(SpawnX, SpawnY, Empty)
	}
}

func (g *Generator) seedCell(grid *Grid, x, y, density int) Obstacle {
	if grid.IsBorder(x, y) {
		return Concrete
	}
	if g.rng.Intn(100) < irregularPercent {
		if g.rng.Intn(100) < irregularBrickPercent {
			return Brick
		}
		return Concrete
	}
	if x%2 == 0 && y%2 == 0 {
		return Concrete
	}
	if g.rng.Intn(100) < density {
		return Brick
	}
	return Empty
}

// markReachable flood-fills from the spawn cell to a fixed point. Bricks are
// passable since they can be blown up in play.
func markReachable(grid *Grid) []reach {
	status := make([]reach, len(grid.cells))
	for i, c := range grid.cells {
		if c.Obstacle == Concrete {
			status[i] = blocked
		}
	}
	status[grid.index(SpawnX, SpawnY)] = accessible

	for changed := true; changed; {
		changed = false
		for y := 1; y < grid.height-1; y++ {
			for x := 1; x < grid.width-1; x++ {
				i := grid.index(x, y)
				if status[i] != unknown {
					continue
				}
				if status[i-1] == accessible || status[i+1] == accessible ||
					status[i-grid.width] == accessible || status[i+grid.width] == accessible {
					status[i] = accessible
					changed = true
				}
			}
		}
	}
	return status
}

func hasUnknown(status []reach) bool {
	for _, s := range status {
		if s == unknown {
			return true
		}
	}
	return false
}

// deblock turns concrete next to every unreached cell into brick. Odd rows open
// vertically, odd columns horizontally, even/even cells in all four directions.
func deblock(grid *Grid, status []reach) {
	for y := 1; y < grid.height-1; y++ {
		for x := 1; x < grid.width-1; x++ {
			if status[grid.index(x, y)] != unknown {
				continue
			}
			oddRow, oddCol := y%2 == 1, x%2 == 1
			if oddRow || !oddCol {
				open(grid, x, y-1)
				open(grid, x, y+1)
			}
			if oddCol || !oddRow {
				open(grid, x-1, y)
				open(grid, x+1, y)
			}
		}
	}
}

func open(grid *Grid, x, y int) {
	if grid.IsBorder(x, y) {
		return
	}
	if grid.Obstacle(x, y) == Concrete {
		grid.SetObstacle(x, y, Brick)
	}
}
