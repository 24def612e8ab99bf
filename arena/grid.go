package arena

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOutOfBounds is the panic value wrapped when a cell outside the grid is accessed.
var ErrOutOfBounds = errors.New("cell is out of the arena")

// Obstacle is the wall state of a cell.
type Obstacle uint8

const (
	Empty    Obstacle = iota // Walkable, may host an item.
	Brick                    // Destructible wall.
	Concrete                 // Permanent wall.
)

func (o Obstacle) String() string {
	switch o {
	case Empty:
		return "EMPTY"
	case Brick:
		return "BRICK"
	case Concrete:
		return "CONCRETE"
	default:
		return fmt.Sprintf("Obstacle(%d)", uint8(o))
	}
}

// ItemKind is an item lying on an empty cell. ItemNone means no item.
type ItemKind uint8

const (
	ItemNone ItemKind = iota
	ItemSpiderBomb
)

var itemNames = map[ItemKind]string{
	ItemNone:       "NONE",
	ItemSpiderBomb: "SPIDER_BOMB",
}

func (k ItemKind) String() string {
	if name, ok := itemNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ItemKind(%d)", uint8(k))
}

// ParseItem returns the item kind with the given wire name.
func ParseItem(name string) (ItemKind, error) {
	for k, n := range itemNames {
		if n == name {
			return k, nil
		}
	}
	return ItemNone, fmt.Errorf("unknown item %q", name)
}

// Cell is a single square of the arena.
type Cell struct {
	Obstacle Obstacle
	Item     ItemKind // Only meaningful when Obstacle is Empty.
}

// Grid is the fixed-size cell matrix of one match.
// It is not safe for concurrent use; the match tick loop is its only writer.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

// New creates a grid of empty cells.
func New(width, height int) *Grid {
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
}

// Width returns the number of columns, border included.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows, border included.
func (g *Grid) Height() int { return g.height }

// InBound reports whether (x, y) lies inside the grid.
func (g *Grid) InBound(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// IsBorder reports whether (x, y) is on the outer ring of the grid.
func (g *Grid) IsBorder(x, y int) bool {
	return x == 0 || y == 0 || x == g.width-1 || y == g.height-1
}

// InteriorCells is the number of cells inside the border.
func (g *Grid) InteriorCells() int {
	return (g.width - 2) * (g.height - 2)
}

func (g *Grid) index(x, y int) int {
	if !g.InBound(x, y) {
		panic(fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, g.width, g.height))
	}
	return y*g.width + x
}

// Cell returns a copy of the cell at (x, y).
func (g *Grid) Cell(x, y int) Cell {
	return g.cells[g.index(x, y)]
}

// Obstacle returns the obstacle at (x, y).
func (g *Grid) Obstacle(x, y int) Obstacle {
	return g.cells[g.index(x, y)].Obstacle
}

// SetObstacle changes the obstacle at (x, y). Placing a wall drops any item.
func (g *Grid) SetObstacle(x, y int, o Obstacle) {
	c := &g.cells[g.index(x, y)]
	c.Obstacle = o
	if o != Empty {
		c.Item = ItemNone
	}
}

// SetItem puts an item on (x, y). It reports false when the cell is walled.
func (g *Grid) SetItem(x, y int, item ItemKind) bool {
	c := &g.cells[g.index(x, y)]
	if c.Obstacle != Empty {
		return false
	}
	c.Item = item
	return true
}

// Count returns how many cells hold the given obstacle.
func (g *Grid) Count(o Obstacle) int {
	n := 0
	for _, c := range g.cells {
		if c.Obstacle == o {
			n++
		}
	}
	return n
}

// String renders the grid row by row: '#' concrete, '+' brick, '*' item, '.' empty.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.width + 1) * g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := g.cells[y*g.width+x]
			switch {
			case c.Obstacle == Concrete:
				b.WriteByte('#')
			case c.Obstacle == Brick:
				b.WriteByte('+')
			case c.Item != ItemNone:
				b.WriteByte('*')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
