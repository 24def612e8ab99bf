package shrink

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beka-birhanu/vinom-arena-server/arena"
)

// Direction is the heading of a bomb placed by a performer.
type Direction uint8

const (
	DirNone Direction = iota // Standing bomb.
	DirUp
	DirRight
	DirDown
	DirLeft
)

var directionCodes = [...]string{DirNone: "S", DirUp: "U", DirRight: "R", DirDown: "D", DirLeft: "L"}

// Code is the single-letter wire code of the direction.
func (d Direction) Code() string {
	if int(d) < len(directionCodes) {
		return directionCodes[d]
	}
	return "?"
}

func parseDirection(code string) (Direction, error) {
	for d, c := range directionCodes {
		if c == code {
			return Direction(d), nil
		}
	}
	return DirNone, fmt.Errorf("unknown direction %q", code)
}

// Event is one arena mutation intent emitted by a performer. Events never touch
// the grid themselves.
type Event interface {
	Command() string
	Position() (x, y int)
}

type WallAdd struct{ X, Y int }

type WallRemove struct{ X, Y int }

type BombPlace struct {
	X, Y      int
	Range     int
	Direction Direction
}

type ItemPlace struct {
	X, Y int
	Item arena.ItemKind
}

const (
	CmdWall       = "WALL"
	CmdWallRemove = "WALL_REMOVE"
	CmdBomb       = "BOMB"
	CmdItem       = "ITEM"

	lineTerminator = "d"
)

// Command returns the wire command of the event.
func (e WallAdd) Command() string    { return CmdWall }
func (e WallRemove) Command() string { return CmdWallRemove }
func (e BombPlace) Command() string  { return CmdBomb }
func (e ItemPlace) Command() string  { return CmdItem }

// Position returns the target cell.
func (e WallAdd) Position() (int, int)    { return e.X, e.Y }
func (e WallRemove) Position() (int, int) { return e.X, e.Y }
func (e BombPlace) Position() (int, int)  { return e.X, e.Y }
func (e ItemPlace) Position() (int, int)  { return e.X, e.Y }

// ErrMalformedLine is returned by ParseLine for input outside the legacy grammar.
var ErrMalformedLine = errors.New("malformed event line")

// EncodeLine renders e in the legacy line grammar
// "<COMMAND> <x> <y> [<extra>] d<sep>".
func EncodeLine(e Event, sep byte) string {
	x, y := e.Position()
	fields := []string{e.Command(), strconv.Itoa(x), strconv.Itoa(y)}
	switch ev := e.(type) {
	case BombPlace:
		fields = append(fields, strconv.Itoa(ev.Range), ev.Direction.Code())
	case ItemPlace:
		fields = append(fields, ev.Item.String())
	}
	fields = append(fields, lineTerminator)
	return strings.Join(fields, " ") + string(sep)
}

// EncodeBatch concatenates the lines of one tick, in order.
func EncodeBatch(events []Event, sep byte) []byte {
	var b strings.Builder
	for _, e := range events {
		b.WriteString(EncodeLine(e, sep))
	}
	return []byte(b.String())
}

// ParseLine decodes one legacy line. The trailing separator is optional.
func ParseLine(line string, sep byte) (Event, error) {
	line = strings.TrimSuffix(line, string(sep))
	fields := strings.Fields(line)
	if len(fields) < 4 || fields[len(fields)-1] != lineTerminator {
		return nil, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	fields = fields[:len(fields)-1]

	x, errX := strconv.Atoi(fields[1])
	y, errY := strconv.Atoi(fields[2])
	if errX != nil || errY != nil {
		return nil, fmt.Errorf("%w: bad coordinates in %q", ErrMalformedLine, line)
	}
	extra := fields[3:]

	switch fields[0] {
	case CmdWall:
		if len(extra) == 0 {
			return WallAdd{X: x, Y: y}, nil
		}
	case CmdWallRemove:
		if len(extra) == 0 {
			return WallRemove{X: x, Y: y}, nil
		}
	case CmdBomb:
		if len(extra) == 2 {
			r, err := strconv.Atoi(extra[0])
			if err != nil {
				return nil, fmt.Errorf("%w: bad range in %q", ErrMalformedLine, line)
			}
			d, err := parseDirection(extra[1])
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedLine, err)
			}
			return BombPlace{X: x, Y: y, Range: r, Direction: d}, nil
		}
	case CmdItem:
		if len(extra) == 1 {
			item, err := arena.ParseItem(extra[0])
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedLine, err)
			}
			return ItemPlace{X: x, Y: y, Item: item}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrMalformedLine, line)
}
