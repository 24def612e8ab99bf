package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-arena-server/arena"
	"github.com/beka-birhanu/vinom-arena-server/service/i"
	"github.com/beka-birhanu/vinom-arena-server/shrink"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
)

// Match-related errors.
var (
	ErrTooManyPlayers   = errors.New("too many players")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrPlayerInMatch    = errors.New("player is already in a match")
	ErrNoSession        = errors.New("player has no match")
	ErrIncompleteMatch  = errors.New("incomplete match setup")
)

// Action types players may send.
const (
	moveActionType         = 3 << iota // Movement; resolved by the game core, ignored here.
	stateRequestActionType             // Request for an arena snapshot.

	actionBuffer = 32
)

// MatchConfig holds what a Match needs to run.
type MatchConfig struct {
	Grid         *arena.Grid
	Performer    shrink.Performer
	Clock        Clock
	TickInterval time.Duration
	Separator    byte
	Recorder     i.ReplayRecorder // Optional.
	Logger       general_i.Logger // Optional.
}

// Match runs one arena: it ticks the shrink scheduler, applies the emitted
// events to the grid and publishes them on its channels.
type Match struct {
	grid         *arena.Grid
	pillars      []bool
	scheduler    *shrink.Scheduler
	clock        Clock
	tickInterval time.Duration
	separator    byte
	recorder     i.ReplayRecorder
	logger       general_i.Logger

	ticks   uint64
	events  uint64
	now     int64
	pending []byte

	stop       chan struct{}
	stopOnce   sync.Once
	done       chan struct{}
	eventChan  chan []byte
	stateChan  chan []byte
	actionChan chan []byte
	endChan    chan []byte
	sync.RWMutex
}

// NewMatch validates c and returns a match ready to Start.
func NewMatch(c *MatchConfig) (*Match, error) {
	if c.Grid == nil || c.Performer == nil {
		return nil, fmt.Errorf("%w: grid and performer are required", ErrIncompleteMatch)
	}
	if c.TickInterval <= 0 {
		return nil, fmt.Errorf("%w: tick interval %v", ErrIncompleteMatch, c.TickInterval)
	}
	clock := c.Clock
	if clock == nil {
		clock = NewMonotonicClock()
	}

	m := &Match{
		grid:         c.Grid,
		pillars:      concreteCells(c.Grid),
		clock:        clock,
		tickInterval: c.TickInterval,
		separator:    c.Separator,
		recorder:     c.Recorder,
		logger:       c.Logger,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
		eventChan:    make(chan []byte),
		stateChan:    make(chan []byte),
		actionChan:   make(chan []byte, actionBuffer),
		endChan:      make(chan []byte, 1),
	}
	m.scheduler = shrink.NewScheduler(c.Performer, m)
	return m, nil
}

// Start runs the tick loop. It returns when the performer finishes, Stop is
// called or matchDuration elapses; a non-positive duration never times out.
func (m *Match) Start(matchDuration time.Duration) {
	defer m.finish()
	if matchDuration > 0 {
		timeout := time.AfterFunc(matchDuration, m.Stop)
		defer timeout.Stop()
	}

	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case action := <-m.actionChan:
			if len(action) < 1 {
				continue
			}
			m.handleAction(action[0])
		case <-ticker.C:
			if payload := m.Step(); payload != nil {
				m.eventChan <- payload
			}
			if m.Finished() {
				return
			}
		}
	}
}

// Step runs one scheduler tick and returns the encoded batch, or nil when
// nothing was emitted.
func (m *Match) Step() []byte {
	m.Lock()
	defer m.Unlock()
	m.ticks++
	m.now = m.clock.NowMillis()
	m.pending = nil
	m.scheduler.Tick(m.now)
	return m.pending
}

// Broadcast applies a batch to the grid, records it and stages its payload.
// The scheduler calls it from Step with the match lock held.
func (m *Match) Broadcast(events []shrink.Event) {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		applyEvent(m.grid, m.pillars, e)
		lines = append(lines, shrink.EncodeLine(e, m.separator))
	}
	m.events += uint64(len(events))
	m.pending = []byte(strings.Join(lines, ""))

	if m.recorder == nil {
		return
	}
	if err := m.recorder.RecordTick(m.ticks, m.now, lines); err != nil {
		m.warn(fmt.Sprintf("recording tick %d: %v", m.ticks, err))
	}
}

// applyEvent is the grid side of the game core: walls harden cells, wall
// removal clears the interior except cells that were concrete when the match
// started, items land on empty cells. Bombs are left to the game core.
// A nil pillars slice protects nothing.
func applyEvent(g *arena.Grid, pillars []bool, e shrink.Event) {
	x, y := e.Position()
	if !g.InBound(x, y) {
		return
	}
	switch ev := e.(type) {
	case shrink.WallAdd:
		if g.Obstacle(x, y) != arena.Concrete {
			g.SetObstacle(x, y, arena.Concrete)
		}
	case shrink.WallRemove:
		if g.IsBorder(x, y) || (pillars != nil && pillars[y*g.Width()+x]) {
			return
		}
		g.SetObstacle(x, y, arena.Empty)
	case shrink.ItemPlace:
		g.SetItem(x, y, ev.Item)
	case shrink.BombPlace:
	}
}

// concreteCells marks, row-major, the cells of g that are concrete.
func concreteCells(g *arena.Grid) []bool {
	if g == nil {
		return nil
	}
	marks := make([]bool, g.Width()*g.Height())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			marks[y*g.Width()+x] = g.Obstacle(x, y) == arena.Concrete
		}
	}
	return marks
}

func (m *Match) handleAction(t byte) {
	switch t {
	case stateRequestActionType:
		m.stateChan <- m.Snapshot()
	case moveActionType:
	}
}

// Stop ends the match. It is safe to call more than once.
func (m *Match) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Match) finish() {
	close(m.eventChan)
	close(m.stateChan)
	if m.recorder != nil {
		if err := m.recorder.Close(); err != nil {
			m.warn(fmt.Sprintf("closing replay: %v", err))
		}
	}
	m.endChan <- m.Snapshot()
	close(m.endChan)
	close(m.done)
}

// Snapshot renders the current arena.
func (m *Match) Snapshot() []byte {
	m.RLock()
	defer m.RUnlock()
	return []byte(m.grid.String())
}

// Finished reports whether the performer has nothing left to do.
func (m *Match) Finished() bool {
	m.RLock()
	defer m.RUnlock()
	return m.scheduler.Finished()
}

// Stats returns the ticks run and events emitted so far.
func (m *Match) Stats() (ticks, events uint64) {
	m.RLock()
	defer m.RUnlock()
	return m.ticks, m.events
}

func (m *Match) warn(msg string) {
	if m.logger != nil {
		m.logger.Warning(msg)
	}
}

// Done is closed once the final snapshot has been sent.
func (m *Match) Done() <-chan struct{} {
	return m.done
}

// EventChan returns the shrink event channel.
func (m *Match) EventChan() <-chan []byte {
	return m.eventChan
}

// StateChan returns the snapshot channel.
func (m *Match) StateChan() <-chan []byte {
	return m.stateChan
}

// ActionChan returns the action channel.
func (m *Match) ActionChan() chan<- []byte {
	return m.actionChan
}

// EndChan returns the end channel for the match.
func (m *Match) EndChan() <-chan []byte {
	return m.endChan
}
