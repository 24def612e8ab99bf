package i

import (
	"time"
)

// MatchServer defines the interface for a running arena match.
type MatchServer interface {
	// Start runs the tick loop until the match finishes, is stopped or times out.
	Start(matchDuration time.Duration)

	// Stop ends the match; the final snapshot is sent on EndChan.
	Stop()

	// EventChan carries the encoded shrink events of each tick.
	EventChan() <-chan []byte

	// StateChan carries arena snapshots requested by players.
	StateChan() <-chan []byte

	// ActionChan accepts player requests; the first byte is the action type.
	ActionChan() chan<- []byte

	// EndChan carries the final arena snapshot.
	EndChan() <-chan []byte

	// Stats returns the ticks run and events emitted so far.
	Stats() (ticks, events uint64)
}

// ReplayRecorder persists the encoded lines of every tick that emitted events.
type ReplayRecorder interface {
	RecordTick(tick uint64, atMs int64, lines []string) error
	Close() error
}
