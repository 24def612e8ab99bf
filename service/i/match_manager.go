package i

import (
	"time"

	"github.com/google/uuid"
)

// MatchManager manages arena matches and provides session-related information.
type MatchManager interface {
	// NewMatch generates an arena for the given players and starts its match.
	NewMatch([]uuid.UUID) (uuid.UUID, error)

	StopAll()

	// SessionInfo returns the public key, socket address.
	SessionInfo(uuid.UUID) ([]byte, string, error)
}

// PlayerClients delivers match records to the players of a match.
type PlayerClients interface {
	SendEvents(players []uuid.UUID, payload []byte)
	SendState(players []uuid.UUID, payload []byte)
	SendEnd(players []uuid.UUID, payload []byte)

	PublicKey() []byte
	Addr() string
}

// EventPublisher fans encoded batches out to spectators.
type EventPublisher interface {
	Publish(matchID uuid.UUID, payload []byte)
	Close(matchID uuid.UUID)
}

// MatchIndex records the lifecycle of matches.
type MatchIndex interface {
	RecordStart(rec MatchRecord)
	RecordEnd(id string, endedAt time.Time, ticks, events uint64)
}

// MatchRecord is the indexed summary of one match.
type MatchRecord struct {
	ID                  string
	Seed                int64
	Strategy            string
	Width               int
	Height              int
	BrickDensityPercent int
	Players             int
	StartedAt           time.Time
	EndedAt             time.Time // Zero while the match runs.
	Ticks               uint64
	Events              uint64
}
