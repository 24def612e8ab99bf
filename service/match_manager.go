package service

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-arena-server/arena"
	"github.com/beka-birhanu/vinom-arena-server/replay"
	"github.com/beka-birhanu/vinom-arena-server/service/i"
	"github.com/beka-birhanu/vinom-arena-server/shrink"
	"github.com/beka-birhanu/vinom-arena-server/tuning"
	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	socket_i "github.com/beka-birhanu/vinom-common/interfaces/socket"
	"github.com/google/uuid"
)

const (
	arenaStateRecordType   = 10
	matchEndedRecordType   = 11
	shrinkEventsRecordType = 12
)

// socketClients sends match records over the UDP socket manager.
type socketClients struct {
	socket socket_i.ServerSocketManager
}

func (c *socketClients) SendEvents(players []uuid.UUID, payload []byte) {
	c.socket.BroadcastToClients(players, shrinkEventsRecordType, payload)
}

func (c *socketClients) SendState(players []uuid.UUID, payload []byte) {
	c.socket.BroadcastToClients(players, arenaStateRecordType, payload)
}

func (c *socketClients) SendEnd(players []uuid.UUID, payload []byte) {
	c.socket.BroadcastToClients(players, matchEndedRecordType, payload)
}

func (c *socketClients) PublicKey() []byte { return c.socket.GetPublicKey() }

func (c *socketClients) Addr() string { return c.socket.GetAddr() }

type matchEntry struct {
	match   i.MatchServer
	players []uuid.UUID
}

// MatchManager runs matches and routes their records to the players.
type MatchManager struct {
	clients       i.PlayerClients
	matches       map[uuid.UUID]matchEntry
	playerToMatch map[uuid.UUID]uuid.UUID
	tuning        tuning.Match
	spectators    i.EventPublisher
	index         i.MatchIndex
	replayDir     string
	logger        general_i.Logger
	listeners     sync.WaitGroup
	sync.RWMutex
}

// Config configures a MatchManager.
type Config struct {
	Socket     socket_i.ServerSocketManager
	Tuning     tuning.Match
	Spectators i.EventPublisher // Optional.
	Index      i.MatchIndex     // Optional.
	ReplayDir  string           // Empty disables replays.
	Logger     general_i.Logger
}

// NewMatchManager validates the match tuning and registers the manager as the
// socket's request handler and authenticator.
func NewMatchManager(c *Config) (*MatchManager, error) {
	mm, err := newMatchManager(c, &socketClients{socket: c.Socket})
	if err != nil {
		return nil, err
	}
	c.Socket.SetClientRequestHandler(mm.writePlayerRequest)
	c.Socket.SetClientAuthenticator(mm)
	return mm, nil
}

func newMatchManager(c *Config, clients i.PlayerClients) (*MatchManager, error) {
	if err := c.Tuning.Validate(); err != nil {
		return nil, err
	}
	return &MatchManager{
		clients:       clients,
		tuning:        c.Tuning,
		spectators:    c.Spectators,
		index:         c.Index,
		replayDir:     c.ReplayDir,
		logger:        c.Logger,
		matches:       make(map[uuid.UUID]matchEntry),
		playerToMatch: make(map[uuid.UUID]uuid.UUID),
	}, nil
}

// NewMatch generates an arena for the players and starts its match.
func (m *MatchManager) NewMatch(playerIDs []uuid.UUID) (uuid.UUID, error) {
	if len(playerIDs) > m.tuning.MaxPlayers {
		return uuid.Nil, fmt.Errorf("%w: %d", ErrTooManyPlayers, len(playerIDs))
	}
	if len(playerIDs) < m.tuning.MinPlayers {
		return uuid.Nil, fmt.Errorf("%w: %d", ErrNotEnoughPlayers, len(playerIDs))
	}

	seed := m.tuning.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	grid, performer, err := assemble(m.tuning, seed)
	if err != nil {
		m.logger.Error(fmt.Sprintf("creating arena for a new match: %s", err))
		return uuid.Nil, err
	}

	m.Lock()
	defer m.Unlock()
	for _, pID := range playerIDs {
		if _, ok := m.playerToMatch[pID]; ok {
			return uuid.Nil, fmt.Errorf("%w: %s", ErrPlayerInMatch, pID)
		}
	}

	matchID := uuid.New()
	for {
		if _, ok := m.matches[matchID]; !ok {
			break
		}
		matchID = uuid.New()
	}

	var recorder i.ReplayRecorder
	if m.replayDir != "" {
		r, err := replay.Create(m.replayDir, replay.Header{
			MatchID:  matchID.String(),
			Seed:     seed,
			Strategy: m.tuning.Strategy,
			Width:    grid.Width(),
			Height:   grid.Height(),
			Arena:    grid.String(),
		})
		if err != nil {
			m.logger.Warning(fmt.Sprintf("creating replay for match %s: %s", matchID, err))
		} else {
			recorder = r
		}
	}

	match, err := NewMatch(&MatchConfig{
		Grid:         grid,
		Performer:    performer,
		Clock:        NewMonotonicClock(),
		TickInterval: time.Duration(m.tuning.TickMs) * time.Millisecond,
		Separator:    m.tuning.Separator(),
		Recorder:     recorder,
		Logger:       m.logger,
	})
	if err != nil {
		if recorder != nil {
			_ = recorder.Close()
		}
		m.logger.Error(fmt.Sprintf("creating new match: %s", err))
		return uuid.Nil, err
	}

	record := i.MatchRecord{
		ID:                  matchID.String(),
		Seed:                seed,
		Strategy:            m.tuning.Strategy,
		Width:               grid.Width(),
		Height:              grid.Height(),
		BrickDensityPercent: m.tuning.BrickDensityPercent,
		Players:             len(playerIDs),
		StartedAt:           time.Now(),
	}
	entry := matchEntry{match: match, players: playerIDs}
	m.matches[matchID] = entry
	for _, pID := range playerIDs {
		m.playerToMatch[pID] = matchID
	}
	if m.index != nil {
		m.index.RecordStart(record)
	}

	m.listeners.Add(1)
	go match.Start(time.Duration(m.tuning.DurationS) * time.Second)
	go m.listenMatchChan(matchID, entry)
	m.logger.Info(fmt.Sprintf("started match %s (%s, seed %d) for players: %v", matchID, m.tuning.Strategy, seed, playerIDs))
	return matchID, nil
}

// assemble generates the arena and the shrink performer of one match from
// a single seeded source, so a seed reproduces the whole match.
func assemble(t tuning.Match, seed int64) (*arena.Grid, shrink.Performer, error) {
	rng := rand.New(rand.NewSource(seed))
	grid, err := arena.NewGenerator(rng).Generate(t.Width, t.Height, t.BrickDensityPercent)
	if err != nil {
		return nil, nil, err
	}
	performer, err := shrink.New(t.StrategyID(), t.Width, t.Height, rng, t.Shrink)
	if err != nil {
		return nil, nil, err
	}
	return grid, performer, nil
}

// SessionInfo returns the socket public key and address for a player in a match.
func (m *MatchManager) SessionInfo(playerID uuid.UUID) ([]byte, string, error) {
	m.RLock()
	defer m.RUnlock()
	if _, ok := m.playerToMatch[playerID]; !ok {
		return nil, "", ErrNoSession
	}
	return m.clients.PublicKey(), m.clients.Addr(), nil
}

// Authenticate accepts a raw player uuid as token if the player is in a match.
func (m *MatchManager) Authenticate(s []byte) (uuid.UUID, error) {
	m.RLock()
	defer m.RUnlock()
	id, err := uuid.FromBytes(s)
	if err != nil {
		return uuid.Nil, errors.New("invalid token")
	}

	if _, ok := m.playerToMatch[id]; !ok {
		return uuid.Nil, ErrNoSession
	}

	m.logger.Info(fmt.Sprintf("authenticated player: %s", id))
	return id, nil
}

func (m *MatchManager) listenMatchChan(id uuid.UUID, entry matchEntry) {
	defer m.listeners.Done()
	match := entry.match
	events, states := match.EventChan(), match.StateChan()
	for {
		select {
		case val, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			m.clients.SendEvents(entry.players, val)
			if m.spectators != nil {
				m.spectators.Publish(id, val)
			}
		case val, ok := <-states:
			if !ok {
				states = nil
				continue
			}
			m.clients.SendState(entry.players, val)
		case val := <-match.EndChan():
			m.clients.SendEnd(entry.players, val)
			if m.spectators != nil {
				m.spectators.Close(id)
			}
			ticks, emitted := match.Stats()
			if m.index != nil {
				m.index.RecordEnd(id.String(), time.Now(), ticks, emitted)
			}
			m.clean(id)
			m.logger.Info(fmt.Sprintf("match %s ended after %d ticks and %d events", id, ticks, emitted))
			return
		}
	}
}

// writePlayerRequest forwards a player request to its match. Requests are
// dropped when the match is not keeping up.
func (m *MatchManager) writePlayerRequest(pID uuid.UUID, actionType byte, payload []byte) {
	m.RLock()
	defer m.RUnlock()
	matchID, ok := m.playerToMatch[pID]
	if !ok {
		m.logger.Warning("received request for player without match")
		return
	}

	select {
	case m.matches[matchID].match.ActionChan() <- append([]byte{actionType}, payload...):
	default:
		m.logger.Warning(fmt.Sprintf("dropped request of player %s: match is busy", pID))
	}
}

func (m *MatchManager) clean(id uuid.UUID) {
	m.Lock()
	defer m.Unlock()
	for _, pID := range m.matches[id].players {
		delete(m.playerToMatch, pID)
	}

	delete(m.matches, id)
}

// StopAll stops every running match and waits until its final state has been
// sent to the players.
func (m *MatchManager) StopAll() {
	m.RLock()
	running := make([]i.MatchServer, 0, len(m.matches))
	for _, entry := range m.matches {
		running = append(running, entry.match)
	}
	m.RUnlock()

	for _, match := range running {
		match.Stop()
	}
	m.listeners.Wait()
}
