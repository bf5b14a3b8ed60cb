package service

import (
	"fmt"
	"strings"
	"sync"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

// StateWriter is the part of a client connection a match pushes state to.
type StateWriter interface {
	WriteJSON(v interface{}) error
}

// matchConnections holds the live connections of one match, keyed by
// player ID.
type matchConnections struct {
	connections map[string]StateWriter
	mu          sync.RWMutex
}

// Match is one game between two seated players plus any spectators.
// mu makes every operation on the engine, including its broadcast, a
// single critical section.
type Match struct {
	ID          string
	mu          sync.Mutex
	game        *model.Game
	white       string
	black       string
	moves       []string
	connections *matchConnections
}

func NewMatch(id string) *Match {
	return &Match{
		ID:   id,
		game: model.NewGame(),
		connections: &matchConnections{
			connections: make(map[string]StateWriter),
		},
	}
}

// AddPlayer seats playerID, White first. A player already seated gets
// their existing side back.
func (m *Match) AddPlayer(playerID string) (model.Side, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if side := m.seat(playerID); side != model.NoSide {
		return side, nil
	}
	switch {
	case m.white == "":
		m.white = playerID
		return model.White, nil
	case m.black == "":
		m.black = playerID
		return model.Black, nil
	}
	return model.NoSide, ErrGameFull
}

func (m *Match) seat(playerID string) model.Side {
	switch {
	case playerID == "":
		return model.NoSide
	case playerID == m.white:
		return model.White
	case playerID == m.black:
		return model.Black
	}
	return model.NoSide
}

func (m *Match) canSpectate() bool {
	return m.white == "" || m.black == ""
}

// turnCheck verifies that playerID holds the side to move.
func (m *Match) turnCheck(playerID string) error {
	side := m.seat(playerID)
	if side == model.NoSide {
		return ErrPlayerNotInGame
	}
	if side != m.game.ActiveSide() {
		return ErrNotYourTurn
	}
	return nil
}

func (m *Match) State() model.GameState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state()
}

func (m *Match) state() model.GameState {
	state := m.game.State()
	state.Players.White.ID = m.white
	state.Players.Black.ID = m.black
	state.MoveHistory = append(state.MoveHistory, m.moves...)
	return state
}

// MakeMove plays move for playerID. A non-empty move.Promotion resolves the
// promotion the move triggers; it is validated before anything is played.
func (m *Match) MakeMove(playerID string, move model.WSMove) (model.Committed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.turnCheck(playerID); err != nil {
		return model.Committed{}, err
	}
	promotion, err := model.ParseKind(move.Promotion)
	if err != nil {
		return model.Committed{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	switch promotion {
	case model.NoKind, model.Rook, model.Knight, model.Bishop, model.Queen:
	default:
		return model.Committed{}, fmt.Errorf("promote to %s: %w", promotion, model.ErrInvalidPromotionTarget)
	}
	if promotion != model.NoKind {
		from, fromErr := model.ParseSquare(move.From)
		to, toErr := model.ParseSquare(move.To)
		if fromErr == nil && toErr == nil && !m.game.Promotes(from, to) {
			return model.Committed{}, fmt.Errorf("%w: move %s%s does not promote", ErrMalformedRequest, move.From, move.To)
		}
	}

	committed, err := m.game.MoveByAlgebraic(move.From, move.To)
	if err != nil {
		return model.Committed{}, err
	}
	m.moves = append(m.moves, committed.Move.String())
	log.Infof("match %s: %s played %s", m.ID, m.seat(playerID), committed.Move)

	if committed.PromotionPending && promotion != model.NoKind {
		if err := m.promote(promotion); err != nil {
			return committed, err
		}
		committed.PromotionPending = false
		committed.Check = m.game.InCheck()
		committed.Ended = m.game.IsEnded()
	}
	m.broadcastState()
	return committed, nil
}

// Promote resolves a pending promotion for playerID.
func (m *Match) Promote(playerID string, kind model.Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.turnCheck(playerID); err != nil {
		return err
	}
	if err := m.promote(kind); err != nil {
		return err
	}
	m.broadcastState()
	return nil
}

func (m *Match) promote(kind model.Kind) error {
	if err := m.game.ResolvePromotion(kind); err != nil {
		return err
	}
	// the move log records promotions in coordinate form, "e7e8q"
	last := len(m.moves) - 1
	m.moves[last] += strings.ToLower(kind.Notation())
	if m.game.IsEnded() {
		log.Infof("match %s: %s", m.ID, m.game.Outcome())
	}
	return nil
}

// Reset restarts the match from the initial position. Only seated players
// may reset.
func (m *Match) Reset(playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seat(playerID) == model.NoSide {
		return ErrPlayerNotInGame
	}
	m.game.Reset()
	m.moves = nil
	log.Infof("match %s: reset by %s", m.ID, playerID)
	m.broadcastState()
	return nil
}

// PGN renders the game so far. A move still waiting for its promotion
// piece is left out until it is resolved.
func (m *Match) PGN() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	moves := m.moves
	if m.game.Phase() == model.AwaitingPromotion {
		moves = moves[:len(moves)-1]
	}
	return exportPGN(moves, m.white, m.black)
}

func (m *Match) RegisterConnection(playerID string, conn StateWriter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seat(playerID) == model.NoSide && !m.canSpectate() {
		return ErrNotAuthorized
	}

	m.connections.mu.Lock()
	m.connections.connections[playerID] = conn
	m.connections.mu.Unlock()
	log.Debugf("match %s: registered connection for %s", m.ID, playerID)

	m.broadcastState()
	return nil
}

func (m *Match) UnregisterConnection(playerID string, conn StateWriter) {
	m.connections.mu.Lock()
	defer m.connections.mu.Unlock()

	// a newer connection for the same player stays registered
	if current, ok := m.connections.connections[playerID]; ok && current == conn {
		delete(m.connections.connections, playerID)
		log.Debugf("match %s: unregistered connection for %s", m.ID, playerID)
	}
}

// broadcastState sends the current state to every connection and drops the
// ones that fail. Callers hold m.mu.
func (m *Match) broadcastState() {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, m.state())
	if err != nil {
		log.Errorf("match %s: encode state: %v", m.ID, err)
		return
	}

	m.connections.mu.Lock()
	defer m.connections.mu.Unlock()
	for playerID, conn := range m.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("match %s: failed to send state to %s: %v", m.ID, playerID, err)
			delete(m.connections.connections, playerID)
		}
	}
}
