package service

import (
	"context"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type GameManager struct {
	games            map[string]*Match
	queue            *model.Queue
	matchingChannels map[string]chan model.MatchFoundEvent
	interval         time.Duration
	mu               sync.RWMutex
}

// NewGameManager returns an empty manager. Matchmaking only pairs players
// while Run is active.
func NewGameManager(interval time.Duration) *GameManager {
	return &GameManager{
		games:            make(map[string]*Match),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan model.MatchFoundEvent),
		interval:         interval,
	}
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context) {
	ticker := time.NewTicker(gm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.matchPlayers()
		}
	}
}

// matchPlayers seats every queued pair in a fresh game and notifies both
// players on their matchmaking channels.
func (gm *GameManager) matchPlayers() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		queued1, queued2, ok := gm.queue.NextPair(gm.listening)
		if !ok {
			return
		}
		player1, player2 := queued1.Player, queued2.Player

		gameID := uuid.New().String()
		match := NewMatch(gameID)
		p1Color, err := match.AddPlayer(player1.ID)
		if err != nil {
			log.Errorf("matchmaking: seat %s in %s: %v", player1.ID, gameID, err)
			continue
		}
		p2Color, err := match.AddPlayer(player2.ID)
		if err != nil {
			log.Errorf("matchmaking: seat %s in %s: %v", player2.ID, gameID, err)
			continue
		}
		gm.games[gameID] = match
		log.Infof("matchmaking: paired %s and %s in %s after %s", player1.ID, player2.ID, gameID,
			time.Since(queued1.JoinedAt).Round(time.Millisecond))

		gm.notifyMatch(player1.ID, model.MatchFoundEvent{GameID: gameID, Color: p1Color})
		gm.notifyMatch(player2.ID, model.MatchFoundEvent{GameID: gameID, Color: p2Color})
	}
}

// listening reports whether the player has a matchmaking channel open.
// Players without one stay queued until they connect. Callers hold gm.mu.
func (gm *GameManager) listening(p model.Player) bool {
	_, ok := gm.matchingChannels[p.ID]
	return ok
}

// notifyMatch sends event to the player's channel and closes it. Callers
// hold gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		log.Warnf("matchmaking: no channel for %s, game %s", playerID, event.GameID)
		return
	}
	delete(gm.matchingChannels, playerID)

	select {
	case ch <- event:
	default:
		log.Warnf("matchmaking: failed to notify %s of game %s", playerID, event.GameID)
	}
	close(ch)
}

// RegisterMatchmakingChannel sets the channel a player's match is announced
// on. A channel registered earlier for the same player is closed.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, ok := gm.matchingChannels[playerID]; ok {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel forgets a player's channel without closing
// it and takes the player out of the queue.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan model.MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
		gm.queue.RemovePlayer(playerID)
	}
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		return err
	}
	log.Debugf("matchmaking: %s joined the queue", playerID)
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.RemovePlayer(playerID)
}

func (gm *GameManager) QueueSize() int {
	return gm.queue.Size()
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}
	gm.games[gameID] = NewMatch(gameID)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*Match, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	match, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return match, nil
}

func (gm *GameManager) AddPlayerToGame(gameID, playerID string) (model.Side, error) {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return model.NoSide, err
	}
	return match.AddPlayer(playerID)
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return match.State(), nil
}

func (gm *GameManager) MakeMove(gameID, playerID string, move model.WSMove) (model.Committed, error) {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return model.Committed{}, err
	}
	return match.MakeMove(playerID, move)
}

func (gm *GameManager) Promote(gameID, playerID string, kind model.Kind) error {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return match.Promote(playerID, kind)
}

func (gm *GameManager) ResetGame(gameID, playerID string) error {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return match.Reset(playerID)
}

func (gm *GameManager) PGN(gameID string) (string, error) {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return match.PGN()
}

func (gm *GameManager) RegisterConnection(gameID, playerID string, conn StateWriter) error {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return match.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID, playerID string, conn StateWriter) {
	match, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	match.UnregisterConnection(playerID, conn)
}
