package model

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Phase is the controller state of a game.
type Phase uint8

const (
	// Idle is the start position before White's first move.
	Idle Phase = iota
	InPlay
	// AwaitingPromotion blocks every move until the pawn that reached the
	// last rank has been promoted.
	AwaitingPromotion
	Ended
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case InPlay:
		return "inPlay"
	case AwaitingPromotion:
		return "awaitingPromotion"
	case Ended:
		return "ended"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Outcome tells how an ended game ended.
type Outcome uint8

const (
	NoOutcome Outcome = iota
	Checkmate
	Stalemate
)

func (o Outcome) String() string {
	switch o {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	}
	return ""
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Game owns a board and the rules state around it. It is not safe for
// concurrent use; callers sharing a Game must serialise every call.
type Game struct {
	board      Board
	sideToMove Side
	castling   Castling
	promotion  Square
	phase      Phase
	outcome    Outcome
	lastMove   *Move
	// legal is the legal-move index of sideToMove. It is rebuilt after every
	// commit and is nil while a promotion is pending or the game has ended.
	legal map[Square][]Target
}

// Committed describes a move that was applied.
type Committed struct {
	Move             Move  `json:"move"`
	Piece            Kind  `json:"piece"`
	Captured         Piece `json:"captured"`
	PromotionPending bool  `json:"promotionPending"`
	Check            bool  `json:"check"`
	Ended            bool  `json:"ended"`
}

// NewGame returns the standard start position with White to move.
func NewGame() *Game {
	g := &Game{
		board:      newBoard(),
		sideToMove: White,
		castling:   allCastling(),
		promotion:  NoSquare,
		phase:      Idle,
	}
	g.legal = legalMoves(&g.board, g.castling, g.sideToMove)
	return g
}

// Reset puts the game back to the start position.
func (g *Game) Reset() {
	*g = *NewGame()
}

// MoveByAlgebraic is AttemptMove with squares given as "e2", "e4".
func (g *Game) MoveByAlgebraic(from, to string) (Committed, error) {
	fromSq, err := ParseSquare(from)
	if err != nil {
		return Committed{}, err
	}
	toSq, err := ParseSquare(to)
	if err != nil {
		return Committed{}, err
	}
	return g.AttemptMove(fromSq, toSq)
}

// AttemptMove commits the move from -> to if it is legal for the side to
// move. On rejection the returned error is a *MoveError and the game is
// unchanged.
func (g *Game) AttemptMove(from, to Square) (Committed, error) {
	reject := func(err error) (Committed, error) {
		return Committed{}, &MoveError{From: from, To: to, Err: err}
	}

	switch g.phase {
	case Ended:
		return reject(ErrGameAlreadyEnded)
	case AwaitingPromotion:
		return reject(ErrPromotionPending)
	}
	if !from.Valid() || !to.Valid() {
		return reject(ErrInvalidCoordinate)
	}
	if from == to {
		return reject(ErrIllegalMove)
	}

	piece := g.board[from]
	if piece.IsEmpty() {
		return reject(ErrEmptyOrigin)
	}
	if piece.Side != g.sideToMove {
		return reject(ErrWrongSide)
	}

	target, ok := g.lookup(from, to)
	if !ok {
		return reject(ErrIllegalMove)
	}
	return g.commit(Move{From: from, To: to, Kind: target.Kind}), nil
}

func (g *Game) lookup(from, to Square) (Target, bool) {
	for _, t := range g.legal[from] {
		if t.To == to {
			return t, true
		}
	}
	return Target{}, false
}

func (g *Game) commit(m Move) Committed {
	mover := g.board[m.From]
	var captured Piece
	if victim := m.Kind.captureSquare(m.From, m.To); victim != NoSquare {
		captured = g.board[victim]
	}

	g.board.clearEnPassant()
	applyMove(&g.board, m)
	g.revokeForMover(mover, m)
	g.revokeVacatedHomes()
	g.lastMove = &m
	g.phase = InPlay

	c := Committed{Move: m, Piece: mover.Kind, Captured: captured}
	if mover.Kind == Pawn && m.To.Rank() == mover.Side.lastRank() {
		g.promotion = m.To
		g.phase = AwaitingPromotion
		g.legal = nil
		c.PromotionPending = true
		return c
	}

	g.finishTurn()
	c.Check = g.InCheck()
	c.Ended = g.phase == Ended
	return c
}

// ResolvePromotion replaces the pawn awaiting promotion with a piece of the
// given kind and hands the turn over.
func (g *Game) ResolvePromotion(kind Kind) error {
	switch g.phase {
	case Ended:
		return fmt.Errorf("promote to %s: %w", kind, ErrGameAlreadyEnded)
	case AwaitingPromotion:
	default:
		return fmt.Errorf("promote to %s: %w", kind, ErrNoPromotionPending)
	}
	switch kind {
	case Rook, Knight, Bishop, Queen:
	default:
		return fmt.Errorf("promote to %q: %w", kind, ErrInvalidPromotionTarget)
	}

	g.board[g.promotion].Kind = kind
	g.promotion = NoSquare
	g.phase = InPlay
	g.revokeVacatedHomes()
	g.finishTurn()
	return nil
}

func (g *Game) finishTurn() {
	g.sideToMove = g.sideToMove.Opponent()
	g.legal = legalMoves(&g.board, g.castling, g.sideToMove)
	if len(g.legal) > 0 {
		return
	}
	g.legal = nil
	g.phase = Ended
	if inCheck(&g.board, g.sideToMove) {
		g.outcome = Checkmate
	} else {
		g.outcome = Stalemate
	}
}

// revokeForMover drops the rights a king or rook gives up by moving.
func (g *Game) revokeForMover(mover Piece, m Move) {
	switch {
	case mover.Kind == King:
		g.castling.revoke(mover.Side, true)
		g.castling.revoke(mover.Side, false)
	case mover.Kind == Rook && m.From == rookHome(mover.Side, true):
		g.castling.revoke(mover.Side, true)
	case mover.Kind == Rook && m.From == rookHome(mover.Side, false):
		g.castling.revoke(mover.Side, false)
	}
}

// revokeVacatedHomes drops the rights whose rook no longer stands on its
// home square, which covers a rook captured where it started.
func (g *Game) revokeVacatedHomes() {
	for _, side := range [2]Side{White, Black} {
		for _, kingside := range [2]bool{true, false} {
			if !g.board[rookHome(side, kingside)].Is(Rook, side) {
				g.castling.revoke(side, kingside)
			}
		}
	}
}

func (g *Game) IsEnded() bool { return g.phase == Ended }
func (g *Game) ActiveSide() Side { return g.sideToMove }
func (g *Game) Phase() Phase { return g.phase }
func (g *Game) Outcome() Outcome { return g.outcome }
func (g *Game) Castling() Castling { return g.castling }

// Board returns a copy of the board.
func (g *Game) Board() Board { return g.board }

func (g *Game) Snapshot() [64]Cell { return g.board.Snapshot() }

// InCheck reports whether the side to move has its king attacked.
func (g *Game) InCheck() bool {
	return inCheck(&g.board, g.sideToMove)
}

// Promotes reports whether moving the piece on from to to would bring a pawn
// of the side to move onto its last rank. Legality is not checked.
func (g *Game) Promotes(from, to Square) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	p := g.board[from]
	return p.Is(Pawn, g.sideToMove) && to.Rank() == p.Side.lastRank()
}

// PromotionSquare returns the square of the pawn awaiting promotion.
func (g *Game) PromotionSquare() (Square, bool) {
	return g.promotion, g.promotion != NoSquare
}

// LastMove returns the most recently committed move.
func (g *Game) LastMove() (Move, bool) {
	if g.lastMove == nil {
		return Move{}, false
	}
	return *g.lastMove, true
}

// LegalMoves returns a copy of the legal-move index of the side to move.
func (g *Game) LegalMoves() map[Square][]Target {
	index := make(map[Square][]Target, len(g.legal))
	for from, targets := range g.legal {
		index[from] = slices.Clone(targets)
	}
	return index
}

// LegalTargets returns the legal destinations of the piece on from.
func (g *Game) LegalTargets(from Square) []Target {
	return slices.Clone(g.legal[from])
}

// LegalMoveList returns every legal move, ordered by origin square.
func (g *Game) LegalMoveList() []Move {
	origins := maps.Keys(g.legal)
	slices.Sort(origins)
	var moves []Move
	for _, from := range origins {
		for _, t := range g.legal[from] {
			moves = append(moves, Move{From: from, To: t.To, Kind: t.Kind})
		}
	}
	return moves
}
