package model

// ClientPlayer is a seat as shown to clients.
type ClientPlayer struct {
	ID    string `json:"name"`
	Color Side   `json:"color"`
}

// GameState is the client view of a game.
type GameState struct {
	Board           [64]Cell    `json:"board"`
	ToMove          Side        `json:"toMove"`
	Phase           Phase       `json:"phase"`
	IsCheck         bool        `json:"isCheck"`
	Castling        Castling    `json:"castling"`
	LegalMoves      []Move      `json:"legalMoves"`
	PromotionSquare *Square     `json:"promotionSquare"`
	Resolve         *string     `json:"resolve"`
	LastMove        *SimpleMove `json:"lastMove"`
	MoveHistory     []string    `json:"moveHistory"`
	Players         struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

// State builds the client view of g. Players and MoveHistory are left for
// the caller to fill in.
func (g *Game) State() GameState {
	state := GameState{
		Board:       g.Snapshot(),
		ToMove:      g.sideToMove,
		Phase:       g.phase,
		IsCheck:     g.InCheck(),
		Castling:    g.castling,
		LegalMoves:  g.LegalMoveList(),
		MoveHistory: make([]string, 0),
	}
	if state.LegalMoves == nil {
		state.LegalMoves = make([]Move, 0)
	}
	if sq, ok := g.PromotionSquare(); ok {
		state.PromotionSquare = &sq
	}
	if g.phase == Ended {
		result := g.outcome.String()
		state.Resolve = &result
	}
	if m, ok := g.LastMove(); ok {
		state.LastMove = &SimpleMove{From: m.From, To: m.To}
	}
	state.Players.White.Color = White
	state.Players.Black.Color = Black
	return state
}
