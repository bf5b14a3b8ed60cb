package model

// MoveKind tags a move with the board effects it carries beyond moving the
// piece from origin to destination. The generator produces it and applyMove
// consumes it; both read the effects from moveKinds.
type MoveKind uint8

const (
	PlainMove MoveKind = iota
	TwoSquareAdvance
	EnPassant
	Capture
	KingsideCastle
	QueensideCastle
)

type moveEffects struct {
	name string
	// captures is set when an enemy piece is removed by the move.
	captures bool
	// behind is set when the captured piece is not on the destination but
	// beside the origin, on the destination file.
	behind bool
	// castle is set when a rook is relocated along with the king.
	castle   bool
	kingside bool
}

var moveKinds = [...]moveEffects{
	PlainMove:        {name: "plain"},
	TwoSquareAdvance: {name: "twoSquareAdvance"},
	EnPassant:        {name: "enPassant", captures: true, behind: true},
	Capture:          {name: "capture", captures: true},
	KingsideCastle:   {name: "kingsideCastle", castle: true, kingside: true},
	QueensideCastle:  {name: "queensideCastle", castle: true},
}

func (k MoveKind) String() string {
	if int(k) < len(moveKinds) {
		return moveKinds[k].name
	}
	return "unknown"
}

func (k MoveKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k MoveKind) IsCastle() bool { return moveKinds[k].castle }

// captureSquare returns the square whose occupant the move removes, or
// NoSquare.
func (k MoveKind) captureSquare(from, to Square) Square {
	e := moveKinds[k]
	switch {
	case !e.captures:
		return NoSquare
	case e.behind:
		return NewSquare(to.File(), from.Rank())
	default:
		return to
	}
}

// rookShift returns the rook relocation of a castle made by the king on from.
func (k MoveKind) rookShift(from Square) (rookFrom, rookTo Square, ok bool) {
	e := moveKinds[k]
	if !e.castle {
		return NoSquare, NoSquare, false
	}
	if e.kingside {
		return NewSquare(7, from.Rank()), NewSquare(5, from.Rank()), true
	}
	return NewSquare(0, from.Rank()), NewSquare(3, from.Rank()), true
}

// transit returns the square a castling king crosses on its way to the
// destination, or NoSquare for any other kind.
func (k MoveKind) transit(from Square) Square {
	e := moveKinds[k]
	if !e.castle {
		return NoSquare
	}
	if e.kingside {
		return from.offset(1, 0)
	}
	return from.offset(-1, 0)
}

// Target is one entry of a legal-move index: a destination with its kind.
type Target struct {
	To   Square   `json:"to"`
	Kind MoveKind `json:"kind"`
}

// Move is a fully specified move.
type Move struct {
	From Square   `json:"from"`
	To   Square   `json:"to"`
	Kind MoveKind `json:"kind"`
}

// String returns the coordinate form of the move ("e2e4").
func (m Move) String() string {
	return m.From.String() + m.To.String()
}

// UndoToken records the prior contents of every square a move touched.
// Reverting it restores the board exactly.
type UndoToken struct {
	n       int
	squares [4]Square
	saved   [4]Piece
}

func (u *UndoToken) save(b *Board, sq Square) {
	u.squares[u.n] = sq
	u.saved[u.n] = b[sq]
	u.n++
}

func (u *UndoToken) revert(b *Board) {
	for i := u.n - 1; i >= 0; i-- {
		b[u.squares[i]] = u.saved[i]
	}
	u.n = 0
}

// applyMove performs the board effect of m and returns what is needed to
// undo it. It touches the mover's HasMoved and MovedTwoLastPly flags but no
// game-level state.
func applyMove(b *Board, m Move) UndoToken {
	var u UndoToken
	u.save(b, m.From)
	u.save(b, m.To)

	if victim := m.Kind.captureSquare(m.From, m.To); victim != NoSquare && victim != m.To {
		u.save(b, victim)
		b[victim] = Piece{}
	}
	if rookFrom, rookTo, ok := m.Kind.rookShift(m.From); ok {
		u.save(b, rookFrom)
		u.save(b, rookTo)
		rook := b[rookFrom]
		rook.HasMoved = true
		b[rookTo] = rook
		b[rookFrom] = Piece{}
	}

	mover := b[m.From]
	mover.HasMoved = true
	mover.MovedTwoLastPly = m.Kind == TwoSquareAdvance
	b[m.To] = mover
	b[m.From] = Piece{}
	return u
}

// WSMove is a move request as it arrives from a client.
type WSMove struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

type SimpleMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}
