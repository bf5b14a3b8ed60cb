package model

// Board is the 8x8 grid. It is a value type; copying it copies every square.
type Board [64]Piece

// Cell is the rendering view of a square.
type Cell struct {
	Kind Kind `json:"type"`
	Side Side `json:"color"`
}

// Castling holds the four castling rights. A right is never regained once lost.
type Castling struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

func allCastling() Castling {
	return Castling{WhiteKingside: true, WhiteQueenside: true, BlackKingside: true, BlackQueenside: true}
}

// Has reports whether side may still castle on the given wing.
func (c Castling) Has(side Side, kingside bool) bool {
	switch {
	case side == White && kingside:
		return c.WhiteKingside
	case side == White:
		return c.WhiteQueenside
	case side == Black && kingside:
		return c.BlackKingside
	case side == Black:
		return c.BlackQueenside
	}
	return false
}

func (c *Castling) revoke(side Side, kingside bool) {
	switch {
	case side == White && kingside:
		c.WhiteKingside = false
	case side == White:
		c.WhiteQueenside = false
	case side == Black && kingside:
		c.BlackKingside = false
	case side == Black:
		c.BlackQueenside = false
	}
}

var backRank = [8]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func newBoard() Board {
	var b Board
	for file, kind := range backRank {
		b[NewSquare(file, 0)] = NewPiece(kind, White)
		b[NewSquare(file, 1)] = NewPiece(Pawn, White)
		b[NewSquare(file, 6)] = NewPiece(Pawn, Black)
		b[NewSquare(file, 7)] = NewPiece(kind, Black)
	}
	return b
}

func (b *Board) At(sq Square) Piece {
	return b[sq]
}

// Get returns the piece at file and rank, or an empty piece off the board.
func (b *Board) Get(file, rank int) Piece {
	sq := NewSquare(file, rank)
	if sq == NoSquare {
		return Piece{}
	}
	return b[sq]
}

func (b *Board) isEmpty(sq Square) bool {
	return b[sq].IsEmpty()
}

// kingSquare returns the square of side's king, or NoSquare.
func (b *Board) kingSquare(side Side) Square {
	for sq := Square(0); sq < 64; sq++ {
		if b[sq].Is(King, side) {
			return sq
		}
	}
	return NoSquare
}

// clearEnPassant drops every pawn's double-step marker.
func (b *Board) clearEnPassant() {
	for sq := range b {
		b[sq].MovedTwoLastPly = false
	}
}

// Snapshot returns the kind and side of every square, indexed by Square.
func (b *Board) Snapshot() [64]Cell {
	var cells [64]Cell
	for sq, p := range b {
		cells[sq] = Cell{Kind: p.Kind, Side: p.Side}
	}
	return cells
}

// rookHome returns the starting square of side's rook on the given wing.
func rookHome(side Side, kingside bool) Square {
	file := 0
	if kingside {
		file = 7
	}
	return NewSquare(file, side.homeRank())
}

func kingHome(side Side) Square {
	return NewSquare(4, side.homeRank())
}
