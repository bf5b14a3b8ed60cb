package model

type direction struct {
	df, dr int
}

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightDirs = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// pseudoMoves returns the geometrically reachable destinations of the piece
// on from. King safety is not considered. Castling is only generated when
// castling holds the matching right.
func pseudoMoves(b *Board, castling Castling, from Square) []Target {
	piece := b[from]
	switch piece.Kind {
	case Pawn:
		return pseudoPawnMoves(b, from, piece.Side)
	case Knight:
		return pseudoLeaperMoves(b, from, piece.Side, knightDirs)
	case Bishop:
		return pseudoSliderMoves(b, from, piece.Side, bishopDirs)
	case Rook:
		return pseudoSliderMoves(b, from, piece.Side, rookDirs)
	case Queen:
		return append(pseudoSliderMoves(b, from, piece.Side, bishopDirs), pseudoSliderMoves(b, from, piece.Side, rookDirs)...)
	case King:
		return append(pseudoLeaperMoves(b, from, piece.Side, kingDirs), pseudoCastleMoves(b, castling, from, piece.Side)...)
	}
	return nil
}

func pseudoPawnMoves(b *Board, from Square, side Side) []Target {
	var moves []Target
	fwd := side.forward()

	one := from.offset(0, fwd)
	if one != NoSquare && b.isEmpty(one) {
		moves = append(moves, Target{To: one, Kind: PlainMove})
		two := from.offset(0, 2*fwd)
		if !b[from].HasMoved && two != NoSquare && b.isEmpty(two) {
			moves = append(moves, Target{To: two, Kind: TwoSquareAdvance})
		}
	}

	for _, df := range [2]int{-1, 1} {
		to := from.offset(df, fwd)
		if to == NoSquare {
			continue
		}
		target := b[to]
		if !target.IsEmpty() {
			if target.Side != side {
				moves = append(moves, Target{To: to, Kind: Capture})
			}
			continue
		}
		// en passant: the pawn being passed sits behind the destination
		behind := from.offset(df, 0)
		victim := b[behind]
		if victim.Is(Pawn, side.Opponent()) && victim.MovedTwoLastPly {
			moves = append(moves, Target{To: to, Kind: EnPassant})
		}
	}
	return moves
}

func pseudoLeaperMoves(b *Board, from Square, side Side, dirs []direction) []Target {
	var moves []Target
	for _, dir := range dirs {
		to := from.offset(dir.df, dir.dr)
		if to == NoSquare {
			continue
		}
		switch target := b[to]; {
		case target.IsEmpty():
			moves = append(moves, Target{To: to, Kind: PlainMove})
		case target.Side != side:
			moves = append(moves, Target{To: to, Kind: Capture})
		}
	}
	return moves
}

func pseudoSliderMoves(b *Board, from Square, side Side, dirs []direction) []Target {
	var moves []Target
	for _, dir := range dirs {
		for to := from.offset(dir.df, dir.dr); to != NoSquare; to = to.offset(dir.df, dir.dr) {
			target := b[to]
			if target.IsEmpty() {
				moves = append(moves, Target{To: to, Kind: PlainMove})
				continue
			}
			if target.Side != side {
				moves = append(moves, Target{To: to, Kind: Capture})
			}
			break
		}
	}
	return moves
}

func pseudoCastleMoves(b *Board, castling Castling, from Square, side Side) []Target {
	if from != kingHome(side) {
		return nil
	}
	var moves []Target
	for _, kingside := range [2]bool{true, false} {
		if !castling.Has(side, kingside) {
			continue
		}
		rook := rookHome(side, kingside)
		if !b[rook].Is(Rook, side) {
			continue
		}
		step, kind := -1, QueensideCastle
		if kingside {
			step, kind = 1, KingsideCastle
		}
		clear := true
		for sq := from.offset(step, 0); sq != rook; sq = sq.offset(step, 0) {
			if !b.isEmpty(sq) {
				clear = false
				break
			}
		}
		if clear {
			moves = append(moves, Target{To: from.offset(2*step, 0), Kind: kind})
		}
	}
	return moves
}

// sidePseudoMoves returns the pseudo moves of every piece of side, keyed by
// origin.
func sidePseudoMoves(b *Board, castling Castling, side Side) map[Square][]Target {
	moves := make(map[Square][]Target)
	for sq := Square(0); sq < 64; sq++ {
		if b[sq].Side != side {
			continue
		}
		if targets := pseudoMoves(b, castling, sq); len(targets) > 0 {
			moves[sq] = targets
		}
	}
	return moves
}
