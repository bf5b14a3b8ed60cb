package model

import (
	"strings"
	"testing"
)

var fenKinds = map[byte]Kind{
	'p': Pawn, 'r': Rook, 'n': Knight, 'b': Bishop, 'q': Queen, 'k': King,
}

// gameFromFEN builds a game from the first four FEN fields. Pawns off their
// start rank are marked as moved, and the pawn that can be taken en passant
// gets its double-step marker.
func gameFromFEN(t *testing.T, fen string) *Game {
	t.Helper()
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		t.Fatalf("fen %q: want at least 4 fields", fen)
	}

	var b Board
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		t.Fatalf("fen %q: want 8 ranks, got %d", fen, len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			side := White
			lower := c
			if c >= 'a' && c <= 'z' {
				side = Black
			} else {
				lower = c + ('a' - 'A')
			}
			kind, ok := fenKinds[lower]
			if !ok {
				t.Fatalf("fen %q: bad piece %q", fen, c)
			}
			p := NewPiece(kind, side)
			if kind == Pawn {
				start := 1
				if side == Black {
					start = 6
				}
				p.HasMoved = rank != start
			}
			b[NewSquare(file, rank)] = p
			file++
		}
		if file != 8 {
			t.Fatalf("fen %q: rank %d has %d files", fen, rank+1, file)
		}
	}

	g := &Game{board: b, promotion: NoSquare, phase: InPlay}
	switch fields[1] {
	case "w":
		g.sideToMove = White
	case "b":
		g.sideToMove = Black
	default:
		t.Fatalf("fen %q: bad side %q", fen, fields[1])
	}
	g.castling = Castling{
		WhiteKingside:  strings.Contains(fields[2], "K"),
		WhiteQueenside: strings.Contains(fields[2], "Q"),
		BlackKingside:  strings.Contains(fields[2], "k"),
		BlackQueenside: strings.Contains(fields[2], "q"),
	}
	if fields[3] != "-" {
		ep, err := ParseSquare(fields[3])
		if err != nil {
			t.Fatalf("fen %q: %v", fen, err)
		}
		// the passed pawn stands one rank beyond the target square
		victim := ep.offset(0, -g.sideToMove.forward())
		g.board[victim].MovedTwoLastPly = true
	}

	g.legal = legalMoves(&g.board, g.castling, g.sideToMove)
	if len(g.legal) == 0 {
		g.legal = nil
		g.phase = Ended
		g.outcome = Stalemate
		if inCheck(&g.board, g.sideToMove) {
			g.outcome = Checkmate
		}
	}
	return g
}

// play commits a sequence of "e2e4"-style moves, failing the test on the
// first rejection. "e7e8q" resolves the promotion it triggers.
func play(t *testing.T, g *Game, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		if _, err := g.MoveByAlgebraic(mv[0:2], mv[2:4]); err != nil {
			t.Fatalf("move %s: %v", mv, err)
		}
		if len(mv) == 5 {
			kind, err := ParseKind(mv[4:])
			if err != nil {
				t.Fatalf("move %s: %v", mv, err)
			}
			if err := g.ResolvePromotion(kind); err != nil {
				t.Fatalf("move %s: %v", mv, err)
			}
		}
	}
}

// moveStrings renders the legal-move list of g as sorted "e2e4" strings.
func moveStrings(g *Game) []string {
	var out []string
	for _, m := range g.LegalMoveList() {
		out = append(out, m.String())
	}
	return out
}

func hasMove(g *Game, mv string) bool {
	for _, s := range moveStrings(g) {
		if s == mv {
			return true
		}
	}
	return false
}
