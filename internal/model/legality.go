package model

import "fmt"

// legalMoves filters the pseudo moves of side down to those that do not
// leave its king capturable. Origins without a legal destination are
// omitted.
func legalMoves(b *Board, castling Castling, side Side) map[Square][]Target {
	kingSq := mustKingSquare(b, side)
	legal := make(map[Square][]Target)
	for from, targets := range sidePseudoMoves(b, castling, side) {
		var kept []Target
		for _, t := range targets {
			if isLegal(b, side, kingSq, Move{From: from, To: t.To, Kind: t.Kind}) {
				kept = append(kept, t)
			}
		}
		if len(kept) > 0 {
			legal[from] = kept
		}
	}
	return legal
}

// isLegal tests a single pseudo move of side. The board is left unchanged.
func isLegal(b *Board, side Side, kingSq Square, m Move) bool {
	if m.Kind.IsCastle() {
		// no castling out of check or across an attacked square
		if capturable(b, kingSq, side.Opponent()) {
			return false
		}
		step := Move{From: m.From, To: m.Kind.transit(m.From), Kind: PlainMove}
		if !survives(b, side, kingSq, step) {
			return false
		}
	}
	return survives(b, side, kingSq, m)
}

// survives applies m, checks whether the opponent could then take side's
// king, and reverts.
func survives(b *Board, side Side, kingSq Square, m Move) bool {
	if b[m.From].Kind == King {
		kingSq = m.To
	}
	undo := applyMove(b, m)
	safe := !capturable(b, kingSq, side.Opponent())
	undo.revert(b)
	return safe
}

// capturable reports whether any pseudo move of attacker lands on sq.
// Castling is left out since it never captures.
func capturable(b *Board, sq Square, attacker Side) bool {
	for from := Square(0); from < 64; from++ {
		if b[from].Side != attacker {
			continue
		}
		for _, t := range pseudoMoves(b, Castling{}, from) {
			if t.To == sq {
				return true
			}
		}
	}
	return false
}

// inCheck reports whether side's king is currently capturable.
func inCheck(b *Board, side Side) bool {
	return capturable(b, mustKingSquare(b, side), side.Opponent())
}

func mustKingSquare(b *Board, side Side) Square {
	sq := b.kingSquare(side)
	if sq == NoSquare {
		panic(fmt.Sprintf("model: no %s king on the board", side))
	}
	return sq
}
