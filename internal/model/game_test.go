package model

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// copyGame returns a deep copy of g for before/after comparisons.
func copyGame(g *Game) Game {
	c := *g
	c.legal = g.LegalMoves()
	return c
}

func diffGames(want, got Game) string {
	return cmp.Diff(want, got, cmp.AllowUnexported(Game{}), cmpopts.EquateEmpty())
}

func TestOpeningSequence(t *testing.T) {
	g := NewGame()
	if g.Phase() != Idle {
		t.Fatalf("phase = %v, want idle", g.Phase())
	}

	steps := []struct {
		from, to string
		next     Side
	}{
		{"e2", "e4", Black},
		{"e7", "e5", White},
		{"g1", "f3", Black},
	}
	for _, s := range steps {
		if _, err := g.MoveByAlgebraic(s.from, s.to); err != nil {
			t.Fatalf("%s%s: %v", s.from, s.to, err)
		}
		if got := g.ActiveSide(); got != s.next {
			t.Errorf("after %s%s active side = %v, want %v", s.from, s.to, got, s.next)
		}
		if g.Phase() != InPlay {
			t.Errorf("after %s%s phase = %v, want inPlay", s.from, s.to, g.Phase())
		}
	}

	snap := g.Snapshot()
	want := map[string]Cell{
		"e4": {Pawn, White},
		"e5": {Pawn, Black},
		"f3": {Knight, White},
		"g1": {},
		"e2": {},
		"e1": {King, White},
		"e8": {King, Black},
	}
	for sq, cell := range want {
		if got := snap[MustSquare(sq)]; got != cell {
			t.Errorf("snapshot[%s] = %+v, want %+v", sq, got, cell)
		}
	}
}

func TestRejectedMovesLeaveStateUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		setup   []string
		from    Square
		to      Square
		wantErr error
	}{
		{"black cannot open", nil, MustSquare("e7"), MustSquare("e5"), ErrWrongSide},
		{"wrong side later", []string{"e2e4"}, MustSquare("d2"), MustSquare("d4"), ErrWrongSide},
		{"empty origin", nil, MustSquare("e4"), MustSquare("e5"), ErrEmptyOrigin},
		{"not a legal destination", nil, MustSquare("e2"), MustSquare("e5"), ErrIllegalMove},
		{"same square", nil, MustSquare("e2"), MustSquare("e2"), ErrIllegalMove},
		{"blocked piece", nil, MustSquare("a1"), MustSquare("a3"), ErrIllegalMove},
		{"origin off board", nil, Square(64), MustSquare("e4"), ErrInvalidCoordinate},
		{"destination off board", nil, MustSquare("e2"), NoSquare, ErrInvalidCoordinate},
		{"after mate", []string{"f2f3", "e7e5", "g2g4", "d8h4"}, MustSquare("e1"), MustSquare("f2"), ErrGameAlreadyEnded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGame()
			play(t, g, tt.setup...)
			before := copyGame(g)

			_, err := g.AttemptMove(tt.from, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AttemptMove error = %v, want %v", err, tt.wantErr)
			}
			var moveErr *MoveError
			if !errors.As(err, &moveErr) {
				t.Fatalf("error %T is not a *MoveError", err)
			}
			if diff := diffGames(before, copyGame(g)); diff != "" {
				t.Errorf("state changed after rejection (-before +after):\n%s", diff)
			}
		})
	}
}

func TestMoveByAlgebraicRejectsMalformedInput(t *testing.T) {
	g := NewGame()
	before := copyGame(g)
	for _, in := range [][2]string{{"z9", "e4"}, {"e2", "e9"}, {"", "e4"}, {"e2", "e44"}} {
		if _, err := g.MoveByAlgebraic(in[0], in[1]); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("MoveByAlgebraic(%q, %q) error = %v, want ErrInvalidCoordinate", in[0], in[1], err)
		}
	}
	if diff := diffGames(before, copyGame(g)); diff != "" {
		t.Errorf("state changed after malformed input (-before +after):\n%s", diff)
	}
	if _, err := g.MoveByAlgebraic("E2", "E4"); err != nil {
		t.Errorf("upper-case squares rejected: %v", err)
	}
}

func TestKingsideCastleCommit(t *testing.T) {
	g := gameFromFEN(t, "4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	c, err := g.MoveByAlgebraic("e1", "g1")
	if err != nil {
		t.Fatalf("e1g1: %v", err)
	}
	if c.Move.Kind != KingsideCastle {
		t.Errorf("kind = %v, want kingsideCastle", c.Move.Kind)
	}
	b := g.Board()
	checks := map[string]Kind{"g1": King, "f1": Rook, "h1": NoKind, "e1": NoKind, "a1": Rook}
	for sq, kind := range checks {
		if got := b.At(MustSquare(sq)).Kind; got != kind {
			t.Errorf("%s holds %v, want %v", sq, got, kind)
		}
	}
	if got := g.Castling(); got.WhiteKingside || got.WhiteQueenside {
		t.Errorf("white castling rights = %+v, want both revoked", got)
	}
	if g.ActiveSide() != Black {
		t.Errorf("active side = %v, want black", g.ActiveSide())
	}
}

func TestQueensideCastleCommit(t *testing.T) {
	g := gameFromFEN(t, "r3k2r/8/8/8/8/8/8/4K3 b kq - 0 1")
	if _, err := g.MoveByAlgebraic("e8", "c8"); err != nil {
		t.Fatalf("e8c8: %v", err)
	}
	b := g.Board()
	if !b.At(MustSquare("c8")).Is(King, Black) || !b.At(MustSquare("d8")).Is(Rook, Black) || !b.At(MustSquare("a8")).IsEmpty() {
		t.Errorf("unexpected back rank after O-O-O: c8=%+v d8=%+v a8=%+v", b.At(MustSquare("c8")), b.At(MustSquare("d8")), b.At(MustSquare("a8")))
	}
	if got := g.Castling(); got.BlackKingside || got.BlackQueenside {
		t.Errorf("black castling rights = %+v, want both revoked", got)
	}
}

func TestCastlingRightsRevocation(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		moves []string
		want  Castling
	}{
		{
			name:  "queenside rook leaves home",
			fen:   "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			moves: []string{"a1a2"},
			want:  Castling{WhiteKingside: true, BlackKingside: true, BlackQueenside: true},
		},
		{
			name:  "rook captured in place",
			fen:   "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
			moves: []string{"h1h8"},
			want:  Castling{WhiteQueenside: true, BlackQueenside: true},
		},
		{
			name:  "king moves and returns",
			fen:   "4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1",
			moves: []string{"e1e2", "e8d8", "e2e1", "d8e8"},
			want:  Castling{},
		},
		{
			name:  "rook moves and returns",
			fen:   "4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1",
			moves: []string{"h1h2", "e8d8", "h2h1", "d8e8"},
			want:  Castling{WhiteQueenside: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gameFromFEN(t, tt.fen)
			play(t, g, tt.moves...)
			if diff := cmp.Diff(tt.want, g.Castling()); diff != "" {
				t.Errorf("castling mismatch (-want +got):\n%s", diff)
			}
		})
	}

	g := gameFromFEN(t, "4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	play(t, g, "e1e2", "e8d8", "e2e1", "d8e8")
	if hasMove(g, "e1g1") || hasMove(g, "e1c1") {
		t.Error("castling offered again after the king returned home")
	}
}

func TestPromotionGating(t *testing.T) {
	g := gameFromFEN(t, "k7/4P3/8/8/8/8/8/4K3 w - - 0 1")
	c, err := g.MoveByAlgebraic("e7", "e8")
	if err != nil {
		t.Fatalf("e7e8: %v", err)
	}
	if !c.PromotionPending || g.Phase() != AwaitingPromotion {
		t.Fatalf("promotion not pending: committed=%+v phase=%v", c, g.Phase())
	}
	if sq, ok := g.PromotionSquare(); !ok || sq != MustSquare("e8") {
		t.Errorf("promotion square = %v, %v; want e8", sq, ok)
	}
	if g.ActiveSide() != White {
		t.Errorf("turn passed before promotion was resolved")
	}

	before := copyGame(g)
	for _, mv := range [][2]string{{"e1", "e2"}, {"a8", "a7"}, {"e8", "e7"}} {
		if _, err := g.MoveByAlgebraic(mv[0], mv[1]); !errors.Is(err, ErrPromotionPending) {
			t.Errorf("%s%s error = %v, want ErrPromotionPending", mv[0], mv[1], err)
		}
	}
	for _, kind := range []Kind{King, Pawn, NoKind} {
		if err := g.ResolvePromotion(kind); !errors.Is(err, ErrInvalidPromotionTarget) {
			t.Errorf("ResolvePromotion(%v) error = %v, want ErrInvalidPromotionTarget", kind, err)
		}
	}
	if diff := diffGames(before, copyGame(g)); diff != "" {
		t.Fatalf("rejections changed state:\n%s", diff)
	}

	if err := g.ResolvePromotion(Queen); err != nil {
		t.Fatalf("ResolvePromotion(Queen): %v", err)
	}
	b := g.Board()
	if !b.At(MustSquare("e8")).Is(Queen, White) {
		t.Errorf("e8 holds %+v, want white queen", b.At(MustSquare("e8")))
	}
	if g.ActiveSide() != Black || g.Phase() != InPlay {
		t.Errorf("after promotion side=%v phase=%v, want black inPlay", g.ActiveSide(), g.Phase())
	}
	if !g.InCheck() {
		t.Error("queen on e8 should check the king on a8")
	}
	if err := g.ResolvePromotion(Queen); !errors.Is(err, ErrNoPromotionPending) {
		t.Errorf("second ResolvePromotion error = %v, want ErrNoPromotionPending", err)
	}
}

func TestPromotionCanEndTheGame(t *testing.T) {
	g := gameFromFEN(t, "k7/2P5/1K6/8/8/8/8/8 w - - 0 1")
	play(t, g, "c7c8r")
	if !g.IsEnded() || g.Outcome() != Checkmate {
		t.Fatalf("ended=%v outcome=%v, want checkmate", g.IsEnded(), g.Outcome())
	}
}

func TestUnderpromotionCapture(t *testing.T) {
	g := gameFromFEN(t, "r3k3/1P6/8/8/8/8/8/4K3 w q - 0 1")
	play(t, g, "b7a8n")
	b := g.Board()
	if !b.At(MustSquare("a8")).Is(Knight, White) {
		t.Errorf("a8 holds %+v, want white knight", b.At(MustSquare("a8")))
	}
	if g.Castling().BlackQueenside {
		t.Error("black queenside right kept after its rook was captured")
	}
}

func TestPromotes(t *testing.T) {
	tests := []struct {
		fen      string
		from, to string
		want     bool
	}{
		{startFEN, "e2", "e4", false},
		{"4k3/1P6/8/8/8/8/1p6/4K3 w - - 0 1", "b7", "b8", true},
		{"4k3/1P6/8/8/8/8/1p6/4K3 w - - 0 1", "b7", "a8", true},
		{"4k3/1P6/8/8/8/8/1p6/4K3 w - - 0 1", "e1", "e2", false},
		{"4k3/1P6/8/8/8/8/1p6/4K3 w - - 0 1", "b2", "b1", false},
		{"4k3/1P6/8/8/8/8/1p6/4K3 b - - 0 1", "b2", "b1", true},
		{"4k3/1P6/8/8/8/8/1p6/4K3 b - - 0 1", "b7", "b8", false},
		{"4k3/1P6/8/8/8/8/1p6/4K3 w - - 0 1", "c7", "c8", false},
	}
	for _, tt := range tests {
		g := gameFromFEN(t, tt.fen)
		if got := g.Promotes(MustSquare(tt.from), MustSquare(tt.to)); got != tt.want {
			t.Errorf("%s: Promotes(%s, %s) = %v, want %v", tt.fen, tt.from, tt.to, got, tt.want)
		}
	}
	if NewGame().Promotes(NoSquare, MustSquare("e4")) {
		t.Error("Promotes accepted an off-board origin")
	}
}

func TestEnPassantLifetime(t *testing.T) {
	g := NewGame()
	play(t, g, "e2e4", "a7a6", "e4e5", "d7d5")

	b := g.Board()
	if !b.At(MustSquare("d5")).MovedTwoLastPly {
		t.Fatal("d5 pawn should be capturable en passant")
	}
	if !hasMove(g, "e5d6") {
		t.Fatalf("e5d6 missing from %v", moveStrings(g))
	}

	// capture straight away
	captured := NewGame()
	play(t, captured, "e2e4", "a7a6", "e4e5", "d7d5")
	c, err := captured.MoveByAlgebraic("e5", "d6")
	if err != nil {
		t.Fatalf("e5d6: %v", err)
	}
	if c.Move.Kind != EnPassant || !c.Captured.Is(Pawn, Black) {
		t.Errorf("committed = %+v, want en passant capturing a black pawn", c)
	}
	cb := captured.Board()
	if !cb.At(MustSquare("d5")).IsEmpty() || !cb.At(MustSquare("d6")).Is(Pawn, White) {
		t.Errorf("after e5xd6: d5=%+v d6=%+v", cb.At(MustSquare("d5")), cb.At(MustSquare("d6")))
	}

	// or let the chance pass
	play(t, g, "h2h3")
	b = g.Board()
	if b.At(MustSquare("d5")).MovedTwoLastPly {
		t.Error("double-step marker survived the next ply")
	}
	play(t, g, "h7h6")
	if hasMove(g, "e5d6") {
		t.Error("en passant still offered two plies later")
	}
}

func TestCheckmateEndsGame(t *testing.T) {
	g := gameFromFEN(t, "7k/8/8/8/8/8/Q7/2K3R1 w - - 0 1")
	c, err := g.MoveByAlgebraic("a2", "h2")
	if err != nil {
		t.Fatalf("a2h2: %v", err)
	}
	if !c.Ended || !c.Check {
		t.Errorf("committed = %+v, want check and ended", c)
	}
	if !g.IsEnded() || g.Outcome() != Checkmate || g.Phase() != Ended {
		t.Errorf("ended=%v outcome=%v phase=%v", g.IsEnded(), g.Outcome(), g.Phase())
	}
	if len(g.LegalMoves()) != 0 {
		t.Errorf("mated side still has moves: %v", moveStrings(g))
	}
	if g.ActiveSide() != Black {
		t.Errorf("active side = %v, want black", g.ActiveSide())
	}
	if _, err := g.MoveByAlgebraic("h8", "g8"); !errors.Is(err, ErrGameAlreadyEnded) {
		t.Errorf("move after mate error = %v, want ErrGameAlreadyEnded", err)
	}
	if err := g.ResolvePromotion(Queen); !errors.Is(err, ErrGameAlreadyEnded) {
		t.Errorf("promotion after mate error = %v, want ErrGameAlreadyEnded", err)
	}
}

func TestStalemateEndsGame(t *testing.T) {
	g := gameFromFEN(t, "7k/4Q3/6K1/8/8/8/8/8 w - - 0 1")
	play(t, g, "e7f7")
	if !g.IsEnded() || g.Outcome() != Stalemate {
		t.Errorf("ended=%v outcome=%v, want stalemate", g.IsEnded(), g.Outcome())
	}
	if g.InCheck() {
		t.Error("stalemated king reported in check")
	}
}

func TestFoolsMate(t *testing.T) {
	g := NewGame()
	play(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	if !g.IsEnded() || g.Outcome() != Checkmate || g.ActiveSide() != White {
		t.Errorf("ended=%v outcome=%v side=%v", g.IsEnded(), g.Outcome(), g.ActiveSide())
	}
}

func TestReset(t *testing.T) {
	g := NewGame()
	play(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	g.Reset()
	if diff := diffGames(copyGame(NewGame()), copyGame(g)); diff != "" {
		t.Errorf("reset game differs from a new game:\n%s", diff)
	}
}

func TestRandomPlayoutInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for game := 0; game < 25; game++ {
		g := NewGame()
		for ply := 0; ply < 200 && !g.IsEnded(); ply++ {
			rights := g.Castling()
			m := playRandom(t, g, rng)
			mover := g.ActiveSide().Opponent()
			b := g.Board()

			for _, side := range []Side{White, Black} {
				kings := 0
				for _, p := range b {
					if p.Is(King, side) {
						kings++
					}
				}
				if kings != 1 {
					t.Fatalf("game %d ply %d: %v has %d kings", game, ply, side, kings)
				}
			}

			if capturable(&b, b.kingSquare(mover), mover.Opponent()) {
				t.Fatalf("game %d ply %d: %v left its king en prise with %s", game, ply, mover, m)
			}

			after := g.Castling()
			if (!rights.WhiteKingside && after.WhiteKingside) || (!rights.WhiteQueenside && after.WhiteQueenside) ||
				(!rights.BlackKingside && after.BlackKingside) || (!rights.BlackQueenside && after.BlackQueenside) {
				t.Fatalf("game %d ply %d: castling right regained: %+v -> %+v", game, ply, rights, after)
			}

			for sq, p := range b {
				want := m.Kind == TwoSquareAdvance && Square(sq) == m.To
				if p.MovedTwoLastPly != want {
					t.Fatalf("game %d ply %d: %s double-step marker = %v after %s", game, ply, Square(sq), p.MovedTwoLastPly, m)
				}
			}
		}
	}
}
