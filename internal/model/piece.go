package model

import (
	"fmt"
	"strings"
)

// Kind is the type of a board occupant.
type Kind uint8

const (
	NoKind Kind = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
)

var kindNames = [...]string{
	NoKind: "",
	Pawn:   "pawn",
	Rook:   "rook",
	Knight: "knight",
	Bishop: "bishop",
	Queen:  "queen",
	King:   "king",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Notation returns the upper-case letter used for the kind in move text.
// Pawns and empty squares have no letter.
func (k Kind) Notation() string {
	switch k {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind accepts a piece name ("queen") or its letter ("q"), in any case.
// An empty string parses to NoKind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return NoKind, nil
	case "p", "pawn":
		return Pawn, nil
	case "r", "rook":
		return Rook, nil
	case "n", "knight":
		return Knight, nil
	case "b", "bishop":
		return Bishop, nil
	case "q", "queen":
		return Queen, nil
	case "k", "king":
		return King, nil
	}
	return NoKind, fmt.Errorf("unknown piece kind %q", s)
}

// Side is the owner of a piece, or the player to move.
type Side uint8

const (
	NoSide Side = iota
	White
	Black
)

func (s Side) String() string {
	switch s {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return ""
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Opponent returns the other side. NoSide has no opponent.
func (s Side) Opponent() Side {
	switch s {
	case White:
		return Black
	case Black:
		return White
	}
	return NoSide
}

// forward is the rank delta of a pawn advance for the side.
func (s Side) forward() int {
	if s == Black {
		return -1
	}
	return 1
}

// homeRank is the rank the side's king and rooks start on.
func (s Side) homeRank() int {
	if s == Black {
		return 7
	}
	return 0
}

// lastRank is the rank on which the side's pawns promote.
func (s Side) lastRank() int {
	if s == Black {
		return 0
	}
	return 7
}

// Piece describes what stands on a square. The zero value is an empty square.
type Piece struct {
	Kind     Kind `json:"type"`
	Side     Side `json:"color"`
	HasMoved bool `json:"hasMoved"`
	// MovedTwoLastPly is set on a pawn for the single ply after its double step.
	MovedTwoLastPly bool `json:"movedTwoLastPly"`
}

func NewPiece(kind Kind, side Side) Piece {
	if kind == NoKind || side == NoSide {
		return Piece{}
	}
	return Piece{Kind: kind, Side: side}
}

func (p Piece) IsEmpty() bool {
	return p.Kind == NoKind
}

func (p Piece) Is(kind Kind, side Side) bool {
	return p.Kind == kind && p.Side == side
}
