package model

import (
	"fmt"
	"strings"
)

// Square is a flat board index, rank*8+file, with a1 = 0 and h8 = 63.
type Square int8

const NoSquare Square = -1

// NewSquare returns the square at file and rank (both 0-7), or NoSquare when
// either is off the board.
func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

func (s Square) File() int { return int(s) % 8 }
func (s Square) Rank() int { return int(s) / 8 }

func (s Square) Valid() bool {
	return s >= 0 && s < 64
}

// offset returns the square df files and dr ranks away, or NoSquare.
func (s Square) offset(df, dr int) Square {
	return NewSquare(s.File()+df, s.Rank()+dr)
}

// String returns the algebraic name of the square ("e4").
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+s.File(), s.Rank()+1)
}

func (s Square) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return []byte{}, nil
	}
	return []byte(s.String()), nil
}

func (s *Square) UnmarshalText(text []byte) error {
	sq, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*s = sq
	return nil
}

// ParseSquare maps a two-character file+rank string (a-h, 1-8, any case) to a
// Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	file := strings.ToLower(s)[0]
	rank := s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	return NewSquare(int(file-'a'), int(rank-'1')), nil
}

// MustSquare is ParseSquare for literals known to be valid.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}
