// Package textboard draws a board snapshot as terminal text.
package textboard

import (
	"io"
	"strings"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/mattn/go-runewidth"
)

type Options struct {
	// Color paints squares and pieces with ANSI escapes.
	Color bool

	// Unicode draws figurines instead of letters.
	Unicode bool

	// Flip puts Black at the bottom.
	Flip bool

	Highlight []model.Square
}

const (
	ansiReset     = "\x1b[0m"
	ansiLight     = "\x1b[48;5;180m"
	ansiDark      = "\x1b[48;5;94m"
	ansiHighlight = "\x1b[48;5;143m"
	ansiWhite     = "\x1b[1;97m"
	ansiBlack     = "\x1b[1;30m"
)

var figurines = map[model.Side]map[model.Kind]string{
	model.White: {
		model.King: "♔", model.Queen: "♕", model.Rook: "♖",
		model.Bishop: "♗", model.Knight: "♘", model.Pawn: "♙",
	},
	model.Black: {
		model.King: "♚", model.Queen: "♛", model.Rook: "♜",
		model.Bishop: "♝", model.Knight: "♞", model.Pawn: "♟",
	},
}

// Glyph returns the text for one square: an upper-case letter for White,
// lower-case for Black and "." for an empty square.
func Glyph(c model.Cell, unicode bool) string {
	if c.Kind == model.NoKind {
		return "."
	}
	if unicode {
		return figurines[c.Side][c.Kind]
	}
	letter := c.Kind.Notation()
	if c.Kind == model.Pawn {
		letter = "P"
	}
	if c.Side == model.Black {
		return strings.ToLower(letter)
	}
	return letter
}

// String renders cells with rank labels on the left and file labels below.
func String(cells [64]model.Cell, opts Options) string {
	highlighted := make(map[model.Square]bool, len(opts.Highlight))
	for _, sq := range opts.Highlight {
		highlighted[sq] = true
	}

	ranks := []int{7, 6, 5, 4, 3, 2, 1, 0}
	files := []int{0, 1, 2, 3, 4, 5, 6, 7}
	if opts.Flip {
		ranks, files = files, ranks
	}

	var sb strings.Builder
	for _, rank := range ranks {
		sb.WriteByte(byte('1' + rank))
		sb.WriteString("  ")
		for i, file := range files {
			sq := model.NewSquare(file, rank)
			cell := cells[sq]
			glyph := Glyph(cell, opts.Unicode)
			if !opts.Color {
				sb.WriteString(glyph)
				if i < len(files)-1 {
					sb.WriteByte(' ')
				}
				continue
			}

			switch {
			case highlighted[sq]:
				sb.WriteString(ansiHighlight)
			case (file+rank)%2 == 0:
				sb.WriteString(ansiDark)
			default:
				sb.WriteString(ansiLight)
			}
			if cell.Side == model.Black {
				sb.WriteString(ansiBlack)
			} else {
				sb.WriteString(ansiWhite)
			}
			if cell.Kind == model.NoKind {
				glyph = " "
			}
			sb.WriteString(runewidth.FillRight(glyph, 2))
			sb.WriteString(ansiReset)
		}
		sb.WriteByte('\n')
	}

	sb.WriteString("   ")
	for i, file := range files {
		sb.WriteByte(byte('a' + file))
		if i < len(files)-1 {
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

// Render writes String(cells, opts) to w.
func Render(w io.Writer, cells [64]model.Cell, opts Options) error {
	_, err := io.WriteString(w, String(cells, opts))
	return err
}
