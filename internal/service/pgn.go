package service

import (
	"fmt"

	"github.com/notnil/chess"
)

// exportPGN replays a coordinate move log ("e2e4", "e7e8q") and renders it
// as PGN with standard algebraic move text.
func exportPGN(moves []string, white, black string) (string, error) {
	game := chess.NewGame()
	uci := chess.UCINotation{}
	game.AddTagPair("Event", "Casual game")
	game.AddTagPair("White", playerName(white))
	game.AddTagPair("Black", playerName(black))

	for i, mv := range moves {
		move, err := uci.Decode(game.Position(), mv)
		if err != nil {
			return "", fmt.Errorf("decode move %d (%s): %w", i+1, mv, err)
		}
		if err := game.Move(move); err != nil {
			return "", fmt.Errorf("replay move %d (%s): %w", i+1, mv, err)
		}
	}
	return game.String(), nil
}

func playerName(id string) string {
	if id == "" {
		return "?"
	}
	return id
}
