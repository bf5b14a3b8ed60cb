// Command chess plays a two-player game in the terminal.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/textboard"
	"github.com/gofiber/fiber/v2/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const helpText = `commands:
  e2 e4 | e2e4    move a piece (e7e8q promotes in one go)
  promote q       finish a pending promotion (q, r, b or n)
  moves [e2]      list legal moves, optionally from one square
  board           print the board
  pgn             print the game as PGN
  reset           start over
  quit            leave
`

var players = map[model.Side]string{model.White: "white", model.Black: "black"}

type session struct {
	match *service.Match
	out   io.Writer
	opts  textboard.Options
}

func newSession(out io.Writer, opts textboard.Options) (*session, error) {
	m := service.NewMatch("local")
	for _, side := range []model.Side{model.White, model.Black} {
		if _, err := m.AddPlayer(players[side]); err != nil {
			return nil, err
		}
	}
	return &session{match: m, out: out, opts: opts}, nil
}

func (s *session) printBoard() {
	state := s.match.State()
	opts := s.opts
	if state.LastMove != nil {
		opts.Highlight = []model.Square{state.LastMove.From, state.LastMove.To}
	}
	textboard.Render(s.out, state.Board, opts)

	switch {
	case state.Phase == model.Ended:
		fmt.Fprintf(s.out, "game over: %s\n", *state.Resolve)
	case state.Phase == model.AwaitingPromotion:
		fmt.Fprintf(s.out, "%s to promote on %s\n", state.ToMove, *state.PromotionSquare)
	case state.IsCheck:
		fmt.Fprintf(s.out, "%s to move, in check\n", state.ToMove)
	default:
		fmt.Fprintf(s.out, "%s to move\n", state.ToMove)
	}
}

// exec runs one command line. It reports false when the session should end.
func (s *session) exec(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return true
	}
	toMove := players[s.match.State().ToMove]

	switch fields[0] {
	case "quit", "exit":
		return false
	case "help", "?":
		fmt.Fprint(s.out, helpText)
	case "board":
		s.printBoard()
	case "reset":
		if err := s.match.Reset(toMove); err != nil {
			s.fail(err)
			return true
		}
		s.printBoard()
	case "pgn":
		pgn, err := s.match.PGN()
		if err != nil {
			s.fail(err)
			return true
		}
		fmt.Fprintln(s.out, pgn)
	case "moves":
		s.listMoves(fields[1:])
	case "promote":
		if len(fields) != 2 {
			s.fail(errors.New("usage: promote q"))
			return true
		}
		kind, err := model.ParseKind(fields[1])
		if err != nil {
			s.fail(err)
			return true
		}
		if err := s.match.Promote(toMove, kind); err != nil {
			s.fail(err)
			return true
		}
		s.printBoard()
	default:
		move, err := parseMove(fields)
		if err != nil {
			s.fail(err)
			return true
		}
		if _, err := s.match.MakeMove(toMove, move); err != nil {
			s.fail(err)
			return true
		}
		s.printBoard()
	}
	return true
}

func (s *session) listMoves(args []string) {
	from := model.NoSquare
	if len(args) > 0 {
		sq, err := model.ParseSquare(args[0])
		if err != nil {
			s.fail(err)
			return
		}
		from = sq
	}

	var moves []string
	for _, m := range s.match.State().LegalMoves {
		if from == model.NoSquare || m.From == from {
			moves = append(moves, m.String())
		}
	}
	if len(moves) == 0 {
		fmt.Fprintln(s.out, "no legal moves")
		return
	}
	fmt.Fprintln(s.out, strings.Join(moves, " "))
}

func (s *session) fail(err error) {
	fmt.Fprintf(s.out, "error: %v\n", err)
}

// parseMove accepts "e2 e4", "e2e4" and the same with a trailing
// promotion letter ("e7e8q", "e7 e8 q").
func parseMove(fields []string) (model.WSMove, error) {
	text := strings.Join(fields, "")
	if len(text) != 4 && len(text) != 5 {
		return model.WSMove{}, fmt.Errorf("unknown command %q, try help", strings.Join(fields, " "))
	}
	return model.WSMove{From: text[0:2], To: text[2:4], Promotion: text[4:]}, nil
}

func run(in io.Reader, out io.Writer, opts textboard.Options) error {
	s, err := newSession(out, opts)
	if err != nil {
		return err
	}
	s.printBoard()

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if !s.exec(scanner.Text()) {
			return nil
		}
	}
}

func main() {
	tty := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	color := flag.Bool("color", tty, "paint the board with ANSI colours")
	unicode := flag.Bool("unicode", false, "draw pieces as figurines")
	flip := flag.Bool("flip", false, "show the board from Black's side")
	flag.Parse()

	log.SetLevel(log.LevelWarn)

	out := colorable.NewColorableStdout()
	opts := textboard.Options{Color: *color, Unicode: *unicode, Flip: *flip}
	if err := run(os.Stdin, out, opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
