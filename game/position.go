package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Christian-Schefe/tak-sub000/board"
)

// Position serializes the full game position: the board's partial
// position, the side to move as a digit, and the 1-based move number.
func (g *Game) Position() string {
	return fmt.Sprintf("%s %d %d", g.board.PartialPosition(), g.current.Index()+1, g.MoveNumber())
}

// parsePosition accepts either a bare partial position (White to move,
// move 1) or the full three-field form.
func parsePosition(s string) (*board.Board, board.Player, int, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		b, err := board.ParsePartialPosition(fields[0])
		return b, board.White, 0, err
	case 3:
		b, err := board.ParsePartialPosition(fields[0])
		if err != nil {
			return nil, board.White, 0, err
		}
		current, err := parseSideToMove(fields[1])
		if err != nil {
			return nil, board.White, 0, err
		}
		moveNumber, err := strconv.Atoi(fields[2])
		if err != nil || moveNumber < 1 {
			return nil, board.White, 0, fmt.Errorf("%w: move number %q", board.ErrBadPosition, fields[2])
		}
		ply := (moveNumber-1)*2 + current.Index()
		return b, current, ply, nil
	}
	return nil, board.White, 0, fmt.Errorf("%w: %d fields", board.ErrBadPosition, len(fields))
}

func parseSideToMove(s string) (board.Player, error) {
	switch s {
	case "1":
		return board.White, nil
	case "2":
		return board.Black, nil
	}
	return board.White, fmt.Errorf("%w: side to move %q", board.ErrBadPosition, s)
}
