// board/board.go
package board

import (
	"errors"
)

// Size 棋盘边长
const Size = 3

// Cells 棋盘格子总数
const Cells = Size * Size

// Mark is one of the two symbols a player places, or Empty.
type Mark string

const (
	Empty Mark = ""
	MarkX Mark = "X"
	MarkO Mark = "O"
)

// ErrIllegalMove is returned for an out-of-range position or an occupied cell.
var ErrIllegalMove = errors.New("illegal move")

// Board 是一个扁平的 3x3 棋盘，位置编号 0..8（按行排列）
type Board [Cells]Mark

// Outcome is the result of evaluating a board.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeDraw
)

// Opponent returns the other mark. Empty maps to Empty.
func Opponent(m Mark) Mark {
	switch m {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	}
	return Empty
}

// ApplyMove places mark at position and returns the resulting board.
// The receiver board is never modified. Placed marks are immutable:
// targeting a non-empty cell fails with ErrIllegalMove.
func (b Board) ApplyMove(position int, mark Mark) (Board, error) {
	if position < 0 || position >= Cells {
		return b, ErrIllegalMove
	}
	if b[position] != Empty {
		return b, ErrIllegalMove
	}
	b[position] = mark
	return b, nil
}

// lines 所有获胜线：3 行、3 列、2 条对角线
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Evaluate reports the board's terminal state. A win is checked before a
// draw, so a fully occupied winning board reports the win.
func (b Board) Evaluate() (Outcome, Mark) {
	for _, line := range lines {
		m := b[line[0]]
		if m != Empty && m == b[line[1]] && m == b[line[2]] {
			return OutcomeWin, m
		}
	}
	for _, cell := range b {
		if cell == Empty {
			return OutcomeNone, Empty
		}
	}
	return OutcomeDraw, Empty
}

// Full reports whether every cell is occupied.
func (b Board) Full() bool {
	for _, cell := range b {
		if cell == Empty {
			return false
		}
	}
	return true
}
