package board

import (
	"testing"
)

func TestApplyMove_OutOfRange(t *testing.T) {
	var b Board

	for _, pos := range []int{-1, Cells, 100} {
		if _, err := b.ApplyMove(pos, MarkX); err != ErrIllegalMove {
			t.Errorf("ApplyMove(%d) expected ErrIllegalMove, got %v", pos, err)
		}
	}
}

func TestApplyMove_OccupiedCell(t *testing.T) {
	var b Board

	b, err := b.ApplyMove(4, MarkX)
	if err != nil {
		t.Fatalf("ApplyMove(4) failed: %v", err)
	}

	if _, err := b.ApplyMove(4, MarkO); err != ErrIllegalMove {
		t.Errorf("Expected ErrIllegalMove for occupied cell, got %v", err)
	}

	// The placed mark must be untouched
	if b[4] != MarkX {
		t.Errorf("Expected cell 4 to hold %q, got %q", MarkX, b[4])
	}
}

func TestApplyMove_DoesNotMutateReceiver(t *testing.T) {
	var b Board

	next, err := b.ApplyMove(0, MarkX)
	if err != nil {
		t.Fatalf("ApplyMove failed: %v", err)
	}

	if b[0] != Empty {
		t.Error("ApplyMove mutated the receiver board")
	}
	if next[0] != MarkX {
		t.Error("ApplyMove did not place the mark on the returned board")
	}
}

func TestEvaluate_WinningLines(t *testing.T) {
	tests := []struct {
		name  string
		cells [3]int
	}{
		{"top row", [3]int{0, 1, 2}},
		{"middle row", [3]int{3, 4, 5}},
		{"bottom row", [3]int{6, 7, 8}},
		{"left column", [3]int{0, 3, 6}},
		{"middle column", [3]int{1, 4, 7}},
		{"right column", [3]int{2, 5, 8}},
		{"main diagonal", [3]int{0, 4, 8}},
		{"anti diagonal", [3]int{2, 4, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Board
			for _, pos := range tt.cells {
				b[pos] = MarkO
			}

			outcome, winner := b.Evaluate()
			if outcome != OutcomeWin {
				t.Fatalf("Expected OutcomeWin, got %v", outcome)
			}
			if winner != MarkO {
				t.Errorf("Expected winner %q, got %q", MarkO, winner)
			}
		})
	}
}

func TestEvaluate_NoneOnOpenBoard(t *testing.T) {
	var b Board
	b[0] = MarkX
	b[4] = MarkO

	outcome, winner := b.Evaluate()
	if outcome != OutcomeNone {
		t.Errorf("Expected OutcomeNone, got %v", outcome)
	}
	if winner != Empty {
		t.Errorf("Expected no winner, got %q", winner)
	}
}

func TestEvaluate_Draw(t *testing.T) {
	// X O X
	// X O O
	// O X X
	b := Board{MarkX, MarkO, MarkX, MarkX, MarkO, MarkO, MarkO, MarkX, MarkX}

	outcome, winner := b.Evaluate()
	if outcome != OutcomeDraw {
		t.Fatalf("Expected OutcomeDraw, got %v", outcome)
	}
	if winner != Empty {
		t.Errorf("Expected no winner for a draw, got %q", winner)
	}
}

func TestEvaluate_WinBeforeDrawOnFullBoard(t *testing.T) {
	// X X X
	// O O X
	// O X O — full board with a winning top row
	b := Board{MarkX, MarkX, MarkX, MarkO, MarkO, MarkX, MarkO, MarkX, MarkO}

	outcome, winner := b.Evaluate()
	if outcome != OutcomeWin {
		t.Fatalf("A full winning board must report the win, got %v", outcome)
	}
	if winner != MarkX {
		t.Errorf("Expected winner %q, got %q", MarkX, winner)
	}
}

func TestEveryLegalGameTerminates(t *testing.T) {
	// Every sequence of legal alternating moves must end in a win or draw
	// within the cell count. Walk all games depth-first.
	var walk func(b Board, turn Mark, depth int)
	walk = func(b Board, turn Mark, depth int) {
		if depth > Cells {
			t.Fatal("Game exceeded the cell count without terminating")
		}
		outcome, _ := b.Evaluate()
		if outcome != OutcomeNone {
			return
		}
		if b.Full() {
			t.Fatal("Full board evaluated to OutcomeNone")
		}
		for pos := 0; pos < Cells; pos++ {
			next, err := b.ApplyMove(pos, turn)
			if err != nil {
				continue
			}
			walk(next, Opponent(turn), depth+1)
		}
	}

	var b Board
	walk(b, MarkX, 0)
}

func TestOpponent(t *testing.T) {
	if Opponent(MarkX) != MarkO {
		t.Error("Opponent of X should be O")
	}
	if Opponent(MarkO) != MarkX {
		t.Error("Opponent of O should be X")
	}
	if Opponent(Empty) != Empty {
		t.Error("Opponent of Empty should be Empty")
	}
}
