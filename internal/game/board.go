// Package game implements the frogs-and-toads sliding puzzle: frogs
// start on the top half of an odd-sized board, toads on the bottom, one
// empty cell in the middle. Pieces hop into the empty cell or hop over
// one opposing piece into it; the game is won when the two sides have
// fully traded places.
package game

import (
	"fmt"
	"strings"
)

// Cell is the content of one board position.
type Cell byte

const (
	Empty Cell = ' '
	Frog  Cell = 'F'
	Toad  Cell = 'T'
)

// Position is a board coordinate.
type Position struct {
	Row, Col int
}

// DefaultSize is used when a requested dimension is not odd.
const DefaultSize = 5

const (
	frogColor  = "\033[1;31m" // bold red
	toadColor  = "\033[1;33m" // bold yellow
	emptyColor = "\033[1;30m"
	resetColor = "\033[0m"
)

// Board is one game in progress.
type Board struct {
	cells    [][]Cell
	history  []Position
	emptyRow int
	emptyCol int
}

// New creates a board of the given dimensions. Even, zero, or negative
// dimensions fall back to DefaultSize, which also rules out degenerate
// boards.
func New(rows, cols int) *Board {
	if rows%2 != 1 || rows < 1 {
		rows = DefaultSize
	}
	if cols%2 != 1 || cols < 1 {
		cols = DefaultSize
	}

	b := &Board{
		cells:    make([][]Cell, rows),
		emptyRow: rows / 2,
		emptyCol: cols / 2,
	}
	for i := range b.cells {
		b.cells[i] = make([]Cell, cols)
		for j := range b.cells[i] {
			switch {
			case i < rows/2:
				b.cells[i][j] = Frog
			case i > rows/2:
				b.cells[i][j] = Toad
			case j < cols/2:
				b.cells[i][j] = Frog
			case j > cols/2:
				b.cells[i][j] = Toad
			default:
				b.cells[i][j] = Empty
			}
		}
	}
	return b
}

// Rows reports the board height.
func (b *Board) Rows() int { return len(b.cells) }

// Cols reports the board width.
func (b *Board) Cols() int {
	if len(b.cells) == 0 {
		return 0
	}
	return len(b.cells[0])
}

// At returns the cell content, or Empty for out-of-range coordinates.
func (b *Board) At(row, col int) Cell {
	if row < 0 || row >= b.Rows() || col < 0 || col >= b.Cols() {
		return Empty
	}
	return b.cells[row][col]
}

// FrogAt reports whether a frog occupies the cell.
func (b *Board) FrogAt(row, col int) bool {
	return b.inRange(row, col) && b.cells[row][col] == Frog
}

// ToadAt reports whether a toad occupies the cell.
func (b *Board) ToadAt(row, col int) bool {
	return b.inRange(row, col) && b.cells[row][col] == Toad
}

// EmptyAt reports whether the cell is the empty space.
func (b *Board) EmptyAt(row, col int) bool {
	return b.inRange(row, col) && b.cells[row][col] == Empty
}

func (b *Board) inRange(row, col int) bool {
	return row >= 0 && row < b.Rows() && col >= 0 && col < b.Cols()
}

// LegalMoves enumerates the coordinates of every piece that may move
// now. The rules: frogs travel down and right, toads up and left, a
// piece may hop into the adjacent empty cell or hop over exactly one
// opposing piece into it.
func (b *Board) LegalMoves() []Position {
	var moves []Position
	er, ec := b.emptyRow, b.emptyCol

	// hop over from above
	if er-2 >= 0 && b.ToadAt(er-1, ec) && b.FrogAt(er-2, ec) {
		moves = append(moves, Position{er - 2, ec})
	}
	// hop from above
	if er-1 >= 0 && b.FrogAt(er-1, ec) {
		moves = append(moves, Position{er - 1, ec})
	}
	// hop over from below
	if er+2 < b.Rows() && b.FrogAt(er+1, ec) && b.ToadAt(er+2, ec) {
		moves = append(moves, Position{er + 2, ec})
	}
	// hop from below
	if er+1 < b.Rows() && b.ToadAt(er+1, ec) {
		moves = append(moves, Position{er + 1, ec})
	}
	// hop over from the left
	if ec-2 >= 0 && b.ToadAt(er, ec-1) && b.FrogAt(er, ec-2) {
		moves = append(moves, Position{er, ec - 2})
	}
	// hop from the left
	if ec-1 >= 0 && b.FrogAt(er, ec-1) {
		moves = append(moves, Position{er, ec - 1})
	}
	// hop over from the right
	if ec+2 < b.Cols() && b.FrogAt(er, ec+1) && b.ToadAt(er, ec+2) {
		moves = append(moves, Position{er, ec + 2})
	}
	// hop from the right
	if ec+1 < b.Cols() && b.ToadAt(er, ec+1) {
		moves = append(moves, Position{er, ec + 1})
	}

	return moves
}

// CanMove reports whether any legal move remains.
func (b *Board) CanMove() bool {
	return len(b.LegalMoves()) > 0
}

// MoveIsValid reports whether the piece at (row, col) may move now.
func (b *Board) MoveIsValid(row, col int) bool {
	for _, m := range b.LegalMoves() {
		if m.Row == row && m.Col == col {
			return true
		}
	}
	return false
}

// Move slides the piece at (row, col) into the empty cell. It reports
// whether the move was legal and performed.
func (b *Board) Move(row, col int) bool {
	if !b.CanMove() || !b.MoveIsValid(row, col) {
		return false
	}
	b.history = append(b.history, Position{b.emptyRow, b.emptyCol})
	b.swapWithEmpty(row, col)
	return true
}

// Undo reverses the most recent move. It reports whether there was a
// move to undo.
func (b *Board) Undo() bool {
	if len(b.history) == 0 {
		return false
	}
	last := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	b.swapWithEmpty(last.Row, last.Col)
	return true
}

// HasUndo reports whether any move can be undone.
func (b *Board) HasUndo() bool {
	return len(b.history) > 0
}

// MovesMade reports how many moves are in the history.
func (b *Board) MovesMade() int {
	return len(b.history)
}

func (b *Board) swapWithEmpty(row, col int) {
	b.cells[b.emptyRow][b.emptyCol], b.cells[row][col] =
		b.cells[row][col], b.cells[b.emptyRow][b.emptyCol]
	b.emptyRow, b.emptyCol = row, col
}

// Won reports whether the sides have fully traded places: toads on the
// top half and the left of the middle row, frogs on the bottom half and
// the right of the middle row, empty cell back in the center.
func (b *Board) Won() bool {
	rows, cols := b.Rows(), b.Cols()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			switch {
			case i < rows/2:
				if !b.ToadAt(i, j) {
					return false
				}
			case i == rows/2:
				if j < cols/2 && !b.ToadAt(i, j) {
					return false
				}
				if j == cols/2 && !b.EmptyAt(i, j) {
					return false
				}
				if j > cols/2 && !b.FrogAt(i, j) {
					return false
				}
			default:
				if !b.FrogAt(i, j) {
					return false
				}
			}
		}
	}
	return true
}

// Lost reports a stuck game: no legal moves and not in the winning
// configuration.
func (b *Board) Lost() bool {
	return !b.CanMove() && !b.Won()
}

// String renders the board with a column header, row numbers, and
// ANSI-colored pieces.
func (b *Board) String() string {
	var sb strings.Builder

	rowWidth := len(fmt.Sprint(b.Rows()))
	colWidth := 1 + len(fmt.Sprint(b.Cols()))

	sb.WriteString(strings.Repeat(" ", rowWidth))
	for j := 0; j < b.Cols(); j++ {
		fmt.Fprintf(&sb, "%*d", colWidth, j)
	}
	sb.WriteByte('\n')

	for i := 0; i < b.Rows(); i++ {
		fmt.Fprintf(&sb, "%*d", rowWidth, i)
		for j := 0; j < b.Cols(); j++ {
			sb.WriteString(cellColor(b.cells[i][j]))
			fmt.Fprintf(&sb, "%*c", colWidth, rune(b.cells[i][j]))
			sb.WriteString(resetColor)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func cellColor(c Cell) string {
	switch c {
	case Frog:
		return frogColor
	case Toad:
		return toadColor
	default:
		return emptyColor
	}
}
