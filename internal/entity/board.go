package entity

// Board is the set of cells claimed by one player, one bit per cell.
// Cell 0 is the least significant bit.
type Board uint16

const (
	BoardSize = 9

	EmptyBoard Board = 0
	FullBoard  Board = 0b111111111
)

var WinPatterns = [8]Board{
	0b000000111,
	0b000111000,
	0b111000000,
	0b001001001,
	0b010010010,
	0b100100100,
	0b100010001,
	0b001010100,
}

// IsWinning reports whether the board contains a three in a row.
func IsWinning(mask Board) bool {
	for _, pattern := range WinPatterns {
		if mask&pattern == pattern {
			return true
		}
	}

	return false
}

// IsDraw - the two boards cover every cell and nobody has a line.
func IsDraw(a, b Board) bool {
	return a|b == FullBoard && !IsWinning(a) && !IsWinning(b)
}

func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

func (that Board) Has(cell int) bool {
	return IsValidCell(cell) && that&(1<<cell) != 0
}

func (that Board) With(cell int) Board {
	return that | 1<<cell
}

// Cells returns the occupied cell indexes in ascending order.
func (that Board) Cells() []int {
	cells := make([]int, 0, BoardSize)
	for cell := range BoardSize {
		if that.Has(cell) {
			cells = append(cells, cell)
		}
	}

	return cells
}

// Render merges two boards into the marks representation clients draw.
func Render(x, o Board) [BoardSize]string {
	var board [BoardSize]string
	for cell := range BoardSize {
		switch {
		case x.Has(cell):
			board[cell] = PlayerX
		case o.Has(cell):
			board[cell] = PlayerO
		default:
			board[cell] = EmptyCell
		}
	}

	return board
}
