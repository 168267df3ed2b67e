package engine

// BoardSize is the side length of the shared grid.
const BoardSize = 8

// Board is the 8x8 grid. 0 is empty, 1 is filled. It is a value type so a
// copy embedded in an outgoing message is detached from the live state.
type Board [BoardSize][BoardSize]int

// CellUpdate is a single cell change, both as submitted by clients and as
// produced by a line clear.
type CellUpdate struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

// ApplyUpdates writes each in-range update to the grid. Out-of-range entries
// are dropped rather than treated as an error.
func (b *Board) ApplyUpdates(updates []CellUpdate) {
	for _, u := range updates {
		if u.Row < 0 || u.Row >= BoardSize || u.Col < 0 || u.Col >= BoardSize {
			continue
		}
		b[u.Row][u.Col] = u.Value
	}
}

// CompleteLines returns the indices of fully filled rows and columns on the
// current grid. Detection runs before any clearing, so a cell shared by a
// full row and a full column counts toward both.
func (b *Board) CompleteLines() (rows, cols []int) {
	for r := 0; r < BoardSize; r++ {
		full := true
		for c := 0; c < BoardSize; c++ {
			if b[r][c] != 1 {
				full = false
				break
			}
		}
		if full {
			rows = append(rows, r)
		}
	}
	for c := 0; c < BoardSize; c++ {
		full := true
		for r := 0; r < BoardSize; r++ {
			if b[r][c] != 1 {
				full = false
				break
			}
		}
		if full {
			cols = append(cols, c)
		}
	}
	return rows, cols
}

// ClearLines empties every cell of the listed rows and columns and returns
// the resulting cell changes: rows in row-major order first, then columns in
// column-major order. A cell on an intersection shows up once per line that
// contains it; the order is fixed so the relayed batch is unambiguous.
func (b *Board) ClearLines(rows, cols []int) []CellUpdate {
	var changes []CellUpdate
	for _, r := range rows {
		for c := 0; c < BoardSize; c++ {
			b[r][c] = 0
			changes = append(changes, CellUpdate{Row: r, Col: c, Value: 0})
		}
	}
	for _, c := range cols {
		for r := 0; r < BoardSize; r++ {
			b[r][c] = 0
			changes = append(changes, CellUpdate{Row: r, Col: c, Value: 0})
		}
	}
	return changes
}

// Reset empties the grid.
func (b *Board) Reset() {
	*b = Board{}
}
