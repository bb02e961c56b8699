package qr

// DefaultModules is the side length, in modules, of the rendered pattern.
const DefaultModules = 21

// finderSize is the side of each corner finder block.
const finderSize = 7

// Matrix is a square grid of pixels; true means dark.
type Matrix struct {
	Side  int
	cells []bool
}

// At reports whether the pixel at (x, y) is dark.
func (m *Matrix) At(x, y int) bool {
	return m.cells[y*m.Side+x]
}

// moduleRule decides the colour of one module. ok is false when the rule
// does not apply and evaluation should continue with the next rule.
type moduleRule func(row, col, modules int) (dark, ok bool)

// Rules run in order; the first that applies decides the module.
var moduleRules = []moduleRule{
	finderRule,
	timingRule,
}

// finderRule draws the three 7x7 corner targets: a ring and a 3x3 core.
func finderRule(row, col, modules int) (bool, bool) {
	far := modules - finderSize
	var r, c int
	switch {
	case row < finderSize && col < finderSize:
		r, c = row, col
	case row < finderSize && col >= far:
		r, c = row, col-far
	case row >= far && col < finderSize:
		r, c = row-far, col
	default:
		return false, false
	}
	ring := r == 0 || r == finderSize-1 || c == 0 || c == finderSize-1
	core := r >= 2 && r <= 4 && c >= 2 && c <= 4
	return ring || core, true
}

// timingRule dots the row and column 6 tracks on even-parity modules.
func timingRule(row, col, _ int) (bool, bool) {
	if (row+col)%2 != 0 {
		return false, false
	}
	onTrack := row == finderSize-1 || col == finderSize-1
	return onTrack && (row%2 == 0 || col%2 == 0), true
}

func moduleDark(row, col, modules int) bool {
	for _, rule := range moduleRules {
		if dark, ok := rule(row, col, modules); ok {
			return dark
		}
	}
	return false
}

// Synthesize expands the fixed module pattern into a pixel grid where each
// module covers cellPixels x cellPixels pixels.
// The pattern does not depend on any payload.
func Synthesize(modules, cellPixels int) *Matrix {
	side := modules * cellPixels
	m := &Matrix{Side: side, cells: make([]bool, side*side)}
	for row := 0; row < modules; row++ {
		for col := 0; col < modules; col++ {
			if !moduleDark(row, col, modules) {
				continue
			}
			for dy := 0; dy < cellPixels; dy++ {
				base := (row*cellPixels+dy)*side + col*cellPixels
				for dx := 0; dx < cellPixels; dx++ {
					m.cells[base+dx] = true
				}
			}
		}
	}
	return m
}
