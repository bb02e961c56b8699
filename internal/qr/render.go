// Package qr draws a fixed QR-style pattern and encodes it as PNG without an imaging library.
//
// The pattern only resembles a QR code: it carries no payload and is not scannable.
package qr

const (
	DefaultSize   = 300
	MaxSize       = 1000
	minCellPixels = 4
)

// CellPixels returns the pixel width of one module for a requested image size.
// size is capped at MaxSize; the result is never below minCellPixels.
func CellPixels(size int) int {
	if size > MaxSize {
		size = MaxSize
	}
	cell := size / DefaultModules
	if cell < minCellPixels {
		cell = minCellPixels
	}
	return cell
}

// Render produces the PNG for a requested size.
// The actual side is DefaultModules*CellPixels(size).
func Render(size int, fg, bg RGB) ([]byte, error) {
	return Encode(Synthesize(DefaultModules, CellPixels(size)), fg, bg)
}
