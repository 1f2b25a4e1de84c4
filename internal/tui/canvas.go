package tui

import "strings"

// Braille cells hold 2x4 dots; bit layout per dot:
// 1 4
// 2 5
// 3 6
// 7 8
var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// canvas is a braille plot of Width x Height cells, addressed in dots
// (Width*2 x Height*4).
type canvas struct {
	Width, Height int
	grid          [][]rune
}

func newCanvas(w, h int) *canvas {
	c := &canvas{Width: w, Height: h, grid: make([][]rune, h)}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= dotBits[y%4][x%2]
}

func (c *canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws with Bresenham's algorithm.
func (c *canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Mark sets a plus-shaped cluster of dots so single points stay visible.
func (c *canvas) Mark(x, y int) {
	c.Set(x, y)
	c.Set(x+1, y)
	c.Set(x-1, y)
	c.Set(x, y+1)
	c.Set(x, y-1)
}

func (c *canvas) Lines() []string {
	lines := make([]string, len(c.grid))
	for i, row := range c.grid {
		lines[i] = string(row)
	}
	return lines
}

func (c *canvas) String() string {
	return strings.Join(c.Lines(), "\n")
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
