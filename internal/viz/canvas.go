package viz

import (
	"math"
	"strings"
)

const brailleBlank = 0x2800

// Dot bits of a braille cell, indexed [row][col] within the 2x4 cell.
var brailleDots = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells giving Width*2 by Height*4 pixels.
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Pixels returns the canvas size in dots.
func (c *Canvas) Pixels() (w, h int) { return c.Width * 2, c.Height * 4 }

// Set lights the dot at (x, y); out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row][col] |= brailleDots[y%4][x%2]
}

func (c *Canvas) Clear() {
	for _, row := range c.cells {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

// Line draws a Bresenham line between two dots.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Trace plots values across the full width with the vertical axis spanning
// [-scale, scale]. Values are resampled to the pixel width; the zero line
// sits in the middle row.
func (c *Canvas) Trace(values []float64, scale float64) {
	if len(values) == 0 || !(scale > 0) {
		return
	}
	pw, ph := c.Pixels()
	mid := float64(ph-1) / 2

	py := func(v float64) int {
		if math.IsNaN(v) {
			v = 0
		}
		v = math.Max(-scale, math.Min(scale, v))
		return int(math.Round(mid - v/scale*mid))
	}

	prevX, prevY := -1, 0
	for x := 0; x < pw; x++ {
		i := 0
		if pw > 1 {
			i = x * (len(values) - 1) / (pw - 1)
		}
		y := py(values[i])
		if prevX >= 0 {
			c.Line(prevX, prevY, x, y)
		} else {
			c.Set(x, y)
		}
		prevX, prevY = x, y
	}
}

// Axis draws the zero line as every other dot in the middle row.
func (c *Canvas) Axis() {
	pw, ph := c.Pixels()
	y := (ph - 1) / 2
	for x := 0; x < pw; x += 2 {
		c.Set(x, y)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
