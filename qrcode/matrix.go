package qrcode

// matrix is the working grid while a symbol is built. isFunction marks
// modules owned by function patterns, which data placement and masking skip.
type matrix struct {
	size       int
	modules    [][]bool // [y][x]
	isFunction [][]bool
}

func newGrid(size int) [][]bool {
	cells := make([]bool, size*size)
	grid := make([][]bool, size)
	for y := range grid {
		grid[y] = cells[y*size : (y+1)*size]
	}
	return grid
}

// newQRCode lays out the codewords of a symbol and masks it. mask is 0..7 or
// MaskAuto.
func newQRCode(version int, level Level, data []byte, mask int) *QRCode {
	size := version*4 + 17
	m := &matrix{
		size:       size,
		modules:    newGrid(size),
		isFunction: newGrid(size),
	}

	m.drawFunctionPatterns(version, level)
	m.drawCodewords(addECCAndInterleave(data, version, level))

	if mask == MaskAuto {
		mask = m.chooseMask(level)
	}
	m.applyMask(mask)
	m.drawFormatBits(level, mask)

	return &QRCode{
		version: version,
		level:   level,
		mask:    mask,
		size:    size,
		modules: m.modules,
	}
}

// setFunction sets a module and marks it as a function module.
func (m *matrix) setFunction(x, y int, dark bool) {
	m.modules[y][x] = dark
	m.isFunction[y][x] = true
}

func (m *matrix) drawFunctionPatterns(version int, level Level) {
	// Timing patterns; finders and alignment patterns overwrite the ends.
	for i := 0; i < m.size; i++ {
		m.setFunction(6, i, i%2 == 0)
		m.setFunction(i, 6, i%2 == 0)
	}

	// Finder patterns with their separators
	m.drawFinderPattern(3, 3)
	m.drawFinderPattern(m.size-4, 3)
	m.drawFinderPattern(3, m.size-4)

	// Alignment patterns, except the three corners taken by finders
	pos := alignmentPatternPositions(version)
	n := len(pos)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if (i == 0 && j == 0) || (i == 0 && j == n-1) || (i == n-1 && j == 0) {
				continue
			}
			m.drawAlignmentPattern(pos[i], pos[j])
		}
	}

	// Reserve the format areas with placeholder bits; drawn for real after masking.
	m.drawFormatBits(level, 0)
	m.drawVersion(version)
}

// drawFinderPattern draws a 7x7 finder centered at (x, y) plus the light
// separator ring around it, clipped to the symbol.
func (m *matrix) drawFinderPattern(x, y int) {
	for dy := -4; dy <= 4; dy++ {
		for dx := -4; dx <= 4; dx++ {
			xx, yy := x+dx, y+dy
			if xx < 0 || xx >= m.size || yy < 0 || yy >= m.size {
				continue
			}
			dist := max(abs(dx), abs(dy)) // Chebyshev distance
			m.setFunction(xx, yy, dist != 2 && dist != 4)
		}
	}
}

// drawAlignmentPattern draws a 5x5 alignment pattern centered at (x, y).
func (m *matrix) drawAlignmentPattern(x, y int) {
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			m.setFunction(x+dx, y+dy, max(abs(dx), abs(dy)) != 1)
		}
	}
}

// drawFormatBits writes both copies of the 15-bit format information and the
// dark module.
func (m *matrix) drawFormatBits(level Level, mask int) {
	bits := calculateBCHFormat(level.formatBits()<<3 | mask)
	bit := func(i int) bool { return (bits>>i)&1 == 1 }

	// Around the top-left finder, skipping the timing patterns
	for i := 0; i <= 5; i++ {
		m.setFunction(8, i, bit(i))
	}
	m.setFunction(8, 7, bit(6))
	m.setFunction(8, 8, bit(7))
	m.setFunction(7, 8, bit(8))
	for i := 9; i < 15; i++ {
		m.setFunction(14-i, 8, bit(i))
	}

	// Below the top-right finder and right of the bottom-left finder
	for i := 0; i < 8; i++ {
		m.setFunction(m.size-1-i, 8, bit(i))
	}
	for i := 8; i < 15; i++ {
		m.setFunction(8, m.size-15+i, bit(i))
	}

	// Dark module
	m.setFunction(8, m.size-8, true)
}

// drawVersion writes both 6x3 copies of the 18-bit version information.
// Versions below 7 have none.
func (m *matrix) drawVersion(version int) {
	if version < 7 {
		return
	}
	bits := calculateBCHVersion(version)
	for i := 0; i < 18; i++ {
		dark := (bits>>i)&1 == 1
		a, b := m.size-11+i%3, i/3
		m.setFunction(a, b, dark)
		m.setFunction(b, a, dark)
	}
}

// drawCodewords places the codeword bits in the zig-zag order: two-module
// wide columns from the right edge, alternating upward and downward, skipping
// the vertical timing column and all function modules. Remainder modules are
// left light.
func (m *matrix) drawCodewords(data []byte) {
	idx := 0
	totalBits := len(data) * 8

	for col := m.size - 1; col >= 1; col -= 2 {
		if col == 6 {
			col = 5 // Skip timing pattern
		}
		upward := ((col+1)/2)%2 == 0
		for rowIter := 0; rowIter < m.size; rowIter++ {
			y := rowIter
			if upward {
				y = m.size - 1 - rowIter
			}
			for x := col; x > col-2; x-- {
				if m.isFunction[y][x] || idx >= totalBits {
					continue
				}
				m.modules[y][x] = (data[idx/8]>>(7-idx%8))&1 == 1
				idx++
			}
		}
	}
}

// calculateBCHFormat appends the (15,5) BCH remainder to the 5 format data
// bits and applies the 101010000010010 mask.
func calculateBCHFormat(data int) int {
	d := data << 10
	// Generator 10100110111 (0x537)
	g := 0x537
	for i := 4; i >= 0; i-- {
		if (d>>(i+10))&1 == 1 {
			d ^= g << i
		}
	}
	return ((data << 10) | d) ^ 0x5412
}

// calculateBCHVersion appends the (18,6) BCH remainder to the version number.
func calculateBCHVersion(version int) int {
	d := version << 12
	// Generator 1111100100101 (0x1F25)
	g := 0x1F25
	for i := 5; i >= 0; i-- {
		if (d>>(i+12))&1 == 1 {
			d ^= g << i
		}
	}
	return (version << 12) | d
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
