package qrcode

// Penalty weights of the four mask evaluation rules.
const (
	penaltyN1 = 3
	penaltyN2 = 3
	penaltyN3 = 40
	penaltyN4 = 10
)

// maskBit reports whether mask pattern inverts the module at (x, y).
func maskBit(mask, x, y int) bool {
	switch mask {
	case 0:
		return (x+y)%2 == 0
	case 1:
		return y%2 == 0
	case 2:
		return x%3 == 0
	case 3:
		return (x+y)%3 == 0
	case 4:
		return (x/3+y/2)%2 == 0
	case 5:
		return x*y%2+x*y%3 == 0
	case 6:
		return (x*y%2+x*y%3)%2 == 0
	case 7:
		return ((x+y)%2+x*y%3)%2 == 0
	}
	panic("qrcode: mask out of range")
}

// applyMask XORs the mask pattern over all non-function modules. Applying the
// same mask twice restores the grid.
func (m *matrix) applyMask(mask int) {
	for y := 0; y < m.size; y++ {
		for x := 0; x < m.size; x++ {
			if !m.isFunction[y][x] && maskBit(mask, x, y) {
				m.modules[y][x] = !m.modules[y][x]
			}
		}
	}
}

// chooseMask tries all eight masks with their format bits in place and
// returns the one with the lowest penalty; ties go to the lower index.
func (m *matrix) chooseMask(level Level) int {
	best, minPenalty := 0, -1
	for mask := 0; mask < 8; mask++ {
		m.applyMask(mask)
		m.drawFormatBits(level, mask)
		p := m.penalty()
		if minPenalty < 0 || p < minPenalty {
			best, minPenalty = mask, p
		}
		m.applyMask(mask) // undo
	}
	return best
}

// penalty scores the grid with the four rules: same-color runs of five or
// more, 2x2 same-color blocks, finder-like 1:1:3:1:1 patterns with four light
// modules on either side, and dark/light imbalance.
func (m *matrix) penalty() int {
	size := m.size
	score := 0

	row := func(y int) func(int) bool { return func(x int) bool { return m.modules[y][x] } }
	col := func(x int) func(int) bool { return func(y int) bool { return m.modules[y][x] } }

	for i := 0; i < size; i++ {
		score += runPenalty(size, row(i)) + runPenalty(size, col(i))
		score += finderPenalty(size, row(i)) + finderPenalty(size, col(i))
	}

	for y := 0; y < size-1; y++ {
		for x := 0; x < size-1; x++ {
			c := m.modules[y][x]
			if c == m.modules[y][x+1] && c == m.modules[y+1][x] && c == m.modules[y+1][x+1] {
				score += penaltyN2
			}
		}
	}

	dark := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if m.modules[y][x] {
				dark++
			}
		}
	}
	total := size * size // odd, so dark/total is never exactly one half
	// Smallest k >= 0 with (45-5k)% <= dark/total <= (55+5k)%
	k := (abs(dark*20-total*10)+total-1)/total - 1
	score += k * penaltyN4

	return score
}

// runPenalty scores one line for rule 1.
func runPenalty(size int, at func(int) bool) int {
	score, run := 0, 1
	for i := 1; i < size; i++ {
		if at(i) == at(i-1) {
			run++
			continue
		}
		if run >= 5 {
			score += penaltyN1 + run - 5
		}
		run = 1
	}
	if run >= 5 {
		score += penaltyN1 + run - 5
	}
	return score
}

// finderPattern is dark-light-dark-dark-dark-light-dark.
var finderPattern = [7]bool{true, false, true, true, true, false, true}

// finderPenalty scores one line for rule 3. Modules beyond the edge count as
// light, as the quiet zone would.
func finderPenalty(size int, at func(int) bool) int {
	lightRun := func(from, to int) bool {
		for i := max(from, 0); i < min(to, size); i++ {
			if at(i) {
				return false
			}
		}
		return true
	}

	score := 0
	for i := 0; i+7 <= size; i++ {
		match := true
		for j, dark := range finderPattern {
			if at(i+j) != dark {
				match = false
				break
			}
		}
		if match && (lightRun(i-4, i) || lightRun(i+7, i+11)) {
			score += penaltyN3
		}
	}
	return score
}
