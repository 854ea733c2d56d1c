package qrcode

// Galois field GF(256) arithmetic for QR Code Reed-Solomon error correction.
// Primitive polynomial: x^8 + x^4 + x^3 + x^2 + 1 (0x11D).

var (
	expTable [256]byte
	logTable [256]int
)

func init() {
	val := 1
	for i := 0; i < 255; i++ {
		expTable[i] = byte(val)
		logTable[val] = i
		val <<= 1
		if val >= 256 {
			val ^= 0x11D
		}
	}
	// logTable[0] is undefined; gfMul never reads it.
}

func gfMul(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return expTable[(logTable[x]+logTable[y])%255]
}

func gfPolyMul(p, q []byte) []byte {
	res := make([]byte, len(p)+len(q)-1)
	for i := range p {
		for j := range q {
			res[i+j] ^= gfMul(p[i], q[j])
		}
	}
	return res
}

// generatorPoly returns the generator polynomial of the given degree,
// (x - a^0)(x - a^1)...(x - a^(degree-1)), highest coefficient first.
func generatorPoly(degree int) []byte {
	gen := []byte{1}
	for i := 0; i < degree; i++ {
		gen = gfPolyMul(gen, []byte{1, expTable[i]})
	}
	return gen
}

// ecCodewords returns the remainder of data(x) * x^n divided by the
// generator, where n = len(generator)-1. These are the error correction
// codewords of one block.
func ecCodewords(data, generator []byte) []byte {
	remainder := make([]byte, len(data)+len(generator)-1)
	copy(remainder, data)

	// Long division; generator[0] is 1, so each step zeroes remainder[i].
	for i := range data {
		coef := remainder[i]
		if coef == 0 {
			continue
		}
		for j, g := range generator {
			remainder[i+j] ^= gfMul(g, coef)
		}
	}
	return remainder[len(data):]
}

// addECCAndInterleave splits data into the version's blocks, appends error
// correction to each and interleaves the result: data codewords column by
// column, then error correction codewords. Short blocks come first and are
// one data codeword shorter than long blocks.
func addECCAndInterleave(data []byte, version int, level Level) []byte {
	numBlocks := numErrorCorrectionBlocks[level][version]
	blockECLen := eccCodewordsPerBlock[level][version]
	rawCodewords := numRawDataModules(version) / 8
	numShortBlocks := numBlocks - rawCodewords%numBlocks
	shortBlockLen := rawCodewords / numBlocks

	generator := generatorPoly(blockECLen)
	blocks := make([][]byte, numBlocks)
	for i, k := 0, 0; i < numBlocks; i++ {
		n := shortBlockLen - blockECLen
		if i >= numShortBlocks {
			n++
		}
		dat := data[k : k+n]
		k += n
		block := make([]byte, 0, shortBlockLen+1)
		block = append(block, dat...)
		if i < numShortBlocks {
			// Placeholder so every block has the same length; skipped below.
			block = append(block, 0)
		}
		blocks[i] = append(block, ecCodewords(dat, generator)...)
	}

	result := make([]byte, 0, rawCodewords)
	for i := 0; i <= shortBlockLen; i++ {
		for j, block := range blocks {
			if i == shortBlockLen-blockECLen && j < numShortBlocks {
				continue
			}
			result = append(result, block[i])
		}
	}
	return result
}
