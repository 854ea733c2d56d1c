// Package qrcode builds QR Code symbols and renders them to images.
//
// Encoding picks the most compact single mode for the text (numeric,
// alphanumeric, kanji or byte), the smallest version that holds it at the
// requested error correction level, Reed-Solomon error correction per block,
// and the data mask with the lowest penalty score. Encode and the render
// functions are pure: every call builds fresh output and nothing is shared
// between calls.
package qrcode

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDataTooLong is returned when the data does not fit the largest
	// allowed version at the requested level.
	ErrDataTooLong = errors.New("qrcode: data too long")

	// ErrDimensionOverflow is returned when a border/scale combination does
	// not fit the pixel coordinate space.
	ErrDimensionOverflow = errors.New("qrcode: dimension overflow")

	// ErrInvalidArgument is returned for a negative border, a non-positive
	// scale, an unknown level or an out-of-range option.
	ErrInvalidArgument = errors.New("qrcode: invalid argument")
)

// Level is the error correction level. Higher levels survive more damage
// but hold less data.
type Level int

const (
	LevelL Level = iota // 7%
	LevelM              // 15%
	LevelQ              // 25%
	LevelH              // 30%
)

// formatBits returns the 2-bit value written into the format information:
// L=01, M=00, Q=11, H=10.
func (l Level) formatBits() int {
	switch l {
	case LevelL:
		return 1
	case LevelM:
		return 0
	case LevelQ:
		return 3
	default:
		return 2
	}
}

func (l Level) valid() bool { return l >= LevelL && l <= LevelH }

func (l Level) String() string {
	switch l {
	case LevelL:
		return "L"
	case LevelM:
		return "M"
	case LevelQ:
		return "Q"
	case LevelH:
		return "H"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel parses a level name such as "L", "low", "quartile" or "H".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return LevelL, nil
	case "m", "medium":
		return LevelM, nil
	case "q", "quartile":
		return LevelQ, nil
	case "h", "high":
		return LevelH, nil
	}
	return 0, fmt.Errorf("%w: unknown error correction level %q", ErrInvalidArgument, s)
}

// Version bounds.
const (
	MinVersion = 1
	MaxVersion = 40
)

// MaskAuto lets the encoder pick the mask with the lowest penalty.
const MaskAuto = -1

type encodeConfig struct {
	minVersion int
	maxVersion int
	mask       int
	boost      bool
}

// Option tunes EncodeWith and EncodeSegments.
type Option func(*encodeConfig)

// WithVersionRange restricts the versions the encoder may choose.
func WithVersionRange(lo, hi int) Option {
	return func(c *encodeConfig) {
		c.minVersion = lo
		c.maxVersion = hi
	}
}

// WithMask forces mask 0..7, or MaskAuto.
func WithMask(mask int) Option {
	return func(c *encodeConfig) { c.mask = mask }
}

// WithBoostLevel raises the level as far as the chosen version still holds
// the data. The version never grows because of it.
func WithBoostLevel() Option {
	return func(c *encodeConfig) { c.boost = true }
}

// QRCode is an immutable QR Code symbol.
type QRCode struct {
	version int
	level   Level
	mask    int
	size    int
	modules [][]bool // [y][x], true is dark
}

// Version returns the symbol version, 1 to 40.
func (qr *QRCode) Version() int { return qr.version }

// Level returns the error correction level actually encoded. It differs from
// the requested one only with WithBoostLevel.
func (qr *QRCode) Level() Level { return qr.level }

// Mask returns the data mask pattern, 0 to 7.
func (qr *QRCode) Mask() int { return qr.mask }

// Size returns the side length in modules, 4*version+17.
func (qr *QRCode) Size() int { return qr.size }

// Module reports whether the module at column x, row y is dark.
// Coordinates outside the symbol are light, which is how the quiet zone
// reads when iterating over [-border, size+border).
func (qr *QRCode) Module(x, y int) bool {
	if x < 0 || y < 0 || x >= qr.size || y >= qr.size {
		return false
	}
	return qr.modules[y][x]
}

// Encode builds the symbol for text at the given level, choosing the
// smallest version that fits.
func Encode(text string, level Level) (*QRCode, error) {
	return EncodeSegments(MakeSegments(text), level)
}

// EncodeWith is Encode with options.
func EncodeWith(text string, level Level, opts ...Option) (*QRCode, error) {
	return EncodeSegments(MakeSegments(text), level, opts...)
}

// EncodeSegments builds a symbol from caller-made segments.
func EncodeSegments(segs []Segment, level Level, opts ...Option) (*QRCode, error) {
	if !level.valid() {
		return nil, fmt.Errorf("%w: error correction level %d", ErrInvalidArgument, int(level))
	}
	cfg := encodeConfig{minVersion: MinVersion, maxVersion: MaxVersion, mask: MaskAuto}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.minVersion < MinVersion || cfg.maxVersion > MaxVersion || cfg.minVersion > cfg.maxVersion {
		return nil, fmt.Errorf("%w: version range %d-%d", ErrInvalidArgument, cfg.minVersion, cfg.maxVersion)
	}
	if cfg.mask < MaskAuto || cfg.mask > 7 {
		return nil, fmt.Errorf("%w: mask %d", ErrInvalidArgument, cfg.mask)
	}

	// Find the smallest version that holds the data.
	version := cfg.minVersion
	usedBits := 0
	for ; ; version++ {
		capacityBits := numDataCodewords(version, level) * 8
		usedBits = totalBits(segs, version)
		if usedBits >= 0 && usedBits <= capacityBits {
			break
		}
		if version >= cfg.maxVersion {
			if usedBits < 0 {
				return nil, fmt.Errorf("%w: segment length exceeds the count field of version %d", ErrDataTooLong, version)
			}
			return nil, fmt.Errorf("%w: %d bits needed, version %d-%s holds %d", ErrDataTooLong, usedBits, version, level, capacityBits)
		}
	}

	if cfg.boost {
		for l := level + 1; l <= LevelH; l++ {
			if usedBits <= numDataCodewords(version, l)*8 {
				level = l
			}
		}
	}

	data := dataCodewords(segs, version, level)
	return newQRCode(version, level, data, cfg.mask), nil
}

// dataCodewords concatenates the segments, then adds the terminator, bit
// padding and alternating pad bytes up to the version's data capacity.
func dataCodewords(segs []Segment, version int, level Level) []byte {
	capacityBits := numDataCodewords(version, level) * 8

	var bb bitBuffer
	for _, seg := range segs {
		bb.Put(int(seg.Mode), 4)
		bb.Put(seg.NumChars, seg.Mode.charCountBits(version))
		bb.Append(&seg.data)
	}

	// Terminator, up to 4 zeros
	term := 4
	if bb.Len()+term > capacityBits {
		term = capacityBits - bb.Len()
	}
	bb.Put(0, term)

	// Byte alignment
	if bb.Len()%8 != 0 {
		bb.Put(0, 8-bb.Len()%8)
	}

	padBytes := [2]int{0xEC, 0x11}
	for i := 0; bb.Len() < capacityBits; i++ {
		bb.Put(padBytes[i%2], 8)
	}
	return bb.Bytes()
}

// totalBits returns the bits needed to encode segs at version, or -1 if a
// segment's character count does not fit its count field.
func totalBits(segs []Segment, version int) int {
	n := 0
	for _, seg := range segs {
		ccbits := seg.Mode.charCountBits(version)
		if seg.NumChars >= 1<<ccbits {
			return -1
		}
		n += 4 + ccbits + seg.data.Len()
	}
	return n
}
