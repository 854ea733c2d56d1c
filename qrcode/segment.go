package qrcode

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// Mode is a segment mode; its value is the 4-bit mode indicator.
type Mode int

const (
	ModeNumeric      Mode = 1
	ModeAlphanumeric Mode = 2
	ModeByte         Mode = 4
	ModeECI          Mode = 7
	ModeKanji        Mode = 8
)

func (m Mode) String() string {
	switch m {
	case ModeNumeric:
		return "numeric"
	case ModeAlphanumeric:
		return "alphanumeric"
	case ModeByte:
		return "byte"
	case ModeECI:
		return "eci"
	case ModeKanji:
		return "kanji"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// charCountBits returns the width of the character count indicator for
// versions 1-9, 10-26 and 27-40.
func (m Mode) charCountBits(version int) int {
	class := 0
	switch {
	case version >= 27:
		class = 2
	case version >= 10:
		class = 1
	}
	switch m {
	case ModeNumeric:
		return [3]int{10, 12, 14}[class]
	case ModeAlphanumeric:
		return [3]int{9, 11, 13}[class]
	case ModeByte:
		return [3]int{8, 16, 16}[class]
	case ModeKanji:
		return [3]int{8, 10, 12}[class]
	}
	return 0
}

// ECI assignment numbers.
const (
	ECIISO8859_1 = 3
	ECIShiftJIS  = 20
	ECIUTF8      = 26
)

// alphanumericCharset is the 45-character set of alphanumeric mode, in
// value order.
const alphanumericCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

// Segment is a run of data in one mode.
type Segment struct {
	Mode Mode

	// NumChars is the character count written into the count indicator:
	// digits, characters, bytes or kanji. Zero for ECI.
	NumChars int

	data bitBuffer
}

// BitLen returns the number of data bits, excluding mode and count headers.
func (s Segment) BitLen() int { return s.data.Len() }

// MakeSegments splits text into the most compact single-mode segment list.
// Empty text gives no segments. Byte-mode text that is not plain ASCII is
// preceded by a UTF-8 ECI designator.
func MakeSegments(text string) []Segment {
	switch {
	case text == "":
		return nil
	case isNumeric(text):
		seg, _ := MakeNumeric(text)
		return []Segment{seg}
	case isAlphanumeric(text):
		seg, _ := MakeAlphanumeric(text)
		return []Segment{seg}
	}
	if sjis, ok := kanjiBytes(text); ok {
		return []Segment{makeKanji(sjis)}
	}
	seg := MakeBytes([]byte(text))
	if isASCII(text) {
		return []Segment{seg}
	}
	eci, _ := MakeECI(ECIUTF8)
	return []Segment{eci, seg}
}

// MakeNumeric encodes a string of decimal digits, three digits per 10 bits.
func MakeNumeric(digits string) (Segment, error) {
	if !isNumeric(digits) {
		return Segment{}, fmt.Errorf("%w: %q is not numeric", ErrInvalidArgument, digits)
	}
	var bb bitBuffer
	for i := 0; i < len(digits); i += 3 {
		n := min(3, len(digits)-i)
		val := 0
		for _, c := range digits[i : i+n] {
			val = val*10 + int(c-'0')
		}
		bb.Put(val, n*3+1)
	}
	return Segment{Mode: ModeNumeric, NumChars: len(digits), data: bb}, nil
}

// MakeAlphanumeric encodes text from the alphanumeric set, two characters
// per 11 bits.
func MakeAlphanumeric(text string) (Segment, error) {
	if !isAlphanumeric(text) {
		return Segment{}, fmt.Errorf("%w: %q is not alphanumeric", ErrInvalidArgument, text)
	}
	var bb bitBuffer
	i := 0
	for ; i+1 < len(text); i += 2 {
		val := strings.IndexByte(alphanumericCharset, text[i])*45 + strings.IndexByte(alphanumericCharset, text[i+1])
		bb.Put(val, 11)
	}
	if i < len(text) {
		bb.Put(strings.IndexByte(alphanumericCharset, text[i]), 6)
	}
	return Segment{Mode: ModeAlphanumeric, NumChars: len(text), data: bb}, nil
}

// MakeBytes encodes raw bytes, 8 bits each.
func MakeBytes(data []byte) Segment {
	var bb bitBuffer
	for _, b := range data {
		bb.Put(int(b), 8)
	}
	return Segment{Mode: ModeByte, NumChars: len(data), data: bb}
}

// MakeKanji encodes text whose every character is a double-byte Shift JIS
// kanji, 13 bits each.
func MakeKanji(text string) (Segment, error) {
	sjis, ok := kanjiBytes(text)
	if !ok {
		return Segment{}, fmt.Errorf("%w: %q is not kanji-encodable", ErrInvalidArgument, text)
	}
	return makeKanji(sjis), nil
}

func makeKanji(sjis []byte) Segment {
	var bb bitBuffer
	for i := 0; i < len(sjis); i += 2 {
		c := int(sjis[i])<<8 | int(sjis[i+1])
		if c <= 0x9FFC {
			c -= 0x8140
		} else {
			c -= 0xC140
		}
		bb.Put((c>>8)*0xC0+(c&0xFF), 13)
	}
	return Segment{Mode: ModeKanji, NumChars: len(sjis) / 2, data: bb}
}

// MakeECI returns an extended channel interpretation designator.
func MakeECI(assign int) (Segment, error) {
	var bb bitBuffer
	switch {
	case assign < 0:
		return Segment{}, fmt.Errorf("%w: ECI assignment %d", ErrInvalidArgument, assign)
	case assign < 1<<7:
		bb.Put(assign, 8)
	case assign < 1<<14:
		bb.Put(0b10, 2)
		bb.Put(assign, 14)
	case assign < 1_000_000:
		bb.Put(0b110, 3)
		bb.Put(assign, 21)
	default:
		return Segment{}, fmt.Errorf("%w: ECI assignment %d", ErrInvalidArgument, assign)
	}
	return Segment{Mode: ModeECI, data: bb}, nil
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isAlphanumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(alphanumericCharset, s[i]) < 0 {
			return false
		}
	}
	return true
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// kanjiBytes converts text to Shift JIS if every rune maps to a double-byte
// code in the kanji mode ranges 0x8140-0x9FFC and 0xE040-0xEBBF.
func kanjiBytes(text string) ([]byte, bool) {
	if text == "" || !utf8.ValidString(text) {
		return nil, false
	}
	enc := japanese.ShiftJIS.NewEncoder()
	out := make([]byte, 0, 2*utf8.RuneCountInString(text))
	for _, r := range text {
		b, err := enc.Bytes([]byte(string(r)))
		if err != nil || len(b) != 2 {
			return nil, false
		}
		c := int(b[0])<<8 | int(b[1])
		if !(c >= 0x8140 && c <= 0x9FFC) && !(c >= 0xE040 && c <= 0xEBBF) {
			return nil, false
		}
		out = append(out, b...)
	}
	return out, true
}

// bitBuffer is an append-only sequence of bits, most significant first.
type bitBuffer struct {
	bits []bool
}

// Put appends the low length bits of num.
func (b *bitBuffer) Put(num, length int) {
	for i := 0; i < length; i++ {
		b.bits = append(b.bits, (num>>(length-1-i))&1 == 1)
	}
}

// Append appends all bits of other.
func (b *bitBuffer) Append(other *bitBuffer) {
	b.bits = append(b.bits, other.bits...)
}

func (b *bitBuffer) Len() int {
	return len(b.bits)
}

// Bytes packs the bits into bytes. Len must be a multiple of 8.
func (b *bitBuffer) Bytes() []byte {
	out := make([]byte, len(b.bits)/8)
	for i, bit := range b.bits {
		if bit {
			out[i/8] |= 1 << (7 - i%8)
		}
	}
	return out
}

// String renders the bits as '0' and '1'.
func (b *bitBuffer) String() string {
	var sb strings.Builder
	for _, bit := range b.bits {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
