package qrcode

import (
	"errors"
	"testing"
)

func TestMakeSegmentsMode(t *testing.T) {
	tests := []struct {
		text  string
		modes []Mode
	}{
		{"", nil},
		{"0123456789", []Mode{ModeNumeric}},
		{"HELLO WORLD $%*+-./:", []Mode{ModeAlphanumeric}},
		{"Hello", []Mode{ModeByte}},
		{"日本語", []Mode{ModeKanji}},
		{"ｶﾀｶﾅ", []Mode{ModeECI, ModeByte}}, // half-width katakana is single-byte Shift JIS
		{"naïve", []Mode{ModeECI, ModeByte}},
		{"日本 go", []Mode{ModeECI, ModeByte}},
	}

	for _, tt := range tests {
		segs := MakeSegments(tt.text)
		if len(segs) != len(tt.modes) {
			t.Errorf("%q: got %d segments, want %d", tt.text, len(segs), len(tt.modes))
			continue
		}
		for i, seg := range segs {
			if seg.Mode != tt.modes[i] {
				t.Errorf("%q: segment %d is %s, want %s", tt.text, i, seg.Mode, tt.modes[i])
			}
		}
	}
}

func TestSegmentBits(t *testing.T) {
	tests := []struct {
		name     string
		seg      func() (Segment, error)
		numChars int
		bits     string
	}{
		{
			name:     "numeric 01234567",
			seg:      func() (Segment, error) { return MakeNumeric("01234567") },
			numChars: 8,
			bits:     "0000001100" + "0101011001" + "1000011",
		},
		{
			name:     "numeric single digit",
			seg:      func() (Segment, error) { return MakeNumeric("9") },
			numChars: 1,
			bits:     "1001",
		},
		{
			name:     "alphanumeric AC-42",
			seg:      func() (Segment, error) { return MakeAlphanumeric("AC-42") },
			numChars: 5,
			bits:     "00111001110" + "11100111001" + "000010",
		},
		{
			name:     "bytes",
			seg:      func() (Segment, error) { return MakeBytes([]byte{0xA5, 0x01}), nil },
			numChars: 2,
			bits:     "10100101" + "00000001",
		},
		{
			// 0x935F -> 0x935F-0x8140 = 0x121F -> 0x12*0xC0+0x1F = 0xD9F
			name:     "kanji",
			seg:      func() (Segment, error) { return MakeKanji("点") },
			numChars: 1,
			bits:     "0110110011111",
		},
		{
			// 0xE4AA -> 0xE4AA-0xC140 = 0x236A -> 0x23*0xC0+0x6A = 0x1AAA
			name:     "kanji upper range",
			seg:      func() (Segment, error) { return MakeKanji("茗") },
			numChars: 1,
			bits:     "1101010101010",
		},
		{
			name:     "eci 26",
			seg:      func() (Segment, error) { return MakeECI(ECIUTF8) },
			numChars: 0,
			bits:     "00011010",
		},
		{
			name:     "eci latin-1",
			seg:      func() (Segment, error) { return MakeECI(ECIISO8859_1) },
			numChars: 0,
			bits:     "00000011",
		},
		{
			name:     "eci shift jis",
			seg:      func() (Segment, error) { return MakeECI(ECIShiftJIS) },
			numChars: 0,
			bits:     "00010100",
		},
		{
			name:     "eci two bytes",
			seg:      func() (Segment, error) { return MakeECI(1000) },
			numChars: 0,
			bits:     "10" + "00001111101000",
		},
		{
			name:     "eci three bytes",
			seg:      func() (Segment, error) { return MakeECI(999999) },
			numChars: 0,
			bits:     "110" + "011110100001000111111",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg, err := tt.seg()
			if err != nil {
				t.Fatal(err)
			}
			if seg.NumChars != tt.numChars {
				t.Errorf("NumChars = %d, want %d", seg.NumChars, tt.numChars)
			}
			if got := seg.data.String(); got != tt.bits {
				t.Errorf("bits = %s, want %s", got, tt.bits)
			}
			if seg.BitLen() != len(tt.bits) {
				t.Errorf("BitLen = %d, want %d", seg.BitLen(), len(tt.bits))
			}
		})
	}
}

func TestSegmentErrors(t *testing.T) {
	if _, err := MakeNumeric("12a"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("MakeNumeric: got %v", err)
	}
	if _, err := MakeAlphanumeric("abc"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("MakeAlphanumeric: got %v", err)
	}
	if _, err := MakeKanji("kanji"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("MakeKanji: got %v", err)
	}
	if _, err := MakeECI(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("MakeECI(-1): got %v", err)
	}
	if _, err := MakeECI(1_000_000); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("MakeECI(1e6): got %v", err)
	}
}

func TestCharCountBits(t *testing.T) {
	tests := []struct {
		mode    Mode
		version int
		want    int
	}{
		{ModeNumeric, 1, 10}, {ModeNumeric, 10, 12}, {ModeNumeric, 27, 14},
		{ModeAlphanumeric, 9, 9}, {ModeAlphanumeric, 26, 11}, {ModeAlphanumeric, 40, 13},
		{ModeByte, 9, 8}, {ModeByte, 10, 16}, {ModeByte, 40, 16},
		{ModeKanji, 1, 8}, {ModeKanji, 26, 10}, {ModeKanji, 27, 12},
		{ModeECI, 40, 0},
	}
	for _, tt := range tests {
		if got := tt.mode.charCountBits(tt.version); got != tt.want {
			t.Errorf("%s at version %d: got %d, want %d", tt.mode, tt.version, got, tt.want)
		}
	}
}

func TestEncodeSegmentsMixed(t *testing.T) {
	num, err := MakeNumeric("0123456789")
	if err != nil {
		t.Fatal(err)
	}
	alpha, err := MakeAlphanumeric("ABC")
	if err != nil {
		t.Fatal(err)
	}
	segs := []Segment{alpha, num, MakeBytes([]byte("xyz"))}

	qr, err := EncodeSegments(segs, LevelM)
	if err != nil {
		t.Fatal(err)
	}
	if qr.Version() != 1 {
		t.Errorf("Expected version 1, got %d", qr.Version())
	}
}

func TestDataCodewordsHelloWorld(t *testing.T) {
	// HELLO WORLD at 1-M, with terminator and alternating pad bytes.
	want := []byte{32, 91, 11, 120, 209, 114, 220, 77, 67, 64, 236, 17, 236, 17, 236, 17}
	got := dataCodewords(MakeSegments("HELLO WORLD"), 1, LevelM)
	if len(got) != len(want) {
		t.Fatalf("got %d codewords, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("codeword %d: got %d, want %d", i, got[i], want[i])
		}
	}
}
