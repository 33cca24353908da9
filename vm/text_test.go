package vm

import "testing"

// codec builds a machine around the fixture image and returns its codec.
func codec(t *testing.T, b *storyBuilder) *textCodec {
	t.Helper()
	m, _ := b.machine(t)
	return m.text
}

func TestDecodeHello(t *testing.T) {
	// "hello" packs as z-chars 13 10 17 / 17 20 5(pad).
	b := newStory(3).
		putWord(tStrings, 0x3551).
		putWord(tStrings+2, 0xC685)
	tc := codec(t, b)

	s, end, err := tc.Decode(tStrings)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s != "hello" {
		t.Errorf("decoded %q, want %q", s, "hello")
	}
	if end != tStrings+4 {
		t.Errorf("end = 0x%X, want 0x%X", end, tStrings+4)
	}
}

func TestDecodeShiftIsTemporaryInV3(t *testing.T) {
	// Shift to A1, then two A0 characters: only the first is upper-cased.
	b := newStory(3).putWord(tStrings, 0x91AE) // 4, 13, 14
	tc := codec(t, b)

	s, _, err := tc.Decode(tStrings)
	if err != nil {
		t.Fatal(err)
	}
	if s != "Hi" {
		t.Errorf("decoded %q, want %q", s, "Hi")
	}
}

func TestDecodeShiftLocksInV1(t *testing.T) {
	// The same z-chars shift-lock in version 1.
	b := newStory(1).putWord(tStrings, 0x91AE)
	tc := codec(t, b)

	s, _, err := tc.Decode(tStrings)
	if err != nil {
		t.Fatal(err)
	}
	if s != "HI" {
		t.Errorf("decoded %q, want %q", s, "HI")
	}
}

func TestDecodeNewlineZCharInV1(t *testing.T) {
	// Z-character 1 prints a newline in version 1 only.
	b := newStory(1).putWord(tStrings, 0x84C6) // 1, 6, 6
	tc := codec(t, b)

	s, _, err := tc.Decode(tStrings)
	if err != nil {
		t.Fatal(err)
	}
	if s != "\naa" {
		t.Errorf("decoded %q, want %q", s, "\naa")
	}
}

func TestDecodeTenBitZSCII(t *testing.T) {
	// 5 6 2 / 0 5 5 spells the escape for ZSCII 64, '@'.
	b := newStory(3).
		putWord(tStrings, 0x14C2).
		putWord(tStrings+2, 0x80A5)
	tc := codec(t, b)

	s, _, err := tc.Decode(tStrings)
	if err != nil {
		t.Fatal(err)
	}
	if s != "@" {
		t.Errorf("decoded %q, want %q", s, "@")
	}
}

func TestDecodeAbbreviation(t *testing.T) {
	// Abbreviation 0 of bank 0 holds "the"; the main string is z-chars 1, 0.
	b := newStory(3).
		putWord(tAbbrevs, tStrings/2).
		putWord(tStrings, 0xE5AA). // 25 13 10 = "the", terminated
		putWord(tStrings+0x40, 0x8405) // 1, 0, 5
	tc := codec(t, b)

	s, _, err := tc.Decode(tStrings + 0x40)
	if err != nil {
		t.Fatal(err)
	}
	if s != "the" {
		t.Errorf("decoded %q, want %q", s, "the")
	}
}

func TestAbbreviationInsideAbbreviationFails(t *testing.T) {
	// An abbreviation whose own text starts another abbreviation is
	// rejected while the cache is built.
	b := newStory(3).
		putWord(tAbbrevs, tStrings/2).
		putWord(tStrings, 0x8405) // z-char 1 begins an abbreviation
	ui := newTestUI()
	if _, err := NewMachine(b.buf, ui); !IsFailure(err, EncodingError) {
		t.Errorf("NewMachine = %v, want EncodingError", err)
	}
}

func TestDecodeCustomAlphabet(t *testing.T) {
	// A version 5 story may supply its own 78-entry alphabet table.
	b := newStory(5)
	table := tStatic + 0x100
	for i := 0; i < 78; i++ {
		b.putBytes(table+i, 'q')
	}
	b.putWord(hdrAlphabetTable, uint16(table))
	b.putWord(tStrings, 0x98C6) // 6, 6, 6
	tc := codec(t, b)

	s, _, err := tc.Decode(tStrings)
	if err != nil {
		t.Fatal(err)
	}
	if s != "qqq" {
		t.Errorf("decoded %q, want %q", s, "qqq")
	}
	// Position 7 of A2 stays newline regardless of the table.
	if tc.alphabet[52+1] != '\n' {
		t.Errorf("A2 z-char 7 = %q, want newline", tc.alphabet[52+1])
	}
}

func TestDecodeCustomUnicodeTable(t *testing.T) {
	// A header-extension unicode table remaps ZSCII 155.
	b := newStory(5)
	ext := tStatic + 0x200
	table := tStatic + 0x210
	b.putWord(hdrExtensionTable, uint16(ext))
	b.putWord(ext, 3)
	b.putWord(ext+6, uint16(table))
	b.putBytes(table, 1)
	b.putWord(table+1, 0x03A9) // Ω
	// Escape for ZSCII 155: 5 6 4 / 27 5 5.
	b.putWord(tStrings, 0x14C4)
	b.putWord(tStrings+2, 0xECA5)
	tc := codec(t, b)

	s, _, err := tc.Decode(tStrings)
	if err != nil {
		t.Fatal(err)
	}
	if s != "Ω" {
		t.Errorf("decoded %q, want %q", s, "Ω")
	}
}

func TestDefaultExtendedCharacters(t *testing.T) {
	b := newStory(3)
	tc := codec(t, b)

	if tc.unicode[155] != 'ä' {
		t.Errorf("zscii 155 = %q, want ä", tc.unicode[155])
	}
	if tc.unicode[223] != '¿' {
		t.Errorf("zscii 223 = %q, want ¿", tc.unicode[223])
	}
	if tc.unicode[154] != replacementChar || tc.unicode[224] != replacementChar {
		t.Errorf("unassigned slots should be the replacement character")
	}
}

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

func TestEncodeHello(t *testing.T) {
	b := newStory(3)
	tc := codec(t, b)

	words := tc.encodeWord([]byte("hello"))
	if len(words) != 2 || words[0] != 0x3551 || words[1] != 0xC685 {
		t.Errorf("encodeWord = %04X, want [3551 C685]", words)
	}
}

func TestEncodeFoldsUpperCase(t *testing.T) {
	b := newStory(3)
	tc := codec(t, b)

	upper := tc.encodeWord([]byte("HELLO"))
	lower := tc.encodeWord([]byte("hello"))
	for i := range upper {
		if upper[i] != lower[i] {
			t.Fatalf("upper = %04X, lower = %04X", upper, lower)
		}
	}
}

func TestEncodeTruncatesSilently(t *testing.T) {
	b := newStory(3)
	tc := codec(t, b)

	long := tc.encodeWord([]byte("incomprehensible"))
	short := tc.encodeWord([]byte("incomp"))
	if len(long) != 2 {
		t.Fatalf("len = %d, want 2", len(long))
	}
	for i := range long {
		if long[i] != short[i] {
			t.Errorf("truncation mismatch: %04X vs %04X", long, short)
		}
	}
}

func TestEncodeVersionFourUsesThreeWords(t *testing.T) {
	b := newStory(5)
	tc := codec(t, b)

	words := tc.encodeWord([]byte("go"))
	if len(words) != 3 {
		t.Fatalf("len = %d, want 3", len(words))
	}
	if words[2]&0x8000 == 0 {
		t.Errorf("terminator bit missing from last word")
	}
	if words[0]&0x8000 != 0 || words[1]&0x8000 != 0 {
		t.Errorf("terminator bit set early: %04X", words)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	// P6: decode(encode(w)) equals w after lower-casing, truncation and
	// padding removal.
	b := newStory(3)
	m, _ := b.machine(t)
	tc := m.text

	for _, word := range []string{"go", "north", "x", "take", "Sword", "it's"} {
		words := tc.encodeWord([]byte(word))
		addr := tText
		for i, w := range words {
			m.mem.SetWord(addr+2*i, w)
		}
		got, _, err := tc.Decode(addr)
		if err != nil {
			t.Fatalf("Decode(%q): %v", word, err)
		}
		want := word
		if len(want) > 6 {
			want = want[:6]
		}
		lower := make([]byte, len(want))
		for i := 0; i < len(want); i++ {
			c := want[i]
			if c >= 'A' && c <= 'Z' {
				c += 'a' - 'A'
			}
			lower[i] = c
		}
		if got != string(lower) {
			t.Errorf("round trip %q = %q, want %q", word, got, lower)
		}
	}
}

func TestEncodeUnrepresentableCharacterEscapes(t *testing.T) {
	b := newStory(3)
	m, _ := b.machine(t)
	tc := m.text

	// '@' is in no alphabet row; it must travel as a 10-bit escape and
	// still round-trip.
	words := tc.encodeWord([]byte("@"))
	for i, w := range words {
		m.mem.SetWord(tText+2*i, w)
	}
	got, _, err := tc.Decode(tText)
	if err != nil {
		t.Fatal(err)
	}
	if got != "@" {
		t.Errorf("round trip = %q, want %q", got, "@")
	}
}

func TestEncodeForDictionaryReadsMemory(t *testing.T) {
	b := newStory(3).putBytes(tText, 'G', 'O')
	m, _ := b.machine(t)
	tc := m.text

	got, err := tc.EncodeForDictionary(tText, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := tc.encodeWord([]byte("go"))
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("EncodeForDictionary = %04X, want %04X", got, want)
		}
	}
}

func TestReverseTablePrefersASCII(t *testing.T) {
	b := newStory(3)
	tc := codec(t, b)

	if z := tc.unicodeToZSCII('a'); z != 'a' {
		t.Errorf("reverse('a') = %d, want %d", z, 'a')
	}
	if z := tc.unicodeToZSCII('ä'); z != 155 {
		t.Errorf("reverse('ä') = %d, want 155", z)
	}
	if z := tc.unicodeToZSCII('☃'); z != '?' {
		t.Errorf("reverse(snowman) = %d, want '?'", z)
	}
}
