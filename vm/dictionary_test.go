package vm

import "testing"

// Precomputed version-3 dictionary keys.
//
//	"go"    = 12 20 5 / 5 5 5  -> 3285 94A5
//	"north" = 19 20 23 / 25 13 5 -> 4E97 E5A5
const (
	dictGoAddr    = tDict + 6
	dictNorthAddr = tDict + 13
)

// dictionaryFixture writes a sorted two-entry dictionary with ',' and '.'
// as separators and 3 data bytes per entry.
func dictionaryFixture(b *storyBuilder) {
	b.putBytes(tDict, 2, ',', '.', 7) // separators, entry size
	b.putWord(tDict+4, 2)             // entry count, sorted
	b.putBytes(dictGoAddr, 0x32, 0x85, 0x94, 0xA5, 0, 0, 0)
	b.putBytes(dictNorthAddr, 0x4E, 0x97, 0xE5, 0xA5, 0, 0, 0)
}

// typeInput writes ZSCII text into the version 1-4 text buffer.
func typeInput(b *storyBuilder, s string) {
	b.putBytes(tText, 20)
	for i := 0; i < len(s); i++ {
		b.putBytes(tText+1+i, s[i])
	}
	b.putBytes(tText+1+len(s), 0)
	b.putBytes(tParse, 10)
}

func parseEntry(t *testing.T, m *Machine, k int) (addr uint16, length, offset byte) {
	t.Helper()
	entry := tParse + 2 + 4*k
	addr, err := m.mem.GetWord(entry)
	if err != nil {
		t.Fatal(err)
	}
	length, _ = m.mem.GetByte(entry + 2)
	offset, _ = m.mem.GetByte(entry + 3)
	return addr, length, offset
}

func TestTokeniseTwoWords(t *testing.T) {
	b := newStory(3)
	dictionaryFixture(b)
	typeInput(b, "go north")
	m, _ := b.machine(t)

	if err := m.text.Tokenise(tText, tParse, 0, false); err != nil {
		t.Fatalf("Tokenise: %v", err)
	}

	count, _ := m.mem.GetByte(tParse + 1)
	if count != 2 {
		t.Fatalf("token count = %d, want 2", count)
	}
	addr, length, offset := parseEntry(t, m, 0)
	if addr != dictGoAddr || length != 2 || offset != 0 {
		t.Errorf("entry 0 = (0x%X, %d, %d), want (0x%X, 2, 0)", addr, length, offset, dictGoAddr)
	}
	addr, length, offset = parseEntry(t, m, 1)
	if addr != dictNorthAddr || length != 5 || offset != 3 {
		t.Errorf("entry 1 = (0x%X, %d, %d), want (0x%X, 5, 3)", addr, length, offset, dictNorthAddr)
	}
}

func TestTokeniseSeparatorIsAToken(t *testing.T) {
	b := newStory(3)
	dictionaryFixture(b)
	typeInput(b, "go,north")
	m, _ := b.machine(t)

	if err := m.text.Tokenise(tText, tParse, 0, false); err != nil {
		t.Fatal(err)
	}

	count, _ := m.mem.GetByte(tParse + 1)
	if count != 3 {
		t.Fatalf("token count = %d, want 3", count)
	}
	addr, length, offset := parseEntry(t, m, 1)
	if addr != 0 || length != 1 || offset != 2 {
		t.Errorf("comma entry = (0x%X, %d, %d), want (0, 1, 2)", addr, length, offset)
	}
	if addr, _, _ := parseEntry(t, m, 2); addr != dictNorthAddr {
		t.Errorf("entry 2 addr = 0x%X, want 0x%X", addr, dictNorthAddr)
	}
}

func TestTokeniseUnknownWordZeroesEntry(t *testing.T) {
	b := newStory(3)
	dictionaryFixture(b)
	typeInput(b, "xyzzy")
	// Pre-stain the entry to prove it is overwritten.
	b.putBytes(tParse+2, 0xAA, 0xAA, 0xAA, 0xAA)
	m, _ := b.machine(t)

	if err := m.text.Tokenise(tText, tParse, 0, false); err != nil {
		t.Fatal(err)
	}
	addr, length, _ := parseEntry(t, m, 0)
	if addr != 0 || length != 5 {
		t.Errorf("entry = (0x%X, %d), want zero address", addr, length)
	}
}

func TestTokeniseIgnoreUnknownLeavesEntry(t *testing.T) {
	b := newStory(3)
	dictionaryFixture(b)
	typeInput(b, "xyzzy")
	b.putBytes(tParse+2, 0xAA, 0xBB, 0xCC, 0xDD)
	m, _ := b.machine(t)

	if err := m.text.Tokenise(tText, tParse, 0, true); err != nil {
		t.Fatal(err)
	}
	count, _ := m.mem.GetByte(tParse + 1)
	if count != 1 {
		t.Errorf("token count = %d, want 1", count)
	}
	addr, length, offset := parseEntry(t, m, 0)
	if addr != 0xAABB || length != 0xCC || offset != 0xDD {
		t.Errorf("entry touched: (0x%X, %d, %d)", addr, length, offset)
	}
}

func TestTokeniseUnsortedDictionaryScansLinearly(t *testing.T) {
	b := newStory(3)
	// Same entries in reverse order with a negative count.
	b.putBytes(tDict, 2, ',', '.', 7)
	b.putWord(tDict+4, 0xFFFE) // -2: unsorted
	b.putBytes(dictGoAddr, 0x4E, 0x97, 0xE5, 0xA5, 0, 0, 0)
	b.putBytes(dictNorthAddr, 0x32, 0x85, 0x94, 0xA5, 0, 0, 0)
	typeInput(b, "go")
	m, _ := b.machine(t)

	if err := m.text.Tokenise(tText, tParse, 0, false); err != nil {
		t.Fatal(err)
	}
	addr, _, _ := parseEntry(t, m, 0)
	if addr != dictNorthAddr {
		t.Errorf("entry addr = 0x%X, want 0x%X", addr, dictNorthAddr)
	}
}

func TestTokeniseRespectsMaxTokens(t *testing.T) {
	b := newStory(3)
	dictionaryFixture(b)
	typeInput(b, "go go go")
	b.putBytes(tParse, 2) // room for two tokens only
	m, _ := b.machine(t)

	if err := m.text.Tokenise(tText, tParse, 0, false); err != nil {
		t.Fatal(err)
	}
	count, _ := m.mem.GetByte(tParse + 1)
	if count != 2 {
		t.Errorf("token count = %d, want 2", count)
	}
}

func TestTokeniseExplicitDictionary(t *testing.T) {
	// A second dictionary elsewhere in memory, referenced by address.
	b := newStory(3)
	dictionaryFixture(b)
	alt := tStatic + 0x300
	b.putBytes(alt, 0, 7) // no separators
	b.putWord(alt+2, 1)
	b.putBytes(alt+4, 0x32, 0x85, 0x94, 0xA5, 0, 0, 0) // "go"
	typeInput(b, "go")
	m, _ := b.machine(t)

	if err := m.text.Tokenise(tText, tParse, alt, false); err != nil {
		t.Fatal(err)
	}
	addr, _, _ := parseEntry(t, m, 0)
	if int(addr) != alt+4 {
		t.Errorf("entry addr = 0x%X, want 0x%X", addr, alt+4)
	}
}

func TestDictionaryEntryTooSmallFails(t *testing.T) {
	b := newStory(3)
	b.putBytes(tDict, 0, 3) // entry size below the 4-byte key
	b.putWord(tDict+2, 1)
	typeInput(b, "go")
	m, _ := b.machine(t)

	if err := m.text.Tokenise(tText, tParse, 0, false); !IsFailure(err, EncodingError) {
		t.Errorf("Tokenise = %v, want EncodingError", err)
	}
}
