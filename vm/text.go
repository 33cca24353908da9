package vm

import "strings"

// ---------------------------------------------------------------------------
// Text codec: ZSCII tables, alphabets, abbreviations, Z-character decoding
// ---------------------------------------------------------------------------

// ZSCII codes with fixed meanings.
const (
	zsciiNull    = 0
	zsciiTab     = 9
	zsciiSentenceSpace = 11
	zsciiNewline = 13
	zsciiEscape  = 27
	zsciiDelete  = 8
)

// replacementChar stands in for every unmappable code point.
const replacementChar = '�'

// Default alphabet rows. Versions 1 and 2 differ from 3+ in row A2; version 1
// additionally has no newline there (Z-character 1 prints one instead).
const (
	alphaRow0   = "abcdefghijklmnopqrstuvwxyz"
	alphaRow1   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphaRow2V1 = " 0123456789.,!?_#'\"/\\<-:()"
	alphaRow2   = " \n0123456789.,!?_#'\"/\\-:()"
)

// Default translations for ZSCII 155-223 (the accented range). Codes past the
// default table decode to the replacement character unless the story supplies
// its own table.
const defaultExtended = "äöüÄÖÜß»«ëïÿËÏáéíóúýÁÉÍÓÚÝàèìòùÀÈÌÒÙâêîôûÂÊÎÔÛåÅøØãñõÃÑÕæÆçÇþðÞÐ£œŒ¡¿"

// textCodec owns the four text caches: the ZSCII-to-Unicode table, its
// reverse, the three alphabet rows, and the decoded abbreviations.
type textCodec struct {
	mem     *Memory
	version Version

	alphabet [78]rune
	unicode  [256]rune
	reverse  map[rune]byte
	abbrevs  []string
}

// newTextCodec reads the alphabet, abbreviation and unicode table pointers
// from the header and builds all four caches.
func newTextCodec(mem *Memory, version Version) (*textCodec, error) {
	t := &textCodec{mem: mem, version: version}
	if err := t.buildUnicode(); err != nil {
		return nil, err
	}
	t.buildReverse()
	if err := t.buildAlphabet(); err != nil {
		return nil, err
	}
	if err := t.buildAbbrevs(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *textCodec) buildUnicode() error {
	for i := range t.unicode {
		t.unicode[i] = replacementChar
	}
	t.unicode[zsciiNull] = 0
	t.unicode[zsciiTab] = '\t'
	t.unicode[zsciiSentenceSpace] = ' '
	t.unicode[zsciiNewline] = '\n'
	for i := 32; i <= 126; i++ {
		t.unicode[i] = rune(i)
	}
	for i, r := range []rune(defaultExtended) {
		t.unicode[155+i] = r
	}

	// A version 5+ story may carry its own extended-range table in the
	// header extension.
	if t.version.Number >= 5 {
		custom, err := t.unicodeTableAddr()
		if err != nil {
			return err
		}
		if custom != 0 {
			n, err := t.mem.GetByte(custom)
			if err != nil {
				return err
			}
			for i := 155; i < 155+int(n) && i < 252; i++ {
				w, err := t.mem.GetWord(custom + 1 + (i-155)*2)
				if err != nil {
					return err
				}
				t.unicode[i] = rune(w)
			}
			for i := 155 + int(n); i < 252; i++ {
				t.unicode[i] = replacementChar
			}
		}
	}
	return nil
}

// unicodeTableAddr returns the custom unicode table address from the header
// extension, or 0 when absent.
func (t *textCodec) unicodeTableAddr() (int, error) {
	ext, err := t.mem.GetWord(hdrExtensionTable)
	if err != nil {
		return 0, err
	}
	if ext == 0 {
		return 0, nil
	}
	words, err := t.mem.GetWord(int(ext))
	if err != nil {
		return 0, err
	}
	if words < 3 {
		return 0, nil
	}
	addr, err := t.mem.GetWord(int(ext) + 6)
	if err != nil {
		return 0, err
	}
	return int(addr), nil
}

// buildReverse derives the char-to-ZSCII table. Iterating from the top down
// lets the low (ASCII) codes win when a character appears twice. The sentence
// space (ZSCII 11) is skipped so that a space maps to ZSCII 32.
func (t *textCodec) buildReverse() {
	t.reverse = make(map[rune]byte, 256)
	for i := 255; i >= 0; i-- {
		if i == zsciiSentenceSpace {
			continue
		}
		if t.unicode[i] != replacementChar {
			t.reverse[t.unicode[i]] = byte(i)
		}
	}
}

func (t *textCodec) buildAlphabet() error {
	row2 := alphaRow2
	if t.version.Number == 1 {
		row2 = alphaRow2V1
	}
	copy(t.alphabet[0:26], []rune(alphaRow0))
	copy(t.alphabet[26:52], []rune(alphaRow1))
	copy(t.alphabet[52:78], []rune(row2))

	if t.version.Number >= 5 {
		custom, err := t.mem.GetWord(hdrAlphabetTable)
		if err != nil {
			return err
		}
		if custom != 0 {
			for i := 0; i < 78; i++ {
				z, err := t.mem.GetByte(int(custom) + i)
				if err != nil {
					return err
				}
				t.alphabet[i] = t.unicode[z]
			}
			// Z-character 7 of A2 is newline no matter what the table says.
			t.alphabet[52+1] = '\n'
		}
	}
	return nil
}

func (t *textCodec) buildAbbrevs() error {
	count := t.version.AbbrevBanks * 32
	t.abbrevs = make([]string, count)
	if count == 0 {
		return nil
	}
	table, err := t.mem.GetWord(hdrAbbreviations)
	if err != nil {
		return err
	}
	if table == 0 {
		return nil
	}
	for i := 0; i < count; i++ {
		wordAddr, err := t.mem.GetWord(int(table) + i*2)
		if err != nil {
			return err
		}
		if wordAddr == 0 {
			continue
		}
		// Abbreviations are stored behind word addresses.
		s, _, err := t.decode(int(wordAddr)*2, false)
		if err != nil {
			return err
		}
		t.abbrevs[i] = s
	}
	return nil
}

// ---------------------------------------------------------------------------
// Decoding
// ---------------------------------------------------------------------------

// Decode reads the Z-string at addr and returns it along with the address of
// the first byte past its terminating word.
func (t *textCodec) Decode(addr int) (string, int, error) {
	return t.decode(addr, true)
}

func (t *textCodec) decode(addr int, allowAbbrev bool) (string, int, error) {
	var sb strings.Builder

	// alphabet is the row for the next character only; perm is the locked
	// row (shift locks exist in versions 1-2 only). special tracks the
	// abbreviation and 10-bit ZSCII mini-states.
	alphabet, perm := 0, 0
	special := 0
	high := 0
	v1 := t.version.Number <= 2

	pos := addr
	for {
		w, err := t.mem.GetWord(pos)
		if err != nil {
			return "", 0, err
		}
		pos += 2

		for _, z := range [3]int{int(w>>10) & 0x1F, int(w>>5) & 0x1F, int(w) & 0x1F} {
			switch {
			case special >= 1 && special <= 3:
				index := (special-1)*32 + z
				if !allowAbbrev {
					return "", 0, failEncoding("abbreviation inside abbreviation")
				}
				if index >= len(t.abbrevs) {
					return "", 0, failEncoding("abbreviation index out of range")
				}
				sb.WriteString(t.abbrevs[index])
				special = 0
				alphabet = perm

			case special == 4:
				high = z
				special = 5

			case special == 5:
				code := high<<5 | z
				if code >= 256 {
					sb.WriteRune(replacementChar)
				} else if code != zsciiNull {
					sb.WriteRune(t.unicode[code])
				}
				special = 0
				alphabet = perm

			case z == 0:
				sb.WriteByte(' ')
				alphabet = perm

			case z == 1:
				if t.version.Number == 1 {
					sb.WriteByte('\n')
					alphabet = perm
				} else {
					special = 1
				}

			case z == 2 || z == 3:
				if v1 {
					alphabet = (perm + z - 1) % 3
				} else {
					special = z
				}

			case z == 4 || z == 5:
				if v1 {
					perm = (perm + z - 3) % 3
					alphabet = perm
				} else {
					alphabet = z - 3
				}

			case z == 6 && alphabet == 2:
				special = 4
				alphabet = perm

			default:
				sb.WriteRune(t.alphabet[alphabet*26+z-6])
				alphabet = perm
			}
		}

		if w&0x8000 != 0 {
			break
		}
	}
	return sb.String(), pos, nil
}

// ---------------------------------------------------------------------------
// Dictionary encoding
// ---------------------------------------------------------------------------

// shiftChar is the Z-character that shifts to the given row for one
// character when encoding.
func (t *textCodec) shiftChar(row int) byte {
	if t.version.Number <= 2 {
		return byte(1 + row) // 2 shifts to A1, 3 to A2
	}
	return byte(3 + row) // 4 shifts to A1, 5 to A2
}

// encodeWord turns ZSCII text into packed dictionary words: 2 words (6
// Z-characters) through version 3, 3 words (9) after. Upper case folds to
// lower, unrepresentable characters become 10-bit escapes, overflow
// truncates silently, and the tail pads with 5s.
func (t *textCodec) encodeWord(zscii []byte) []uint16 {
	limit := t.version.DictWordBytes / 2 * 3

	zchars := make([]byte, 0, limit+4)
	for _, c := range zscii {
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		r := t.unicode[c]
		if row, pos, ok := t.alphabetIndex(r); ok {
			if row != 0 {
				zchars = append(zchars, t.shiftChar(row))
			}
			zchars = append(zchars, byte(pos+6))
		} else {
			zchars = append(zchars, t.shiftChar(2), 6, c>>5, c&0x1F)
		}
		if len(zchars) >= limit {
			break
		}
	}
	for len(zchars) < limit {
		zchars = append(zchars, 5)
	}
	zchars = zchars[:limit]

	words := make([]uint16, limit/3)
	for i := range words {
		words[i] = uint16(zchars[i*3])<<10 | uint16(zchars[i*3+1])<<5 | uint16(zchars[i*3+2])
	}
	words[len(words)-1] |= 0x8000
	return words
}

// alphabetIndex locates a character in the alphabet cache. Position 0 of A2
// never matches (it is the 10-bit escape), nor does the newline at position
// 1; neither encodes as a plain table reference. Version 1 holds '0' at
// position 1, and that matches normally.
func (t *textCodec) alphabetIndex(r rune) (row, pos int, ok bool) {
	for i, a := range t.alphabet {
		if a != r {
			continue
		}
		row, pos = i/26, i%26
		if row == 2 && (pos == 0 || (pos == 1 && a == '\n')) {
			continue
		}
		return row, pos, true
	}
	return 0, 0, false
}

// EncodeForDictionary reads length ZSCII bytes from memory and encodes them
// as a dictionary key.
func (t *textCodec) EncodeForDictionary(addr, length int) ([]uint16, error) {
	zscii := make([]byte, length)
	for i := 0; i < length; i++ {
		b, err := t.mem.GetByte(addr + i)
		if err != nil {
			return nil, err
		}
		zscii[i] = b
	}
	return t.encodeWord(zscii), nil
}

// zsciiToUnicode maps one ZSCII output code to a rune.
func (t *textCodec) zsciiToUnicode(c uint16) rune {
	if c == zsciiNewline {
		return '\n'
	}
	if c < 256 {
		return t.unicode[c]
	}
	return replacementChar
}

// unicodeToZSCII maps an input rune to ZSCII, '?' when unmappable.
func (t *textCodec) unicodeToZSCII(r rune) byte {
	if z, ok := t.reverse[r]; ok {
		return z
	}
	return '?'
}
