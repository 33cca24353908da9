package vm

// ---------------------------------------------------------------------------
// Dictionary lookup and tokenisation
// ---------------------------------------------------------------------------

// dictionary is the parsed shape of an in-memory dictionary: the separator
// list, the entry geometry, and whether the entries are sorted (a negative
// stored count marks an unsorted table).
type dictionary struct {
	separators  []byte
	entryCount  int
	sorted      bool
	entrySize   int
	entriesAddr int
	keyBytes    int
}

// readDictionary parses the dictionary header at addr.
func (t *textCodec) readDictionary(addr int) (*dictionary, error) {
	n, err := t.mem.GetByte(addr)
	if err != nil {
		return nil, err
	}
	d := &dictionary{
		separators: make([]byte, n),
		keyBytes:   t.version.DictWordBytes,
	}
	for i := 0; i < int(n); i++ {
		b, err := t.mem.GetByte(addr + 1 + i)
		if err != nil {
			return nil, err
		}
		d.separators[i] = b
	}

	p := addr + 1 + int(n)
	size, err := t.mem.GetByte(p)
	if err != nil {
		return nil, err
	}
	d.entrySize = int(size)
	if d.entrySize < d.keyBytes {
		return nil, failEncoding("dictionary entry smaller than its key")
	}
	count, err := t.mem.GetWord(p + 1)
	if err != nil {
		return nil, err
	}
	d.entryCount = int(int16(count))
	d.sorted = d.entryCount >= 0
	if d.entryCount < 0 {
		d.entryCount = -d.entryCount
	}
	d.entriesAddr = p + 3
	return d, nil
}

// packKey packs encoded words into one comparable integer: u32 for 4-byte keys,
// u48 for 6-byte keys.
func packKey(words []uint16) uint64 {
	var k uint64
	for _, w := range words {
		k = k<<16 | uint64(w)
	}
	return k
}

func (d *dictionary) isSeparator(c byte) bool {
	for _, s := range d.separators {
		if s == c {
			return true
		}
	}
	return false
}

// lookup finds the entry whose key equals the encoded word, returning its
// address or 0. Sorted tables binary-search, unsorted tables scan.
func (t *textCodec) lookup(d *dictionary, enc []uint16) (int, error) {
	want := packKey(enc)

	entryKey := func(i int) (uint64, error) {
		addr := d.entriesAddr + i*d.entrySize
		words := make([]uint16, d.keyBytes/2)
		for j := range words {
			w, err := t.mem.GetWord(addr + j*2)
			if err != nil {
				return 0, err
			}
			words[j] = w
		}
		return packKey(words), nil
	}

	if d.sorted {
		lo, hi := 0, d.entryCount-1
		for lo <= hi {
			mid := lo + (hi-lo)/2
			k, err := entryKey(mid)
			if err != nil {
				return 0, err
			}
			switch {
			case want < k:
				hi = mid - 1
			case want > k:
				lo = mid + 1
			default:
				return d.entriesAddr + mid*d.entrySize, nil
			}
		}
		return 0, nil
	}

	for i := 0; i < d.entryCount; i++ {
		k, err := entryKey(i)
		if err != nil {
			return 0, err
		}
		if k == want {
			return d.entriesAddr + i*d.entrySize, nil
		}
	}
	return 0, nil
}

// ---------------------------------------------------------------------------
// Tokenise
// ---------------------------------------------------------------------------

// token is one word of typed input: its ZSCII bytes and offset within the
// text.
type token struct {
	text   []byte
	offset int
}

// splitInput partitions typed text at spaces and at the dictionary's
// separators. Spaces vanish; separators become single-character tokens.
func splitInput(text []byte, d *dictionary) []token {
	var tokens []token
	start := -1
	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, token{text: text[start:end], offset: start})
			start = -1
		}
	}
	for i, c := range text {
		switch {
		case c == ' ':
			flush(i)
		case d.isSeparator(c):
			flush(i)
			tokens = append(tokens, token{text: text[i : i+1], offset: i})
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(text))
	return tokens
}

// Tokenise parses the typed text in the text buffer against a dictionary and
// fills the parse buffer: per token a u16 entry address, the token length,
// and its offset within the text. dictAddr 0 means the header dictionary;
// with ignoreUnknown set, entries for unmatched words are left untouched
// instead of zeroed.
func (t *textCodec) Tokenise(textAddr, parseAddr, dictAddr int, ignoreUnknown bool) error {
	if dictAddr == 0 {
		w, err := t.mem.GetWord(hdrDictionary)
		if err != nil {
			return err
		}
		dictAddr = int(w)
	}
	d, err := t.readDictionary(dictAddr)
	if err != nil {
		return err
	}

	text, err := t.typedText(textAddr)
	if err != nil {
		return err
	}
	tokens := splitInput(text, d)

	maxTokens, err := t.mem.GetByte(parseAddr)
	if err != nil {
		return err
	}
	if len(tokens) > int(maxTokens) {
		tokens = tokens[:maxTokens]
	}

	for k, tok := range tokens {
		enc := t.encodeWord(tok.text)
		addr, err := t.lookup(d, enc)
		if err != nil {
			return err
		}
		if addr == 0 && ignoreUnknown {
			continue
		}
		entry := parseAddr + 2 + 4*k
		if err := t.mem.SetWord(entry, uint16(addr)); err != nil {
			return err
		}
		if err := t.mem.SetByte(entry+2, byte(len(tok.text))); err != nil {
			return err
		}
		if err := t.mem.SetByte(entry+3, byte(tok.offset)); err != nil {
			return err
		}
	}
	return t.mem.SetByte(parseAddr+1, byte(len(tokens)))
}

// typedText reads the ZSCII text out of a text buffer: zero-terminated from
// byte 1 in versions 1-4, length-prefixed from byte 2 in version 5 and up.
func (t *textCodec) typedText(textAddr int) ([]byte, error) {
	if t.version.Number >= 5 {
		n, err := t.mem.GetByte(textAddr + 1)
		if err != nil {
			return nil, err
		}
		out := make([]byte, n)
		for i := range out {
			b, err := t.mem.GetByte(textAddr + 2 + i)
			if err != nil {
				return nil, err
			}
			out[i] = b
		}
		return out, nil
	}

	var out []byte
	for i := 0; ; i++ {
		b, err := t.mem.GetByte(textAddr + 1 + i)
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return out, nil
		}
		out = append(out, b)
	}
}
