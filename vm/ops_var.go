package vm

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// VAR opcodes
// ---------------------------------------------------------------------------

func opCallVS(m *Machine, args []uint16, n int) error {
	return m.callRoutine(args[0], args[1:n], true)
}

func opStoreW(m *Machine, args []uint16, n int) error {
	return m.mem.SetWord(int(args[0])+2*int(args[1]), args[2])
}

func opStoreB(m *Machine, args []uint16, n int) error {
	return m.mem.SetByte(int(args[0])+int(args[1]), byte(args[2]))
}

func opPutProp(m *Machine, args []uint16, n int) error {
	return m.objects.PutProp(int(args[0]), int(args[1]), args[2])
}

// sread blocks for a line of input, writes it into the text buffer as
// lower-cased ZSCII, and tokenises it into the parse buffer. Versions 1-3
// redraw the status line first; version 5 and up store the terminator.
func opSRead(m *Machine, args []uint16, n int) error {
	textAddr := int(args[0])
	parseAddr := 0
	if n > 1 {
		parseAddr = int(args[1])
	}

	if m.version.Number <= 3 {
		if err := m.showStatus(); err != nil {
			return err
		}
	}

	maxByte, err := m.mem.GetByte(textAddr)
	if err != nil {
		return err
	}
	maxLen := int(maxByte)

	line, terminator, err := m.ui.ReadLine(maxLen)
	if err != nil {
		if ended, err := m.endSession(err); ended {
			return nil
		} else if err != nil {
			return err
		}
	}

	line = strings.ToLower(line)
	runes := []rune(line)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	if m.version.Number >= 5 {
		if err := m.mem.SetByte(textAddr+1, byte(len(runes))); err != nil {
			return err
		}
		for i, r := range runes {
			if err := m.mem.SetByte(textAddr+2+i, m.text.unicodeToZSCII(r)); err != nil {
				return err
			}
		}
	} else {
		for i, r := range runes {
			if err := m.mem.SetByte(textAddr+1+i, m.text.unicodeToZSCII(r)); err != nil {
				return err
			}
		}
		if err := m.mem.SetByte(textAddr+1+len(runes), 0); err != nil {
			return err
		}
	}

	if parseAddr != 0 {
		if err := m.text.Tokenise(textAddr, parseAddr, m.dictAddr, false); err != nil {
			return err
		}
	}

	if m.version.Number >= 5 {
		return m.storeResult(uint16(terminatorZSCII(m.text, terminator)))
	}
	return nil
}

// terminatorZSCII maps a terminating input character to its ZSCII code.
func terminatorZSCII(t *textCodec, r rune) byte {
	if r == '\n' || r == '\r' || r == 0 {
		return zsciiNewline
	}
	return t.unicodeToZSCII(r)
}

func opPrintChar(m *Machine, args []uint16, n int) error {
	return m.ui.PrintChar(m.text.zsciiToUnicode(args[0]))
}

func opPrintNum(m *Machine, args []uint16, n int) error {
	return m.ui.PrintString(strconv.Itoa(int(int16(args[0]))))
}

// random with a positive range stores a uniform 1..n; zero reseeds
// nondeterministically and negative reseeds deterministically, both storing
// zero.
func opRandom(m *Machine, args []uint16, n int) error {
	r := int(int16(args[0]))
	switch {
	case r > 0:
		return m.storeResult(uint16(m.rng.Intn(r) + 1))
	case r == 0:
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	default:
		m.rng = rand.New(rand.NewSource(int64(-r)))
	}
	return m.storeResult(0)
}

func opPush(m *Machine, args []uint16, n int) error {
	return m.stack.Push(args[0])
}

// pull pops into a variable number; pulling to variable 0 replaces the (new)
// stack top in place.
func opPull(m *Machine, args []uint16, n int) error {
	v, err := variableNumber(args[0])
	if err != nil {
		return err
	}
	x, err := m.stack.Pop()
	if err != nil {
		return err
	}
	return m.pokeVariable(v, x)
}

// ---------------------------------------------------------------------------
// Screen family: thin pass-throughs to the UI boundary
// ---------------------------------------------------------------------------

func opSplitWindow(m *Machine, args []uint16, n int) error {
	width, height := m.ui.ScreenSize()
	lines := int(args[0])
	return m.ui.ScrollRegion(0, lines, width, height-lines)
}

func opSetWindow(m *Machine, args []uint16, n int) error {
	return m.ui.SetWindow(int(args[0]))
}

func opCallVS2(m *Machine, args []uint16, n int) error {
	return m.callRoutine(args[0], args[1:n], true)
}

func opEraseWindow(m *Machine, args []uint16, n int) error {
	return m.ui.EraseWindow(int(int16(args[0])))
}

// set_cursor takes line then column.
func opSetCursor(m *Machine, args []uint16, n int) error {
	return m.ui.SetCursor(int(args[1]), int(args[0]))
}

func opSetTextStyle(m *Machine, args []uint16, n int) error {
	return nil
}

func opBufferMode(m *Machine, args []uint16, n int) error {
	return nil
}

// Stream redirection is outside the core; the opcodes are accepted so
// stories that touch them keep running.
func opOutputStream(m *Machine, args []uint16, n int) error {
	return nil
}

func opInputStream(m *Machine, args []uint16, n int) error {
	return nil
}

func opReadChar(m *Machine, args []uint16, n int) error {
	r, err := m.ui.ReadChar()
	if err != nil {
		if ended, err := m.endSession(err); ended {
			return nil
		} else if err != nil {
			return err
		}
	}
	return m.storeResult(uint16(m.text.unicodeToZSCII(r)))
}

// scan_table searches len fields of the given form (bit 7: words, low bits:
// field width) for x, storing the match address and branching on success.
func opScanTable(m *Machine, args []uint16, n int) error {
	x := args[0]
	table := int(args[1])
	count := int(args[2])
	form := byte(0x82)
	if n > 3 {
		form = byte(args[3])
	}
	field := int(form & 0x7F)
	words := form&0x80 != 0

	for i := 0; i < count; i++ {
		addr := table + i*field
		var v uint16
		if words {
			w, err := m.mem.GetWord(addr)
			if err != nil {
				return err
			}
			v = w
		} else {
			b, err := m.mem.GetByte(addr)
			if err != nil {
				return err
			}
			v = uint16(b)
		}
		if v == x {
			if err := m.storeResult(uint16(addr)); err != nil {
				return err
			}
			return m.branch(true)
		}
	}
	if err := m.storeResult(0); err != nil {
		return err
	}
	return m.branch(false)
}

func opNotVar(m *Machine, args []uint16, n int) error {
	return m.storeResult(^args[0])
}

func opCallVN(m *Machine, args []uint16, n int) error {
	return m.callRoutine(args[0], args[1:n], false)
}

func opCallVN2(m *Machine, args []uint16, n int) error {
	return m.callRoutine(args[0], args[1:n], false)
}

func opTokenise(m *Machine, args []uint16, n int) error {
	dict := m.dictAddr
	if n > 2 && args[2] != 0 {
		dict = int(args[2])
	}
	ignoreUnknown := n > 3 && args[3] != 0
	return m.text.Tokenise(int(args[0]), int(args[1]), dict, ignoreUnknown)
}

func opCheckArgCount(m *Machine, args []uint16, n int) error {
	return m.branch(int(args[0]) <= m.stack.ArgCount())
}
