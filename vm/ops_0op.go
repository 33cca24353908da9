package vm

import "fmt"

// ---------------------------------------------------------------------------
// 0OP opcodes
// ---------------------------------------------------------------------------

func opRTrue(m *Machine) error {
	return m.returnValue(1)
}

func opRFalse(m *Machine) error {
	return m.returnValue(0)
}

func opPrint(m *Machine) error {
	s, err := m.printInline()
	if err != nil {
		return err
	}
	return m.ui.PrintString(s)
}

func opPrintRet(m *Machine) error {
	s, err := m.printInline()
	if err != nil {
		return err
	}
	if err := m.ui.PrintString(s + "\n"); err != nil {
		return err
	}
	return m.returnValue(1)
}

func opNop(m *Machine) error {
	return nil
}

// save snapshots with PC at the post-argument byte, so a later restore
// resumes there and takes the success path. Versions 1-3 branch, version 4
// stores.
func opSave0(m *Machine) error {
	snap := m.TakeSnapshot()
	ok, err := m.ui.Save(snap)
	if err != nil {
		return err
	}
	if m.version.Number >= 4 {
		var v uint16
		if ok {
			v = 1
		}
		return m.storeResult(v)
	}
	return m.branch(ok)
}

func opRestore0(m *Machine) error {
	snap, err := m.ui.Restore()
	if err != nil {
		return err
	}
	if snap == nil {
		if m.version.Number >= 4 {
			return m.storeResult(0)
		}
		return m.branch(false)
	}
	if err := m.RestoreSnapshot(snap); err != nil {
		return err
	}
	// PC now sits on the save instruction's post-argument.
	if m.version.Number >= 4 {
		return m.storeResult(2)
	}
	return m.branch(true)
}

func opRestart(m *Machine) error {
	if m.initial != nil {
		return m.RestoreSnapshot(m.initial)
	}
	return m.reset()
}

func opRetPopped(m *Machine) error {
	v, err := m.stack.Pop()
	if err != nil {
		return err
	}
	return m.returnValue(v)
}

func opPop(m *Machine) error {
	_, err := m.stack.Pop()
	return err
}

func opQuit(m *Machine) error {
	m.quit()
	return nil
}

func opNewLine(m *Machine) error {
	return m.ui.PrintString("\n")
}

func opShowStatus(m *Machine) error {
	return m.showStatus()
}

// verify checksums the original story bytes from 0x40 up to the header file
// length and branches on a match.
func opVerify(m *Machine) error {
	lengthWord, err := m.mem.GetWord(hdrFileLength)
	if err != nil {
		return err
	}
	want, err := m.mem.GetWord(hdrChecksum)
	if err != nil {
		return err
	}

	length := int(lengthWord) * m.version.FileLengthScale
	if length > m.mem.Len() {
		length = m.mem.Len()
	}

	var sum uint16
	for i := headerSize; i < length; i++ {
		sum += uint16(m.originalByte(i))
	}
	return m.branch(sum == want)
}

// originalByte reads a byte as loaded from disk, undoing any dynamic-memory
// mutation via the initial snapshot.
func (m *Machine) originalByte(i int) byte {
	if m.initial != nil && i < len(m.initial.Dynamic) {
		return m.initial.Dynamic[i]
	}
	return m.mem.buf[i]
}

// piracy is a gesture: genuine interpreters branch unconditionally.
func opPiracy(m *Machine) error {
	return m.branch(true)
}

// ---------------------------------------------------------------------------
// Status line
// ---------------------------------------------------------------------------

// showStatus renders the status line from globals 0-2 using the UI window
// primitives: the location name on the left and either score/moves or the
// time on the right, depending on flags1.
func (m *Machine) showStatus() error {
	location, err := m.readVariable(16)
	if err != nil {
		return err
	}
	a, err := m.readVariable(17)
	if err != nil {
		return err
	}
	b, err := m.readVariable(18)
	if err != nil {
		return err
	}

	name := ""
	if location != 0 {
		addr, err := m.objects.NameAddr(int(location))
		if err != nil {
			return err
		}
		if name, _, err = m.text.Decode(addr); err != nil {
			return err
		}
	}

	flags1, err := m.mem.GetByte(hdrFlags1)
	if err != nil {
		return err
	}
	var right string
	if m.version.Number == 3 && flags1&0x02 != 0 {
		right = fmt.Sprintf("%d:%02d", a, b)
	} else {
		right = fmt.Sprintf("%d/%d", int16(a), b)
	}

	width, _ := m.ui.ScreenSize()
	line := " " + name
	pad := width - len(line) - len(right) - 1
	for i := 0; i < pad; i++ {
		line += " "
	}
	line += right + " "
	if len(line) > width {
		line = line[:width]
	}

	if err := m.ui.SetWindow(1); err != nil {
		return err
	}
	if err := m.ui.SetCursor(1, 1); err != nil {
		return err
	}
	if err := m.ui.PrintString(line); err != nil {
		return err
	}
	return m.ui.SetWindow(0)
}
