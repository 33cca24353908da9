package vm

// ---------------------------------------------------------------------------
// Extended opcodes (version 5 and up)
// ---------------------------------------------------------------------------

// The extended save/restore pair with no operands behaves like the short
// form but always stores. Auxiliary-file operands are not supported.
func extSave(m *Machine, args []uint16, n int) error {
	if n > 0 {
		return failEncoding("save with auxiliary-file operands")
	}
	snap := m.TakeSnapshot()
	ok, err := m.ui.Save(snap)
	if err != nil {
		return err
	}
	var v uint16
	if ok {
		v = 1
	}
	return m.storeResult(v)
}

func extRestore(m *Machine, args []uint16, n int) error {
	if n > 0 {
		return failEncoding("restore with auxiliary-file operands")
	}
	snap, err := m.ui.Restore()
	if err != nil {
		return err
	}
	if snap == nil {
		return m.storeResult(0)
	}
	if err := m.RestoreSnapshot(snap); err != nil {
		return err
	}
	// PC resumes at the save instruction's store byte.
	return m.storeResult(2)
}

// log_shift shifts logically in both directions.
func extLogShift(m *Machine, args []uint16, n int) error {
	places := int(int16(args[1]))
	if places >= 0 {
		return m.storeResult(args[0] << places)
	}
	return m.storeResult(args[0] >> -places)
}

// art_shift shifts left logically, right arithmetically.
func extArtShift(m *Machine, args []uint16, n int) error {
	places := int(int16(args[1]))
	if places >= 0 {
		return m.storeResult(args[0] << places)
	}
	return m.storeResult(uint16(int16(args[0]) >> -places))
}

// save_undo keeps one in-memory snapshot; restore_undo resumes from it at
// the save_undo store byte with result 2.
func extSaveUndo(m *Machine, args []uint16, n int) error {
	m.undo = m.TakeSnapshot()
	return m.storeResult(1)
}

func extRestoreUndo(m *Machine, args []uint16, n int) error {
	if m.undo == nil {
		return m.storeResult(0)
	}
	if err := m.RestoreSnapshot(m.undo); err != nil {
		return err
	}
	return m.storeResult(2)
}
