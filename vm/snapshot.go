package vm

// ---------------------------------------------------------------------------
// Snapshots
// ---------------------------------------------------------------------------

// Snapshot freezes the mutable machine state: the dynamic memory prefix, the
// live stack cells, the frame bookkeeping, and the program counter.
// Construction always copies; a snapshot never aliases live state.
type Snapshot struct {
	PC           int
	DynamicLimit int
	Dynamic      []byte
	Cells        []uint16
	FramePtr     int
	FrameCount   int
}

// TakeSnapshot captures the current state. It is well-defined only between
// instructions.
func (m *Machine) TakeSnapshot() *Snapshot {
	limit := m.mem.DynamicLimit()
	dyn := make([]byte, limit)
	copy(dyn, m.mem.buf[:limit])
	return &Snapshot{
		PC:           m.pc,
		DynamicLimit: limit,
		Dynamic:      dyn,
		Cells:        m.stack.Cells(),
		FramePtr:     m.stack.FramePointer(),
		FrameCount:   m.stack.Frames(),
	}
}

// RestoreSnapshot overwrites the machine state from a snapshot taken on the
// same story. The snapshot's dynamic size must match the current dynamic
// limit; memory above the limit is untouched (it is immutable post-load).
func (m *Machine) RestoreSnapshot(s *Snapshot) error {
	if s.DynamicLimit != m.mem.DynamicLimit() || len(s.Dynamic) != s.DynamicLimit {
		return &Failure{Kind: SnapshotMismatch}
	}
	if err := m.stack.Load(s.Cells, s.FramePtr, s.FrameCount); err != nil {
		return err
	}
	copy(m.mem.buf[:s.DynamicLimit], s.Dynamic)
	m.pc = s.PC
	return nil
}
