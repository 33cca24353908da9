package vm

// ---------------------------------------------------------------------------
// 1OP opcodes
// ---------------------------------------------------------------------------

func opJz(m *Machine, a uint16) error {
	return m.branch(a == 0)
}

// get_sibling stores first, then branches on a nonzero result.
func opGetSibling(m *Machine, a uint16) error {
	s, err := m.objects.Sibling(int(a))
	if err != nil {
		return err
	}
	if err := m.storeResult(uint16(s)); err != nil {
		return err
	}
	return m.branch(s != 0)
}

func opGetChild(m *Machine, a uint16) error {
	c, err := m.objects.Child(int(a))
	if err != nil {
		return err
	}
	if err := m.storeResult(uint16(c)); err != nil {
		return err
	}
	return m.branch(c != 0)
}

func opGetParent(m *Machine, a uint16) error {
	p, err := m.objects.Parent(int(a))
	if err != nil {
		return err
	}
	return m.storeResult(uint16(p))
}

func opGetPropLen(m *Machine, a uint16) error {
	l, err := m.objects.PropLenAt(int(a))
	if err != nil {
		return err
	}
	return m.storeResult(uint16(l))
}

// inc and dec act on a variable number, modifying variable 0 in place.
func opInc(m *Machine, a uint16) error {
	v, err := variableNumber(a)
	if err != nil {
		return err
	}
	x, err := m.peekVariable(v)
	if err != nil {
		return err
	}
	return m.pokeVariable(v, x+1)
}

func opDec(m *Machine, a uint16) error {
	v, err := variableNumber(a)
	if err != nil {
		return err
	}
	x, err := m.peekVariable(v)
	if err != nil {
		return err
	}
	return m.pokeVariable(v, x-1)
}

func opPrintAddr(m *Machine, a uint16) error {
	s, _, err := m.text.Decode(int(a))
	if err != nil {
		return err
	}
	return m.ui.PrintString(s)
}

func opCall1S(m *Machine, a uint16) error {
	return m.callRoutine(a, nil, true)
}

func opRemoveObj(m *Machine, a uint16) error {
	return m.objects.SetParent(int(a), 0)
}

func opPrintObj(m *Machine, a uint16) error {
	addr, err := m.objects.NameAddr(int(a))
	if err != nil {
		return err
	}
	s, _, err := m.text.Decode(addr)
	if err != nil {
		return err
	}
	return m.ui.PrintString(s)
}

func opRet(m *Machine, a uint16) error {
	return m.returnValue(a)
}

// jump takes its raw signed operand; it is not a branch post-argument.
func opJump(m *Machine, a uint16) error {
	m.pc += int(int16(a)) - 2
	return nil
}

func opPrintPAddr(m *Machine, a uint16) error {
	s, _, err := m.text.Decode(m.stringAddr(a))
	if err != nil {
		return err
	}
	return m.ui.PrintString(s)
}

// load reads a variable number; variable 0 peeks instead of popping.
func opLoad(m *Machine, a uint16) error {
	v, err := variableNumber(a)
	if err != nil {
		return err
	}
	x, err := m.peekVariable(v)
	if err != nil {
		return err
	}
	return m.storeResult(x)
}

func opNot1(m *Machine, a uint16) error {
	return m.storeResult(^a)
}

func opCall1N(m *Machine, a uint16) error {
	return m.callRoutine(a, nil, false)
}
