package vm

// ---------------------------------------------------------------------------
// 2OP opcodes
// ---------------------------------------------------------------------------

// je branches when the first operand equals any of the others. The variable
// form allows up to four.
func opJe(m *Machine, args []uint16, n int) error {
	cond := false
	for i := 1; i < n; i++ {
		if args[i] == args[0] {
			cond = true
			break
		}
	}
	return m.branch(cond)
}

func opJl(m *Machine, args []uint16, n int) error {
	return m.branch(int16(args[0]) < int16(args[1]))
}

func opJg(m *Machine, args []uint16, n int) error {
	return m.branch(int16(args[0]) > int16(args[1]))
}

// dec_chk decrements a variable in place, branching when the new value is
// less than the comparand.
func opDecChk(m *Machine, args []uint16, n int) error {
	v, err := variableNumber(args[0])
	if err != nil {
		return err
	}
	x, err := m.peekVariable(v)
	if err != nil {
		return err
	}
	x--
	if err := m.pokeVariable(v, x); err != nil {
		return err
	}
	return m.branch(int16(x) < int16(args[1]))
}

func opIncChk(m *Machine, args []uint16, n int) error {
	v, err := variableNumber(args[0])
	if err != nil {
		return err
	}
	x, err := m.peekVariable(v)
	if err != nil {
		return err
	}
	x++
	if err := m.pokeVariable(v, x); err != nil {
		return err
	}
	return m.branch(int16(x) > int16(args[1]))
}

func opJin(m *Machine, args []uint16, n int) error {
	parent, err := m.objects.Parent(int(args[0]))
	if err != nil {
		return err
	}
	return m.branch(parent == int(args[1]))
}

func opTest(m *Machine, args []uint16, n int) error {
	return m.branch(args[0]&args[1] == args[1])
}

func opOr(m *Machine, args []uint16, n int) error {
	return m.storeResult(args[0] | args[1])
}

func opAnd(m *Machine, args []uint16, n int) error {
	return m.storeResult(args[0] & args[1])
}

func opTestAttr(m *Machine, args []uint16, n int) error {
	set, err := m.objects.Attr(int(args[0]), int(args[1]))
	if err != nil {
		return err
	}
	return m.branch(set)
}

func opSetAttr(m *Machine, args []uint16, n int) error {
	return m.objects.SetAttr(int(args[0]), int(args[1]), true)
}

func opClearAttr(m *Machine, args []uint16, n int) error {
	return m.objects.SetAttr(int(args[0]), int(args[1]), false)
}

// store assigns through a variable number; on variable 0 it replaces the
// stack top rather than pushing.
func opStoreVar(m *Machine, args []uint16, n int) error {
	v, err := variableNumber(args[0])
	if err != nil {
		return err
	}
	return m.pokeVariable(v, args[1])
}

func opInsertObj(m *Machine, args []uint16, n int) error {
	return m.objects.SetParent(int(args[0]), int(args[1]))
}

func opLoadW(m *Machine, args []uint16, n int) error {
	w, err := m.mem.GetWord(int(args[0]) + 2*int(args[1]))
	if err != nil {
		return err
	}
	return m.storeResult(w)
}

func opLoadB(m *Machine, args []uint16, n int) error {
	b, err := m.mem.GetByte(int(args[0]) + int(args[1]))
	if err != nil {
		return err
	}
	return m.storeResult(uint16(b))
}

func opGetProp(m *Machine, args []uint16, n int) error {
	v, err := m.objects.GetProp(int(args[0]), int(args[1]))
	if err != nil {
		return err
	}
	return m.storeResult(v)
}

func opGetPropAddr(m *Machine, args []uint16, n int) error {
	addr, err := m.objects.PropAddr(int(args[0]), int(args[1]))
	if err != nil {
		return err
	}
	return m.storeResult(uint16(addr))
}

func opGetNextProp(m *Machine, args []uint16, n int) error {
	p, err := m.objects.NextProp(int(args[0]), int(args[1]))
	if err != nil {
		return err
	}
	return m.storeResult(uint16(p))
}

func opAdd(m *Machine, args []uint16, n int) error {
	return m.storeResult(uint16(int16(args[0]) + int16(args[1])))
}

func opSub(m *Machine, args []uint16, n int) error {
	return m.storeResult(uint16(int16(args[0]) - int16(args[1])))
}

func opMul(m *Machine, args []uint16, n int) error {
	return m.storeResult(uint16(int16(args[0]) * int16(args[1])))
}

// div truncates toward zero.
func opDiv(m *Machine, args []uint16, n int) error {
	if args[1] == 0 {
		return &Failure{Kind: DivisionByZero}
	}
	return m.storeResult(uint16(int16(args[0]) / int16(args[1])))
}

func opMod(m *Machine, args []uint16, n int) error {
	if args[1] == 0 {
		return &Failure{Kind: DivisionByZero}
	}
	return m.storeResult(uint16(int16(args[0]) % int16(args[1])))
}

func opCall2S(m *Machine, args []uint16, n int) error {
	return m.callRoutine(args[0], args[1:n], true)
}

func opCall2N(m *Machine, args []uint16, n int) error {
	return m.callRoutine(args[0], args[1:n], false)
}

// set_colour is accepted and ignored; colour is a front-end concern.
func opSetColour(m *Machine, args []uint16, n int) error {
	return nil
}
