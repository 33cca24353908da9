package vm

// ---------------------------------------------------------------------------
// Opcode tables
// ---------------------------------------------------------------------------

// installOpcodes builds the five dispatch tables for the story's version.
// The tables carry the version-1 baseline; later versions add and replace
// entries. A nil slot is an illegal instruction.
func (m *Machine) installOpcodes() {
	v := m.version.Number

	// 2OP, indexed by the form-masked opcode (slot 0 is unassigned).
	m.op2[1] = opJe
	m.op2[2] = opJl
	m.op2[3] = opJg
	m.op2[4] = opDecChk
	m.op2[5] = opIncChk
	m.op2[6] = opJin
	m.op2[7] = opTest
	m.op2[8] = opOr
	m.op2[9] = opAnd
	m.op2[10] = opTestAttr
	m.op2[11] = opSetAttr
	m.op2[12] = opClearAttr
	m.op2[13] = opStoreVar
	m.op2[14] = opInsertObj
	m.op2[15] = opLoadW
	m.op2[16] = opLoadB
	m.op2[17] = opGetProp
	m.op2[18] = opGetPropAddr
	m.op2[19] = opGetNextProp
	m.op2[20] = opAdd
	m.op2[21] = opSub
	m.op2[22] = opMul
	m.op2[23] = opDiv
	m.op2[24] = opMod
	if v >= 4 {
		m.op2[25] = opCall2S
	}
	if v >= 5 {
		m.op2[26] = opCall2N
		m.op2[27] = opSetColour
	}

	// 1OP.
	m.op1[0] = opJz
	m.op1[1] = opGetSibling
	m.op1[2] = opGetChild
	m.op1[3] = opGetParent
	m.op1[4] = opGetPropLen
	m.op1[5] = opInc
	m.op1[6] = opDec
	m.op1[7] = opPrintAddr
	m.op1[9] = opRemoveObj
	m.op1[10] = opPrintObj
	m.op1[11] = opRet
	m.op1[12] = opJump
	m.op1[13] = opPrintPAddr
	m.op1[14] = opLoad
	m.op1[15] = opNot1
	if v >= 4 {
		m.op1[8] = opCall1S
	}
	if v >= 5 {
		m.op1[15] = opCall1N
	}

	// 0OP.
	m.op0[0] = opRTrue
	m.op0[1] = opRFalse
	m.op0[2] = opPrint
	m.op0[3] = opPrintRet
	m.op0[4] = opNop
	m.op0[7] = opRestart
	m.op0[8] = opRetPopped
	m.op0[10] = opQuit
	m.op0[11] = opNewLine
	if v <= 4 {
		m.op0[5] = opSave0
		m.op0[6] = opRestore0
		m.op0[9] = opPop
	}
	if v == 3 {
		m.op0[12] = opShowStatus
	}
	if v >= 3 {
		m.op0[13] = opVerify
	}
	if v >= 5 {
		m.op0[15] = opPiracy
	}

	// VAR.
	m.opVar[0] = opCallVS
	m.opVar[1] = opStoreW
	m.opVar[2] = opStoreB
	m.opVar[3] = opPutProp
	m.opVar[4] = opSRead
	m.opVar[5] = opPrintChar
	m.opVar[6] = opPrintNum
	m.opVar[7] = opRandom
	m.opVar[8] = opPush
	m.opVar[9] = opPull
	if v >= 3 {
		m.opVar[10] = opSplitWindow
		m.opVar[11] = opSetWindow
		m.opVar[19] = opOutputStream
		m.opVar[20] = opInputStream
	}
	if v >= 4 {
		m.opVar[12] = opCallVS2
		m.opVar[13] = opEraseWindow
		m.opVar[15] = opSetCursor
		m.opVar[17] = opSetTextStyle
		m.opVar[18] = opBufferMode
		m.opVar[22] = opReadChar
		m.opVar[23] = opScanTable
	}
	if v >= 5 {
		m.opVar[24] = opNotVar
		m.opVar[25] = opCallVN
		m.opVar[26] = opCallVN2
		m.opVar[27] = opTokenise
		m.opVar[31] = opCheckArgCount
	}

	// EXT (version 5 and up).
	if v >= 5 {
		m.opExt[0] = extSave
		m.opExt[1] = extRestore
		m.opExt[2] = extLogShift
		m.opExt[3] = extArtShift
		m.opExt[9] = extSaveUndo
		m.opExt[10] = extRestoreUndo
	}
}
