package vm

// ---------------------------------------------------------------------------
// Object tree: versioned records, attributes, property tables
// ---------------------------------------------------------------------------

// Record geometry. Small records (versions 1-3) pack the three tree pointers
// into single bytes; large records (4+) use words.
const (
	smallParentOff  = 4
	smallSiblingOff = 5
	smallChildOff   = 6
	smallPropsOff   = 7

	largeParentOff  = 6
	largeSiblingOff = 8
	largeChildOff   = 10
	largePropsOff   = 12
)

// objectTable provides version-aware access to the object records and their
// property tables.
type objectTable struct {
	mem     *Memory
	version Version

	defaultsAddr int
	base         int
}

// newObjectTable locates the table from the header. The defaults table must
// not start inside the header.
func newObjectTable(mem *Memory, version Version) (*objectTable, error) {
	addr, err := mem.GetWord(hdrObjectTable)
	if err != nil {
		return nil, err
	}
	if int(addr) < headerSize {
		return nil, failHeader("object table starts inside the header")
	}
	o := &objectTable{
		mem:          mem,
		version:      version,
		defaultsAddr: int(addr),
		base:         int(addr) + version.PropDefaults*2,
	}
	return o, nil
}

// entryAddr returns the record address for an object number.
func (o *objectTable) entryAddr(obj int) (int, error) {
	if obj < 1 || obj > o.version.MaxObjects {
		return 0, failObject(obj)
	}
	return o.base + (obj-1)*o.version.ObjectSize, nil
}

// ---------------------------------------------------------------------------
// Tree pointers
// ---------------------------------------------------------------------------

func (o *objectTable) pointer(obj, smallOff, largeOff int) (int, error) {
	entry, err := o.entryAddr(obj)
	if err != nil {
		return 0, err
	}
	if o.version.LargeObjects {
		w, err := o.mem.GetWord(entry + largeOff)
		return int(w), err
	}
	b, err := o.mem.GetByte(entry + smallOff)
	return int(b), err
}

func (o *objectTable) setPointer(obj, smallOff, largeOff, value int) error {
	entry, err := o.entryAddr(obj)
	if err != nil {
		return err
	}
	if o.version.LargeObjects {
		return o.mem.SetWord(entry+largeOff, uint16(value))
	}
	return o.mem.SetByte(entry+smallOff, byte(value))
}

// Parent returns the parent object number, 0 for none.
func (o *objectTable) Parent(obj int) (int, error) {
	return o.pointer(obj, smallParentOff, largeParentOff)
}

// Sibling returns the next sibling object number, 0 for none.
func (o *objectTable) Sibling(obj int) (int, error) {
	return o.pointer(obj, smallSiblingOff, largeSiblingOff)
}

// Child returns the first child object number, 0 for none.
func (o *objectTable) Child(obj int) (int, error) {
	return o.pointer(obj, smallChildOff, largeChildOff)
}

func (o *objectTable) setParentField(obj, v int) error {
	return o.setPointer(obj, smallParentOff, largeParentOff, v)
}

func (o *objectTable) setSibling(obj, v int) error {
	return o.setPointer(obj, smallSiblingOff, largeSiblingOff, v)
}

func (o *objectTable) setChild(obj, v int) error {
	return o.setPointer(obj, smallChildOff, largeChildOff, v)
}

// detach removes obj from its parent's child chain and clears its parent
// pointer. The walk fails if the chain is corrupt.
func (o *objectTable) detach(obj int) error {
	parent, err := o.Parent(obj)
	if err != nil {
		return err
	}
	if parent == 0 {
		return nil
	}

	sibling, err := o.Sibling(obj)
	if err != nil {
		return err
	}
	first, err := o.Child(parent)
	if err != nil {
		return err
	}

	if first == obj {
		if err := o.setChild(parent, sibling); err != nil {
			return err
		}
	} else {
		prev := first
		for {
			if prev == 0 {
				return failObject(obj)
			}
			next, err := o.Sibling(prev)
			if err != nil {
				return err
			}
			if next == obj {
				break
			}
			prev = next
		}
		if err := o.setSibling(prev, sibling); err != nil {
			return err
		}
	}

	if err := o.setParentField(obj, 0); err != nil {
		return err
	}
	return o.setSibling(obj, 0)
}

// SetParent moves obj under newParent, prepending it to the child chain.
// newParent 0 detaches. Moving an object to its current parent is a no-op.
func (o *objectTable) SetParent(obj, newParent int) error {
	current, err := o.Parent(obj)
	if err != nil {
		return err
	}
	if current == newParent {
		return nil
	}
	if newParent != 0 {
		if _, err := o.entryAddr(newParent); err != nil {
			return err
		}
	}

	if err := o.detach(obj); err != nil {
		return err
	}
	if newParent == 0 {
		return nil
	}

	first, err := o.Child(newParent)
	if err != nil {
		return err
	}
	if err := o.setSibling(obj, first); err != nil {
		return err
	}
	if err := o.setChild(newParent, obj); err != nil {
		return err
	}
	return o.setParentField(obj, newParent)
}

// ---------------------------------------------------------------------------
// Attributes
// ---------------------------------------------------------------------------

// Attr tests attribute a of obj. Attributes count from bit 0 at the top of
// the first byte.
func (o *objectTable) Attr(obj, a int) (bool, error) {
	if a < 0 || a >= o.version.AttrCount {
		return false, failAttribute(a)
	}
	entry, err := o.entryAddr(obj)
	if err != nil {
		return false, err
	}
	b, err := o.mem.GetByte(entry + a/8)
	if err != nil {
		return false, err
	}
	return b&(0x80>>(a%8)) != 0, nil
}

// SetAttr sets or clears attribute a of obj.
func (o *objectTable) SetAttr(obj, a int, v bool) error {
	if a < 0 || a >= o.version.AttrCount {
		return failAttribute(a)
	}
	entry, err := o.entryAddr(obj)
	if err != nil {
		return err
	}
	b, err := o.mem.GetByte(entry + a/8)
	if err != nil {
		return err
	}
	mask := byte(0x80 >> (a % 8))
	if v {
		b |= mask
	} else {
		b &^= mask
	}
	return o.mem.SetByte(entry+a/8, b)
}

// ---------------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------------

// DefaultProp returns the defaults-table value for property p.
func (o *objectTable) DefaultProp(p int) (uint16, error) {
	if p < 1 || p > o.version.PropDefaults {
		return 0, failProperty(0, p)
	}
	return o.mem.GetWord(o.defaultsAddr + (p-1)*2)
}

// propTableAddr returns the address of the object's property table.
func (o *objectTable) propTableAddr(obj int) (int, error) {
	entry, err := o.entryAddr(obj)
	if err != nil {
		return 0, err
	}
	off := smallPropsOff
	if o.version.LargeObjects {
		off = largePropsOff
	}
	w, err := o.mem.GetWord(entry + off)
	return int(w), err
}

// NameAddr returns the address of the object's short-name Z-string.
func (o *objectTable) NameAddr(obj int) (int, error) {
	table, err := o.propTableAddr(obj)
	if err != nil {
		return 0, err
	}
	return table + 1, nil
}

// firstPropAddr returns the address of the first size byte, past the short
// name.
func (o *objectTable) firstPropAddr(obj int) (int, error) {
	table, err := o.propTableAddr(obj)
	if err != nil {
		return 0, err
	}
	nameWords, err := o.mem.GetByte(table)
	if err != nil {
		return 0, err
	}
	return table + 1 + int(nameWords)*2, nil
}

// propEntry describes one property in place.
type propEntry struct {
	number   int
	dataAddr int
	dataLen  int
	sizeAddr int
}

// readPropEntry decodes the size prefix at addr. A zero property number
// terminates the list.
func (o *objectTable) readPropEntry(addr int) (propEntry, error) {
	b, err := o.mem.GetByte(addr)
	if err != nil {
		return propEntry{}, err
	}

	if !o.version.LargeObjects {
		return propEntry{
			number:   int(b & 0x1F),
			dataAddr: addr + 1,
			dataLen:  int(b>>5) + 1,
			sizeAddr: addr,
		}, nil
	}

	if b&0x80 != 0 {
		second, err := o.mem.GetByte(addr + 1)
		if err != nil {
			return propEntry{}, err
		}
		n := int(second & 0x3F)
		if n == 0 {
			n = 64
		}
		return propEntry{
			number:   int(b & 0x3F),
			dataAddr: addr + 2,
			dataLen:  n,
			sizeAddr: addr,
		}, nil
	}
	n := 1
	if b&0x40 != 0 {
		n = 2
	}
	return propEntry{
		number:   int(b & 0x3F),
		dataAddr: addr + 1,
		dataLen:  n,
		sizeAddr: addr,
	}, nil
}

// findProp walks the descending property list for property p. A zero number
// in the returned entry means the walk hit the terminator first.
func (o *objectTable) findProp(obj, p int) (propEntry, error) {
	addr, err := o.firstPropAddr(obj)
	if err != nil {
		return propEntry{}, err
	}
	for {
		e, err := o.readPropEntry(addr)
		if err != nil {
			return propEntry{}, err
		}
		if e.number == 0 || e.number < p {
			return propEntry{}, nil
		}
		if e.number == p {
			return e, nil
		}
		addr = e.dataAddr + e.dataLen
	}
}

// PropAddr returns the data address of property p of obj, or 0 when absent.
func (o *objectTable) PropAddr(obj, p int) (int, error) {
	e, err := o.findProp(obj, p)
	if err != nil {
		return 0, err
	}
	return e.dataAddr, nil
}

// PropLenAt returns the data length for a property given its data address,
// by decoding the size byte(s) immediately before it. Address 0 returns 0.
func (o *objectTable) PropLenAt(dataAddr int) (int, error) {
	if dataAddr == 0 {
		return 0, nil
	}
	b, err := o.mem.GetByte(dataAddr - 1)
	if err != nil {
		return 0, err
	}
	if !o.version.LargeObjects {
		return int(b>>5) + 1, nil
	}
	if b&0x80 != 0 {
		n := int(b & 0x3F)
		if n == 0 {
			n = 64
		}
		return n, nil
	}
	if b&0x40 != 0 {
		return 2, nil
	}
	return 1, nil
}

// GetProp returns property p of obj, falling back to the defaults table.
// Only 1- and 2-byte properties can be read as values.
func (o *objectTable) GetProp(obj, p int) (uint16, error) {
	e, err := o.findProp(obj, p)
	if err != nil {
		return 0, err
	}
	if e.number == 0 {
		return o.DefaultProp(p)
	}
	switch e.dataLen {
	case 1:
		b, err := o.mem.GetByte(e.dataAddr)
		return uint16(b), err
	case 2:
		return o.mem.GetWord(e.dataAddr)
	}
	return 0, &Failure{Kind: PropertyWrongSize, Object: obj, Number: p}
}

// PutProp writes property p of obj. The property must exist and be 1 or 2
// bytes long.
func (o *objectTable) PutProp(obj, p int, value uint16) error {
	e, err := o.findProp(obj, p)
	if err != nil {
		return err
	}
	if e.number == 0 {
		return failProperty(obj, p)
	}
	switch e.dataLen {
	case 1:
		return o.mem.SetByte(e.dataAddr, byte(value))
	case 2:
		return o.mem.SetWord(e.dataAddr, value)
	}
	return &Failure{Kind: PropertyWrongSize, Object: obj, Number: p}
}

// NextProp returns the property number after p in the descending list, or
// the first number when p is 0. Zero marks the end of the list.
func (o *objectTable) NextProp(obj, p int) (int, error) {
	if p == 0 {
		addr, err := o.firstPropAddr(obj)
		if err != nil {
			return 0, err
		}
		e, err := o.readPropEntry(addr)
		if err != nil {
			return 0, err
		}
		return e.number, nil
	}

	e, err := o.findProp(obj, p)
	if err != nil {
		return 0, err
	}
	if e.number == 0 {
		return 0, failProperty(obj, p)
	}
	next, err := o.readPropEntry(e.dataAddr + e.dataLen)
	if err != nil {
		return 0, err
	}
	return next.number, nil
}
