package runtime

// MapHeader/SetHeader layout: [size u32][capacity u32][entriesAddr u64] =
// 16 bytes, entries in a separate block (pairs of JSValue for Map, single
// JSValue slots for Set). Grounded on
// original_source/crates/perry-runtime/src/map.rs's MapHeader (same
// size/capacity/entries shape) and its swap-with-last delete and
// pointer-look-alike key-equality heuristic.
//
// Key equality here does not need map.rs's looks_like_pointer bit
// heuristic: our JSValue already carries an explicit Tag (see value.go),
// so two keys compare equal by exact bits, or by string content when both
// are TagString — the same outcome the heuristic approximates, reached
// exactly instead of by address-shape guessing.
const mapHeaderSize = 16

const (
	mhOffSize    = 0
	mhOffCap     = 4
	mhOffEntries = 8
)

func jsValuesEqual(a *Arena, x, y JSValue) bool {
	if x == y {
		return true
	}
	if x.IsNumber() && y.IsNumber() {
		return x.Number() == y.Number()
	}
	if !x.IsNumber() && !y.IsNumber() && x.Tag() == TagString && y.Tag() == TagString {
		return StringsEqual(a, x.Addr(), y.Addr())
	}
	return false
}

// MapAlloc allocates an empty map.
func MapAlloc(a *Arena) Addr {
	addr := a.Alloc(mapHeaderSize)
	a.WriteU32(addr+mhOffSize, 0)
	a.WriteU32(addr+mhOffCap, 0)
	a.WriteAddr(addr+mhOffEntries, 0)
	return addr
}

func MapSize(a *Arena, addr Addr) int { return int(a.ReadU32(addr + mhOffSize)) }

func mapCapacity(a *Arena, addr Addr) int { return int(a.ReadU32(addr + mhOffCap)) }

func mapGrow(a *Arena, addr Addr) {
	cap := mapCapacity(a, addr)
	size := MapSize(a, addr)
	newCap := cap * 2
	if newCap == 0 {
		newCap = 4
	}
	newEntries := a.Alloc(newCap * 16)
	if size > 0 {
		old := a.ReadAddr(addr + mhOffEntries)
		a.WriteBytes(newEntries, a.ReadBytes(old, size*16))
	}
	a.WriteAddr(addr+mhOffEntries, newEntries)
	a.WriteU32(addr+mhOffCap, uint32(newCap))
}

func mapEntryOffset(entries Addr, i int) Addr { return entries + Addr(i*16) }

// MapGet returns the value for key, or (Undefined, false) if absent.
func MapGet(a *Arena, addr Addr, key JSValue) (JSValue, bool) {
	size := MapSize(a, addr)
	entries := a.ReadAddr(addr + mhOffEntries)
	for i := 0; i < size; i++ {
		off := mapEntryOffset(entries, i)
		k := a.ReadValue(off)
		if jsValuesEqual(a, k, key) {
			return a.ReadValue(off + 8), true
		}
	}
	return Undefined, false
}

// MapSet inserts or overwrites key's value.
func MapSet(a *Arena, addr Addr, key, value JSValue) {
	size := MapSize(a, addr)
	entries := a.ReadAddr(addr + mhOffEntries)
	for i := 0; i < size; i++ {
		off := mapEntryOffset(entries, i)
		if jsValuesEqual(a, a.ReadValue(off), key) {
			a.WriteValue(off+8, value)
			return
		}
	}
	if size == mapCapacity(a, addr) {
		mapGrow(a, addr)
		entries = a.ReadAddr(addr + mhOffEntries)
	}
	off := mapEntryOffset(entries, size)
	a.WriteValue(off, key)
	a.WriteValue(off+8, value)
	a.WriteU32(addr+mhOffSize, uint32(size+1))
}

// MapDelete removes key, swapping the last entry into its slot for O(1)
// removal
func MapDelete(a *Arena, addr Addr, key JSValue) bool {
	size := MapSize(a, addr)
	entries := a.ReadAddr(addr + mhOffEntries)
	for i := 0; i < size; i++ {
		off := mapEntryOffset(entries, i)
		if jsValuesEqual(a, a.ReadValue(off), key) {
			last := mapEntryOffset(entries, size-1)
			if i != size-1 {
				a.WriteValue(off, a.ReadValue(last))
				a.WriteValue(off+8, a.ReadValue(last+8))
			}
			a.WriteU32(addr+mhOffSize, uint32(size-1))
			return true
		}
	}
	return false
}

// MapValue wraps a map address as a tagged JSValue.
func MapValue(addr Addr) JSValue { return ptrValue(TagMap, addr) }

// SetHeader mirrors MapHeader with single-JSValue entries (8 bytes each).
func SetAlloc(a *Arena) Addr {
	addr := a.Alloc(mapHeaderSize)
	a.WriteU32(addr+mhOffSize, 0)
	a.WriteU32(addr+mhOffCap, 0)
	a.WriteAddr(addr+mhOffEntries, 0)
	return addr
}

func SetSize(a *Arena, addr Addr) int { return int(a.ReadU32(addr + mhOffSize)) }

func SetHas(a *Arena, addr Addr, v JSValue) bool {
	size := SetSize(a, addr)
	entries := a.ReadAddr(addr + mhOffEntries)
	for i := 0; i < size; i++ {
		if jsValuesEqual(a, a.ReadValue(entries+Addr(i*8)), v) {
			return true
		}
	}
	return false
}

func SetAdd(a *Arena, addr Addr, v JSValue) {
	if SetHas(a, addr, v) {
		return
	}
	size := SetSize(a, addr)
	cap := mapCapacity(a, addr)
	if size == cap {
		newCap := cap * 2
		if newCap == 0 {
			newCap = 4
		}
		newEntries := a.Alloc(newCap * 8)
		if size > 0 {
			old := a.ReadAddr(addr + mhOffEntries)
			a.WriteBytes(newEntries, a.ReadBytes(old, size*8))
		}
		a.WriteAddr(addr+mhOffEntries, newEntries)
		a.WriteU32(addr+mhOffCap, uint32(newCap))
	}
	entries := a.ReadAddr(addr + mhOffEntries)
	a.WriteValue(entries+Addr(size*8), v)
	a.WriteU32(addr+mhOffSize, uint32(size+1))
}

func SetDelete(a *Arena, addr Addr, v JSValue) bool {
	size := SetSize(a, addr)
	entries := a.ReadAddr(addr + mhOffEntries)
	for i := 0; i < size; i++ {
		off := entries + Addr(i*8)
		if jsValuesEqual(a, a.ReadValue(off), v) {
			last := entries + Addr((size-1)*8)
			if i != size-1 {
				a.WriteValue(off, a.ReadValue(last))
			}
			a.WriteU32(addr+mhOffSize, uint32(size-1))
			return true
		}
	}
	return false
}

// SetValue wraps a set address as a tagged JSValue.
func SetValue(addr Addr) JSValue { return ptrValue(TagSet, addr) }
