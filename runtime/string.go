package runtime

// StringHeader layout: [length u32][padding u32][bytes... immediately
// after header]. Strings are immutable: once written, the
// byte region is never mutated in place.
const stringHeaderSize = 8

// NewString copies data into the arena and returns a new, immutable
// string's address.
func NewString(a *Arena, data []byte) Addr {
	addr := a.Alloc(stringHeaderSize + len(data))
	a.WriteU32(addr, uint32(len(data)))
	if len(data) > 0 {
		a.WriteBytes(addr+stringHeaderSize, data)
	}
	return addr
}

// StringLen returns a string's byte length.
func StringLen(a *Arena, addr Addr) int {
	return int(a.ReadU32(addr))
}

// StringBytes returns a copy of a string's bytes.
func StringBytes(a *Arena, addr Addr) []byte {
	n := StringLen(a, addr)
	if n == 0 {
		return nil
	}
	return a.ReadBytes(addr+stringHeaderSize, n)
}

// StringsEqual compares two strings by content,:
// "== on strings compares content when pointers differ".
func StringsEqual(a *Arena, x, y Addr) bool {
	if x == y {
		return true
	}
	lx, ly := StringLen(a, x), StringLen(a, y)
	if lx != ly {
		return false
	}
	return string(StringBytes(a, x)) == string(StringBytes(a, y))
}

// StringValue wraps a string address as a tagged JSValue.
func StringValue(addr Addr) JSValue { return ptrValue(TagString, addr) }
