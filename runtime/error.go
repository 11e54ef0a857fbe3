package runtime

// ErrorHeader layout: [objectType=ObjectTypeError u32][pad u32]
// [messageAddr u64][nameAddr u64][stackAddr u64] = 32 bytes. Grounded on
// original_source/crates/perry-runtime/src/error.rs's ErrorHeader, ported
// from raw pointer fields to arena Addrs.
const errorHeaderSize = 32

const (
	errOffType    = 0
	errOffMessage = 8
	errOffName    = 16
	errOffStack   = 24
)

// NewError allocates an Error object with the given message; name defaults
// to "Error" and stack to the empty string, matching js_error_new_with_message.
func NewError(a *Arena, message string) Addr {
	addr := a.Alloc(errorHeaderSize)
	a.WriteU32(addr+errOffType, ObjectTypeError)
	a.WriteAddr(addr+errOffMessage, NewString(a, []byte(message)))
	a.WriteAddr(addr+errOffName, NewString(a, []byte("Error")))
	a.WriteAddr(addr+errOffStack, NewString(a, nil))
	return addr
}

// NewErrorNamed is NewError with an explicit name (e.g. "TypeError").
func NewErrorNamed(a *Arena, name, message string) Addr {
	addr := NewError(a, message)
	a.WriteAddr(addr+errOffName, NewString(a, []byte(name)))
	return addr
}

func ErrorMessage(a *Arena, addr Addr) string {
	return string(StringBytes(a, a.ReadAddr(addr+errOffMessage)))
}

func ErrorName(a *Arena, addr Addr) string {
	return string(StringBytes(a, a.ReadAddr(addr+errOffName)))
}

func ErrorStack(a *Arena, addr Addr) string {
	return string(StringBytes(a, a.ReadAddr(addr+errOffStack)))
}

func SetErrorStack(a *Arena, addr Addr, stack string) {
	a.WriteAddr(addr+errOffStack, NewString(a, []byte(stack)))
}

// IsError reports whether addr's header discriminant marks it as an Error
// object rather than a regular Object, reading only header offset 0.
func IsError(a *Arena, addr Addr) bool {
	return a.ReadU32(addr+errOffType) == ObjectTypeError
}

// ErrorValue wraps an error address as a tagged JSValue.
func ErrorValue(addr Addr) JSValue { return ptrValue(TagError, addr) }
