package runtime

// PromiseState is a Promise's settlement state.
type PromiseState int

const (
	Pending PromiseState = iota
	Fulfilled
	Rejected
)

// continuation is a waiter registered via Then; exactly one of
// onFulfilled/onRejected runs once the promise settles.
type continuation struct {
	onFulfilled func(JSValue)
	onRejected  func(JSValue)
}

// Promise is {state, value, waiters} Promises are
// registered with a Scheduler and referenced from JSValue by table index
// rather than by raw Go pointer: a waiter list holds Go closures (the
// compiled `await` continuation), which can't be represented as arena
// bytes, but an unsafe-pointer-as-uint64 encoding would hide the
// reference from the garbage collector. Indexing into the Scheduler's own
// slice keeps the Promise reachable for as long as its JSValue is.
type Promise struct {
	state   PromiseState
	value   JSValue
	waiters []continuation
}

// PromiseValue wraps a promise table index as a tagged JSValue.
func PromiseValue(idx int) JSValue { return encode(TagPromise, uint64(idx)) }

// PromiseIndex extracts the table index from a TagPromise value.
func (v JSValue) PromiseIndex() int { return int(v.payload()) }
