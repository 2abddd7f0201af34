package engine

// Thunk is a deferred resolution step. The trampoline repeatedly
// invokes thunks instead of letting continuations call each other
// directly, which keeps native stack usage constant no matter how deep
// the logical recursion goes.
type Thunk func() *Frame

// Frame is the result of forcing a thunk: an optional emitted solution
// and/or an optional next step. A nil *Frame means the search space is
// exhausted. A frame with err set terminates the search with a fatal
// error.
type Frame struct {
	emit  bool
	subst *Subst
	err   error
	next  Thunk
}

// delay wraps a thunk into a frame so that the trampoline, not the
// current goroutine stack, performs the call.
func delay(t Thunk) *Frame {
	return &Frame{next: t}
}

// emitFrame emits s as a solution and continues with no on demand.
func emitFrame(s *Subst, no Thunk) *Frame {
	return &Frame{emit: true, subst: s, next: no}
}

// errFrame terminates the search with err.
func errFrame(err error) *Frame {
	return &Frame{err: err}
}

// drive runs the trampoline. It forces thunks until the search is
// exhausted or errs, calling yield for every emitted solution. If
// yield returns false the remaining choice points are abandoned
// unexplored.
func drive(t Thunk, yield func(*Subst) bool) error {
	for t != nil {
		f := t()
		if f == nil {
			return nil
		}
		if f.err != nil {
			return f.err
		}
		if f.emit && !yield(f.subst) {
			return nil
		}
		t = f.next
	}
	return nil
}
