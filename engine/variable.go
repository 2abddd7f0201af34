package engine

import (
	"fmt"
	"sync/atomic"
)

var varCounter int64

// Variable is a logic variable. Identity matters: two variables with
// the same name created by separate NewVariable calls are distinct.
type Variable struct {
	Name string
	id   int64
}

// NewVariable creates a fresh variable. The name is for display only;
// the engine tells variables apart by an internal counter.
func NewVariable(name string) Variable {
	n := atomic.AddInt64(&varCounter, 1)
	return Variable{Name: name, id: n}
}

func (v Variable) termNode() {}

func (v Variable) String() string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("_%d", v.id)
}

// renamed returns a fresh variable carrying the same display name.
func (v Variable) renamed() Variable {
	return NewVariable(v.Name)
}

// older reports whether v was introduced before w.
func (v Variable) older(w Variable) bool {
	return v.id < w.id
}

// Wildcard matches anything and binds nothing.
type Wildcard struct{}

func (Wildcard) termNode() {}

func (Wildcard) String() string {
	return "_"
}
