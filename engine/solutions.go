package engine

import "fmt"

// Solutions is the result of a query. Every call of the Next method
// resumes the search for the next solution; Scan and Get read the
// current one. The search is single-threaded and consumer-driven:
// choice points left unexplored when the caller stops are simply
// abandoned.
type Solutions struct {
	vars    []Variable
	renamed renameTable
	subst   *Subst
	found   bool
	next    Thunk
	err     error
}

// Next searches for the next solution. It returns true if one was
// found, false when the search space is exhausted or a fatal error
// occurred.
func (sol *Solutions) Next() bool {
	for sol.next != nil {
		f := sol.next()
		if f == nil {
			sol.next = nil
			return false
		}
		if f.err != nil {
			sol.err = f.err
			sol.next = nil
			return false
		}
		if f.emit {
			sol.subst = f.subst
			sol.found = true
			sol.next = f.next
			return true
		}
		sol.next = f.next
	}
	return false
}

// Close abandons the remaining choice points.
func (sol *Solutions) Close() error {
	sol.next = nil
	return nil
}

// Err returns the fatal error that terminated the search, if any.
func (sol *Solutions) Err() error {
	return sol.err
}

// Vars returns the names of the query's variables in order of first
// appearance.
func (sol *Solutions) Vars() []string {
	ns := make([]string, len(sol.vars))
	for i, v := range sol.vars {
		ns[i] = v.Name
	}
	return ns
}

// Get returns the current binding of the query variable with the
// given name, fully dereferenced. It reports false before the first
// successful Next and for names not in the query.
func (sol *Solutions) Get(name string) (Term, bool) {
	if !sol.found {
		return nil, false
	}
	for _, v := range sol.vars {
		if v.Name == name {
			return sol.subst.Simplify(sol.renamed[v]), true
		}
	}
	return nil, false
}

// Scan copies the current solution's variable bindings into m, keyed
// by the variable names of the original query.
func (sol *Solutions) Scan(m map[string]Term) error {
	if !sol.found {
		return fmt.Errorf("engine: Scan called without a successful Next")
	}
	for _, v := range sol.vars {
		m[v.Name] = sol.subst.Simplify(sol.renamed[v])
	}
	return nil
}
