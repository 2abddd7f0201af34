package engine

// The resolution engine is a triple-barrelled continuation machine.
// A Step is a computation applied to three continuations: yes is
// called with every solution found, no backtracks to the most recent
// choice point, and prune is the jump target of cut. Every combinator
// below is defined purely by how it wires these three channels
// together. Failure is just the no channel; only hard errors travel
// as error frames.

// Emit is the success continuation: it receives the database, the
// solution substitution and the continuation that searches for more.
type Emit func(db *Database, s *Subst, no Thunk) *Frame

// Step is a resolution step awaiting its three continuations.
type Step func(yes Emit, no, prune Thunk) *Frame

// Goal is a resolvable query: applied to a database and the current
// substitution it produces a Step.
type Goal func(db *Database, s *Subst) Step

// Success is the primitive yes continuation; it hands the
// substitution to the trampoline as an emitted solution.
func Success(_ *Database, s *Subst, no Thunk) *Frame {
	return emitFrame(s, no)
}

// Failure is the primitive no continuation: the search is exhausted.
func Failure() *Frame {
	return nil
}

// Unit succeeds exactly once with the substitution unchanged.
func Unit(db *Database, s *Subst) Step {
	return func(yes Emit, no, prune Thunk) *Frame {
		return yes(db, s, no)
	}
}

// Fail never succeeds.
func Fail(_ *Database, _ *Subst) Step {
	return func(yes Emit, no, prune Thunk) *Frame {
		return delay(no)
	}
}

// Cut succeeds once, but rewires backtracking for whatever is
// sequenced after it to the prune channel, discarding every pending
// choice point up to the nearest enclosing barrier.
func Cut(db *Database, s *Subst) Step {
	return func(yes Emit, no, prune Thunk) *Frame {
		return yes(db, s, prune)
	}
}

// Raise produces a goal that terminates the search with err. Host
// predicates use it to propagate fatal errors through the trampoline.
func Raise(err error) Goal {
	return func(_ *Database, _ *Subst) Step {
		return func(yes Emit, no, prune Thunk) *Frame {
			return errFrame(err)
		}
	}
}

// bind chains a step to a subsequent goal: each solution of the step
// becomes the input of the goal, while the step's own backtracking and
// pruning pass through untouched.
func bind(step Step, g Goal) Step {
	return func(yes Emit, no, prune Thunk) *Frame {
		bound := func(db *Database, s *Subst, thenNo Thunk) *Frame {
			return delay(func() *Frame {
				return g(db, s)(yes, thenNo, prune)
			})
		}
		return delay(func() *Frame {
			return step(bound, no, prune)
		})
	}
}

// Then is conjunction: g2 runs on every success of g1.
func Then(g1, g2 Goal) Goal {
	return func(db *Database, s *Subst) Step {
		return bind(g1(db, s), g2)
	}
}

// Seq conjoins any number of goals; all must succeed in order.
func Seq(goals ...Goal) Goal {
	ret := Goal(Unit)
	for i := len(goals) - 1; i >= 0; i-- {
		ret = Then(goals[i], ret)
	}
	return ret
}

// Choice is biased disjunction: g2 is tried, with the original
// substitution, only when g1 runs out of solutions. Both share the
// same prune barrier.
func Choice(g1, g2 Goal) Goal {
	return func(db *Database, s *Subst) Step {
		return func(yes Emit, no, prune Thunk) *Frame {
			retry := func() *Frame {
				return g2(db, s)(yes, no, prune)
			}
			return delay(func() *Frame {
				return g1(db, s)(yes, retry, prune)
			})
		}
	}
}

// Amb tries each goal in order via backtracking.
func Amb(goals ...Goal) Goal {
	ret := Goal(Fail)
	for i := len(goals) - 1; i >= 0; i-- {
		ret = Choice(goals[i], ret)
	}
	return ret
}

// Prunable runs the given alternatives under their own cut barrier: a
// Cut inside any of them discards the remaining alternatives of this
// group but leaves the caller's pending choice points alone. This is
// the boundary that scopes cut to the clauses of one predicate call.
func Prunable(goals ...Goal) Goal {
	alt := Amb(goals...)
	return func(db *Database, s *Subst) Step {
		return func(yes Emit, no, prune Thunk) *Frame {
			return delay(func() *Frame {
				return alt(db, s)(yes, no, no)
			})
		}
	}
}

// Neg is negation as failure: it succeeds exactly once iff goal has no
// solutions, and it never exports bindings made inside goal. For
// non-ground goals this is the classic unsound-but-useful NAF.
func Neg(goal Goal) Goal {
	return Prunable(Amb(Seq(goal, Cut, Fail), Unit))
}

// IfThenElse is the soft cut: on cond's first success it commits to
// that solution and runs then; if cond fails outright it runs else.
func IfThenElse(cond, then, els Goal) Goal {
	return func(db *Database, s *Subst) Step {
		condStep := cond(db, s)
		return func(yes Emit, no, prune Thunk) *Frame {
			yesBranch := func(db2 *Database, s2 *Subst, _ Thunk) *Frame {
				return delay(func() *Frame {
					return then(db2, s2)(yes, no, prune)
				})
			}
			noBranch := func() *Frame {
				return els(db, s)(yes, no, prune)
			}
			return delay(func() *Frame {
				return condStep(yesBranch, noBranch, prune)
			})
		}
	}
}

// CallCC exposes the raw continuations to f, which must return the
// step to run with them.
func CallCC(f func(yes Emit, no, prune Thunk) Step) Step {
	return func(yes Emit, no, prune Thunk) *Frame {
		return delay(func() *Frame {
			return f(yes, no, prune)(yes, no, prune)
		})
	}
}

// CallEC calls fn with an escape function. Wrapping a goal with the
// escape makes any of its successes commit: backtracking past an
// escaped success abandons the whole CallEC search.
func CallEC(fn func(escape func(Goal) Goal) Goal) Goal {
	return func(db *Database, s *Subst) Step {
		return func(yes Emit, no, prune Thunk) *Frame {
			escape := func(g Goal) Goal {
				return func(db2 *Database, s2 *Subst) Step {
					return func(_ Emit, _ Thunk, _ Thunk) *Frame {
						forward := func(db3 *Database, s3 *Subst, _ Thunk) *Frame {
							return yes(db3, s3, prune)
						}
						return delay(func() *Frame {
							return g(db2, s2)(forward, no, prune)
						})
					}
				}
			}
			return delay(func() *Frame {
				return fn(escape)(db, s)(yes, no, prune)
			})
		}
	}
}
