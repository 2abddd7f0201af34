package engine

// NativeBody is a host-supplied procedure acting as a clause body. It
// is invoked with the database, the substitution at the time of the
// call, and the freshened head arguments (already unifiable with the
// query's arguments), and returns the goal to run. Returning Unit
// succeeds once; returning Fail rejects; Raise aborts the search.
//
// A native body may panic or raise arbitrary errors; the engine does
// not catch them. Hosts needing error-to-failure translation wrap
// their own bodies.
type NativeBody func(db *Database, s *Subst, args []Term) Goal
