// Package pgcraft provides the building blocks for writing PostgreSQL
// extensions in Go. Authors declare SQL objects (types, functions,
// aggregates, operators) with the schema packages, and the compiler
// packages derive the DDL script and native glue that expose those
// declarations inside the database.
package pgcraft

// ParallelOption classifies an aggregate's safety under parallel query
// execution. It maps to the PARALLEL clause of CREATE AGGREGATE.
type ParallelOption uint8

const (
	// ParallelUnspecified omits the PARALLEL clause entirely.
	ParallelUnspecified ParallelOption = iota
	// ParallelSafe marks the aggregate safe to run in parallel workers.
	ParallelSafe
	// ParallelRestricted allows parallel execution in the leader only.
	ParallelRestricted
	// ParallelUnsafe disables parallel execution for the aggregate.
	ParallelUnsafe
)

// String returns the SQL spelling of the parallel option.
func (p ParallelOption) String() string {
	switch p {
	case ParallelSafe:
		return "SAFE"
	case ParallelRestricted:
		return "RESTRICTED"
	case ParallelUnsafe:
		return "UNSAFE"
	}
	return ""
}

// FinalizeModify describes whether a finalize function modifies the
// transition state. It maps to the FINALFUNC_MODIFY and
// MFINALFUNC_MODIFY clauses of CREATE AGGREGATE.
type FinalizeModify uint8

const (
	// FinalizeModifyUnspecified omits the modify clause entirely.
	FinalizeModifyUnspecified FinalizeModify = iota
	// FinalizeReadOnly promises the finalize function leaves the state untouched.
	FinalizeReadOnly
	// FinalizeShareable allows the state to be reused across finalize calls.
	FinalizeShareable
	// FinalizeReadWrite lets the finalize function consume the state.
	FinalizeReadWrite
)

// String returns the SQL spelling of the modify option.
func (m FinalizeModify) String() string {
	switch m {
	case FinalizeReadOnly:
		return "READ_ONLY"
	case FinalizeShareable:
		return "SHAREABLE"
	case FinalizeReadWrite:
		return "READ_WRITE"
	}
	return ""
}

// Aggregate is the capability set a SQL aggregate implements. S is the
// transition state, A the input argument and F the final output. The
// database engine drives the reduction by SQL-visible name: the state
// transition function receives (current state, next input) and returns
// the new state, and the finalize function maps a state to the output.
//
// Serial and Deserial carry the state across parallel workers so that
// partial states can be combined in the leader.
type Aggregate[S, A, F any] interface {
	// State folds the next input value into the state.
	State(state S, next A) S
	// Combine merges two partially aggregated states.
	Combine(a, b S) S
	// Serial encodes the state for transfer between workers.
	Serial(state S) ([]byte, error)
	// Deserial decodes a state produced by Serial.
	Deserial(data []byte) (S, error)
	// Finalize computes the aggregate's output from the state.
	Finalize(state S) F
}

// MovingAggregate extends Aggregate for use in a sliding window frame.
// Inputs can be added and removed incrementally without recomputing
// the whole frame. An aggregate that declares a moving state must
// implement this interface.
type MovingAggregate[S, A, F any] interface {
	Aggregate[S, A, F]

	// MovingState folds the next input into the window state.
	MovingState(state S, next A) S
	// MovingStateInverse removes an input that left the window frame.
	MovingStateInverse(state S, next A) S
	// MovingFinalize computes the output from the window state.
	MovingFinalize(state S) F
}
