// Package aggregate provides the fluent builder for declaring SQL
// aggregates.
//
// An aggregate declaration names its SQL identity, its argument type
// expression and its transition state, and optionally enables the
// moving-window variant:
//
//	aggregate.Reduce("DEMOAVG").
//		Args("int32").
//		State("IntegerAvgState").
//		Finalize("int32").
//		InitialCondition("0,0").
//		Parallel(pgcraft.ParallelUnsafe)
//
// The argument expression goes through the shape classifier, so a
// trailing variadic parameter is declared as `variadic(T)`:
//
//	aggregate.Reduce("DEMOCONCAT").
//		Args("string, variadic(string)").
//		State("ConcatState")
//
// Builder errors are deferred: they surface from Descriptor(), the way
// a malformed declaration surfaces when the schema package is loaded.
package aggregate
