package sql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgcraft/pgcraft"
	"github.com/pgcraft/pgcraft/compiler/gen"
	"github.com/pgcraft/pgcraft/control"
	"github.com/pgcraft/pgcraft/dialect/sql"
	"github.com/pgcraft/pgcraft/schema/aggregate"
	"github.com/pgcraft/pgcraft/schema/shape"
)

func TestRenderRoot(t *testing.T) {
	t.Parallel()

	cf, err := control.Parse("comment = 'Demo average'\ndefault_version = '1.0'\nmodule_pathname = '$libdir/demo'")
	require.NoError(t, err)

	out, err := sql.NewRenderer().Render(&gen.Root{Control: cf})
	require.NoError(t, err)

	// The root renders a header comment only, no executable DDL.
	assert.Contains(t, out, "Demo average.")
	assert.Contains(t, out, "This file is auto generated by pgcraft.")
	assert.Contains(t, out, "The ordering of items is not stable, it is driven by a dependency graph.")
	assert.NotContains(t, out, "CREATE")
}

func TestRenderType(t *testing.T) {
	t.Parallel()

	out, err := sql.NewRenderer().Render(&gen.TypeDef{
		Name:    "integer_avg_state",
		GoType:  "IntegerAvgState",
		InFunc:  "integer_avg_state_in",
		OutFunc: "integer_avg_state_out",
	})
	require.NoError(t, err)
	assert.Equal(t, `CREATE TYPE integer_avg_state (
	INTERNALLENGTH = variable,
	INPUT = integer_avg_state_in,
	OUTPUT = integer_avg_state_out,
	STORAGE = extended
);`, out)
}

func TestRenderFunction(t *testing.T) {
	t.Parallel()

	out, err := sql.NewRenderer().Render(&gen.FunctionDef{
		Name: "demoavg_state",
		Args: []gen.Arg{
			{Name: "state", Shape: shape.Shape{Type: "IntegerAvgState"}},
			{Name: "next", Shape: shape.Shape{Type: "int32"}},
		},
		Returns: "IntegerAvgState",
		Strict:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, `CREATE OR REPLACE FUNCTION demoavg_state(state integer_avg_state, next integer) RETURNS integer_avg_state
STRICT
LANGUAGE c
AS 'MODULE_PATHNAME', 'demoavg_state';`, out)
}

func TestRenderFunctionVariadicAndVoid(t *testing.T) {
	t.Parallel()

	out, err := sql.NewRenderer().Render(&gen.FunctionDef{
		Name: "demo_notify",
		Args: []gen.Arg{
			{Name: "tags", Shape: shape.Shape{Type: "string", Variadic: true}},
		},
		Link: "demo_notify_wrapper",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "demo_notify(tags VARIADIC text[]) RETURNS void")
	assert.Contains(t, out, "'demo_notify_wrapper'")
	assert.NotContains(t, out, "STRICT")
}

func TestRenderAggregate(t *testing.T) {
	t.Parallel()

	desc, err := aggregate.Reduce("DEMOAVG").
		Args("int32").
		State("IntegerAvgState").
		Finalize("int32").
		OrderBy("int32").
		MovingState("IntegerAvgState").
		InitialCondition("0,0").
		MovingInitialCondition("1,1").
		Parallel(pgcraft.ParallelUnsafe).
		FinalizeModify(pgcraft.FinalizeReadWrite).
		MovingFinalizeModify(pgcraft.FinalizeReadWrite).
		SortOperator("sortop").
		Hypothetical().
		Combine().
		Serialized().
		Descriptor()
	require.NoError(t, err)

	out, err := sql.NewRenderer().Render(&gen.AggregateDef{Desc: desc})
	require.NoError(t, err)
	assert.Equal(t, `CREATE AGGREGATE DEMOAVG (integer ORDER BY integer)
(
	SFUNC = demoavg_state,
	STYPE = integer_avg_state,
	COMBINEFUNC = demoavg_combine,
	SERIALFUNC = demoavg_serial,
	DESERIALFUNC = demoavg_deserial,
	FINALFUNC = demoavg_final,
	FINALFUNC_MODIFY = READ_WRITE,
	INITCOND = '0,0',
	MSFUNC = demoavg_moving_state,
	MINVFUNC = demoavg_moving_inverse,
	MSTYPE = integer_avg_state,
	MINITCOND = '1,1',
	MFINALFUNC = demoavg_moving_final,
	MFINALFUNC_MODIFY = READ_WRITE,
	PARALLEL = UNSAFE,
	SORTOP = sortop,
	HYPOTHETICAL
);`, out)
}

func TestRenderAggregateMinimal(t *testing.T) {
	t.Parallel()

	desc, err := aggregate.Reduce("DEMOSUM").
		Args("int32, variadic(int32)").
		State("int64").
		Descriptor()
	require.NoError(t, err)

	out, err := sql.NewRenderer().Render(&gen.AggregateDef{Desc: desc})
	require.NoError(t, err)
	assert.Equal(t, `CREATE AGGREGATE DEMOSUM (integer, VARIADIC integer[])
(
	SFUNC = demosum_state,
	STYPE = bigint
);`, out)
}

func TestRenderAggregateQuotesInitcond(t *testing.T) {
	t.Parallel()

	desc, err := aggregate.Reduce("DEMOCONCAT").
		Args("string").
		State("string").
		InitialCondition("it's").
		Descriptor()
	require.NoError(t, err)

	out, err := sql.NewRenderer().Render(&gen.AggregateDef{Desc: desc})
	require.NoError(t, err)
	assert.Contains(t, out, "INITCOND = 'it''s'")
}

func TestRenderOperator(t *testing.T) {
	t.Parallel()

	out, err := sql.NewRenderer().Render(&gen.OperatorDef{
		Name:       "|=|",
		Left:       "int32",
		Right:      "int32",
		Procedure:  "int_abs_eq",
		Commutator: "|=|",
		Negator:    "|<>|",
	})
	require.NoError(t, err)
	assert.Equal(t, `CREATE OPERATOR |=| (
	PROCEDURE = int_abs_eq,
	LEFTARG = integer,
	RIGHTARG = integer,
	COMMUTATOR = |=|,
	NEGATOR = |<>|
);`, out)
}
