package crafttest_test

import (
	"context"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgcraft/pgcraft/compiler/gen"
	"github.com/pgcraft/pgcraft/compiler/load"
	"github.com/pgcraft/pgcraft/control"
	"github.com/pgcraft/pgcraft/crafttest"
	"github.com/pgcraft/pgcraft/dialect/sql"
	"github.com/pgcraft/pgcraft/schema/aggregate"
)

var script = []string{
	"/*\nDemo average.\n*/",
	"CREATE TYPE integer_avg_state (\n\tINTERNALLENGTH = variable,\n\tINPUT = integer_avg_state_in,\n\tOUTPUT = integer_avg_state_out,\n\tSTORAGE = extended\n);",
	"CREATE AGGREGATE DEMOAVG (integer)\n(\n\tSFUNC = demoavg_state,\n\tSTYPE = integer_avg_state\n);",
}

func TestApply(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TYPE integer_avg_state").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE AGGREGATE DEMOAVG").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, crafttest.Apply(context.Background(), db, script))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TYPE integer_avg_state").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE AGGREGATE DEMOAVG").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	require.NoError(t, crafttest.Check(context.Background(), db, script))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyStatementError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TYPE integer_avg_state").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = crafttest.Apply(context.Background(), db, script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement 1")
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestCheckPostgres runs the generated demo script against a real
// database when one is available.
func TestCheckPostgres(t *testing.T) {
	dsn := os.Getenv("PGCRAFT_TEST_DSN")
	if dsn == "" {
		t.Skip("PGCRAFT_TEST_DSN not set")
	}
	ctx := context.Background()

	db, err := crafttest.Open(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	// The generated script needs the compiled module on the server, so
	// the rollback path is exercised with module-free DDL instead.
	require.NoError(t, crafttest.Check(ctx, db, []string{
		"/* header */",
		"CREATE TYPE pgcraft_smoke_pair AS (a integer, b integer)",
		"CREATE AGGREGATE pgcraft_smoke_sum (integer) (SFUNC = int4pl, STYPE = integer, INITCOND = '0')",
	}))
}

// TestStatementsFeedTheHarness wires the generator output into the
// harness shape: one executable Exec per non-comment statement.
func TestStatementsFeedTheHarness(t *testing.T) {
	cf, err := control.Parse("comment = 'Demo average'\ndefault_version = '1.0'\nmodule_pathname = '$libdir/demo'")
	require.NoError(t, err)
	desc, err := aggregate.Reduce("DEMOAVG").
		Args("int32").
		State("IntegerAvgState").
		Finalize("int32").
		Descriptor()
	require.NoError(t, err)
	g, err := gen.BuildGraph(cf, &load.Schema{
		Types:      []*load.Type{{Name: "integer_avg_state", GoType: "IntegerAvgState"}},
		Aggregates: []*load.Aggregate{{Desc: desc, GoType: "IntegerAvg"}},
	})
	require.NoError(t, err)
	gtor, err := gen.NewGenerator(g, sql.NewRenderer(), gen.WithLogger(crafttest.NewTestLogger(t)))
	require.NoError(t, err)
	stmts, err := gtor.Statements()
	require.NoError(t, err)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	for range stmts[1:] {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectRollback()

	require.NoError(t, crafttest.Check(context.Background(), db, stmts))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewTestLogger(t *testing.T) {
	log := crafttest.NewTestLogger(t)
	log.Debug("visible with -v", "k", "v")
}
