package shape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgcraft/pgcraft"
	"github.com/pgcraft/pgcraft/schema/shape"
)

func TestParseScalar(t *testing.T) {
	t.Parallel()

	l, err := shape.Parse("int32")
	require.NoError(t, err)
	require.Len(t, l.Shapes, 1)
	assert.Equal(t, "int32", l.Shapes[0].Type)
	assert.False(t, l.Shapes[0].Variadic)
	assert.Empty(t, l.Shapes[0].Path)
	assert.Equal(t, "int32", l.Original)
}

func TestParseTuple(t *testing.T) {
	t.Parallel()

	l, err := shape.Parse("int32, string, float64")
	require.NoError(t, err)
	require.Len(t, l.Shapes, 3)
	assert.Equal(t, "int32", l.Shapes[0].Type)
	assert.Equal(t, "string", l.Shapes[1].Type)
	assert.Equal(t, "float64", l.Shapes[2].Type)
}

func TestParseVariadic(t *testing.T) {
	t.Parallel()

	t.Run("bare_marker", func(t *testing.T) {
		l, err := shape.Parse("variadic(int32)")
		require.NoError(t, err)
		require.Len(t, l.Shapes, 1)
		assert.Equal(t, "int32", l.Shapes[0].Type)
		assert.True(t, l.Shapes[0].Variadic)
		assert.Equal(t, "variadic", l.Shapes[0].Path)
	})

	t.Run("qualified_marker", func(t *testing.T) {
		l, err := shape.Parse("pgcraft.variadic(string)")
		require.NoError(t, err)
		require.Len(t, l.Shapes, 1)
		assert.Equal(t, "string", l.Shapes[0].Type)
		assert.True(t, l.Shapes[0].Variadic)
		assert.Equal(t, "pgcraft.variadic", l.Shapes[0].Path)
	})

	t.Run("trailing_in_tuple", func(t *testing.T) {
		l, err := shape.Parse("int32, variadic(string)")
		require.NoError(t, err)
		require.Len(t, l.Shapes, 2)
		assert.False(t, l.Shapes[0].Variadic)
		assert.True(t, l.Shapes[1].Variadic)
		assert.Equal(t, "string", l.Shapes[1].Type)
	})
}

// Call-like expressions off the documented path rule must stay scalar.
func TestParseStrictMarkerRule(t *testing.T) {
	t.Parallel()

	for _, expr := range []string{
		"other.variadic(int32)",
		"notvariadic(int32)",
		"pgcraft.other(int32)",
		"make(chan int)",
	} {
		t.Run(expr, func(t *testing.T) {
			l, err := shape.Parse(expr)
			require.NoError(t, err)
			require.Len(t, l.Shapes, 1)
			assert.False(t, l.Shapes[0].Variadic)
			assert.Equal(t, expr, l.Shapes[0].Type)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	t.Run("garbage", func(t *testing.T) {
		_, err := shape.Parse("int32, ???")
		require.Error(t, err)
		require.True(t, pgcraft.IsMalformedType(err))

		var mt *pgcraft.MalformedTypeError
		require.ErrorAs(t, err, &mt)
		assert.Equal(t, "int32, ???", mt.Expr())
		assert.Equal(t, 6, mt.Offset())
	})

	t.Run("empty_element", func(t *testing.T) {
		_, err := shape.Parse("int32, , string")
		require.True(t, pgcraft.IsMalformedType(err))
	})

	t.Run("marker_arity", func(t *testing.T) {
		_, err := shape.Parse("variadic(int32, string)")
		require.True(t, pgcraft.IsMalformedType(err))
	})
}

func TestParseNestedCommas(t *testing.T) {
	t.Parallel()

	// Commas inside brackets do not split the tuple.
	l, err := shape.Parse("map[string]int, variadic(int32)")
	require.NoError(t, err)
	require.Len(t, l.Shapes, 2)
	assert.Equal(t, "map[string]int", l.Shapes[0].Type)
	assert.True(t, l.Shapes[1].Variadic)
}
