package aggstate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgcraft/pgcraft/aggstate"
)

func TestParsePair(t *testing.T) {
	t.Parallel()

	sum, count, err := aggstate.ParsePair("6,3")
	require.NoError(t, err)
	assert.Equal(t, int32(6), sum)
	assert.Equal(t, int32(3), count)

	sum, count, err = aggstate.ParsePair("-42,0")
	require.NoError(t, err)
	assert.Equal(t, int32(-42), sum)
	assert.Equal(t, int32(0), count)
}

func TestParsePairErrors(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "6", "6,", ",3", "a,3", "6,b", "6;3"} {
		t.Run(text, func(t *testing.T) {
			_, _, err := aggstate.ParsePair(text)
			assert.Error(t, err)
		})
	}
}

// The split happens on the first comma only, so a trailing third field
// poisons the count instead of being dropped.
func TestParsePairFirstCommaOnly(t *testing.T) {
	t.Parallel()

	_, _, err := aggstate.ParsePair("6,3,9")
	assert.Error(t, err)
}

func TestFormatPairRoundTrip(t *testing.T) {
	t.Parallel()

	text := aggstate.FormatPair(6, 3)
	assert.Equal(t, "6,3", text)

	sum, count, err := aggstate.ParsePair(text)
	require.NoError(t, err)
	assert.Equal(t, int32(6), sum)
	assert.Equal(t, int32(3), count)
}

func TestSerialRoundTrip(t *testing.T) {
	t.Parallel()

	type state struct {
		Sum int32
		N   int32
	}
	data, err := aggstate.Serial(state{Sum: 6, N: 3})
	require.NoError(t, err)

	var got state
	require.NoError(t, aggstate.Deserial(data, &got))
	assert.Equal(t, state{Sum: 6, N: 3}, got)
}
