package gitlib_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commentlife/pkg/gitlib"
)

func TestParseHash(t *testing.T) {
	t.Parallel()

	const hex = "0123456789abcdef0123456789abcdef01234567"

	h, err := gitlib.ParseHash(hex)
	require.NoError(t, err)
	assert.Equal(t, hex, h.String())
	assert.Equal(t, "0123456", h.Short())
	assert.False(t, h.IsZero())
	assert.Equal(t, h, gitlib.HashFromOid(h.ToOid()))
}

func TestParseHash_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "abc", "zz23456789abcdef0123456789abcdef01234567"} {
		_, err := gitlib.ParseHash(in)
		require.ErrorIs(t, err, gitlib.ErrInvalidHash, in)
	}

	assert.True(t, gitlib.NewHash("nope").IsZero())
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	got, err := gitlib.ParseTime("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())

	_, err = gitlib.ParseTime("2024-01-01T10:00:00Z")
	require.NoError(t, err)

	_, err = gitlib.ParseTime("yesterday")
	require.ErrorIs(t, err, gitlib.ErrInvalidTimeFormat)
}
