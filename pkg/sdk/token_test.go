package sdk_test

import (
	"testing"
	"time"

	"github.com/pytact/docvault/pkg/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeToken(t *testing.T) {
	t.Run("matches the documented derivation", func(t *testing.T) {
		token, err := sdk.EncodeToken("2024-01-20T10:30:00Z")
		require.NoError(t, err)
		assert.Equal(t, sdk.Token("20240120T103000Z"), token)
	})

	t.Run("two reads of the same instant yield the same token", func(t *testing.T) {
		first, err := sdk.EncodeToken("2024-01-20T10:30:00Z")
		require.NoError(t, err)
		second, err := sdk.EncodeToken("2024-01-20T10:30:00Z")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("equivalent instants in different offsets agree", func(t *testing.T) {
		utc, err := sdk.EncodeToken("2024-01-20T10:30:00Z")
		require.NoError(t, err)
		offset, err := sdk.EncodeToken("2024-01-20T11:30:00+01:00")
		require.NoError(t, err)
		assert.Equal(t, utc, offset)
	})

	t.Run("instants one second apart differ", func(t *testing.T) {
		before, err := sdk.EncodeToken("2024-01-20T10:30:00Z")
		require.NoError(t, err)
		after, err := sdk.EncodeToken("2024-01-20T10:30:01Z")
		require.NoError(t, err)
		assert.NotEqual(t, before, after)
	})

	t.Run("fails closed on unparseable input", func(t *testing.T) {
		token, err := sdk.EncodeToken("last tuesday")
		assert.Error(t, err)
		assert.Equal(t, sdk.KindProgramming, sdk.KindOf(err))
		assert.Empty(t, token)
	})

	t.Run("empty input is not a token", func(t *testing.T) {
		_, err := sdk.EncodeToken("")
		assert.Error(t, err)
	})
}

func TestEncodeTokenAt(t *testing.T) {
	base := time.Date(2024, 1, 20, 10, 30, 0, 0, time.UTC)

	t.Run("sub-second precision is truncated", func(t *testing.T) {
		withNanos := base.Add(350 * time.Millisecond)
		assert.Equal(t, sdk.EncodeTokenAt(base), sdk.EncodeTokenAt(withNanos))
	})

	t.Run("a one second modification changes the token", func(t *testing.T) {
		assert.NotEqual(t, sdk.EncodeTokenAt(base), sdk.EncodeTokenAt(base.Add(time.Second)))
	})

	t.Run("non-UTC instants normalize", func(t *testing.T) {
		loc := time.FixedZone("CET", 3600)
		assert.Equal(t, sdk.EncodeTokenAt(base), sdk.EncodeTokenAt(base.In(loc)))
	})
}
