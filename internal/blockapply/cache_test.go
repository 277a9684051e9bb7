package blockapply

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binpatch/bindiff/internal/wire"
)

func TestCacheLookupMissingReturnsFalse(t *testing.T) {
	c := newCache(t.TempDir())

	_, ok, err := c.lookup(0xdeadbeef)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCachePromoteThenLookup(t *testing.T) {
	c := newCache(t.TempDir())
	data := []byte("reconstructed block contents")
	crc := wire.CRC32(data)

	require.NoError(t, c.promote(crc, data))

	got, ok, err := c.lookup(crc)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, data, got)
}

func TestCachePathIsDeterministic(t *testing.T) {
	c := newCache(t.TempDir())
	require.Equal(t, c.path(42), c.path(42))
	require.NotEqual(t, c.path(42), c.path(43))
}
