package blockapply

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReferenceReadsPhysicalBytes(t *testing.T) {
	ref, err := newReference(bytes.NewReader([]byte("hello world")))
	require.NoError(t, err)

	got, err := ref.read(5)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)

	got, err = ref.read(6)
	require.NoError(t, err)
	require.Equal(t, []byte(" world"), got)
}

func TestReferenceZeroPadsPastPhysicalEnd(t *testing.T) {
	ref, err := newReference(bytes.NewReader([]byte("ab")))
	require.NoError(t, err)

	got, err := ref.read(2)
	require.NoError(t, err)
	require.Equal(t, []byte("ab"), got)

	got, err = ref.read(4)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0}, got)
}

func TestReferenceReadStraddlesPhysicalEnd(t *testing.T) {
	ref, err := newReference(bytes.NewReader([]byte("ab")))
	require.NoError(t, err)

	got, err := ref.read(5)
	require.NoError(t, err)
	require.Equal(t, []byte{'a', 'b', 0, 0, 0}, got)
}

func TestReferenceOverlayTakesPriorityOverPhysical(t *testing.T) {
	ref, err := newReference(bytes.NewReader([]byte("AAAA")))
	require.NoError(t, err)

	ref.addOverlay(1, []byte("XY"))

	got, err := ref.read(4)
	require.NoError(t, err)
	require.Equal(t, []byte("AXYA"), got)
}

func TestReferenceOverlayPastPhysicalEnd(t *testing.T) {
	ref, err := newReference(bytes.NewReader([]byte("AB")))
	require.NoError(t, err)

	ref.addOverlay(2, []byte("CD"))

	got, err := ref.read(4)
	require.NoError(t, err)
	require.Equal(t, []byte("ABCD"), got)
}

func TestReferenceSeekByMovesCursor(t *testing.T) {
	ref, err := newReference(bytes.NewReader([]byte("0123456789")))
	require.NoError(t, err)

	ref.seekBy(4)
	got, err := ref.read(3)
	require.NoError(t, err)
	require.Equal(t, []byte("456"), got)

	ref.seekBy(-5)
	got, err = ref.read(2)
	require.NoError(t, err)
	require.Equal(t, []byte("23"), got)
}
