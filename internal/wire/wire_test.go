package wire

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestByteOrderRoundTrip(t *testing.T) {
	buf := make([]byte, 8)

	PutUint32(buf, 0xDEADBEEF)
	require.Equal(t, uint32(0xDEADBEEF), Uint32(buf))

	PutUint64(buf, 0x0102030405060708)
	require.Equal(t, uint64(0x0102030405060708), Uint64(buf))
}

func TestSignedInt32RoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 12345, -12345, 1<<31 - 1, -(1 << 30)}
	buf := make([]byte, 4)
	for _, v := range cases {
		PutInt32(buf, v)
		require.Equal(t, v, Int32(buf), "round trip of %d", v)
	}
}

func TestFlushSentinelIsNotZero(t *testing.T) {
	require.True(t, IsFlushSeek(flushSeek))
	require.False(t, IsFlushSeek(0))

	buf := make([]byte, 4)
	PutInt32(buf, flushSeek)
	require.Equal(t, []byte{0x7F, 0xFF, 0xFF, 0xFF}, buf)
}

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{NewFileSize: 123456789}
	decoded, err := DecodeHeader(h.Encode())
	require.NoError(t, err)
	require.Equal(t, h, decoded)
}

func TestHeaderBadMagic(t *testing.T) {
	buf := Header{NewFileSize: 1}.Encode()
	buf[0] = 'X'
	_, err := DecodeHeader(buf)
	require.Error(t, err)
}

func TestRecordRoundTrip(t *testing.T) {
	normal := DecodeRecord(EncodeNormal(10, 20, -5))
	if diff := cmp.Diff(Record{Kind: KindNormal, Diff: 10, Extra: 20, Seek: -5}, normal); diff != "" {
		t.Errorf("normal record mismatch (-want +got):\n%s", diff)
	}

	flush := DecodeRecord(EncodeFlush(0xAAAAAAAA, 0xBBBBBBBB))
	if diff := cmp.Diff(Record{Kind: KindFlush, OldCRC: 0xAAAAAAAA, NewCRC: 0xBBBBBBBB}, flush); diff != "" {
		t.Errorf("flush record mismatch (-want +got):\n%s", diff)
	}

	end := DecodeRecord(EncodeEnd())
	if diff := cmp.Diff(Record{Kind: KindEnd}, end); diff != "" {
		t.Errorf("end record mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeNormalPanicsOnFlushCollision(t *testing.T) {
	require.Panics(t, func() { EncodeNormal(0, 0, flushSeek) })
}

func TestCRC32Accum(t *testing.T) {
	a := NewCRC32()
	_, _ = a.Write([]byte("hello "))
	_, _ = a.Write([]byte("world"))
	require.Equal(t, CRC32([]byte("hello world")), a.Sum32())

	a.Reset()
	require.Equal(t, uint32(0), a.Sum32())
}

func TestCacheFileName(t *testing.T) {
	require.Equal(t, "0000002a.blk", CacheFileName(42))
}
