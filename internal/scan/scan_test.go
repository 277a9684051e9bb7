package scan

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/binpatch/bindiff/internal/wire"
)

func TestRunProducesWellFormedHeaderAndEnd(t *testing.T) {
	ref := []byte("the quick brown fox jumps over the lazy dog")
	target := []byte("the quick brown fox leaps over the lazy dog")

	var buf bytes.Buffer
	require.NoError(t, Run(ref, target, 0, &buf))

	header, err := wire.DecodeHeader(buf.Next(wire.HeaderSize))
	require.NoError(t, err)
	require.Equal(t, int64(len(target)), header.NewFileSize)

	recs := decodeAllRecords(t, &buf)
	require.NotEmpty(t, recs)
	require.Equal(t, wire.KindEnd, recs[len(recs)-1].Kind)

	sawFlush := false
	for _, r := range recs[:len(recs)-1] {
		if r.Kind == wire.KindFlush {
			sawFlush = true
		}
	}
	require.True(t, sawFlush, "expected at least one flush record before end")
}

func TestRunBlockSizeSplittingProducesMultipleFlushes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ref := randomBytes(rng, 4096)
	target := mutate(rng, ref, 32)

	var buf bytes.Buffer
	require.NoError(t, Run(ref, target, 512, &buf))

	buf.Next(wire.HeaderSize)
	recs := decodeAllRecords(t, &buf)

	flushes := 0
	for _, r := range recs {
		if r.Kind == wire.KindFlush {
			flushes++
		}
	}
	require.GreaterOrEqual(t, flushes, len(target)/512)
}

func TestRunNoSeekCollidesWithFlushSentinel(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		ref := randomBytes(rng, 600)
		target := mutate(rng, ref, 40)

		var buf bytes.Buffer
		require.NoError(t, Run(ref, target, 128, &buf))

		buf.Next(wire.HeaderSize)
		recs := decodeAllRecords(t, &buf)
		for _, r := range recs {
			if r.Kind == wire.KindNormal {
				require.False(t, wire.IsFlushSeek(r.Seek), "normal record seek collided with flush sentinel")
			}
		}
	}
}

func TestRunEmptyTargetProducesHeaderAndEndOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Run([]byte("reference"), nil, 0, &buf))

	header, err := wire.DecodeHeader(buf.Next(wire.HeaderSize))
	require.NoError(t, err)
	require.Equal(t, int64(0), header.NewFileSize)

	recs := decodeAllRecords(t, &buf)
	require.Len(t, recs, 1)
	require.Equal(t, wire.KindEnd, recs[0].Kind)
}

func TestRunEmptyReference(t *testing.T) {
	target := []byte("brand new content with no reference at all")

	var buf bytes.Buffer
	require.NoError(t, Run(nil, target, 0, &buf))

	buf.Next(wire.HeaderSize)
	recs := decodeAllRecords(t, &buf)
	require.Equal(t, wire.KindEnd, recs[len(recs)-1].Kind)
}

func TestRunIdenticalRefAndTargetEmitsNoDiffExtra(t *testing.T) {
	data := []byte("repeated content repeated content repeated content")

	var buf bytes.Buffer
	require.NoError(t, Run(data, data, 0, &buf))

	buf.Next(wire.HeaderSize)
	recs := decodeAllRecords(t, &buf)
	for _, r := range recs {
		if r.Kind == wire.KindNormal {
			require.Zero(t, r.Extra, "identical input should not need literal extra bytes")
		}
	}
}

func decodeAllRecords(t *testing.T, buf *bytes.Buffer) []wire.Record {
	t.Helper()
	var recs []wire.Record
	for {
		if buf.Len() < wire.RecordHeaderSize {
			t.Fatalf("truncated record stream: %d bytes left", buf.Len())
		}
		rec := wire.DecodeRecord(buf.Next(wire.RecordHeaderSize))
		recs = append(recs, rec)
		switch rec.Kind {
		case wire.KindEnd:
			return recs
		case wire.KindFlush:
			continue
		case wire.KindNormal:
			buf.Next(int(rec.Diff))
			buf.Next(int(rec.Extra))
		}
	}
}

func randomBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(rng.Intn(256))
	}
	return b
}

func mutate(rng *rand.Rand, src []byte, changes int) []byte {
	out := make([]byte, len(src))
	copy(out, src)
	for i := 0; i < changes; i++ {
		out[rng.Intn(len(out))] = byte(rng.Intn(256))
	}
	return out
}
