package bindiff

import (
	"fmt"
	"io"

	"github.com/binpatch/bindiff/internal/blockapply"
	"github.com/binpatch/bindiff/internal/scan"
	"github.com/binpatch/bindiff/internal/wire"
)

// maxRefSize is the largest reference size this engine tolerates: the
// suffix array and every search/seek offset are carried as signed 32-bit
// values.
const maxRefSize = 1<<31 - 1

// Generate builds a suffix array over ref and scans target against it,
// writing the resulting patch stream to w per opts.
func Generate(ref, target []byte, opts *GenerateOptions, w io.Writer) error {
	if opts == nil {
		opts = DefaultGenerateOptions()
	}
	if len(ref) > maxRefSize {
		return fmt.Errorf("%w: reference is %d bytes, limit is %d", ErrOldIO, len(ref), maxRefSize)
	}
	if opts.BlockSize < 0 {
		return fmt.Errorf("%w: negative block size %d", ErrAlgorithm, opts.BlockSize)
	}
	return scan.Run(ref, target, opts.BlockSize, w)
}

// Apply reconstructs the target into out from old and patch, per opts.
func Apply(old io.ReadSeeker, patch io.Reader, out io.Writer, opts *ApplyOptions) error {
	if opts == nil {
		opts = DefaultApplyOptions()
	}
	return blockapply.Apply(old, patch, out, blockapply.Options{CacheDir: opts.CacheDir})
}

// Summary reports the shape of a patch stream without applying it: the
// declared new file size, the number of blocks (one per FLUSH record; the
// generator ends every block, including the last, with a FLUSH), the
// number of normal records, and the total differential/literal byte
// counts across every normal record.
type Summary struct {
	NewFileSize   int64
	Blocks        int
	NormalRecords int
	DiffBytes     int64
	ExtraBytes    int64
}

// Stat reads a patch stream from r up to its END record and reports its
// Summary. A stream that runs out of bytes before its END record yields
// an ErrPatchShort error. It does not read diff or extra payload bytes
// into memory beyond what's needed to skip them.
func Stat(r io.Reader) (Summary, error) {
	var sum Summary

	headerBuf, err := readExact(r, wire.HeaderSize)
	if err != nil {
		return sum, err
	}
	header, err := wire.DecodeHeader(headerBuf)
	if err != nil {
		return sum, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	sum.NewFileSize = header.NewFileSize

	skip := make([]byte, 0, 4096)
	for {
		recBuf, err := readExact(r, wire.RecordHeaderSize)
		if err != nil {
			return sum, err
		}
		rec := wire.DecodeRecord(recBuf)

		switch rec.Kind {
		case wire.KindEnd:
			return sum, nil
		case wire.KindFlush:
			sum.Blocks++
		case wire.KindNormal:
			sum.NormalRecords++
			sum.DiffBytes += int64(rec.Diff)
			sum.ExtraBytes += int64(rec.Extra)
			if err := discard(r, int(rec.Diff)+int(rec.Extra), &skip); err != nil {
				return sum, err
			}
		}
	}
}

func readExact(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPatchShort, err)
	}
	return buf, nil
}

// discard reads and throws away n bytes from r, reusing buf's backing
// array across calls.
func discard(r io.Reader, n int, buf *[]byte) error {
	if n == 0 {
		return nil
	}
	if cap(*buf) < n {
		*buf = make([]byte, n)
	}
	b := (*buf)[:n]
	if _, err := io.ReadFull(r, b); err != nil {
		return fmt.Errorf("%w: %v", ErrPatchShort, err)
	}
	return nil
}
