// Package blockapply implements the patch applier: it reads one record
// at a time from a patch stream, reconstructs the target block by block,
// and reconciles each block's reference- and target-side CRC-32s at the
// FLUSH boundary, using a previously reconstructed block as an alternate
// reference source when the primary one no longer matches.
package blockapply

import (
	"fmt"
	"io"
	"os"

	"github.com/binpatch/bindiff/internal/bderrs"
	"github.com/binpatch/bindiff/internal/wire"
)

// Options configures Apply.
type Options struct {
	// CacheDir is the directory used for the block cache and scratch
	// block files. It must be writable. If empty, os.MkdirTemp is used
	// and the directory is removed when Apply returns.
	CacheDir string
}

// Apply reads header and records from patch, reconstructs the target
// into out using old as the seekable reference, and returns an error
// wrapping one of the internal/bderrs sentinels.
func Apply(old io.ReadSeeker, patch io.Reader, out io.Writer, opts Options) error {
	cacheDir := opts.CacheDir
	if cacheDir == "" {
		dir, err := os.MkdirTemp("", "bindiff-cache-")
		if err != nil {
			return fmt.Errorf("%w: creating cache dir: %v", bderrs.NewIO, err)
		}
		defer os.RemoveAll(dir)
		cacheDir = dir
	}

	headerBuf, err := readExact(patch, wire.HeaderSize)
	if err != nil {
		return err
	}
	header, err := wire.DecodeHeader(headerBuf)
	if err != nil {
		return fmt.Errorf("%w: %v", bderrs.BadMagic, err)
	}

	ref, err := newReference(old)
	if err != nil {
		return fmt.Errorf("%w: %v", bderrs.OldIO, err)
	}

	d := &decoder{
		ref:     ref,
		patch:   patch,
		out:     out,
		cache:   newCache(cacheDir),
		newSize: header.NewFileSize,
		oldCRC:  wire.NewCRC32(),
		newCRC:  wire.NewCRC32(),
	}
	defer d.closeBlockFile()

	if err := d.openBlockFile(); err != nil {
		return err
	}

	for {
		recBuf, err := readExact(patch, wire.RecordHeaderSize)
		if err != nil {
			return err
		}
		rec := wire.DecodeRecord(recBuf)

		switch rec.Kind {
		case wire.KindEnd:
			return d.finish()
		case wire.KindFlush:
			if err := d.handleFlush(rec); err != nil {
				return err
			}
		case wire.KindNormal:
			if err := d.handleNormal(rec); err != nil {
				return err
			}
		}
	}
}

// readExact reads exactly n bytes from r, classifying any end of stream
// (nothing at all, or only part of the n bytes, was available) as
// patch-short and any other read error as patch-io.
func readExact(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(r, buf)
	if err == nil {
		return buf, nil
	}
	if err == io.EOF && read == 0 {
		return nil, fmt.Errorf("%w: unexpected end of patch stream", bderrs.PatchShort)
	}
	if err == io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("%w: truncated patch stream", bderrs.PatchShort)
	}
	return nil, fmt.Errorf("%w: %v", bderrs.PatchIO, err)
}

// decoder holds the mutable state of one Apply run.
type decoder struct {
	ref   *reference
	patch io.Reader
	out   io.Writer
	cache *cache

	newSize int64

	bytesWritten  int64
	blockStart    int64 // bytesWritten at the start of the current block
	blockFile     *os.File
	blockFileSize int64

	oldCRC *wire.CRC32Accum
	newCRC *wire.CRC32Accum
}

func (d *decoder) openBlockFile() error {
	f, err := os.CreateTemp(d.cache.dir, "block-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: opening block scratch file: %v", bderrs.NewIO, err)
	}
	d.blockFile = f
	d.blockFileSize = 0
	d.blockStart = d.bytesWritten
	d.oldCRC.Reset()
	d.newCRC.Reset()
	return nil
}

func (d *decoder) closeBlockFile() {
	if d.blockFile == nil {
		return
	}
	name := d.blockFile.Name()
	_ = d.blockFile.Close()
	_ = os.Remove(name)
	d.blockFile = nil
}

// writeOutput writes p to both the final output and the current block's
// scratch file, and folds p into the block's target-side CRC.
func (d *decoder) writeOutput(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if _, err := d.out.Write(p); err != nil {
		return fmt.Errorf("%w: writing output: %v", bderrs.NewIO, err)
	}
	if _, err := d.blockFile.Write(p); err != nil {
		return fmt.Errorf("%w: writing block scratch file: %v", bderrs.NewIO, err)
	}
	_, _ = d.newCRC.Write(p)
	d.bytesWritten += int64(len(p))
	d.blockFileSize += int64(len(p))
	return nil
}

func (d *decoder) handleNormal(rec wire.Record) error {
	diff := int64(rec.Diff)
	extra := int64(rec.Extra)

	if d.bytesWritten+diff+extra > d.newSize {
		return fmt.Errorf("%w: record would overrun declared new_file_size", bderrs.Algorithm)
	}

	diffBytes, err := readExact(d.patch, int(rec.Diff))
	if err != nil {
		return err
	}
	refBytes, err := d.ref.read(int(rec.Diff))
	if err != nil {
		return fmt.Errorf("%w: %v", bderrs.OldIO, err)
	}
	_, _ = d.oldCRC.Write(refBytes)

	merged := make([]byte, len(diffBytes))
	for i := range merged {
		merged[i] = diffBytes[i] + refBytes[i]
	}
	if err := d.writeOutput(merged); err != nil {
		return err
	}

	extraBytes, err := readExact(d.patch, int(rec.Extra))
	if err != nil {
		return err
	}
	if err := d.writeOutput(extraBytes); err != nil {
		return err
	}

	d.ref.seekBy(int64(rec.Seek))
	return nil
}

func (d *decoder) handleFlush(rec wire.Record) error {
	if d.blockFile == nil {
		return fmt.Errorf("%w: flush with no open block", bderrs.Algorithm)
	}

	if err := d.blockFile.Sync(); err != nil {
		return fmt.Errorf("%w: fsync block file: %v", bderrs.NewIO, err)
	}

	blockStart := d.blockStart
	blockLen := d.blockFileSize
	blockPath := d.blockFile.Name()
	_ = d.blockFile.Close()
	d.blockFile = nil

	if d.oldCRC.Sum32() == rec.OldCRC {
		content, err := os.ReadFile(blockPath) //nolint:gosec // path is our own temp file
		if err != nil {
			return fmt.Errorf("%w: reading block scratch file: %v", bderrs.NewIO, err)
		}
		if err := d.cache.promote(rec.NewCRC, content); err != nil {
			return fmt.Errorf("%w: promoting block to cache: %v", bderrs.NewIO, err)
		}
	}
	_ = os.Remove(blockPath)

	if cached, ok, err := d.cache.lookup(rec.NewCRC); err != nil {
		return fmt.Errorf("%w: %v", bderrs.NewIO, err)
	} else if ok {
		if int64(len(cached)) != blockLen {
			return fmt.Errorf("%w: cached block size %d does not match block length %d", bderrs.Algorithm, len(cached), blockLen)
		}
		if wire.CRC32(cached) != rec.NewCRC {
			return fmt.Errorf("%w: cached block fails its own checksum, no alternate source available", bderrs.Algorithm)
		}
		d.ref.addOverlay(blockStart, cached)
	}

	return d.openBlockFile()
}

func (d *decoder) finish() error {
	d.closeBlockFile()
	if d.bytesWritten != d.newSize {
		return fmt.Errorf("%w: wrote %d bytes, declared size is %d", bderrs.PatchShort, d.bytesWritten, d.newSize)
	}
	return nil
}
