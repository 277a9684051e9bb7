// Package scan implements the generator's scan-and-emit loop: it drives a
// suffix-array search over the reference across the target, decides
// where to cut each emitted record via the forward/backward extension
// heuristic, and writes the resulting patch records.
package scan

import (
	"fmt"
	"io"

	"github.com/binpatch/bindiff/internal/bderrs"
	"github.com/binpatch/bindiff/internal/suffixarray"
	"github.com/binpatch/bindiff/internal/wire"
)

// fuzz and stallLimit are heuristic tuning constants: changing them
// changes the bytes of the emitted patch, never its correctness.
const (
	fuzz       = 8
	stallLimit = 100
)

// Run drives the block loop over ref/target and writes the full patch
// stream (header, per-block records and FLUSH sentinels, and the final
// END sentinel) to w. blockSize <= 0 means "one block covering the whole
// target".
func Run(ref, target []byte, blockSize int, w io.Writer) error {
	if blockSize <= 0 {
		blockSize = len(target)
	}
	if blockSize == 0 {
		blockSize = 1
	}

	if _, err := w.Write(wire.Header{NewFileSize: int64(len(target))}.Encode()); err != nil {
		return fmt.Errorf("%w: writing header: %v", bderrs.PatchIO, err)
	}

	// Pad the working reference up to the target's length with zero
	// bytes before the first sort, and keep that length for every
	// subsequent per-block rebuild, so a target longer than the
	// reference still has something to diff against.
	refBuf := make([]byte, max(len(ref), len(target)))
	copy(refBuf, ref)

	blockStart := 0
	for blockStart < len(target) {
		blockEnd := min(blockStart+blockSize, len(target))

		sa := suffixarray.Build(refBuf)
		oldCRC, newCRC, err := scanBlock(sa, refBuf, target, blockStart, blockEnd, w)
		if err != nil {
			return err
		}

		copy(refBuf[blockStart:blockEnd], target[blockStart:blockEnd])

		if _, err := w.Write(wire.EncodeFlush(oldCRC, newCRC)); err != nil {
			return fmt.Errorf("%w: writing flush record: %v", bderrs.PatchIO, err)
		}

		blockStart = blockEnd
	}

	if _, err := w.Write(wire.EncodeEnd()); err != nil {
		return fmt.Errorf("%w: writing end record: %v", bderrs.PatchIO, err)
	}
	return nil
}

// scanBlock runs the scan-and-emit loop over target[blockStart:blockEnd],
// writing one wire record per cut, and returns the block's reference-side
// and target-side CRC-32s for the caller's FLUSH record.
func scanBlock(sa []int32, ref, target []byte, blockStart, blockEnd int, w io.Writer) (oldCRC, newCRC uint32, err error) {
	scansize := blockEnd
	lastscan, lastpos, lastoffset := blockStart, blockStart, 0

	oldAccum := wire.NewCRC32()
	newAccum := wire.NewCRC32()

	var scan, pos, length int
	scan = blockStart

	for scan < scansize {
		var oldscore int
		scan += length

		scsc := scan
		var stalls int
		var prevLen, prevScore, prevPos int
		havePrev := false
		stalled := false

		for ; scan < scansize; scan++ {
			pos, length = suffixarray.Search(sa, ref, target[scan:scansize])

			for ; scsc < scan+length; scsc++ {
				if scsc+lastoffset < len(ref) && ref[scsc+lastoffset] == target[scsc] {
					oldscore++
				}
			}

			if (length == oldscore && length != 0) || length > oldscore+fuzz {
				break
			}

			if scan+lastoffset < len(ref) && ref[scan+lastoffset] == target[scan] {
				oldscore--
			}

			if havePrev && absInt(length-prevLen) <= fuzz && absInt(oldscore-prevScore) <= fuzz && absInt(pos-prevPos) <= fuzz {
				stalls++
				if stalls > stallLimit {
					stalled = true
					break
				}
			} else {
				stalls = 0
			}
			prevLen, prevScore, prevPos = length, oldscore, pos
			havePrev = true
		}

		// The stall guard forces a cut here even when the natural
		// length/oldscore condition doesn't hold, otherwise a region with
		// no usable match (length and oldscore both pinned at 0) would
		// keep re-entering this loop without ever emitting a record.
		if length != oldscore || scan == scansize || stalled {
			lenf := forwardExtend(ref, target, lastscan, lastpos, scan)

			lenb := 0
			if scan < scansize {
				lenb = backwardExtend(ref, target, lastscan, scan, pos)
			} else {
				// Last record of the block: its seek leaves the reference
				// cursor at the block end, where the next block's lastpos
				// starts.
				pos = scansize
			}

			if lastscan+lenf > scan-lenb {
				lenf, lenb = resolveOverlap(ref, target, lastscan, lastpos, scan, pos, lenf, lenb)
			}

			diffLen := lenf
			extraLen := (scan - lenb) - (lastscan + lenf)
			seek := int64(pos-lenb) - int64(lastpos+lenf)

			if diffLen < 0 || extraLen < 0 {
				return 0, 0, fmt.Errorf("%w: negative record length (diff=%d extra=%d)", bderrs.Algorithm, diffLen, extraLen)
			}
			if seek < -(1<<31) || seek > 1<<31-1 {
				return 0, 0, fmt.Errorf("%w: seek overflow: %d", bderrs.Algorithm, seek)
			}
			if wire.IsFlushSeek(int32(seek)) { //nolint:gosec // range-checked above
				return 0, 0, fmt.Errorf("%w: computed seek collides with FLUSH sentinel", bderrs.Algorithm)
			}

			diffBytes := make([]byte, diffLen)
			for i := 0; i < diffLen; i++ {
				diffBytes[i] = target[lastscan+i] - ref[lastpos+i]
			}
			extraBytes := target[lastscan+lenf : scan-lenb]

			if _, err := w.Write(wire.EncodeNormal(uint32(diffLen), uint32(extraLen), int32(seek))); err != nil { //nolint:gosec // range-checked above
				return 0, 0, fmt.Errorf("%w: writing record header: %v", bderrs.PatchIO, err)
			}
			if _, err := w.Write(diffBytes); err != nil {
				return 0, 0, fmt.Errorf("%w: writing diff bytes: %v", bderrs.PatchIO, err)
			}
			if _, err := w.Write(extraBytes); err != nil {
				return 0, 0, fmt.Errorf("%w: writing extra bytes: %v", bderrs.PatchIO, err)
			}

			_, _ = oldAccum.Write(ref[lastpos : lastpos+lenf])
			_, _ = newAccum.Write(target[lastscan : scan-lenb])

			lastscan = scan - lenb
			lastpos = pos - lenb
			lastoffset = pos - scan
		}
	}

	return oldAccum.Sum32(), newAccum.Sum32(), nil
}

// forwardExtend finds the i maximising 2*S-i, S = count of matching bytes
// between ref[lastpos:] and target[lastscan:] over the first i bytes.
func forwardExtend(ref, target []byte, lastscan, lastpos, scan int) int {
	var s, best, lenf int
	i := 0
	for lastscan+i < scan && lastpos+i < len(ref) {
		if ref[lastpos+i] == target[lastscan+i] {
			s++
		}
		i++
		if s*2-i > best*2-lenf {
			best = s
			lenf = i
		}
	}
	return lenf
}

// backwardExtend finds the i maximising 2*S-i scanning backward from
// (scan, pos).
func backwardExtend(ref, target []byte, lastscan, scan, pos int) int {
	var s, best, lenb int
	for i := 1; scan >= lastscan+i && pos >= i; i++ {
		if ref[pos-i] == target[scan-i] {
			s++
		}
		if s*2-i > best*2-lenb {
			best = s
			lenb = i
		}
	}
	return lenb
}

// resolveOverlap picks the split point within the forward/backward
// overlap that maximises forward matches minus backward matches, and
// returns the adjusted (lenf, lenb).
func resolveOverlap(ref, target []byte, lastscan, lastpos, scan, pos, lenf, lenb int) (newLenf, newLenb int) {
	overlap := (lastscan + lenf) - (scan - lenb)
	var s, best, split int
	for i := 0; i < overlap; i++ {
		if target[lastscan+lenf-overlap+i] == ref[lastpos+lenf-overlap+i] {
			s++
		}
		if target[scan-lenb+i] == ref[pos-lenb+i] {
			s--
		}
		if s > best {
			best = s
			split = i + 1
		}
	}
	return lenf + split - overlap, lenb - split
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
