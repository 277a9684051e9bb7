// Package wire implements the binary layout of a bindiff patch stream:
// big-endian integer encoding, the file header, the record header and its
// FLUSH/END sentinel union, and the CRC-32 used for per-block checksums.
package wire

import (
	"encoding/binary"
	"hash/crc32"
)

// Magic identifies a bindiff patch stream. It occupies the first 8 bytes
// of every patch file.
const Magic = "BNDF0001"

// HeaderSize is the size in bytes of the fixed file header: 8 bytes of
// magic followed by an 8-byte big-endian new_file_size.
const HeaderSize = len(Magic) + 8

// RecordHeaderSize is the size in bytes of one record header: three
// 32-bit big-endian fields (diff, extra, seek), or — when seek equals
// flushSeek — (oldcrc, newcrc) in the same two field slots.
const RecordHeaderSize = 4 + 4 + 4

// flushSeek is the reserved seek value that marks a FLUSH record. It is
// chosen as the signed value int32 max so its unsigned big-endian
// encoding (0x7F,0xFF,0xFF,0xFF) can never collide with a real seek
// distance: the generator aborts with ErrAlgorithm before ever emitting
// it on a normal record.
const flushSeek int32 = 0x7FFFFFFF

// PutUint32 writes v to buf in big-endian order. buf must have length >= 4.
func PutUint32(buf []byte, v uint32) { binary.BigEndian.PutUint32(buf, v) }

// Uint32 reads a big-endian uint32 from buf. buf must have length >= 4.
func Uint32(buf []byte) uint32 { return binary.BigEndian.Uint32(buf) }

// PutUint64 writes v to buf in big-endian order. buf must have length >= 8.
func PutUint64(buf []byte, v uint64) { binary.BigEndian.PutUint64(buf, v) }

// Uint64 reads a big-endian uint64 from buf. buf must have length >= 8.
func Uint64(buf []byte) uint64 { return binary.BigEndian.Uint64(buf) }

// PutInt32 writes a signed 32-bit value to buf using its two's-complement
// unsigned bit pattern: the wire format never relies on a language-level
// signed-to-unsigned cast.
func PutInt32(buf []byte, v int32) {
	PutUint32(buf, uint32(v)) //nolint:gosec // explicit two's-complement reinterpretation, not a lossy cast
}

// Int32 recovers a signed 32-bit value from its two's-complement unsigned
// bit pattern.
func Int32(buf []byte) int32 {
	u := Uint32(buf)
	return int32(u) //nolint:gosec // explicit two's-complement reinterpretation, not a lossy cast
}

// CRC32 returns the CRC-32 (IEEE 0xEDB88320-reflected polynomial, the same
// one used by common archive formats) of b.
func CRC32(b []byte) uint32 { return crc32.ChecksumIEEE(b) }

// NewCRC32 returns a running CRC-32 accumulator using the IEEE table.
func NewCRC32() *CRC32Accum { return &CRC32Accum{tbl: crc32.IEEETable} }

// CRC32Accum accumulates a CRC-32 over successive Write calls without
// needing the whole region in memory at once.
type CRC32Accum struct {
	tbl *crc32.Table
	sum uint32
}

// Write feeds p into the running checksum. It never returns an error.
func (a *CRC32Accum) Write(p []byte) (int, error) {
	a.sum = crc32.Update(a.sum, a.tbl, p)
	return len(p), nil
}

// Sum32 returns the checksum accumulated so far.
func (a *CRC32Accum) Sum32() uint32 { return a.sum }

// Reset zeroes the accumulator so it can be reused for the next block.
func (a *CRC32Accum) Reset() { a.sum = 0 }
