package wire

// RecordKind classifies a decoded record header.
type RecordKind int

const (
	// KindNormal carries a differential region, a literal region, and a
	// reference seek.
	KindNormal RecordKind = iota
	// KindFlush marks a block boundary and carries the block's two CRCs
	// in place of diff/extra/seek.
	KindFlush
	// KindEnd is the all-zero terminator of the patch stream.
	KindEnd
)

// Record is one decoded record header. Only the fields relevant to Kind
// are meaningful: Normal uses Diff/Extra/Seek, Flush uses OldCRC/NewCRC,
// End uses neither.
type Record struct {
	Kind RecordKind

	Diff  uint32
	Extra uint32
	Seek  int32

	OldCRC uint32
	NewCRC uint32
}

// EncodeNormal serializes a normal record header. diff and extra must fit
// in 32 bits and seek must not equal the FLUSH sentinel; callers are
// expected to have already checked this (see internal/scan), so a
// violation here is an algorithm bug rather than user-facing input.
func EncodeNormal(diff, extra uint32, seek int32) []byte {
	if seek == flushSeek {
		panic("wire: normal record seek collides with FLUSH sentinel")
	}
	buf := make([]byte, RecordHeaderSize)
	PutUint32(buf[0:4], diff)
	PutUint32(buf[4:8], extra)
	PutInt32(buf[8:12], seek)
	return buf
}

// EncodeFlush serializes a FLUSH record header carrying the block's
// reference-side and target-side CRC-32s.
func EncodeFlush(oldCRC, newCRC uint32) []byte {
	buf := make([]byte, RecordHeaderSize)
	PutUint32(buf[0:4], oldCRC)
	PutUint32(buf[4:8], newCRC)
	PutInt32(buf[8:12], flushSeek)
	return buf
}

// EncodeEnd serializes the all-zero END record header.
func EncodeEnd() []byte {
	return make([]byte, RecordHeaderSize)
}

// DecodeRecord parses a RecordHeaderSize-byte buffer into a Record.
func DecodeRecord(buf []byte) Record {
	diff := Uint32(buf[0:4])
	extra := Uint32(buf[4:8])
	seek := Int32(buf[8:12])

	switch {
	case diff == 0 && extra == 0 && seek == 0:
		return Record{Kind: KindEnd}
	case seek == flushSeek:
		return Record{Kind: KindFlush, OldCRC: diff, NewCRC: extra}
	default:
		return Record{Kind: KindNormal, Diff: diff, Extra: extra, Seek: seek}
	}
}

// IsFlushSeek reports whether seek collides with the reserved FLUSH
// sentinel. The generator must check this before emitting any normal
// record, since a real seek value of exactly flushSeek would otherwise
// be silently misread as a FLUSH on decode.
func IsFlushSeek(seek int32) bool { return seek == flushSeek }
