package wire

import "fmt"

// Header is the fixed-size preamble of a patch stream: the format magic
// and the declared size of the reconstructed target.
type Header struct {
	NewFileSize int64
}

// Encode serializes h into a HeaderSize-byte buffer.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf, Magic)
	PutUint64(buf[len(Magic):], uint64(h.NewFileSize)) //nolint:gosec // NewFileSize is a non-negative file length, far below the int64->uint64 wrap point
	return buf
}

// DecodeHeader parses a HeaderSize-byte buffer into a Header. It reports a
// descriptive error (not one of the wire package's own sentinel kinds;
// callers classify bad-magic vs patch-short at the call site where they
// know which applies) when the magic does not match.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, fmt.Errorf("wire: short header: got %d bytes, want %d", len(buf), HeaderSize)
	}
	if string(buf[:len(Magic)]) != Magic {
		return Header{}, fmt.Errorf("wire: bad magic %q", buf[:len(Magic)])
	}
	return Header{NewFileSize: int64(Uint64(buf[len(Magic):]))}, nil
}
