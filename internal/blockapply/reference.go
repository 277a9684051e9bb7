package blockapply

import (
	"fmt"
	"io"
)

// overlaySpan records that the reference byte range [start, end) has been
// superseded by reconstructed content — the applier's analogue of the
// generator overlaying R with the just-reconstructed target block before
// rebuilding the suffix array for the next block. Spans are appended in
// increasing, non-overlapping order as blocks flush.
type overlaySpan struct {
	start, end int64
	data       []byte
}

// reference is a seekable view over the old file that transparently
// redirects reads into any region a later block has already overlaid,
// so that a record's seek/diff phase sees the same bytes the generator's
// suffix-array search saw when it built that record. It also reproduces
// the generator's zero-padding of the reference up to the target's
// length: any read past the physical reference's real length returns
// zero bytes rather than failing, since that's what the generator's
// working buffer contained at those offsets too.
type reference struct {
	phys     io.ReadSeeker
	physSize int64
	pos      int64

	spans []overlaySpan
}

func newReference(phys io.ReadSeeker) (*reference, error) {
	size, err := phys.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("blockapply: measuring reference size: %w", err)
	}
	if _, err := phys.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("blockapply: rewinding reference: %w", err)
	}
	return &reference{phys: phys, physSize: size}, nil
}

// addOverlay records that content is now the authoritative reference
// content for [start, start+len(content)).
func (r *reference) addOverlay(start int64, content []byte) {
	r.spans = append(r.spans, overlaySpan{start: start, end: start + int64(len(content)), data: content})
}

// spanAt returns the overlay span covering pos, if any.
func (r *reference) spanAt(pos int64) (overlaySpan, bool) {
	for _, s := range r.spans {
		if pos >= s.start && pos < s.end {
			return s, true
		}
	}
	return overlaySpan{}, false
}

// nextSpanStart returns the start of the nearest overlay span beginning
// at or after pos, or -1 if none.
func (r *reference) nextSpanStart(pos int64) int64 {
	best := int64(-1)
	for _, s := range r.spans {
		if s.start >= pos && (best == -1 || s.start < best) {
			best = s.start
		}
	}
	return best
}

// read returns the n bytes at the current logical cursor, stitching
// together overlay spans and physical reads as needed, and advances the
// cursor by n.
func (r *reference) read(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}

	out := make([]byte, 0, n)
	pos := r.pos
	remaining := int64(n)

	for remaining > 0 {
		if span, ok := r.spanAt(pos); ok {
			avail := span.end - pos
			take := remaining
			if take > avail {
				take = avail
			}
			off := pos - span.start
			out = append(out, span.data[off:off+take]...)
			pos += take
			remaining -= take
			continue
		}

		take := remaining
		if limit := r.nextSpanStart(pos); limit != -1 {
			if avail := limit - pos; avail < take {
				take = avail
			}
		}
		if take <= 0 {
			return nil, fmt.Errorf("blockapply: empty physical read window at offset %d", pos)
		}

		if pos >= r.physSize {
			// Past the real reference entirely: the generator's working
			// buffer was zero-padded here, so reads here must be too.
			out = append(out, make([]byte, take)...)
			pos += take
			remaining -= take
			continue
		}
		if pos+take > r.physSize {
			take = r.physSize - pos
		}

		if _, err := r.phys.Seek(pos, io.SeekStart); err != nil {
			return nil, fmt.Errorf("blockapply: seeking reference: %w", err)
		}
		buf := make([]byte, take)
		if _, err := io.ReadFull(r.phys, buf); err != nil {
			return nil, fmt.Errorf("blockapply: reading reference: %w", err)
		}
		out = append(out, buf...)
		pos += take
		remaining -= take
	}

	r.pos += int64(n)
	return out, nil
}

// seekBy advances the logical cursor by delta, which may be negative.
func (r *reference) seekBy(delta int64) { r.pos += delta }
