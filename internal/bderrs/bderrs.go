// Package bderrs defines the error kinds the bindiff engine surfaces to
// callers. It exists as its own package (rather than living in the root
// bindiff package) so that internal/scan and internal/blockapply can
// return them without an import cycle back through the root package.
package bderrs

import "errors"

// Sentinel error kinds. Wrap with fmt.Errorf("%w: ...", Kind) so callers
// can use errors.Is against the kind while still getting a specific
// message.
var (
	// OldIO: reading or seeking the reference failed, or its size
	// exceeds 2^31-1 bytes.
	OldIO = errors.New("old-io")
	// NewIO: reading the target or writing the output failed.
	NewIO = errors.New("new-io")
	// PatchIO: reading or writing the patch stream failed.
	PatchIO = errors.New("patch-io")
	// PatchShort: end-of-stream reached before new_file_size bytes were
	// produced.
	PatchShort = errors.New("patch-short")
	// BadMagic: file header magic mismatched.
	BadMagic = errors.New("bad-magic")
	// Algorithm: a generator invariant was violated (length overflow,
	// sentinel collision, negative computed length) or an applier-side
	// internal check failed in a way no malformed-but-honest patch could
	// produce.
	Algorithm = errors.New("algorithm")
)
