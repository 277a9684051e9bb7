package bindiff

import "github.com/binpatch/bindiff/internal/bderrs"

// Sentinel errors returned by Generate and Apply. Use errors.Is against
// these, not string matching: every returned error wraps one of them with
// fmt.Errorf("%w: ...") for a specific message.
var (
	// ErrOldIO is returned when reading or seeking the reference fails, or
	// when the reference exceeds the 2^31-1 byte size limit.
	ErrOldIO = bderrs.OldIO
	// ErrNewIO is returned when reading the target or writing the
	// reconstructed output fails.
	ErrNewIO = bderrs.NewIO
	// ErrPatchIO is returned when reading or writing the patch stream
	// itself fails.
	ErrPatchIO = bderrs.PatchIO
	// ErrPatchShort is returned when the patch stream ends before
	// new_file_size bytes have been produced, or before a trailing END
	// record is reached.
	ErrPatchShort = bderrs.PatchShort
	// ErrBadMagic is returned when a patch stream's header magic doesn't
	// match.
	ErrBadMagic = bderrs.BadMagic
	// ErrAlgorithm is returned when a generator invariant is violated
	// (length overflow, a computed seek collides with the FLUSH sentinel,
	// a negative computed record length) or when the applier detects a
	// state no malformed-but-honest patch could produce.
	ErrAlgorithm = bderrs.Algorithm
)
