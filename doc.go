/*
Package bindiff implements a bsdiff-family binary delta engine.

Generate builds a suffix array over a reference buffer and scans a target
buffer against it, emitting a block-oriented patch stream: each block ends
with a FLUSH record carrying the block's reference-side and target-side
CRC-32, and the stream ends with an all-zero END record.

Apply streams a patch produced by Generate back into the target, verifying
each block's reference-side CRC-32 at its FLUSH boundary and falling back
to a previously reconstructed block (recovered from an on-disk cache keyed
by the block's target CRC-32) when the primary reference no longer matches
what the generator saw.

	err := bindiff.Generate(ref, target, bindiff.DefaultGenerateOptions(), patchWriter)
	err := bindiff.Apply(oldFile, patchReader, newFileWriter, bindiff.DefaultApplyOptions())

Neither direction performs compression, transport, or authentication; see
the package's design notes for the full list of non-goals.
*/
package bindiff
