package wire

import "fmt"

// CacheFileName returns the block-cache filename the applier uses for a
// reconstructed block whose target CRC-32 is newCRC.
func CacheFileName(newCRC uint32) string {
	return fmt.Sprintf("%08x.blk", newCRC)
}
