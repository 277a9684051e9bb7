package blockapply

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/binpatch/bindiff/internal/wire"
)

// cache is the filesystem-resident store of reconstructed blocks, keyed
// by their target CRC-32.
//
// Promotion is durable: the block is fsynced before being handed to
// atomic.WriteFile, which itself writes to a sibling temp file and
// renames over the destination, so a concurrent reader of dir never
// observes a half-written cache entry.
type cache struct {
	dir string
}

func newCache(dir string) *cache { return &cache{dir: dir} }

func (c *cache) path(newCRC uint32) string {
	return filepath.Join(c.dir, wire.CacheFileName(newCRC))
}

// lookup returns the cached bytes for newCRC, or (nil, false) if absent.
func (c *cache) lookup(newCRC uint32) ([]byte, bool, error) {
	b, err := os.ReadFile(c.path(newCRC)) //nolint:gosec // path built from a hex CRC, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("blockapply: reading cache entry: %w", err)
	}
	return b, true, nil
}

// promote durably stores data under newCRC's cache filename.
func (c *cache) promote(newCRC uint32, data []byte) error {
	return atomic.WriteFile(c.path(newCRC), bytes.NewReader(data))
}
