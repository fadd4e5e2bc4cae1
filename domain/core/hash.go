package core

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
)

// StreamSeed folds a base seed, a stream name and a version into a 64-bit
// seed. Equal inputs always give the same seed.
func StreamSeed(baseSeed uint64, name string, version uint64) uint64 {
	h := sha256.New()
	h.Write([]byte(strconv.FormatUint(baseSeed, 10)))
	h.Write([]byte{0})
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatUint(version, 10)))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum[:8])
}
