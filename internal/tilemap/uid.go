package tilemap

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeUID is the map's stable external name: a sha256 digest over the
// raw bytes of the descriptor entry followed by the binary entry,
// rendered as lowercase hex. Nothing else contributes.
func ComputeUID(descriptor, binary []byte) string {
	h := sha256.New()
	h.Write(descriptor)
	h.Write(binary)
	return hex.EncodeToString(h.Sum(nil))
}
