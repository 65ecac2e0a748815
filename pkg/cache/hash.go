package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data (64 characters). Datasets and
// snapshots are hashed in their JSON form before they are used in keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON streams v's JSON encoding into the digest. Map keys are encoded
// in sorted order, so equal settings hash equally. A value that cannot be
// encoded hashes like null.
func HashJSON(v any) string {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(v); err != nil {
		h.Reset()
		h.Write([]byte("null\n"))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// hashKey builds "prefix:digest(parts)".
func hashKey(prefix string, parts ...any) string {
	return prefix + ":" + HashJSON(parts)
}
