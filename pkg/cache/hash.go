package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds "kind:sha256(json(parts))".
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", kind, hex.EncodeToString(hash[:]))
}

// Hash returns the hex SHA-256 of data. The pipeline uses it to identify
// instance files.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
