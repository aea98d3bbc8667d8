package ticket

import "github.com/google/uuid"

// DefaultKeyPrefix namespaces session keys so they cannot collide with
// unrelated entries sharing the same cache backend.
const DefaultKeyPrefix = "ticket:"

// newSessionKey generates a fresh session key. The random part carries
// 128 bits of entropy, so collisions are treated as negligible rather
// than handled as an error case. Keys are generated once and never
// reused.
func newSessionKey(prefix string) string {
	return prefix + uuid.NewString()
}
