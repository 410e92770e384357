package entity

import (
	"fmt"
	"time"
)

// GenerateUniqueID builds the human-readable profile ID: role prefix, unix
// milliseconds and a zero-padded random suffix in [0, 999]. Collisions within
// the same millisecond are possible and not checked.
func GenerateUniqueID(role Role, now time.Time, intn func(n int) int) string {
	return fmt.Sprintf("%s%d%03d", role.IDPrefix(), now.UnixMilli(), intn(1000))
}
