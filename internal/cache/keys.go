package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// JobResultKey is the cache key for a completed job's normalized result.
func JobResultKey(jobID uuid.UUID) string {
	return fmt.Sprintf("job:result:%s", jobID)
}
