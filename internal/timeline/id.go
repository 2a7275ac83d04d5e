package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// newID builds an identifier of the form <prefix>_<unixts>_<8 hex>.
// The timestamp keeps ids roughly sortable by creation time; the random
// suffix keeps them unique even within the same second and guarantees
// an id is never reused after prune or drop.
func newID(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s", prefix, now.Unix(), suffix)
}
