package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// idSuffixLen is the number of random characters appended to a generated id.
const idSuffixLen = 9

// newPlaceID returns an id of the form place-<unix millis>-<9 random chars>.
// The random part is taken from a v4 UUID so collisions within the same
// millisecond are negligible; the primary key still rejects any that occur.
func newPlaceID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:idSuffixLen]
	return "place-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix
}
