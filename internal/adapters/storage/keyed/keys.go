package keyed

import (
	"time"

	"github.com/PabloGalante/verba/internal/domain"
)

// timeLayout is fixed-width (nanosecond precision, UTC) so rendered
// timestamps sort lexicographically in chronological order. RFC3339Nano
// would not do: it trims trailing zeros.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const (
	convKeyPrefix = "CONV#"
	msgKeyPrefix  = "MSG#"
	metadataSK    = "METADATA"

	// recencyPK is the constant partition value grouping every conversation
	// on the recency index.
	recencyPK = "CONVS"
)

func conversationPK(id domain.ConversationID) string {
	return convKeyPrefix + string(id)
}

func messageSK(ts time.Time, id domain.MessageID) string {
	return msgKeyPrefix + formatTime(ts) + "#" + string(id)
}

func recencySK(ts time.Time, id domain.ConversationID) string {
	return formatTime(ts) + "#" + string(id)
}

func formatTime(ts time.Time) string {
	return ts.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
