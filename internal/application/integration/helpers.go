package integration

import (
	"strconv"
	"time"

	"github.com/pharmadash/backend/internal/domain/integration"
)

// upstreamID renders the upstream numeric ID as the string key used
// for upserts.
func upstreamID(id int) string {
	return strconv.Itoa(id)
}

// parseOptionalDate parses an optional upstream timestamp, returning nil
// when the value is absent or unparsable. Optional timestamps never reject
// an order; only the effective order date is load-bearing.
func parseOptionalDate(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, err := integration.ParseUpstreamDate(*value)
	if err != nil {
		return nil
	}
	return &t
}
