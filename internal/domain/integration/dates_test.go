package integration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUpstreamDate(t *testing.T) {
	t.Run("parses a well-formed timestamp", func(t *testing.T) {
		parsed, err := ParseUpstreamDate("05.06.2025 21:31:26")
		require.NoError(t, err)

		assert.Equal(t, 2025, parsed.Year())
		assert.Equal(t, time.June, parsed.Month())
		assert.Equal(t, 5, parsed.Day())
		assert.Equal(t, 21, parsed.Hour())
		assert.Equal(t, 31, parsed.Minute())
		assert.Equal(t, 26, parsed.Second())
	})

	t.Run("tolerates surrounding whitespace", func(t *testing.T) {
		parsed, err := ParseUpstreamDate("  01.01.2025 00:00:00  ")
		require.NoError(t, err)
		assert.Equal(t, 1, parsed.Day())
	})

	t.Run("rejects malformed values", func(t *testing.T) {
		cases := []string{
			"",
			"05.06.2025",
			"2025-06-05 21:31:26",
			"05/06/2025 21:31:26",
			"aa.06.2025 21:31:26",
			"05.13.2025 21:31:26",
			"32.01.2025 21:31:26",
			"05.06.2025 24:00:00",
			"31.02.2025 10:00:00",
		}
		for _, value := range cases {
			_, err := ParseUpstreamDate(value)
			assert.Error(t, err, "value %q should not parse", value)
		}
	})
}

func TestEffectiveOrderDate(t *testing.T) {
	t.Run("prefers paid_at over created_at", func(t *testing.T) {
		paidAt := "10.06.2025 12:00:00"
		date, err := EffectiveOrderDate(&paidAt, "05.06.2025 09:00:00")
		require.NoError(t, err)
		assert.Equal(t, 10, date.Day())
	})

	t.Run("falls back to created_at when paid_at is absent", func(t *testing.T) {
		date, err := EffectiveOrderDate(nil, "05.06.2025 09:00:00")
		require.NoError(t, err)
		assert.Equal(t, 5, date.Day())
	})

	t.Run("falls back to created_at when paid_at is blank", func(t *testing.T) {
		blank := "   "
		date, err := EffectiveOrderDate(&blank, "05.06.2025 09:00:00")
		require.NoError(t, err)
		assert.Equal(t, 5, date.Day())
	})

	t.Run("fails when paid_at is present but malformed", func(t *testing.T) {
		bad := "garbage"
		_, err := EffectiveOrderDate(&bad, "05.06.2025 09:00:00")
		assert.Error(t, err)
	})
}
