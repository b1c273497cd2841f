package integration

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domainintegration "github.com/pharmadash/backend/internal/domain/integration"
)

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := domainintegration.ParseUpstreamDate(value)
	require.NoError(t, err)
	return parsed
}
