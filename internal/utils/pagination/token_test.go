package pagination_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchdesk/tailor_shop_app/internal/utils/pagination"
)

func TestDateBasedToken_RoundTrip(t *testing.T) {
	original := time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC)

	token := pagination.EncodeDateBasedToken(original)
	require.NotEmpty(t, token)

	decoded, err := pagination.DecodeDateBasedToken(token)
	require.NoError(t, err)
	assert.True(t, original.Equal(decoded))
}

func TestDecodeDateBasedToken_InvalidBase64(t *testing.T) {
	_, err := pagination.DecodeDateBasedToken("not-base64!!!")
	assert.Error(t, err)
}

func TestDecodeDateBasedToken_InvalidTimestamp(t *testing.T) {
	_, err := pagination.DecodeDateBasedToken("bm90LWEtdGltZXN0YW1w") // "not-a-timestamp"
	assert.Error(t, err)
}
