//go:build unit

package queries_test

import (
	"encoding/base64"
	"testing"
	"time"

	"hotel-reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor(t *testing.T) {
	t.Run("round trip at microsecond precision", func(t *testing.T) {
		ts := time.Date(2030, 5, 1, 10, 0, 0, 123456789, time.UTC)
		id := uuid.New()

		gotTime, gotID, err := queries.DecodeAfterCursor(queries.EncodeAfterCursor(ts, id))
		require.NoError(t, err)
		assert.True(t, ts.Truncate(time.Microsecond).Equal(gotTime))
		assert.Equal(t, id, gotID)
	})

	t.Run("rejects malformed cursors", func(t *testing.T) {
		for _, c := range []string{
			"",
			"%%%",
			base64.URLEncoding.EncodeToString([]byte("v2:1-" + uuid.NewString())),
			base64.URLEncoding.EncodeToString([]byte("v1:abc-" + uuid.NewString())),
			base64.URLEncoding.EncodeToString([]byte("v1:123-not-a-uuid")),
			base64.URLEncoding.EncodeToString([]byte("v1:123")),
		} {
			_, _, err := queries.DecodeAfterCursor(c)
			assert.Error(t, err, c)
		}
	})
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, queries.ValidateLimit(0))
	assert.Equal(t, 20, queries.ValidateLimit(-5))
	assert.Equal(t, 1, queries.ValidateLimit(1))
	assert.Equal(t, 200, queries.ValidateLimit(200))
	assert.Equal(t, 200, queries.ValidateLimit(201))
}
