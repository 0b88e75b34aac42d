package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOffsetMeta(t *testing.T) {
	tests := []struct {
		name           string
		offset, limit  int
		total          int64
		page, pages    int
		expectedLimit  int
		expectedOffset int
	}{
		{"first page", 0, 50, 120, 1, 3, 50, 0},
		{"third page", 100, 50, 120, 3, 3, 50, 100},
		{"empty", 0, 50, 0, 1, 0, 50, 0},
		{"zero limit", 5, 0, 3, 6, 3, 1, 5},
		{"negative offset", -10, 20, 40, 1, 2, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewOffsetMeta(tt.offset, tt.limit, tt.total)
			assert.Equal(t, tt.page, meta.Page)
			assert.Equal(t, tt.pages, meta.TotalPages)
			assert.Equal(t, tt.expectedLimit, meta.Limit)
			assert.Equal(t, tt.expectedOffset, meta.Offset)
			assert.Equal(t, tt.total, meta.Total)
		})
	}
}

func TestTooManyRequestsRoundsRetryAfterUp(t *testing.T) {
	rec := httptest.NewRecorder()
	TooManyRequests(rec, 1500*time.Millisecond)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "Too many requests", body.Message)

	rec = httptest.NewRecorder()
	TooManyRequests(rec, 0)
	assert.Empty(t, rec.Header().Get("Retry-After"))
}

func TestServiceUnavailableDefaultsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	ServiceUnavailable(rec, "")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Service unavailable", body.Message)
}
