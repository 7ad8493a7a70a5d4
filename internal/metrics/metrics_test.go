package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Upload(t *testing.T) {
	r := NewRecorder()

	r.Upload(ResultSuccess)
	r.Upload(ResultSuccess)
	r.Upload(ResultBadRequest)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.uploads.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.uploads.WithLabelValues(ResultBadRequest)))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.UploadSize(1024)
	r.Request("/api/upload", http.MethodPost, http.StatusOK, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "imagerelay_upload_size_bytes_count 1")
	assert.Contains(t, body, `imagerelay_http_request_duration_seconds_count{method="POST",route="/api/upload",status="200"} 1`)
}
