package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainCounters(t *testing.T) {
	c := New()

	c.BadgeAwarded("Club Explorer")
	c.BadgeAwarded("Club Explorer")
	c.EnrollmentAttempt("capacity_exceeded")
	c.BlobRolledBack("media")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.badgesAwarded.WithLabelValues("Club Explorer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.enrollmentAttempts.WithLabelValues("capacity_exceeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.blobRollbacks.WithLabelValues("media")))
}

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	c := New()

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/clubs/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/clubs/1", "/clubs/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(c.httpRequests.WithLabelValues(http.MethodGet, "/clubs/{id}", "418")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	c := New()
	c.BadgeAwarded("Forum Pioneer")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `clubhub_badges_awarded_total{badge="Forum Pioneer"} 1`)
}
