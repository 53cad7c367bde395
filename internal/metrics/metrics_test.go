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

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/contacts/:id", "404"))

	RecordHTTPRequest("get", "/contacts/:id", http.StatusNotFound, 10*time.Millisecond)

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/contacts/:id", "404"))
	assert.Equal(t, before+1, after)
}

func TestRequestStarted(t *testing.T) {
	base := testutil.ToFloat64(httpInFlight)

	done := RequestStarted()
	assert.Equal(t, base+1, testutil.ToFloat64(httpInFlight))
	done()
	assert.Equal(t, base, testutil.ToFloat64(httpInFlight))
}

func TestHandler(t *testing.T) {
	MailSent.WithLabelValues("ok").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "contacts_backend_mail_sent_total")
}
