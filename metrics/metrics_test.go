package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordIssuance(t *testing.T) {
	before := testutil.ToFloat64(ticketsIssuedTotal.WithLabelValues(OUTCOME_DUPLICATE))
	RecordIssuance(OUTCOME_DUPLICATE)
	assert.Equal(t, before+1, testutil.ToFloat64(ticketsIssuedTotal.WithLabelValues(OUTCOME_DUPLICATE)))
}

func TestRecordDispatch(t *testing.T) {
	delivered := testutil.ToFloat64(dispatchTotal.WithLabelValues("delivered"))
	failed := testutil.ToFloat64(dispatchTotal.WithLabelValues("failed"))

	RecordDispatch(true)
	RecordDispatch(false)
	RecordDispatch(false)

	assert.Equal(t, delivered+1, testutil.ToFloat64(dispatchTotal.WithLabelValues("delivered")))
	assert.Equal(t, failed+2, testutil.ToFloat64(dispatchTotal.WithLabelValues("failed")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	ObserveStep("render", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tickets_issuance_step_duration_seconds")
}
