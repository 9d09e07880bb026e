package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHelpersIncrement(t *testing.T) {
	before := promtestutil.ToFloat64(pageReads.WithLabelValues("ok"))
	RecordPageRead("ok")
	assert.Equal(t, before+1, promtestutil.ToFloat64(pageReads.WithLabelValues("ok")))

	beforeHit := promtestutil.ToFloat64(unitCacheLookups.WithLabelValues("hit"))
	RecordUnitCacheLookup(true)
	assert.Equal(t, beforeHit+1, promtestutil.ToFloat64(unitCacheLookups.WithLabelValues("hit")))

	beforeDemote := promtestutil.ToFloat64(resyncPhases.WithLabelValues("demote", "error"))
	RecordResyncPhase("demote", "error")
	assert.Equal(t, beforeDemote+1, promtestutil.ToFloat64(resyncPhases.WithLabelValues("demote", "error")))
}

func TestHandlerExposesNamespace(t *testing.T) {
	RecordCourseCompleted()
	ObserveHTTPRequest(http.MethodGet, "", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "nurture_progress_courses_completed_total"))
	assert.True(t, strings.Contains(body, `route="unmatched"`))
}
