package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_UseServesMetricsOnEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	p := NewPrometheus(NewPrometheusOptions{
		Subsystem:               "metrics_test",
		MetricsList:             []*Metric{MetricsBusinessProcess},
		ReqCntURLLabelMappingFn: func(c *gin.Context) string { return c.FullPath() },
	})
	p.Use(r)
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	ObserveBusinessProcess("webhook_stripe", "handled", time.Now())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, `metrics_test_req_total{code="204",method="GET",ref="",url="/ping"} 1`)
	require.Contains(t, body, `metrics_test_bp_dur_count{subtype="handled",type="webhook_stripe"} 1`)
}
