package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveRequest("GET", "/food/my/{donorId}", 200, 10*time.Millisecond)
	c.ObserveRequest("GET", "/food/my/{donorId}", 200, 12*time.Millisecond)
	c.ObserveRequest("POST", "/login", 401, time.Millisecond)
	c.ObserveRequest("POST", "/login", 0, time.Second)

	if got := counterValue(t, reg, "foodshare_api_requests_total", map[string]string{"route": "/food/my/{donorId}", "status": "200"}); got != 2 {
		t.Errorf("requests_total = %v, want 2", got)
	}
	if got := counterValue(t, reg, "foodshare_api_requests_total", map[string]string{"route": "/login", "status": "401"}); got != 1 {
		t.Errorf("requests_total{401} = %v, want 1", got)
	}
	if got := counterValue(t, reg, "foodshare_api_transport_failures_total", map[string]string{"route": "/login"}); got != 1 {
		t.Errorf("transport_failures_total = %v, want 1", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg).ObserveRequest("GET", "/requests/all", 200, time.Millisecond)

	var ctx fasthttp.RequestCtx
	ctx.Request.SetRequestURI("/metrics")
	Handler(reg)(&ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status = %d", ctx.Response.StatusCode())
	}
	if !strings.Contains(string(ctx.Response.Body()), "foodshare_api_requests_total") {
		t.Fatalf("metrics body missing counter: %s", ctx.Response.Body())
	}
}
