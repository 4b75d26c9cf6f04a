package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveLoad(t *testing.T) {
	okBefore := testutil.ToFloat64(DatasetLoads.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(DatasetLoads.WithLabelValues("error"))

	ObserveLoad(559, nil)
	ObserveLoad(0, errors.New("missing file"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(DatasetLoads.WithLabelValues("ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(DatasetLoads.WithLabelValues("error")))
	assert.Equal(t, 559.0, testutil.ToFloat64(DatasetRows), "failed loads leave the gauge alone")
}

func TestObserveRenderCountsErrors(t *testing.T) {
	before := testutil.ToFloat64(RenderErrors.WithLabelValues("chart", "joint-hex"))

	ObserveRender("chart", "joint-hex", time.Now(), nil)
	ObserveRender("chart", "joint-hex", time.Now(), errors.New("boom"))

	assert.Equal(t, before+1, testutil.ToFloat64(RenderErrors.WithLabelValues("chart", "joint-hex")))
}

func TestObserveHTTP(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/healthz", "200"))
	ObserveHTTP("GET", "/healthz", 200, 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/healthz", "200")))
}
