package profiling

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	stop := Track("test.section")
	time.Sleep(time.Millisecond)
	stop()
	Track("test.section")()

	snap := Snapshot()
	require.Contains(t, snap, "test.section")
	assert.GreaterOrEqual(t, snap["test.section"], time.Millisecond)

	ResetFrame()
	assert.Empty(t, Snapshot())
}

func TestResetFrameFlushesCounters(t *testing.T) {
	ResetFrame()
	before := testutil.ToFloat64(sectionSeconds.WithLabelValues("test.flush"))
	mu.Lock()
	frameTotals["test.flush"] = 250 * time.Millisecond
	mu.Unlock()
	ResetFrame()
	after := testutil.ToFloat64(sectionSeconds.WithLabelValues("test.flush"))
	assert.InDelta(t, 0.25, after-before, 1e-9)
}

func TestTopN(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["a"] = 4200 * time.Microsecond
	frameTotals["b"] = 2 * time.Millisecond
	frameTotals["c"] = 100 * time.Microsecond
	mu.Unlock()

	assert.Equal(t, "a:4.2ms, b:2ms", TopN(2))
	assert.Equal(t, "a:4.2ms, b:2ms, c:0.1ms", TopN(10))
	assert.Equal(t, "", TopN(0))
	ResetFrame()
}

func TestObserveFrame(t *testing.T) {
	before := testutil.ToFloat64(slowFrames)
	assert.False(t, ObserveFrame(10*time.Millisecond, 16*time.Millisecond))
	assert.True(t, ObserveFrame(20*time.Millisecond, 16*time.Millisecond))
	assert.False(t, ObserveFrame(time.Second, 0))
	assert.Equal(t, before+1, testutil.ToFloat64(slowFrames))
}

func TestHandler(t *testing.T) {
	ObserveFrame(time.Millisecond, 0)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "m4k_frame_seconds")
}
