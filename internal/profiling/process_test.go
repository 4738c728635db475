package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProcessSamplerCaches(t *testing.T) {
	s := NewProcessSampler(time.Hour)
	first := s.Sample()
	assert.NotZero(t, first.HeapBytes)
	assert.Positive(t, first.Goroutines)

	second := s.Sample()
	assert.Equal(t, first, second, "sample inside the interval must be cached")
}

func TestProcessSamplerRefreshes(t *testing.T) {
	s := NewProcessSampler(0)
	s.Sample()
	last := s.last
	time.Sleep(time.Millisecond)
	s.Sample()
	assert.True(t, s.last.After(last))
}
