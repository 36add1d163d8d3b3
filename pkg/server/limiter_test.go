package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiterPerIPBuckets(t *testing.T) {
	l := newIPRateLimiter(1, 1)

	assert.True(t, l.getLimiter("10.0.0.1").Allow())
	assert.False(t, l.getLimiter("10.0.0.1").Allow())

	// A different IP gets its own, unexhausted bucket.
	assert.True(t, l.getLimiter("10.0.0.2").Allow())
}

func TestIPRateLimiterReusesExistingBucket(t *testing.T) {
	l := newIPRateLimiter(1, 5)

	first := l.getLimiter("10.0.0.3")
	second := l.getLimiter("10.0.0.3")
	assert.Same(t, first, second)
}
