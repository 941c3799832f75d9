package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountersAccumulate(t *testing.T) {
	before := testutil.ToFloat64(bookingsCreated.WithLabelValues("bulk"))
	BookingsCreated("bulk", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(bookingsCreated.WithLabelValues("bulk")))

	before = testutil.ToFloat64(payments.WithLabelValues("failed"))
	Payment("failed")
	assert.Equal(t, before+1, testutil.ToFloat64(payments.WithLabelValues("failed")))

	before = testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	CacheLookup("hit")
	assert.Equal(t, before+1, testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))
}
