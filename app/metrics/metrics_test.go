package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordFeedLoad(t *testing.T) {
	tests := []struct {
		name   string
		feed   string
		count  int
		err    error
		status string
	}{
		{name: "success", feed: "metrics-ok", count: 12, status: "success"},
		{name: "failure", feed: "metrics-fail", err: errors.New("boom"), status: "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(FeedLoadsTotal.WithLabelValues(tt.feed, tt.status))

			assert.NotPanics(t, func() {
				RecordFeedLoad(tt.feed, 150*time.Millisecond, tt.count, tt.err)
			})

			after := testutil.ToFloat64(FeedLoadsTotal.WithLabelValues(tt.feed, tt.status))
			assert.Equal(t, before+1, after)
		})
	}

	assert.Equal(t, float64(12), testutil.ToFloat64(BillsLoaded.WithLabelValues("metrics-ok")))
	assert.Equal(t, float64(0), testutil.ToFloat64(BillsLoaded.WithLabelValues("metrics-fail")))
}

func TestRecordFilterMutation(t *testing.T) {
	applied := testutil.ToFloat64(FilterMutationsTotal.WithLabelValues("applied"))
	notFound := testutil.ToFloat64(FilterMutationsTotal.WithLabelValues("not_found"))

	RecordFilterMutation(true)
	RecordFilterMutation(true)
	RecordFilterMutation(false)

	assert.Equal(t, applied+2, testutil.ToFloat64(FilterMutationsTotal.WithLabelValues("applied")))
	assert.Equal(t, notFound+1, testutil.ToFloat64(FilterMutationsTotal.WithLabelValues("not_found")))
}

func TestUpdateSessionsActive(t *testing.T) {
	UpdateSessionsActive(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(FilterSessionsActive))

	UpdateSessionsActive(0)
	assert.Equal(t, float64(0), testutil.ToFloat64(FilterSessionsActive))
}
