package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	c.Report(true)
	c.Report(false)
	c.Report(true)
	assert.Equal(t, float64(2), testutil.ToFloat64(c.reportsTotal.WithLabelValues("true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.reportsTotal.WithLabelValues("false")))

	c.Translation("judged", time.Second)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.translationsTotal.WithLabelValues("judged")))

	c.Moderation("warn")
	assert.Equal(t, float64(1), testutil.ToFloat64(c.moderationTotal.WithLabelValues("warn")))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveHTTP("GET", "/feed", "200", time.Millisecond)
		c.Translation("failed", time.Second)
		c.Report(true)
		c.Moderation("delete_post")
		c.Notification("push", false)
		c.StoreMutation("pawsay_users")
	})
}
