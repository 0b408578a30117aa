package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveDecision(t *testing.T) {
	m := New()
	m.ObserveDecision("allowed")
	m.ObserveDecision("allowed")
	m.ObserveDecision("forbidden_role")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AccessDecisions.WithLabelValues("allowed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessDecisions.WithLabelValues("forbidden_role")))
}

func TestObserveJob(t *testing.T) {
	m := New()
	m.ObserveJob("briefs", 4, nil)
	m.ObserveJob("subscriptions", 0, errors.New("db caída"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues("briefs", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRuns.WithLabelValues("subscriptions", "failure")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.NotificationsSent.WithLabelValues("briefs")))
}

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/api/products/:id", 404, 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/products/:id", "404")))
}

func TestNew_RegistrosIndependientes(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
