package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := New(Config{Namespace: "geodiscover"})
	require.NoError(t, err)

	return c
}

func TestNewRequiresNamespace(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoNamespace)
}

func TestCounters(t *testing.T) {
	c := newCollector(t)
	c.Verdict("parallel", "holds", "symbolic")
	c.Verdict("parallel", "holds", "symbolic")
	c.Verdict("collinear", "does-not-hold", "numeric")
	c.CacheHit()
	c.CacheMiss()
	c.CacheMiss()
	c.ArchiveHit()
	c.Restart()
	c.ProofLatency(3 * time.Millisecond)
	c.Run("ok", 10*time.Millisecond, 4)
	c.Run("changed", time.Millisecond, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.verdicts.WithLabelValues("parallel", "holds", "symbolic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.cache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cache.WithLabelValues("archive")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.restarts))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.statements))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("changed")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.proofLatency))
}

func TestHandlerScrape(t *testing.T) {
	c := newCollector(t)
	c.Verdict("equal-length", "holds", "symbolic")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "geodiscover_prover_verdicts_total")
	assert.Contains(t, body, `kind="equal-length"`)
	assert.Contains(t, body, "geodiscover_engine_restarts_total")
}

func TestSeparateRegistries(t *testing.T) {
	// Two collectors with the same namespace must not panic on registration.
	a, b := newCollector(t), newCollector(t)
	assert.NotSame(t, a.Registry(), b.Registry())
}
