package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector(t *testing.T) {
	c := NewCollector()

	c.RecordTransfer("DIRECT_TRANSFER", OutcomeSuccess, "", 20*time.Millisecond)
	c.RecordTransfer("DIRECT_TRANSFER", OutcomeDenied, "INSUFFICIENT_FUNDS", 5*time.Millisecond)
	c.RecordTransfer("DIRECT_TRANSFER", OutcomeDenied, "INSUFFICIENT_FUNDS", 5*time.Millisecond)
	c.RecordRateRefresh(true, time.Unix(1_700_000_000, 0))
	c.RecordRateRefresh(false, time.Time{})
	c.RecordOutboxPublish(true)
	c.RecordCommand("processed")

	if got := testutil.ToFloat64(c.transfers.WithLabelValues("DIRECT_TRANSFER", OutcomeDenied, "INSUFFICIENT_FUNDS")); got != 2 {
		t.Errorf("denied transfers = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.rateSnapshotTime); got != 1_700_000_000 {
		t.Errorf("snapshot time = %v", got)
	}
	if got := testutil.ToFloat64(c.rateRefreshes.WithLabelValues(OutcomeFailure)); got != 1 {
		t.Errorf("failed refreshes = %v, want 1", got)
	}

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "transfers_total") {
		t.Fatalf("metrics endpoint returned %d:\n%s", rec.Code, rec.Body.String())
	}
}

func TestCollectorsAreIndependent(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.RecordOutboxPublish(false)
	if got := testutil.ToFloat64(b.outboxPublished.WithLabelValues(OutcomeFailure)); got != 0 {
		t.Fatalf("collectors share state: %v", got)
	}
}
