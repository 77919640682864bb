package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordPaymentNotification(t *testing.T) {
	before := testutil.ToFloat64(paymentNotificationsTotal.WithLabelValues("paid", "true"))
	RecordPaymentNotification("paid", true)
	after := testutil.ToFloat64(paymentNotificationsTotal.WithLabelValues("paid", "true"))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestRecordQuotaRejected(t *testing.T) {
	RecordQuotaRejected("gallery", "economy")
	if got := testutil.ToFloat64(uploadQuotaRejectedTotal.WithLabelValues("gallery", "economy")); got < 1 {
		t.Fatalf("expected quota counter to be recorded, got %v", got)
	}
}
