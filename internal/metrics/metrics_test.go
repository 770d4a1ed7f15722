package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesCollectors(t *testing.T) {
	DayMutations.WithLabelValues("tracking", OutcomeOK).Inc()
	BillingMembers.WithLabelValues(OutcomeError).Inc()
	RPCRequests.WithLabelValues("/mealledger.v1.LedgerService/GetBalance", "ok").Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`mealledger_day_mutations_total{cause="tracking",outcome="ok"}`,
		`mealledger_billing_members_total{outcome="error"}`,
		`mealledger_rpc_requests_total{code="ok",procedure="/mealledger.v1.LedgerService/GetBalance"}`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
