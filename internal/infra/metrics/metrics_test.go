package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestCounters(t *testing.T) {
	t.Parallel()

	m := New()
	m.BetCreated()
	m.BetCreated()
	m.BetConflict()
	m.HTTPRequest("GET", "/bets", "200")

	if got := testutil.ToFloat64(m.betsCreated); got != 2 {
		t.Fatalf("bets created: got %v", got)
	}
	if got := testutil.ToFloat64(m.betConflicts); got != 1 {
		t.Fatalf("conflicts: got %v", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/bets", "200")); got != 1 {
		t.Fatalf("http requests: got %v", got)
	}
}

func TestSetTotalsAndExposition(t *testing.T) {
	t.Parallel()

	m := New()
	m.SetTotals(Totals{
		Count:     3,
		Available: decimal.RequireFromString("150"),
		Retained:  decimal.RequireFromString("50"),
		Balance:   decimal.RequireFromString("200"),
		Stake:     decimal.RequireFromString("100"),
	})

	if got := testutil.ToFloat64(m.availableSum); got != 150 {
		t.Fatalf("available sum: got %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{"betledger_bets_total 3", "betledger_bets_stake_sum 100"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("exposition missing %q", want)
		}
	}
}
