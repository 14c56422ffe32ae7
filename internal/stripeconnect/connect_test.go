package stripeconnect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkovach/encore-cli/internal/api"
)

func newTestService(server *httptest.Server) *Service {
	client := api.NewClient(server.URL, func() (string, error) { return "test-token", nil }, 5*time.Second, nil)
	return NewService(client)
}

func TestStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stripe/connect/status" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Status{Onboarded: true, PayoutsEnabled: true, AccountID: "acct_1"})
	}))
	defer server.Close()

	st, err := newTestService(server).Status(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !st.Onboarded || !st.PayoutsEnabled || st.AccountID != "acct_1" {
		t.Errorf("unexpected status: %+v", st)
	}
}

func TestOnboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/stripe/connect/onboard" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Link{URL: "https://connect.stripe.com/setup/1"})
	}))
	defer server.Close()

	link, err := newTestService(server).Onboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link.URL != "https://connect.stripe.com/setup/1" {
		t.Errorf("unexpected link: %q", link.URL)
	}
}
