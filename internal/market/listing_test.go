package market

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMineReturnsNilWhenAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	l, err := newTestService(server).Mine(context.Background())
	if err != nil {
		t.Fatalf("a missing listing is not an error: %v", err)
	}
	if l != nil {
		t.Errorf("expected nil listing, got %+v", l)
	}
}

func TestBrowse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/market" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]Listing{
			{ID: "l1", Title: "Amp", Price: 250},
			{ID: "l2", Title: "Pedal", Price: 80},
		})
	}))
	defer server.Close()

	listings, err := newTestService(server).Browse(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listings) != 2 || listings[0].ID != "l1" {
		t.Errorf("unexpected listings: %+v", listings)
	}
}

func TestCheckout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/market/checkout" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["listingId"] != "l1" {
			t.Errorf("unexpected body: %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(CheckoutSession{URL: "https://checkout.stripe.com/pay/cs_1"})
	}))
	defer server.Close()

	session, err := newTestService(server).Checkout(context.Background(), "l1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.URL != "https://checkout.stripe.com/pay/cs_1" {
		t.Errorf("unexpected checkout URL: %q", session.URL)
	}
}

func TestFormFromListing(t *testing.T) {
	form := formFromListing(nil)
	if form.Status != "active" {
		t.Errorf("new listings must default to active, got %q", form.Status)
	}

	form = formFromListing(&Listing{Title: "Amp", Price: 99.9, Status: "sold"})
	if form.Price != "99.90" {
		t.Errorf("price must render with two decimals, got %q", form.Price)
	}
	if form.Status != "sold" {
		t.Errorf("unexpected status: %q", form.Status)
	}
}
