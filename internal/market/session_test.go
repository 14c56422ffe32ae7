package market

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkovach/encore-cli/internal/api"
	"github.com/dkovach/encore-cli/internal/validate"
)

func newTestService(server *httptest.Server) *Service {
	client := api.NewClient(server.URL, func() (string, error) { return "test-token", nil }, 5*time.Second, nil)
	return NewService(client)
}

func TestSaveCreatesWithPost(t *testing.T) {
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/market/me" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotMethod = r.Method

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.MultipartForm.Value["title"]; len(got) != 1 || got[0] != "New amp" {
			t.Errorf("unexpected title: %v", got)
		}
		if got := len(r.MultipartForm.File["photos"]); got != 1 {
			t.Errorf("expected 1 photo part, got %d", got)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Listing{
			ID:     "listing-1",
			Title:  "New amp",
			Price:  250,
			Photos: []string{"https://cdn/p1.jpg"},
			Status: "active",
		})
	}))
	defer server.Close()

	sess, err := newTestService(server).NewEditSession(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sess.Close()

	if !sess.IsCreate() {
		t.Fatal("expected create mode when no listing exists")
	}

	sess.Form.Title = "New amp"
	sess.Form.Description = "Fender tube amp"
	sess.Form.Price = "250"
	sess.Form.Location = "Austin"
	if added, rejected := sess.Photos.AddFiles([]string{writeMediaFile(t, "p1.png", []byte("png"))}); added != 1 {
		t.Fatalf("attach failed: %v", rejected)
	}

	saved, err := sess.Save(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("create must POST, got %s", gotMethod)
	}
	if saved.ID != "listing-1" {
		t.Errorf("unexpected saved listing: %+v", saved)
	}

	// The session re-derived from the response: the uploaded photo is
	// now an existing item and a further save would update.
	if sess.IsCreate() {
		t.Error("session must leave create mode after a successful save")
	}
	if got := len(sess.Photos.Pending()); got != 0 {
		t.Errorf("expected no pending photos after rehydrate, got %d", got)
	}
	if sess.Photos.Len() != 1 {
		t.Errorf("expected the server photo in place, got %d items", sess.Photos.Len())
	}
}

func TestSaveUpdatesWithPut(t *testing.T) {
	existing := Listing{
		ID:     "listing-1",
		Title:  "Old amp",
		Price:  100,
		Photos: []string{"https://cdn/p1.jpg", "https://cdn/p2.jpg"},
		Status: "active",
	}
	var gotMethod string
	var gotManifest []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(existing)
			return
		}
		gotMethod = r.Method
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if v := r.MultipartForm.Value["photosToDelete"]; len(v) == 1 {
			json.Unmarshal([]byte(v[0]), &gotManifest)
		}

		updated := existing
		updated.Photos = []string{"https://cdn/p2.jpg"}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}))
	defer server.Close()

	sess, err := newTestService(server).NewEditSession(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sess.Close()

	if sess.IsCreate() {
		t.Fatal("expected update mode for an existing listing")
	}
	if sess.Form.Price != "100.00" {
		t.Errorf("form must carry the server price, got %q", sess.Form.Price)
	}

	if err := sess.Photos.RemoveAt(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := sess.Save(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("update must PUT, got %s", gotMethod)
	}
	if len(gotManifest) != 1 || gotManifest[0] != "https://cdn/p1.jpg" {
		t.Errorf("unexpected deletion manifest: %v", gotManifest)
	}
	if sess.Photos.HasDeletion() {
		t.Error("manifest must be cleared after a successful save")
	}
}

func TestSaveFailureLeavesStateUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Price is invalid"})
	}))
	defer server.Close()

	sess, err := newTestService(server).NewEditSession(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sess.Close()

	sess.Form.Title = "New amp"
	sess.Form.Description = "desc"
	sess.Form.Price = "250"
	sess.Form.Location = "Austin"
	sess.Photos.AddFiles([]string{writeMediaFile(t, "p1.png", []byte("png"))})

	_, err = sess.Save(context.Background())
	if err == nil {
		t.Fatal("expected the server rejection to surface")
	}
	if got := api.StatusOf(err); got != http.StatusBadRequest {
		t.Errorf("expected a 400, got %d (%v)", got, err)
	}

	// Nothing was consumed: the pending photo and the form survive so
	// the user can retry without re-entering anything.
	if got := len(sess.Photos.Pending()); got != 1 {
		t.Errorf("expected the pending photo kept, got %d", got)
	}
	if sess.Form.Title != "New amp" {
		t.Errorf("form must be untouched, got %q", sess.Form.Title)
	}
	if !sess.IsCreate() {
		t.Error("session must stay in create mode after a failed save")
	}
}

func TestSaveBlocksInvalidForm(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		requests++
	}))
	defer server.Close()

	sess, err := newTestService(server).NewEditSession(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sess.Close()

	// Title, photos, and a positive price are all missing.
	_, err = sess.Save(context.Background())
	if err == nil {
		t.Fatal("expected validation errors")
	}
	var fieldErrs validate.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %T", err)
	}
	for _, field := range []string{"title", "description", "location", "price", "photos"} {
		if _, ok := fieldErrs[field]; !ok {
			t.Errorf("expected an error for %s", field)
		}
	}
	if requests != 0 {
		t.Errorf("invalid form must not reach the network, saw %d requests", requests)
	}
}

func TestSaveRefusesConcurrentSave(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	sess, err := newTestService(server).NewEditSession(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sess.Close()

	sess.saving = true
	if _, err := sess.Save(context.Background()); err == nil {
		t.Fatal("expected the in-flight guard to reject the save")
	}
}
