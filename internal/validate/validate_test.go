package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dkovach/encore-cli/internal/media"
)

func TestPrice(t *testing.T) {
	valid := []string{"99", "149.99", "0.01", "5.5", " 12 "}
	for _, s := range valid {
		if err := Price(s); err != nil {
			t.Errorf("Price(%q) = %v, want nil", s, err)
		}
	}

	invalid := []string{"", "abc", "-5", "0", "0.00", "12.345", "1,200", "$5", "1.2.3"}
	for _, s := range invalid {
		if err := Price(s); err == nil {
			t.Errorf("Price(%q) = nil, want error", s)
		}
	}
}

func TestSanitizePriceInput(t *testing.T) {
	cases := map[string]string{
		"$1,200.50": "1200.50",
		"abc":       "",
		"99":        "99",
		"12.5e3":    "12.53",
	}
	for in, want := range cases {
		if got := SanitizePriceInput(in); got != want {
			t.Errorf("SanitizePriceInput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequiredText(t *testing.T) {
	errs := FieldErrors{}
	RequiredText(errs, "title", "   ")
	RequiredText(errs, "location", "Austin")
	if _, ok := errs["title"]; !ok {
		t.Error("whitespace-only title must be rejected")
	}
	if _, ok := errs["location"]; ok {
		t.Error("non-empty location must pass")
	}
}

func TestFieldErrorsClearIsPerField(t *testing.T) {
	errs := FieldErrors{}
	errs.Set("title", "title is required")
	errs.Set("price", "price must be greater than zero")

	errs.Clear("title")
	if _, ok := errs["price"]; !ok {
		t.Error("clearing one field must not touch the others")
	}
	if errs.Empty() {
		t.Error("form with a remaining error must not be submittable")
	}

	errs.Clear("price")
	if !errs.Empty() {
		t.Error("expected no errors left")
	}
}

func TestFieldErrorsMessageIsSorted(t *testing.T) {
	errs := FieldErrors{}
	errs.Set("title", "title is required")
	errs.Set("price", "price is required")
	msg := errs.Error()
	if strings.Index(msg, "price") > strings.Index(msg, "title") {
		t.Errorf("expected fields in sorted order, got %q", msg)
	}
}

func writeTempFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, make([]byte, size), 0600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestFileTypeAllowlist(t *testing.T) {
	photo := writeTempFile(t, "shot.jpg", 100)
	if err := File(media.KindPhoto, photo); err != nil {
		t.Errorf("jpg photo must pass: %v", err)
	}
	if err := File(media.KindAudio, photo); err == nil {
		t.Error("jpg must fail the audio allowlist")
	}

	doc := writeTempFile(t, "notes.txt", 100)
	err := File(media.KindPhoto, doc)
	if err == nil {
		t.Fatal("txt must fail the photo allowlist")
	}
	if !strings.Contains(err.Error(), "notes.txt") {
		t.Errorf("rejection must name the file, got %v", err)
	}
}

func TestFileSizeCeiling(t *testing.T) {
	big := writeTempFile(t, "huge.png", int(maxPhotoSize)+1)
	err := File(media.KindPhoto, big)
	if err == nil {
		t.Fatal("oversize photo must be rejected")
	}
	if !strings.Contains(err.Error(), "10 MB") {
		t.Errorf("rejection must name the limit, got %v", err)
	}

	ok := writeTempFile(t, "fine.png", 1024)
	if err := File(media.KindPhoto, ok); err != nil {
		t.Errorf("small png must pass: %v", err)
	}
}

func TestFileMissing(t *testing.T) {
	err := File(media.KindPhoto, filepath.Join(t.TempDir(), "gone.png"))
	if err == nil {
		t.Fatal("missing file must be rejected")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("unexpected message: %v", err)
	}
}
