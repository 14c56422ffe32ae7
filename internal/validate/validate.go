// Package validate is the synchronous gate run before any network call:
// per-file checks at attach time (fail fast, keep the good files) and
// whole-form checks at submit time (block the request entirely).
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dkovach/encore-cli/internal/filehandler"
	"github.com/dkovach/encore-cli/internal/media"
)

// priceRegex matches a non-negative amount with at most two decimal places.
var priceRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]{1,2})?$`)

// allowedContentTypes is the per-kind content-type allowlist for uploads.
var allowedContentTypes = map[media.Kind]map[string]bool{
	media.KindPhoto: {
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
	},
	media.KindAudio: {
		"audio/mpeg": true,
		"audio/wav":  true,
		"audio/flac": true,
	},
	media.KindVideo: {
		"video/mp4":       true,
		"video/quicktime": true,
	},
}

// Per-kind size ceilings.
const (
	maxPhotoSize int64 = 10 * 1024 * 1024 // 10 MB
	maxAudioSize int64 = 50 * 1024 * 1024 // 50 MB
	maxVideoSize int64 = 50 * 1024 * 1024 // 50 MB
)

func maxSize(kind media.Kind) int64 {
	switch kind {
	case media.KindPhoto:
		return maxPhotoSize
	case media.KindAudio:
		return maxAudioSize
	case media.KindVideo:
		return maxVideoSize
	}
	return maxPhotoSize
}

// FieldErrors holds validation errors keyed by form field name. Fields
// are cleared individually when the corresponding input changes, never
// in bulk.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// Set records an error for a field.
func (e FieldErrors) Set(field, message string) { e[field] = message }

// Clear removes the error for one field.
func (e FieldErrors) Clear(field string) { delete(e, field) }

// Empty reports whether the form may be submitted.
func (e FieldErrors) Empty() bool { return len(e) == 0 }

// RequiredText records an error when value is empty after trimming.
func RequiredText(errs FieldErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs.Set(field, fmt.Sprintf("%s is required", field))
	}
}

// SanitizePriceInput strips characters that can never appear in a price,
// mirroring the keystroke-level filtering of the price input.
func SanitizePriceInput(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Price validates a submitted price: numeric, at most two decimal
// places, strictly positive.
func Price(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("price is required")
	}
	if !priceRegex.MatchString(s) {
		return fmt.Errorf("price must be a number with at most 2 decimal places")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("price must be a number with at most 2 decimal places")
	}
	if v <= 0 {
		return fmt.Errorf("price must be greater than zero")
	}
	return nil
}

// File checks one local file against the kind's type allowlist and size
// ceiling. Messages name the offending file.
func File(kind media.Kind, path string) error {
	mime, err := filehandler.MIMEType(filepath.Ext(path))
	if err != nil || !allowedContentTypes[kind][mime] {
		return fmt.Errorf("%s: unsupported file type for %s upload", filepath.Base(path), kind)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: file not found", path)
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	if limit := maxSize(kind); info.Size() > limit {
		return fmt.Errorf("%s: file exceeds the %d MB limit for %s uploads", filepath.Base(path), limit/(1024*1024), kind)
	}
	return nil
}

// FileFor returns the attach-time validator for one media kind, in the
// shape the collection reducer expects.
func FileFor(kind media.Kind) media.FileValidator {
	return func(path string) error {
		return File(kind, path)
	}
}
