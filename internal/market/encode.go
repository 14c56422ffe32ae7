package market

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dkovach/encore-cli/internal/media"
	"github.com/dkovach/encore-cli/internal/upload"
)

// encodeListing builds the single multipart save request from the form
// and media collections. Only pending payload bytes cross the wire;
// existing items are referenced solely through the deletion manifest.
//
// Wire contract: scalar fields first (title, description, price,
// location, status), then repeated "photos" file parts, one optional
// "video" part, "photosToDelete" as a JSON array of URLs, and
// "deleteVideo" as a boolean-as-string flag.
func encodeListing(form ListingForm, photos, video *media.Collection) (*bytes.Buffer, string, error) {
	f := upload.NewForm()

	price, err := normalizePrice(form.Price)
	if err != nil {
		return nil, "", err
	}

	fields := []struct{ name, value string }{
		{"title", strings.TrimSpace(form.Title)},
		{"description", strings.TrimSpace(form.Description)},
		{"price", price},
		{"location", strings.TrimSpace(form.Location)},
		{"status", form.Status},
	}
	for _, field := range fields {
		if err := f.Field(field.name, field.value); err != nil {
			return nil, "", err
		}
	}

	for _, it := range photos.Pending() {
		if err := f.File("photos", it.Payload); err != nil {
			return nil, "", err
		}
	}
	for _, it := range video.Pending() {
		if err := f.File("video", it.Payload); err != nil {
			return nil, "", err
		}
	}

	if toDelete := photos.ToDelete(); len(toDelete) > 0 {
		manifest, err := json.Marshal(toDelete)
		if err != nil {
			return nil, "", fmt.Errorf("encode deletion manifest: %w", err)
		}
		if err := f.Field("photosToDelete", string(manifest)); err != nil {
			return nil, "", err
		}
	}
	if video.HasDeletion() {
		if err := f.Field("deleteVideo", "true"); err != nil {
			return nil, "", err
		}
	}

	return f.Close()
}

// normalizePrice renders the form price as the 2-decimal string the
// backend expects.
func normalizePrice(s string) (string, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return "", fmt.Errorf("price %q is not a number", s)
	}
	return strconv.FormatFloat(v, 'f', 2, 64), nil
}
