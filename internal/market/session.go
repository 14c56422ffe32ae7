package market

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dkovach/encore-cli/internal/media"
	"github.com/dkovach/encore-cli/internal/validate"
)

const (
	// maxListingPhotos is the photo capacity of a marketplace listing.
	maxListingPhotos = 5
)

// EditSession is the in-memory editing state for the seller's listing:
// the form fields plus one media collection per kind. The session owns
// this state exclusively until a save succeeds, at which point it
// discards it and re-derives from the server's response.
type EditSession struct {
	svc      *Service
	existing *Listing

	Form   ListingForm
	Photos *media.Collection

	// Video is a single-slot collection with the replace-on-add policy:
	// attaching a new video while one exists drops the current one and
	// takes the slot (the explicit delete is still tracked for the
	// server).
	Video *media.Collection

	previews *media.PreviewManager
	saving   bool
}

// NewEditSession loads the seller's current listing (if any) and opens
// an edit session over it. Close must be called to release previews.
func (s *Service) NewEditSession(ctx context.Context) (*EditSession, error) {
	listing, err := s.Mine(ctx)
	if err != nil {
		return nil, err
	}

	previews, err := media.NewPreviewManager()
	if err != nil {
		return nil, err
	}

	var photoURLs, videoURLs []string
	if listing != nil {
		photoURLs = listing.Photos
		if listing.Video != "" {
			videoURLs = []string{listing.Video}
		}
	}

	sess := &EditSession{
		svc:      s,
		existing: listing,
		Form:     formFromListing(listing),
		Photos: media.NewCollection(media.KindPhoto, maxListingPhotos, false,
			validate.FileFor(media.KindPhoto), previews, photoURLs),
		Video: media.NewCollection(media.KindVideo, 1, true,
			validate.FileFor(media.KindVideo), previews, videoURLs),
		previews: previews,
	}

	if listing == nil {
		log.Info().Msg("No listing yet, session opened in create mode")
	} else {
		log.Info().Str("listingId", listing.ID).Int("photos", len(photoURLs)).Msg("Edit session opened")
	}
	return sess, nil
}

// IsCreate reports whether saving will create a new listing.
func (e *EditSession) IsCreate() bool { return e.existing == nil }

// Validate runs the whole-form gate. An empty result permits submission.
func (e *EditSession) Validate() validate.FieldErrors {
	errs := validate.FieldErrors{}
	validate.RequiredText(errs, "title", e.Form.Title)
	validate.RequiredText(errs, "description", e.Form.Description)
	validate.RequiredText(errs, "location", e.Form.Location)
	if err := validate.Price(e.Form.Price); err != nil {
		errs.Set("price", err.Error())
	}
	if e.Photos.Len() == 0 {
		errs.Set("photos", "at least one photo is required")
	}
	return errs
}

// Save submits the session as one multipart request: POST to create,
// PUT to update. On success the session state is replaced wholesale by
// the server's response; on any failure it is left untouched so the
// user can retry without re-entering anything.
func (e *EditSession) Save(ctx context.Context) (*Listing, error) {
	if e.saving {
		return nil, fmt.Errorf("a save is already in progress")
	}
	e.saving = true
	defer func() { e.saving = false }()

	if errs := e.Validate(); !errs.Empty() {
		return nil, errs
	}

	body, contentType, err := encodeListing(e.Form, e.Photos, e.Video)
	if err != nil {
		return nil, err
	}

	method := http.MethodPut
	if e.IsCreate() {
		method = http.MethodPost
	}

	var updated Listing
	if err := e.svc.api.Upload(ctx, method, "/api/market/me", contentType, body, &updated); err != nil {
		return nil, fmt.Errorf("save listing: %w", err)
	}

	if err := e.rehydrate(&updated); err != nil {
		return nil, err
	}
	log.Info().Str("listingId", updated.ID).Int("photos", len(updated.Photos)).Msg("Listing saved")
	return &updated, nil
}

// rehydrate resets the session to the server's authoritative record.
func (e *EditSession) rehydrate(l *Listing) error {
	e.existing = l
	e.Form = formFromListing(l)
	if err := e.Photos.Rehydrate(l.Photos); err != nil {
		return err
	}
	var videoURLs []string
	if strings.TrimSpace(l.Video) != "" {
		videoURLs = []string{l.Video}
	}
	return e.Video.Rehydrate(videoURLs)
}

// Close releases every preview the session still holds.
func (e *EditSession) Close() error {
	return e.previews.Close()
}
