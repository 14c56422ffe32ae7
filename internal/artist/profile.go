// Package artist is the client for the artist profile surface: the
// profile field bag plus its photo and audio collections, saved
// atomically in one multipart request.
package artist

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dkovach/encore-cli/internal/api"
	"github.com/dkovach/encore-cli/internal/media"
	"github.com/dkovach/encore-cli/internal/upload"
	"github.com/dkovach/encore-cli/internal/validate"
)

const (
	// maxArtistPhotos is the artist gallery capacity.
	maxArtistPhotos = 5

	// maxArtistAudios is the number of audio tracks an artist profile holds.
	maxArtistAudios = 1
)

// Profile is the artist record as the backend returns it.
type Profile struct {
	ID        string   `json:"_id"`
	Name      string   `json:"name"`
	Biography string   `json:"biography"`
	Location  string   `json:"location"`
	Photos    []string `json:"photos"`
	Audios    []string `json:"audios"`
}

// ProfileForm is the editable field bag.
type ProfileForm struct {
	Name      string
	Biography string
	Location  string
}

// Service wraps the artist endpoints.
type Service struct {
	api *api.Client
}

// NewService creates an artist client over the API gateway.
func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

// Mine fetches the caller's artist profile, or nil if none exists yet.
func (s *Service) Mine(ctx context.Context) (*Profile, error) {
	var p Profile
	err := s.api.Get(ctx, "/api/artists/profile/me", &p)
	if api.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artist profile: %w", err)
	}
	return &p, nil
}

// Get fetches a public artist profile by id.
func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	if err := s.api.Get(ctx, "/api/artists/profile/"+id, &p); err != nil {
		return nil, fmt.Errorf("get artist profile %s: %w", id, err)
	}
	return &p, nil
}

// EditSession is the in-memory editing state for the artist profile.
type EditSession struct {
	svc      *Service
	existing *Profile

	Form   ProfileForm
	Photos *media.Collection

	// Audio follows the delete-first policy: adding a track while one
	// exists is rejected until the current one is removed.
	Audio *media.Collection

	previews *media.PreviewManager
	saving   bool
}

// NewEditSession loads the caller's profile and opens an edit session
// over it. Close must be called to release previews.
func (s *Service) NewEditSession(ctx context.Context) (*EditSession, error) {
	profile, err := s.Mine(ctx)
	if err != nil {
		return nil, err
	}

	previews, err := media.NewPreviewManager()
	if err != nil {
		return nil, err
	}

	var photoURLs, audioURLs []string
	form := ProfileForm{}
	if profile != nil {
		photoURLs = profile.Photos
		audioURLs = profile.Audios
		form = ProfileForm{Name: profile.Name, Biography: profile.Biography, Location: profile.Location}
	}

	return &EditSession{
		svc:      s,
		existing: profile,
		Form:     form,
		Photos: media.NewCollection(media.KindPhoto, maxArtistPhotos, false,
			validate.FileFor(media.KindPhoto), previews, photoURLs),
		Audio: media.NewCollection(media.KindAudio, maxArtistAudios, false,
			validate.FileFor(media.KindAudio), previews, audioURLs),
		previews: previews,
	}, nil
}

// Validate runs the whole-form gate.
func (e *EditSession) Validate() validate.FieldErrors {
	errs := validate.FieldErrors{}
	validate.RequiredText(errs, "name", e.Form.Name)
	validate.RequiredText(errs, "biography", e.Form.Biography)
	return errs
}

// Save submits the profile and both collections as one multipart POST.
// New files go out under "photos" and "mp3Files"; removed existing media
// is signaled with repeated "removedPhotos"/"removedAudios" entries.
// On success the session re-derives from the response; on failure it is
// left untouched.
func (e *EditSession) Save(ctx context.Context) (*Profile, error) {
	if e.saving {
		return nil, fmt.Errorf("a save is already in progress")
	}
	e.saving = true
	defer func() { e.saving = false }()

	if errs := e.Validate(); !errs.Empty() {
		return nil, errs
	}

	f := upload.NewForm()
	fields := []struct{ name, value string }{
		{"name", strings.TrimSpace(e.Form.Name)},
		{"biography", strings.TrimSpace(e.Form.Biography)},
		{"location", strings.TrimSpace(e.Form.Location)},
	}
	for _, field := range fields {
		if err := f.Field(field.name, field.value); err != nil {
			return nil, err
		}
	}
	for _, it := range e.Photos.Pending() {
		if err := f.File("photos", it.Payload); err != nil {
			return nil, err
		}
	}
	for _, it := range e.Audio.Pending() {
		if err := f.File("mp3Files", it.Payload); err != nil {
			return nil, err
		}
	}
	for _, url := range e.Photos.ToDelete() {
		if err := f.Field("removedPhotos", url); err != nil {
			return nil, err
		}
	}
	for _, url := range e.Audio.ToDelete() {
		if err := f.Field("removedAudios", url); err != nil {
			return nil, err
		}
	}

	body, contentType, err := f.Close()
	if err != nil {
		return nil, err
	}

	var updated Profile
	if err := e.svc.api.Upload(ctx, http.MethodPost, "/api/artists/profile", contentType, body, &updated); err != nil {
		return nil, fmt.Errorf("save artist profile: %w", err)
	}

	e.existing = &updated
	e.Form = ProfileForm{Name: updated.Name, Biography: updated.Biography, Location: updated.Location}
	if err := e.Photos.Rehydrate(updated.Photos); err != nil {
		return nil, err
	}
	if err := e.Audio.Rehydrate(updated.Audios); err != nil {
		return nil, err
	}
	log.Info().Str("profileId", updated.ID).Msg("Artist profile saved")
	return &updated, nil
}

// Close releases every preview the session still holds.
func (e *EditSession) Close() error {
	return e.previews.Close()
}
