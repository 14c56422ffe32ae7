// Package studio is the client for the studio dashboard surface:
// profile fields, the service/pricing list, the photo gallery, and the
// single audio sample.
package studio

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dkovach/encore-cli/internal/api"
	"github.com/dkovach/encore-cli/internal/media"
	"github.com/dkovach/encore-cli/internal/upload"
	"github.com/dkovach/encore-cli/internal/validate"
)

// maxStudioPhotos is the studio gallery capacity.
const maxStudioPhotos = 5

// Profile is the studio record.
type Profile struct {
	Name      string       `json:"name"`
	City      string       `json:"city"`
	State     string       `json:"state"`
	Biography string       `json:"biography"`
	Audio     string       `json:"audio"`
	Services  []ServiceRow `json:"services"`
}

// ServiceRow is one entry of the studio's service/pricing list.
type ServiceRow struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Photo is one gallery entry.
type Photo struct {
	ID  string `json:"_id"`
	URL string `json:"url"`
}

// Service wraps the studio endpoints.
type Service struct {
	api *api.Client
}

// NewService creates a studio client over the API gateway.
func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

// Profile fetches the studio profile.
func (s *Service) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := s.api.Get(ctx, "/api/studios/profile", &p); err != nil {
		return nil, fmt.Errorf("get studio profile: %w", err)
	}
	return &p, nil
}

// UpdateProfile saves the profile fields. Required fields are checked
// before any network call.
func (s *Service) UpdateProfile(ctx context.Context, p *Profile) (*Profile, error) {
	errs := validate.FieldErrors{}
	validate.RequiredText(errs, "name", p.Name)
	validate.RequiredText(errs, "city", p.City)
	validate.RequiredText(errs, "state", p.State)
	if !errs.Empty() {
		return nil, errs
	}

	var updated Profile
	if err := s.api.Put(ctx, "/api/studios/profile", p, &updated); err != nil {
		return nil, fmt.Errorf("update studio profile: %w", err)
	}
	log.Info().Str("name", updated.Name).Msg("Studio profile updated")
	return &updated, nil
}

// UpdateServices saves the service/pricing list. Every row needs a name
// and a valid price; errors are keyed by row.
func (s *Service) UpdateServices(ctx context.Context, rows []ServiceRow) error {
	errs := validate.FieldErrors{}
	for i, row := range rows {
		field := fmt.Sprintf("services[%d]", i)
		if strings.TrimSpace(row.Name) == "" {
			errs.Set(field, "service name is required")
			continue
		}
		if err := validate.Price(row.Price); err != nil {
			errs.Set(field, err.Error())
		}
	}
	if !errs.Empty() {
		return errs
	}

	if err := s.api.Put(ctx, "/api/studios/services", rows, nil); err != nil {
		return fmt.Errorf("update services: %w", err)
	}
	log.Info().Int("count", len(rows)).Msg("Service list updated")
	return nil
}

// Photos fetches the current gallery.
func (s *Service) Photos(ctx context.Context) ([]Photo, error) {
	var photos []Photo
	if err := s.api.Get(ctx, "/api/studios/photos", &photos); err != nil {
		return nil, fmt.Errorf("get studio photos: %w", err)
	}
	return photos, nil
}

// AddPhotos validates and uploads new gallery photos in one multipart
// request under the "photos" field. Capacity is checked against the
// server's current count before anything is sent.
func (s *Service) AddPhotos(ctx context.Context, paths []string) ([]Photo, error) {
	current, err := s.Photos(ctx)
	if err != nil {
		return nil, err
	}
	remaining := maxStudioPhotos - len(current)
	if len(paths) > remaining {
		return nil, fmt.Errorf("you can only upload %d more photos", remaining)
	}
	for _, p := range paths {
		if err := validate.File(media.KindPhoto, p); err != nil {
			return nil, err
		}
	}

	body, contentType, err := encodeFiles("photos", paths)
	if err != nil {
		return nil, err
	}

	var updated []Photo
	if err := s.api.Upload(ctx, http.MethodPost, "/api/studios/photos", contentType, body, &updated); err != nil {
		return nil, fmt.Errorf("upload photos: %w", err)
	}
	log.Info().Int("added", len(paths)).Msg("Studio photos uploaded")
	return updated, nil
}

// DeletePhoto removes one gallery photo by id.
func (s *Service) DeletePhoto(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/api/studios/photos/"+id, nil); err != nil {
		return fmt.Errorf("delete photo %s: %w", id, err)
	}
	return nil
}

// DeletePhotos removes gallery photos one request at a time, in order.
// Earlier successes are not rolled back when a later delete fails; the
// error reports how many went through.
func (s *Service) DeletePhotos(ctx context.Context, ids []string) error {
	for i, id := range ids {
		if err := s.DeletePhoto(ctx, id); err != nil {
			return fmt.Errorf("deleted %d of %d photos before failing: %w", i, len(ids), err)
		}
	}
	log.Info().Int("count", len(ids)).Msg("Studio photos deleted")
	return nil
}

// SetAudio uploads the studio's audio sample under the "audio" field.
// The audio slot follows the delete-first policy: while a track exists
// the upload is rejected and the user must remove it explicitly.
func (s *Service) SetAudio(ctx context.Context, path string) error {
	profile, err := s.Profile(ctx)
	if err != nil {
		return err
	}
	if profile.Audio != "" {
		return fmt.Errorf("remove the current audio track before adding another")
	}
	if err := validate.File(media.KindAudio, path); err != nil {
		return err
	}

	body, contentType, err := encodeFiles("audio", []string{path})
	if err != nil {
		return err
	}
	if err := s.api.Upload(ctx, http.MethodPost, "/api/studios/audio", contentType, body, nil); err != nil {
		return fmt.Errorf("upload audio: %w", err)
	}
	log.Info().Str("file", filepath.Base(path)).Msg("Studio audio uploaded")
	return nil
}

// DeleteAudio removes the studio's audio sample.
func (s *Service) DeleteAudio(ctx context.Context) error {
	if err := s.api.Delete(ctx, "/api/studios/audio", nil); err != nil {
		return fmt.Errorf("delete audio: %w", err)
	}
	log.Info().Msg("Studio audio removed")
	return nil
}

// encodeFiles builds a multipart body with the given files repeated
// under one field name.
func encodeFiles(field string, paths []string) (*bytes.Buffer, string, error) {
	f := upload.NewForm()
	for _, path := range paths {
		if err := f.File(field, path); err != nil {
			return nil, "", err
		}
	}
	return f.Close()
}
