// Package sponsor is the client for the sponsor placement surface.
package sponsor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkovach/encore-cli/internal/api"
	"github.com/dkovach/encore-cli/internal/validate"
)

// Section is one sponsor placement on the public site.
type Section struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	LinkURL string `json:"linkUrl"`
}

// Service wraps the sponsor endpoints.
type Service struct {
	api *api.Client
}

// NewService creates a sponsor client over the API gateway.
func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

// Sections fetches every sponsor placement.
func (s *Service) Sections(ctx context.Context) ([]Section, error) {
	var sections []Section
	if err := s.api.Get(ctx, "/api/sponsors", &sections); err != nil {
		return nil, fmt.Errorf("get sponsor sections: %w", err)
	}
	return sections, nil
}

// Section fetches one placement by name.
func (s *Service) Section(ctx context.Context, name string) (*Section, error) {
	var sec Section
	if err := s.api.Get(ctx, "/api/sponsors/"+name, &sec); err != nil {
		return nil, fmt.Errorf("get sponsor section %s: %w", name, err)
	}
	return &sec, nil
}

// UpdateSection saves one placement.
func (s *Service) UpdateSection(ctx context.Context, sec *Section) error {
	errs := validate.FieldErrors{}
	validate.RequiredText(errs, "name", sec.Name)
	validate.RequiredText(errs, "title", sec.Title)
	if !errs.Empty() {
		return errs
	}

	if err := s.api.Put(ctx, "/api/sponsors/section/update", sec, nil); err != nil {
		return fmt.Errorf("update sponsor section %s: %w", sec.Name, err)
	}
	log.Info().Str("section", sec.Name).Msg("Sponsor section updated")
	return nil
}
