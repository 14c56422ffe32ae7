// Package stripeconnect is the client for the seller payout onboarding
// surface. The backend owns the Stripe integration; this client only
// fetches status and onboarding links.
package stripeconnect

import (
	"context"
	"fmt"

	"github.com/dkovach/encore-cli/internal/api"
)

// Status is the seller's payout onboarding state.
type Status struct {
	Onboarded      bool   `json:"onboarded"`
	PayoutsEnabled bool   `json:"payoutsEnabled"`
	AccountID      string `json:"accountId"`
}

// Link carries a URL to open in a browser to continue onboarding.
type Link struct {
	URL string `json:"url"`
}

// Service wraps the Stripe Connect endpoints.
type Service struct {
	api *api.Client
}

// NewService creates a payout client over the API gateway.
func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

// Status fetches the current onboarding state.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	var st Status
	if err := s.api.Get(ctx, "/api/stripe/connect/status", &st); err != nil {
		return nil, fmt.Errorf("get payout status: %w", err)
	}
	return &st, nil
}

// Onboard starts (or resumes) onboarding and returns the hosted link.
func (s *Service) Onboard(ctx context.Context) (*Link, error) {
	var link Link
	if err := s.api.Post(ctx, "/api/stripe/connect/onboard", nil, &link); err != nil {
		return nil, fmt.Errorf("start payout onboarding: %w", err)
	}
	return &link, nil
}

// Refresh fetches a fresh onboarding link after the previous one expired.
func (s *Service) Refresh(ctx context.Context) (*Link, error) {
	var link Link
	if err := s.api.Get(ctx, "/api/stripe/connect/refresh", &link); err != nil {
		return nil, fmt.Errorf("refresh payout onboarding link: %w", err)
	}
	return &link, nil
}
