// Package market is the client for the peer-to-peer marketplace surface:
// browsing listings, checkout, and the seller's own listing with its
// media edit session.
package market

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/dkovach/encore-cli/internal/api"
)

// Listing is the marketplace record as the backend returns it. Each
// seller has at most one.
type Listing struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Location    string   `json:"location"`
	Status      string   `json:"status"`
	Photos      []string `json:"photos"`
	Video       string   `json:"video"`
	SellerName  string   `json:"sellerName,omitempty"`
}

// ListingForm is the editable field bag for the seller's listing.
// Price stays a string until submit; the encoder normalizes it to two
// decimals on the wire.
type ListingForm struct {
	Title       string
	Description string
	Price       string
	Location    string
	Status      string
}

// formFromListing derives the editable form from a server record.
func formFromListing(l *Listing) ListingForm {
	if l == nil {
		return ListingForm{Status: "active"}
	}
	return ListingForm{
		Title:       l.Title,
		Description: l.Description,
		Price:       strconv.FormatFloat(l.Price, 'f', 2, 64),
		Location:    l.Location,
		Status:      l.Status,
	}
}

// Service wraps the marketplace endpoints.
type Service struct {
	api *api.Client
}

// NewService creates a marketplace client over the API gateway.
func NewService(client *api.Client) *Service {
	return &Service{api: client}
}

// Browse returns all public listings.
func (s *Service) Browse(ctx context.Context) ([]Listing, error) {
	var listings []Listing
	if err := s.api.Get(ctx, "/api/market", &listings); err != nil {
		return nil, fmt.Errorf("browse listings: %w", err)
	}
	return listings, nil
}

// Get returns one public listing by id.
func (s *Service) Get(ctx context.Context, id string) (*Listing, error) {
	var l Listing
	if err := s.api.Get(ctx, "/api/market/"+id, &l); err != nil {
		return nil, fmt.Errorf("get listing %s: %w", id, err)
	}
	return &l, nil
}

// Mine returns the seller's own listing, or nil if none exists yet.
func (s *Service) Mine(ctx context.Context) (*Listing, error) {
	var l Listing
	err := s.api.Get(ctx, "/api/market/me", &l)
	if api.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get own listing: %w", err)
	}
	return &l, nil
}

// DeleteMine removes the seller's listing.
func (s *Service) DeleteMine(ctx context.Context) error {
	if err := s.api.Delete(ctx, "/api/market/me", nil); err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	log.Info().Msg("Listing deleted")
	return nil
}

// CheckoutSession is the backend's Stripe checkout handle for a buyer.
type CheckoutSession struct {
	URL string `json:"url"`
}

// Checkout starts a checkout for the given listing and returns the
// payment URL to open in a browser.
func (s *Service) Checkout(ctx context.Context, listingID string) (*CheckoutSession, error) {
	body := map[string]string{"listingId": listingID}
	var session CheckoutSession
	if err := s.api.Post(ctx, "/api/market/checkout", body, &session); err != nil {
		return nil, fmt.Errorf("checkout listing %s: %w", listingID, err)
	}
	return &session, nil
}
