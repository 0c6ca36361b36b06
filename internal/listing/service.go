package listing

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Neshaki091/evtrade-client/internal/api"
	"github.com/Neshaki091/evtrade-client/internal/types"
)

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context, query url.Values) ([]types.Listing, error) {
	var listings []types.Listing
	err := s.client.Get(ctx, "/listings", query, &listings)
	return listings, err
}

func (s *Service) Get(ctx context.Context, listingId string) (types.Listing, error) {
	var l types.Listing
	err := s.client.Get(ctx, fmt.Sprintf("/listings/%s", listingId), nil, &l)
	return l, err
}

type CreateListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Capacity    string   `json:"capacity,omitempty"`
	Price       int64    `json:"price"`
	Images      []string `json:"images,omitempty"`
}

func (s *Service) Create(ctx context.Context, req CreateListingRequest) (types.Listing, error) {
	var l types.Listing
	err := s.client.Post(ctx, "/listings", req, &l)
	return l, err
}

func (s *Service) Update(ctx context.Context, listingId string, req CreateListingRequest) (types.Listing, error) {
	var l types.Listing
	err := s.client.Put(ctx, fmt.Sprintf("/listings/%s", listingId), req, &l)
	return l, err
}

func (s *Service) Delete(ctx context.Context, listingId string) error {
	return s.client.Delete(ctx, fmt.Sprintf("/listings/%s", listingId))
}

func (s *Service) Wishlist(ctx context.Context) ([]types.WishlistItem, error) {
	var items []types.WishlistItem
	err := s.client.Get(ctx, "/wishlist", nil, &items)
	return items, err
}

func (s *Service) AddToWishlist(ctx context.Context, listingId string) (types.WishlistItem, error) {
	var item types.WishlistItem
	body := map[string]string{"listing_id": listingId}
	err := s.client.Post(ctx, "/wishlist", body, &item)
	return item, err
}

func (s *Service) RemoveFromWishlist(ctx context.Context, itemId string) error {
	return s.client.Delete(ctx, fmt.Sprintf("/wishlist/%s", itemId))
}

func (s *Service) Reviews(ctx context.Context, listingId string) ([]types.Review, error) {
	var reviews []types.Review
	q := url.Values{}
	q.Set("listing_id", listingId)
	err := s.client.Get(ctx, "/reviews", q, &reviews)
	return reviews, err
}

type CreateReviewRequest struct {
	ListingId string `json:"listing_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

func (s *Service) CreateReview(ctx context.Context, req CreateReviewRequest) (types.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return types.Review{}, fmt.Errorf("rating must be between 1 and 5")
	}

	var review types.Review
	err := s.client.Post(ctx, "/reviews", req, &review)
	return review, err
}

type CreateReportRequest struct {
	TargetType string `json:"target_type"`
	TargetId   string `json:"target_id"`
	Reason     string `json:"reason"`
}

func (s *Service) CreateReport(ctx context.Context, req CreateReportRequest) (types.Report, error) {
	var report types.Report
	err := s.client.Post(ctx, "/reports", req, &report)
	return report, err
}

// ListReports is an admin operation.
func (s *Service) ListReports(ctx context.Context, query url.Values) ([]types.Report, error) {
	var reports []types.Report
	err := s.client.Get(ctx, "/reports", query, &reports)
	return reports, err
}
