package auction

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/Neshaki091/evtrade-client/internal/api"
	"github.com/Neshaki091/evtrade-client/internal/types"
)

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// MinBidAmount is the lowest amount the backend will accept for the
// auction's next bid.
func MinBidAmount(a types.Auction) int64 {
	return a.CurrentPrice + a.MinBidIncrement
}

// QuickBidAmount is the suggested one-tap bid, equal to the minimum
// acceptable amount.
func QuickBidAmount(a types.Auction) int64 {
	return MinBidAmount(a)
}

// ValidateBid rejects a bid locally before any network call is made.
func ValidateBid(a types.Auction, amount int64) error {
	if a.Status != types.AuctionActive {
		return fmt.Errorf("auction is %s, not accepting bids", a.Status)
	}
	if min := MinBidAmount(a); amount < min {
		return fmt.Errorf("bid of %d is below minimum of %d", amount, min)
	}
	return nil
}

func (s *Service) List(ctx context.Context, query url.Values) ([]types.Auction, error) {
	var auctions []types.Auction
	err := s.client.Get(ctx, "/auctions", query, &auctions)
	return auctions, err
}

func (s *Service) Get(ctx context.Context, auctionId string) (types.Auction, error) {
	var a types.Auction
	err := s.client.Get(ctx, fmt.Sprintf("/auctions/%s", auctionId), nil, &a)
	return a, err
}

func (s *Service) Bids(ctx context.Context, auctionId string) ([]types.Bid, error) {
	var bids []types.Bid
	err := s.client.Get(ctx, fmt.Sprintf("/auctions/%s/bids", auctionId), nil, &bids)
	return bids, err
}

type bidRequest struct {
	Amount         int64  `json:"amount"`
	IdempotencyKey string `json:"idempotency_key"`
}

// PlaceBid validates locally against the caller's last-observed auction
// state, then submits. The idempotency key lets the backend drop a
// duplicate submission of the same bid.
func (s *Service) PlaceBid(ctx context.Context, a types.Auction, amount int64) (types.Bid, error) {
	if err := ValidateBid(a, amount); err != nil {
		return types.Bid{}, err
	}

	var bid types.Bid
	req := bidRequest{Amount: amount, IdempotencyKey: uuid.NewString()}
	err := s.client.Post(ctx, fmt.Sprintf("/auctions/%s/bids", a.Id), req, &bid)
	return bid, err
}

func (s *Service) BuyNow(ctx context.Context, auctionId string) (types.Order, error) {
	var order types.Order
	req := map[string]string{"idempotency_key": uuid.NewString()}
	err := s.client.Post(ctx, fmt.Sprintf("/auctions/%s/buy-now", auctionId), req, &order)
	return order, err
}

// Cancel is a seller/admin operation. Status transitions remain server
// authoritative; the caller re-fetches to observe the result.
func (s *Service) Cancel(ctx context.Context, auctionId string) error {
	return s.client.Post(ctx, fmt.Sprintf("/auctions/%s/cancel", auctionId), nil, nil)
}

func (s *Service) Settle(ctx context.Context, auctionId string) (types.Order, error) {
	var order types.Order
	err := s.client.Post(ctx, fmt.Sprintf("/auctions/%s/settle", auctionId), nil, &order)
	return order, err
}
