package auction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neshaki091/evtrade-client/internal/api"
	"github.com/Neshaki091/evtrade-client/internal/stats"
	"github.com/Neshaki091/evtrade-client/internal/testutil"
	"github.com/Neshaki091/evtrade-client/internal/types"
)

func readJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

type staticSession string

func (s staticSession) Token() string { return string(s) }
func (s staticSession) Clear()        {}

func activeAuction() types.Auction {
	return types.Auction{
		Id:              "a-1",
		ListingId:       "l-1",
		Status:          types.AuctionActive,
		StartingPrice:   1_000_000,
		CurrentPrice:    1_000_000,
		MinBidIncrement: 100_000,
		EndTime:         time.Now().Add(time.Hour),
	}
}

func TestQuickBidAmount(t *testing.T) {
	a := activeAuction()
	assert.Equal(t, int64(1_100_000), QuickBidAmount(a), "expected quick bid to be current price plus increment")

	a.CurrentPrice = 1_500_000
	assert.Equal(t, int64(1_600_000), QuickBidAmount(a), "expected quick bid to track current price")
}

func TestValidateBid(t *testing.T) {
	tcases := []struct {
		name   string
		modify func(*types.Auction)
		amount int64
		err    bool
	}{
		{
			name:   "bid at minimum accepted",
			modify: func(a *types.Auction) {},
			amount: 1_100_000,
			err:    false,
		},
		{
			name:   "bid above minimum accepted",
			modify: func(a *types.Auction) {},
			amount: 1_250_000,
			err:    false,
		},
		{
			name:   "bid below minimum rejected",
			modify: func(a *types.Auction) {},
			amount: 1_050_000,
			err:    true,
		},
		{
			name:   "bid equal to current price rejected",
			modify: func(a *types.Auction) {},
			amount: 1_000_000,
			err:    true,
		},
		{
			name:   "scheduled auction rejects bids",
			modify: func(a *types.Auction) { a.Status = types.AuctionScheduled },
			amount: 1_100_000,
			err:    true,
		},
		{
			name:   "ended auction rejects bids",
			modify: func(a *types.Auction) { a.Status = types.AuctionEnded },
			amount: 1_100_000,
			err:    true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			a := activeAuction()
			tc.modify(&a)
			err := ValidateBid(a, tc.amount)
			if tc.err {
				assert.Error(t, err, "expected bid of %d to be rejected", tc.amount)
			} else {
				assert.NoError(t, err, "expected bid of %d to be accepted", tc.amount)
			}
		})
	}
}

func TestPlaceBid_rejectedBeforeNetworkCall(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	client, err := api.NewClient(testutil.TestLogger(t), srv.URL, staticSession("tok"), stats.Nop{})
	require.NoError(t, err)
	svc := NewService(client)

	_, err = svc.PlaceBid(context.Background(), activeAuction(), 1_050_000)
	assert.Error(t, err, "expected below-minimum bid to be rejected")
	assert.Equal(t, 0, requests, "expected no network call for a locally rejected bid")
}

func TestPlaceBid_submitsWithIdempotencyKey(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auctions/a-1/bids", r.URL.Path, "expected bid endpoint")
		require.NoError(t, readJSON(r, &gotBody))
		w.Write([]byte(`{"status":201,"data":{"id":"b-1","auction_id":"a-1","amount":1100000}}`))
	}))
	defer srv.Close()

	client, err := api.NewClient(testutil.TestLogger(t), srv.URL, staticSession("tok"), stats.Nop{})
	require.NoError(t, err)
	svc := NewService(client)

	bid, err := svc.PlaceBid(context.Background(), activeAuction(), 1_100_000)
	require.NoError(t, err, "expected bid to succeed")
	assert.Equal(t, "b-1", bid.Id, "expected bid id from response")
	assert.EqualValues(t, 1_100_000, gotBody["amount"], "expected amount in request body")
	assert.NotEmpty(t, gotBody["idempotency_key"], "expected a client-generated idempotency key")
}
