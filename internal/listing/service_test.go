package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neshaki091/evtrade-client/internal/api"
	"github.com/Neshaki091/evtrade-client/internal/stats"
	"github.com/Neshaki091/evtrade-client/internal/testutil"
)

type staticSession string

func (s staticSession) Token() string { return string(s) }
func (s staticSession) Clear()        {}

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(testutil.TestLogger(t), srv.URL, staticSession("tok"), stats.Nop{})
	require.NoError(t, err)
	return NewService(client)
}

func TestList_passesFilters(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/listings", r.URL.Path)
		assert.Equal(t, "available", r.URL.Query().Get("status"))
		w.Write([]byte(`{"status":200,"data":[{"id":"l-1","title":"48V pack","price":2500000,"status":"available"}]}`))
	}))

	q := url.Values{}
	q.Set("status", "available")
	listings, err := svc.List(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "l-1", listings[0].Id)
	assert.EqualValues(t, 2_500_000, listings[0].Price)
}

func TestList_emptyResultIsValid(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"data":[]}`))
	}))

	listings, err := svc.List(context.Background(), nil)
	require.NoError(t, err, "expected an empty result to be a valid state")
	assert.Empty(t, listings)
}

func TestCreateReview_invalidRatingRejectedLocally(t *testing.T) {
	var requests int
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.CreateReview(context.Background(), CreateReviewRequest{
			ListingId: "l-1",
			Rating:    rating,
		})
		assert.Error(t, err, "expected rating %d to be rejected", rating)
	}
	assert.Equal(t, 0, requests, "expected no network calls for invalid ratings")
}

func TestCreateListing_validationErrorSurfacesServerMessage(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"status":422,"message":"price must be positive"}`))
	}))

	_, err := svc.Create(context.Background(), CreateListingRequest{Title: "pack", Price: -1})
	require.Error(t, err)
	assert.True(t, api.IsValidation(err), "expected a validation error, got %v", err)
	assert.Contains(t, err.Error(), "price must be positive", "expected the server message to surface")
}
