package admin

import (
	"context"

	"github.com/Neshaki091/evtrade-client/internal/api"
	"github.com/Neshaki091/evtrade-client/internal/types"
)

// Service covers the admin dashboard's read surface. User management
// lives in the account service since it shares the auth resource group.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Summary(ctx context.Context) (types.AnalyticsSummary, error) {
	var summary types.AnalyticsSummary
	err := s.client.Get(ctx, "/analytics/summary", nil, &summary)
	return summary, err
}
