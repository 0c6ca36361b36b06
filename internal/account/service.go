package account

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Neshaki091/evtrade-client/internal/api"
	"github.com/Neshaki091/evtrade-client/internal/types"
)

// Service maps account actions to the auth resource group. It performs
// no retries and no caching; errors propagate unmodified to the caller.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var resp LoginResponse
	err := s.client.Post(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, &resp)
	return resp, err
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (types.User, error) {
	var user types.User
	err := s.client.Post(ctx, "/auth/register", req, &user)
	return user, err
}

func (s *Service) Profile(ctx context.Context) (types.User, error) {
	var user types.User
	err := s.client.Get(ctx, "/auth/profile", nil, &user)
	return user, err
}

func (s *Service) UpdateProfile(ctx context.Context, user types.User) (types.User, error) {
	var updated types.User
	err := s.client.Put(ctx, "/auth/profile", user, &updated)
	return updated, err
}

func (s *Service) Logout(ctx context.Context) error {
	return s.client.Post(ctx, "/auth/logout", nil, nil)
}

type walletResponse struct {
	Balance int64 `json:"balance"`
}

// Balance fetches the current wallet balance. Watchers poll this.
func (s *Service) Balance(ctx context.Context) (int64, error) {
	var resp walletResponse
	err := s.client.Get(ctx, "/auth/wallet", nil, &resp)
	return resp.Balance, err
}

func (s *Service) GetUser(ctx context.Context, userId string) (types.User, error) {
	var user types.User
	err := s.client.Get(ctx, fmt.Sprintf("/auth/users/%s", userId), nil, &user)
	return user, err
}

// ListUsers is an admin operation.
func (s *Service) ListUsers(ctx context.Context, query url.Values) ([]types.User, error) {
	var users []types.User
	err := s.client.Get(ctx, "/auth/users", query, &users)
	return users, err
}

// SetUserActive is an admin operation toggling a user's active flag.
func (s *Service) SetUserActive(ctx context.Context, userId string, active bool) (types.User, error) {
	var user types.User
	body := map[string]bool{"is_active": active}
	err := s.client.Patch(ctx, fmt.Sprintf("/auth/users/%s", userId), body, &user)
	return user, err
}
