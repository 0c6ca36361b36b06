package payment

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

type transferRequest struct {
	Amount         int64  `json:"amount"`
	IdempotencyKey string `json:"idempotency_key"`
}

// Deposit requests a wallet top-up. The resulting transaction starts
// pending; the caller polls its status for confirmation.
func (s *Service) Deposit(ctx context.Context, amount int64) (types.Transaction, error) {
	if amount <= 0 {
		return types.Transaction{}, fmt.Errorf("deposit amount must be positive")
	}

	var tx types.Transaction
	req := transferRequest{Amount: amount, IdempotencyKey: uuid.NewString()}
	err := s.client.Post(ctx, "/transactions/deposits", req, &tx)
	return tx, err
}

func (s *Service) Withdraw(ctx context.Context, amount int64) (types.Transaction, error) {
	if amount <= 0 {
		return types.Transaction{}, fmt.Errorf("withdrawal amount must be positive")
	}

	var tx types.Transaction
	req := transferRequest{Amount: amount, IdempotencyKey: uuid.NewString()}
	err := s.client.Post(ctx, "/transactions/withdrawals", req, &tx)
	return tx, err
}

func (s *Service) Transaction(ctx context.Context, txId string) (types.Transaction, error) {
	var tx types.Transaction
	err := s.client.Get(ctx, fmt.Sprintf("/transactions/%s", txId), nil, &tx)
	return tx, err
}

func (s *Service) Transactions(ctx context.Context, query url.Values) ([]types.Transaction, error) {
	var txs []types.Transaction
	err := s.client.Get(ctx, "/transactions", query, &txs)
	return txs, err
}

func (s *Service) Orders(ctx context.Context, query url.Values) ([]types.Order, error) {
	var orders []types.Order
	err := s.client.Get(ctx, "/transactions/orders", query, &orders)
	return orders, err
}

// Order fetches one order. Status watchers poll this to detect the
// pending-to-paid flip.
func (s *Service) Order(ctx context.Context, orderId string) (types.Order, error) {
	var order types.Order
	err := s.client.Get(ctx, fmt.Sprintf("/transactions/orders/%s", orderId), nil, &order)
	return order, err
}

type FeeSchedule struct {
	ListingFee    int64 `json:"listing_fee"`
	CommissionBps int   `json:"commission_bps"`
	WithdrawalFee int64 `json:"withdrawal_fee"`
}

func (s *Service) Fees(ctx context.Context) (FeeSchedule, error) {
	var fees FeeSchedule
	err := s.client.Get(ctx, "/transactions/fees", nil, &fees)
	return fees, err
}
