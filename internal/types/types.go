package types

import (
	"time"
)

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

type User struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role,omitempty"`
	IsActive bool   `json:"is_active"`
}

type ListingStatus string

const (
	ListingAvailable ListingStatus = "available"
	ListingPending   ListingStatus = "pending"
	ListingSold      ListingStatus = "sold"
	ListingRemoved   ListingStatus = "removed"
)

type Listing struct {
	Id          string        `json:"id"`
	SellerId    string        `json:"seller_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Brand       string        `json:"brand,omitempty"`
	Capacity    string        `json:"capacity,omitempty"`
	Price       int64         `json:"price"`
	Status      ListingStatus `json:"status"`
	Images      []string      `json:"images,omitempty"`
	CreatedAt   time.Time     `json:"created_at,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at,omitempty"`
}

// AuctionStatus transitions are server authoritative, the client only
// observes them.
type AuctionStatus string

const (
	AuctionScheduled AuctionStatus = "scheduled"
	AuctionActive    AuctionStatus = "active"
	AuctionEnded     AuctionStatus = "ended"
	AuctionCancelled AuctionStatus = "cancelled"
	AuctionSettled   AuctionStatus = "settled"
)

type Auction struct {
	Id              string        `json:"id"`
	ListingId       string        `json:"listing_id"`
	Status          AuctionStatus `json:"status"`
	StartingPrice   int64         `json:"starting_price"`
	CurrentPrice    int64         `json:"current_price"`
	MinBidIncrement int64         `json:"min_bid_increment"`
	BuyNowPrice     int64         `json:"buy_now_price,omitempty"`
	EndTime         time.Time     `json:"end_time"`
	BidCount        int           `json:"bid_count"`
}

type Bid struct {
	Id        string    `json:"id"`
	AuctionId string    `json:"auction_id"`
	BidderId  string    `json:"bidder_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

type Room struct {
	Id              string    `json:"room_id"`
	Participants    []string  `json:"participants"`
	LastMessageText string    `json:"last_message_text,omitempty"`
	LastMessageAt   time.Time `json:"last_message_at,omitempty"`
}

type Message struct {
	Id        string    `json:"id"`
	RoomId    string    `json:"room_id,omitempty"`
	SenderId  string    `json:"sender_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionRejected  TransactionStatus = "rejected"
)

type Transaction struct {
	Id        string            `json:"id"`
	UserId    string            `json:"user_id"`
	Type      TransactionType   `json:"type"`
	Amount    int64             `json:"amount"`
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at,omitempty"`
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

type Order struct {
	Id        string      `json:"id"`
	ListingId string      `json:"listing_id"`
	BuyerId   string      `json:"buyer_id"`
	SellerId  string      `json:"seller_id,omitempty"`
	Amount    int64       `json:"amount"`
	Fee       int64       `json:"fee,omitempty"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
	UpdatedAt time.Time   `json:"updated_at,omitempty"`
}

// Paid reports whether the buyer's payment has been confirmed.
func (o Order) Paid() bool {
	switch o.Status {
	case OrderPaid, OrderShipped, OrderCompleted:
		return true
	}
	return false
}

type Review struct {
	Id         string    `json:"id"`
	ListingId  string    `json:"listing_id"`
	ReviewerId string    `json:"reviewer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

type WishlistItem struct {
	Id        string    `json:"id"`
	ListingId string    `json:"listing_id"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Report struct {
	Id         string    `json:"id"`
	TargetType string    `json:"target_type"`
	TargetId   string    `json:"target_id"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

type AnalyticsSummary struct {
	TotalUsers     int   `json:"total_users"`
	TotalListings  int   `json:"total_listings"`
	ActiveAuctions int   `json:"active_auctions"`
	OpenReports    int   `json:"open_reports"`
	TotalVolume    int64 `json:"total_volume"`
}
