package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Neshaki091/evtrade-client/internal/api"
	"github.com/Neshaki091/evtrade-client/internal/types"
)

// Service covers the chat REST surface. All writes go through here; the
// realtime subscriber only observes the push store for the results.
type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Rooms(ctx context.Context) ([]types.Room, error) {
	var rooms []types.Room
	err := s.client.Get(ctx, "/chat/rooms", nil, &rooms)
	return rooms, err
}

// OpenRoom returns the room shared with otherUserId, creating it on
// first contact. A newly created room has an empty message list, which
// is a valid renderable state.
func (s *Service) OpenRoom(ctx context.Context, otherUserId string) (types.Room, error) {
	var room types.Room
	body := map[string]string{"user_id": otherUserId}
	err := s.client.Post(ctx, "/chat/rooms", body, &room)
	return room, err
}

// Room fetches one room's metadata. The realtime subscriber calls this
// when resolving the rooms named by an index snapshot.
func (s *Service) Room(ctx context.Context, roomId string) (types.Room, error) {
	var room types.Room
	err := s.client.Get(ctx, fmt.Sprintf("/chat/rooms/%s", roomId), nil, &room)
	return room, err
}

type sendMessageRequest struct {
	Text     string `json:"text"`
	ClientId string `json:"client_id"`
}

// SendMessage posts a message to the room. The backend writes it to the
// push store, where the sender observes it like any other participant.
func (s *Service) SendMessage(ctx context.Context, roomId, text string) (types.Message, error) {
	if text == "" {
		return types.Message{}, fmt.Errorf("message text cannot be empty")
	}

	var msg types.Message
	req := sendMessageRequest{Text: text, ClientId: uuid.NewString()}
	err := s.client.Post(ctx, fmt.Sprintf("/chat/rooms/%s/messages", roomId), req, &msg)
	return msg, err
}

// Messages fetches room history over REST, used as the initial fill
// before the realtime feed takes over.
func (s *Service) Messages(ctx context.Context, roomId string) ([]types.Message, error) {
	var msgs []types.Message
	err := s.client.Get(ctx, fmt.Sprintf("/chat/rooms/%s/messages", roomId), nil, &msgs)
	return msgs, err
}
