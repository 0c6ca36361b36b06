package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func TestOpenRoom_firstContact(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat/rooms", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u-bob", body["user_id"], "expected the other user's id in the request")

		// First contact: a brand-new room with no messages yet.
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":201,"data":{"room_id":"r-new","participants":["u-alice","u-bob"]}}`))
	}))

	room, err := svc.OpenRoom(context.Background(), "u-bob")
	require.NoError(t, err, "expected room creation to succeed")
	assert.Equal(t, "r-new", room.Id)
	assert.ElementsMatch(t, []string{"u-alice", "u-bob"}, room.Participants)
	assert.Empty(t, room.LastMessageText, "expected a fresh room to have no last message")
	assert.True(t, room.LastMessageAt.IsZero(), "expected a fresh room to have no message timestamp")
}

func TestSendMessage(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat/rooms/r-1/messages", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "is the pack still available?", body["text"])
		assert.NotEmpty(t, body["client_id"], "expected a client-generated message id")

		w.Write([]byte(`{"status":201,"data":{"id":"m-1","sender_id":"u-alice","text":"is the pack still available?"}}`))
	}))

	msg, err := svc.SendMessage(context.Background(), "r-1", "is the pack still available?")
	require.NoError(t, err)
	assert.Equal(t, "m-1", msg.Id)
}

func TestSendMessage_emptyTextRejectedLocally(t *testing.T) {
	var requests int
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	_, err := svc.SendMessage(context.Background(), "r-1", "")
	assert.Error(t, err, "expected empty message to be rejected")
	assert.Equal(t, 0, requests, "expected no network call for an empty message")
}

func TestMessages_emptyRoomIsValid(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"data":[]}`))
	}))

	msgs, err := svc.Messages(context.Background(), "r-new")
	require.NoError(t, err, "expected an empty room to be a valid state, not an error")
	assert.Empty(t, msgs)
}
