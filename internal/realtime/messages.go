package realtime

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	roomIndexPrefix = "userChatRooms/"
	roomFeedPrefix  = "chatRooms/"
)

func RoomIndexKey(userId string) string {
	return roomIndexPrefix + userId
}

func RoomFeedKey(roomId string) string {
	return roomFeedPrefix + roomId
}

type clientFrame struct {
	Id          string       `json:"id,omitempty"`
	Subscribe   *Subscribe   `json:"subscribe,omitempty"`
	Unsubscribe *Unsubscribe `json:"unsubscribe,omitempty"`
}

type Subscribe struct {
	Key string `json:"key"`
}

type Unsubscribe struct {
	Key string `json:"key"`
}

type serverFrame struct {
	Id       string    `json:"id,omitempty"`
	Response *Response `json:"response,omitempty"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
}

type Response struct {
	Code  int    `json:"code"`
	Error string `json:"error,omitempty"`
}

// Snapshot is a full-state push for one key, not a delta. The store
// sends one on subscribe and again on every change under the key.
type Snapshot struct {
	Key  string          `json:"key"`
	Data json.RawMessage `json:"data"`
}

func (s *Snapshot) isRoomIndex() bool {
	return strings.HasPrefix(s.Key, roomIndexPrefix)
}

func (s *Snapshot) isRoomFeed() bool {
	return strings.HasPrefix(s.Key, roomFeedPrefix)
}

func (s *Snapshot) roomId() string {
	return strings.TrimPrefix(s.Key, roomFeedPrefix)
}

// indexDoc is the store's shape for userChatRooms/{userId}: a set of
// room ids encoded as a map.
type indexDoc map[string]bool

// roomDoc is the store's shape for chatRooms/{roomId}. Field names
// mirror the store's keys, not the REST API's.
type roomDoc struct {
	Participants         map[string]bool       `json:"participants"`
	LastMessageText      string                `json:"lastMessageText,omitempty"`
	LastMessageTimestamp int64                 `json:"lastMessageTimestamp,omitempty"`
	Messages             map[string]messageDoc `json:"messages,omitempty"`
}

type messageDoc struct {
	SenderId  string `json:"senderId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp,omitempty"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}

// millisTime converts a store timestamp to time.Time, zero when unset.
func millisTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
