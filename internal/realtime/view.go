package realtime

import (
	"sort"
	"time"

	"github.com/Neshaki091/evtrade-client/internal/types"
)

// RoomView is one row of the user's room list: the room plus the other
// participant's resolved display name.
type RoomView struct {
	Id              string
	OtherUserId     string
	OtherName       string
	LastMessageText string
	LastMessageAt   time.Time // zero when the room has no messages yet
}

// otherParticipant picks the participant that is not selfId. Rooms are
// two-party; returns false when there is no other participant.
func otherParticipant(participants []string, selfId string) (string, bool) {
	for _, id := range participants {
		if id != "" && id != selfId {
			return id, true
		}
	}
	return "", false
}

// sortRoomViews orders rooms by most-recent-message first. Rooms with
// no message timestamp sort after all rooms with one; ties and the
// no-timestamp tail fall back to id order so repeated snapshots render
// identically.
func sortRoomViews(rooms []RoomView) {
	sort.SliceStable(rooms, func(i, j int) bool {
		a, b := rooms[i], rooms[j]
		switch {
		case a.LastMessageAt.IsZero() && b.LastMessageAt.IsZero():
			return a.Id < b.Id
		case a.LastMessageAt.IsZero():
			return false
		case b.LastMessageAt.IsZero():
			return true
		case !a.LastMessageAt.Equal(b.LastMessageAt):
			return a.LastMessageAt.After(b.LastMessageAt)
		}
		return a.Id < b.Id
	})
}

// messageList maps the snapshot's message set into a stable id-carrying
// slice ordered ascending by timestamp, falling back to creation time,
// with ties resolved by key order. Rebuilding from an unchanged
// snapshot yields an identical list.
func messageList(roomId string, doc roomDoc) []types.Message {
	ids := make([]string, 0, len(doc.Messages))
	for id := range doc.Messages {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	msgs := make([]types.Message, 0, len(ids))
	for _, id := range ids {
		m := doc.Messages[id]
		ts := m.Timestamp
		if ts == 0 {
			ts = m.CreatedAt
		}
		msgs = append(msgs, types.Message{
			Id:        id,
			RoomId:    roomId,
			SenderId:  m.SenderId,
			Text:      m.Text,
			Timestamp: millisTime(ts),
			CreatedAt: millisTime(m.CreatedAt),
		})
	}

	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})

	return msgs
}
