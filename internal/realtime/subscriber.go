package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/teris-io/shortid"

	"github.com/Neshaki091/evtrade-client/internal/stats"
	"github.com/Neshaki091/evtrade-client/internal/types"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = (pongWait * 9) / 10
	maxFrameSize = 64 * 1024
)

// Directory resolves user ids to profiles for display names.
type Directory interface {
	GetUser(ctx context.Context, userId string) (types.User, error)
}

// RoomSource resolves the room ids named by an index snapshot to room
// metadata.
type RoomSource interface {
	Room(ctx context.Context, roomId string) (types.Room, error)
}

// Callbacks deliver the subscriber's derived views. They run on the
// read loop goroutine; handlers must not block.
type Callbacks struct {
	// OnRooms receives the full, sorted room list on every index snapshot.
	OnRooms func(rooms []RoomView)
	// OnMessages receives the full, ordered message list of the selected
	// room on every feed snapshot.
	OnMessages func(roomId string, msgs []types.Message)
	// OnError receives the terminal read error. The subscriber is done
	// after this fires; the caller decides whether to dial again.
	OnError func(err error)
}

type subKind int

const (
	subRoomIndex subKind = iota
	subRoomFeed
)

// Subscriber maintains a live view of the user's room list and the
// selected room's message feed over one websocket connection to the
// push store. At most one subscription per kind is active at a time.
type Subscriber struct {
	log    *log.Logger
	stats  stats.StatsProvider
	conn   *websocket.Conn
	selfId string

	dir   Directory
	src   RoomSource
	cb    Callbacks

	// ctx bounds the REST lookups done while resolving snapshots; it is
	// cancelled by Close so a slow resolve can't outlive the connection.
	ctx    context.Context
	cancel context.CancelFunc

	send chan *clientFrame
	stop chan struct{}
	done chan struct{}

	mu        sync.Mutex
	subs      map[subKind]string
	nameCache map[string]string

	closeOnce sync.Once
}

// Dial connects to the push store and starts the read and write loops.
// The bearer token authenticates the connection the same way it does
// REST calls.
func Dial(ctx context.Context, logger *log.Logger, sp stats.StatsProvider, url, token, selfId string,
	dir Directory, src RoomSource, cb Callbacks) (*Subscriber, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("dial realtime store: %w", err)
	}

	lctx, cancel := context.WithCancel(context.Background())
	s := &Subscriber{
		log:       logger,
		ctx:       lctx,
		cancel:    cancel,
		stats:     sp,
		conn:      conn,
		selfId:    selfId,
		dir:       dir,
		src:       src,
		cb:        cb,
		send:      make(chan *clientFrame, 16),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		subs:      make(map[subKind]string),
		nameCache: make(map[string]string),
	}

	go s.writeLoop()
	go s.readLoop()

	return s, nil
}

// WatchRooms subscribes to the caller's room index. Re-watching the
// same user is a no-op; watching a different user replaces the previous
// subscription.
func (s *Subscriber) WatchRooms(userId string) {
	s.swap(subRoomIndex, RoomIndexKey(userId))
}

// SelectRoom subscribes to the given room's feed, tearing down the
// previously selected room's subscription first.
func (s *Subscriber) SelectRoom(roomId string) {
	s.swap(subRoomFeed, RoomFeedKey(roomId))
}

// DeselectRoom unsubscribes from the current room feed, if any.
func (s *Subscriber) DeselectRoom() {
	s.mu.Lock()
	prev, ok := s.subs[subRoomFeed]
	delete(s.subs, subRoomFeed)
	s.mu.Unlock()

	if ok {
		s.queueFrame(&clientFrame{Id: frameId(), Unsubscribe: &Unsubscribe{Key: prev}})
	}
}

// swap enforces at most one active subscription per kind.
func (s *Subscriber) swap(kind subKind, key string) {
	s.mu.Lock()
	prev := s.subs[kind]
	if prev == key {
		s.mu.Unlock()
		return
	}
	s.subs[kind] = key
	s.mu.Unlock()

	if prev != "" {
		s.queueFrame(&clientFrame{Id: frameId(), Unsubscribe: &Unsubscribe{Key: prev}})
	}
	s.queueFrame(&clientFrame{Id: frameId(), Subscribe: &Subscribe{Key: key}})
}

// subscribed reports whether key is still wanted. A snapshot for an
// unsubscribed key is a late push whose target state has ceased to
// matter; it is silently dropped.
func (s *Subscriber) subscribed(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range s.subs {
		if k == key {
			return true
		}
	}
	return false
}

func (s *Subscriber) queueFrame(f *clientFrame) bool {
	select {
	case s.send <- f:
	case <-s.stop:
		return false
	default:
		s.log.Println("realtime: send channel full, dropping frame")
		return false
	}

	return true
}

func (s *Subscriber) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case f := <-s.send:
			data, err := json.Marshal(f)
			if err != nil {
				s.log.Println("realtime: marshal frame:", err)
				continue
			}

			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
					s.log.Printf("realtime: write: %v", err)
				}
				return
			}
		case <-s.stop:
			return
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Subscriber) readLoop() {
	defer func() {
		s.conn.Close()
		s.Close()
		close(s.done)
	}()

	s.conn.SetReadLimit(maxFrameSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error { s.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.stop:
				// deliberate close, not an error
			default:
				if s.cb.OnError != nil {
					s.cb.OnError(err)
				}
			}
			return
		}

		var frame serverFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.log.Println("realtime: parse frame:", err)
			continue
		}

		switch {
		case frame.Snapshot != nil:
			s.stats.Incr(stats.RealtimeEvents)
			s.handleSnapshot(frame.Snapshot)
		case frame.Response != nil:
			if frame.Response.Error != "" {
				s.log.Printf("realtime: request %s failed: %s", frame.Id, frame.Response.Error)
			}
		}
	}
}

func (s *Subscriber) handleSnapshot(snap *Snapshot) {
	if !s.subscribed(snap.Key) {
		return
	}

	switch {
	case snap.isRoomIndex():
		s.handleRoomIndex(snap)
	case snap.isRoomFeed():
		s.handleRoomFeed(snap)
	default:
		s.log.Printf("realtime: snapshot for unknown key %q", snap.Key)
	}
}

// handleRoomIndex resolves the snapshot's room ids to metadata and
// display names, drops rooms missing required fields and emits the list
// sorted most-recent first.
func (s *Subscriber) handleRoomIndex(snap *Snapshot) {
	var index indexDoc
	if err := json.Unmarshal(snap.Data, &index); err != nil {
		s.log.Println("realtime: decode room index:", err)
		return
	}

	ctx := s.ctx
	views := make([]RoomView, 0, len(index))
	for roomId, present := range index {
		if !present || roomId == "" {
			continue
		}

		room, err := s.src.Room(ctx, roomId)
		if err != nil {
			s.log.Printf("realtime: resolve room %q: %v", roomId, err)
			continue
		}

		otherId, ok := otherParticipant(room.Participants, s.selfId)
		if !ok {
			continue
		}

		views = append(views, RoomView{
			Id:              roomId,
			OtherUserId:     otherId,
			OtherName:       s.displayName(ctx, otherId),
			LastMessageText: room.LastMessageText,
			LastMessageAt:   room.LastMessageAt,
		})
	}

	sortRoomViews(views)

	if s.cb.OnRooms != nil {
		s.cb.OnRooms(views)
	}
}

func (s *Subscriber) handleRoomFeed(snap *Snapshot) {
	var doc roomDoc
	if err := json.Unmarshal(snap.Data, &doc); err != nil {
		s.log.Println("realtime: decode room feed:", err)
		return
	}

	if s.cb.OnMessages != nil {
		s.cb.OnMessages(snap.roomId(), messageList(snap.roomId(), doc))
	}
}

// displayName looks up a user's name through a per-id cache so repeated
// index snapshots don't re-fetch the same profiles.
func (s *Subscriber) displayName(ctx context.Context, userId string) string {
	s.mu.Lock()
	if name, ok := s.nameCache[userId]; ok {
		s.mu.Unlock()
		return name
	}
	s.mu.Unlock()

	user, err := s.dir.GetUser(ctx, userId)
	if err != nil {
		s.log.Printf("realtime: resolve user %q: %v", userId, err)
		return userId
	}

	s.mu.Lock()
	s.nameCache[userId] = user.Username
	s.mu.Unlock()

	return user.Username
}

// Close tears the connection down. Safe to call multiple times and from
// session teardown hooks.
func (s *Subscriber) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.cancel()
		s.conn.Close()
	})
}

// Done is closed once the read loop has exited.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

func frameId() string {
	id, err := shortid.Generate()
	if err != nil {
		return ""
	}
	return id
}
