package session

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/Neshaki091/evtrade-client/internal/types"
)

const stateFileName = "session.json"

// persistedState is the on-disk shape: the bearer token and the cached
// user profile are stored and cleared together.
type persistedState struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

// Session holds the authenticated user's token and cached profile. It is
// created once and passed explicitly to every component that needs it;
// nothing reads ambient global state.
type Session struct {
	mu      sync.RWMutex
	log     *log.Logger
	path    string
	token   string
	user    types.User
	onClear []func()
}

func New(logger *log.Logger, stateDir string) (*Session, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	s := &Session{
		log:  logger,
		path: filepath.Join(stateDir, stateFileName),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Session) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read session file: %w", err)
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt state file is treated as logged out.
		s.log.Printf("discarding unreadable session file: %v", err)
		return nil
	}

	s.token = state.Token
	s.user = state.User
	return nil
}

// Establish stores the token and profile returned by a successful login
// and persists them for the next run.
func (s *Session) Establish(token string, user types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.user = user

	data, err := json.Marshal(persistedState{Token: token, User: user})
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

func (s *Session) User() (types.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user, s.token != ""
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token != ""
}

// OnClear registers fn to run the next time the session is torn down,
// whether by logout or by a rejected credential. Watchers register their
// baseline resets here so a later login by a different user starts clean.
func (s *Session) OnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onClear = append(s.onClear, fn)
}

// Clear wipes the token and profile together and removes the state file.
// Registered hooks run exactly once each and are then dropped. Clearing
// an already-cleared session is a no-op.
func (s *Session) Clear() {
	s.mu.Lock()
	if s.token == "" && len(s.onClear) == 0 {
		s.mu.Unlock()
		return
	}

	s.token = ""
	s.user = types.User{}
	hooks := s.onClear
	s.onClear = nil

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Printf("remove session file: %v", err)
	}
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// ExpiresAt decodes the token's exp claim without verifying the
// signature, which the client has no key for. The backend remains the
// authority on token validity.
func (s *Session) ExpiresAt() (time.Time, bool) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}

	return time.Unix(int64(exp), 0), true
}
