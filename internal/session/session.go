// package session holds the current user as an observable, persisted value
package session

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/taskx/internal/models"
)

// DefaultKey is the storage key holding the serialized current user.
const DefaultKey = "current_user"

// Listener receives the current user (nil when logged out).
type Listener func(*models.User)

// Store is the single source of truth for who is logged in.
//
// The value and listener list are guarded by a mutex; listeners run synchronously on the goroutine that calls [Store.Set].
type Store struct {
	mu        sync.Mutex
	current   *models.User
	listeners map[int]Listener
	nextID    int

	storage Storage
	key     string
	logger  *log.Logger
}

// Option configures a [Store].
type Option func(*Store)

// WithKey overrides [DefaultKey].
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a [Store] and reads storage once.
//
// A stored value that cannot be read or parsed is treated as absent.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		listeners: map[int]Listener{},
		storage:   storage,
		key:       DefaultKey,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current = s.restore()
	return s
}

func (s *Store) restore() *models.User {
	data, found, err := s.storage.Load(s.key)
	if err != nil {
		s.logger.Debug("failed to read stored session", "key", s.key, "error", err)
		return nil
	}
	if !found {
		return nil
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		s.logger.Debug("ignoring unparsable stored session", "key", s.key, "error", err)
		return nil
	}
	if user.ID == "" {
		s.logger.Debug("ignoring stored session without id", "key", s.key)
		return nil
	}
	return &user
}

// Current returns a copy of the current user, or nil.
func (s *Store) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.current)
}

// IsLoggedIn reports whether a current user is present.
func (s *Store) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Subscribe registers fn and immediately replays the current value to it.
// The returned function removes the subscription; calling it more than once is harmless.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := clone(s.current)
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Set replaces the current user, notifies every listener, then persists.
//
// A nil user removes the stored key. A persistence failure is logged and returned; the in-memory value stays replaced.
func (s *Store) Set(user *models.User) error {
	s.mu.Lock()
	s.current = clone(user)
	listeners := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(clone(user))
	}

	if err := s.persist(user); err != nil {
		s.logger.Error("failed to persist session", "key", s.key, "error", err)
		return err
	}
	return nil
}

// Clear is Set(nil).
func (s *Store) Clear() error {
	return s.Set(nil)
}

func (s *Store) persist(user *models.User) error {
	if user == nil {
		if err := s.storage.Remove(s.key); err != nil {
			return fmt.Errorf("failed to remove session: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.storage.Save(s.key, data); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func clone(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
