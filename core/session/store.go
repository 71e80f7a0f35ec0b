// Package session holds the single source of truth for who is logged in and with what token.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core"
)

var (
	// errors
	ErrMissingToken = errors.New("token is required")
	ErrInvalidRole  = errors.New("role must be one of admin, teacher or student")
)

// Storage is durable client storage for serialized sessions, keyed by namespace.
// Load returns (nil, nil) when nothing is stored under key.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the client-held proof of authentication.
// Token and Role are both set or both empty.
type Session struct {
	Token string    `json:"token,omitempty"`
	Role  core.Role `json:"role,omitempty"`
	User  *User     `json:"user,omitempty"`
}

func (s Session) IsLoggedIn() bool { return s.Token != "" }

func (s Session) valid() bool {
	if s.Token == "" {
		return s.Role == ""
	}
	return s.Role.Valid()
}

// Store is the only writer of the session. It is safe for concurrent use; every
// mutation is persisted before it returns. Processes sharing the same Storage are
// last-write-wins: there is no cross-process synchronization.
type Store struct {
	mu        sync.RWMutex
	sess      Session
	storage   Storage
	namespace string
	listeners []func(Session)
}

// NewStore restores the session persisted under namespace.
// A persisted session that is unreadable or half-populated is discarded.
func NewStore(ctx context.Context, storage Storage, namespace string) (*Store, error) {
	s := &Store{storage: storage, namespace: namespace}

	data, err := storage.Load(ctx, namespace)
	if err != nil {
		return nil, errors.Wrap(err, "loading session")
	}
	if len(data) == 0 {
		return s, nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || !sess.valid() {
		return s, nil
	}
	if sess.Token == "" {
		sess.User = nil
	}
	s.sess = sess
	return s, nil
}

// Namespace is the storage key of the session.
func (s *Store) Namespace() string { return s.namespace }

// Storage returns the durable storage backing the store.
func (s *Store) Storage() Storage { return s.storage }

// SetAuth replaces the current session, unconditionally.
func (s *Store) SetAuth(ctx context.Context, token string, role core.Role, user User) error {
	if token == "" {
		return core.NewValidationError(ErrMissingToken, core.FieldError{Field: "token", Error: ErrMissingToken.Error()})
	}
	if !role.Valid() {
		return core.NewValidationError(ErrInvalidRole, core.FieldError{Field: "role", Error: ErrInvalidRole.Error()})
	}
	usr := user
	return s.replace(ctx, Session{Token: token, Role: role, User: &usr})
}

// Logout clears the session. It is safe to call when already logged out.
// The in-memory session is cleared even if it could not be persisted.
func (s *Store) Logout(ctx context.Context) error {
	return s.replace(ctx, Session{})
}

func (s *Store) replace(ctx context.Context, sess Session) error {
	s.mu.Lock()
	s.sess = sess
	listeners := make([]func(Session), len(s.listeners))
	copy(listeners, s.listeners)
	err := s.persist(ctx)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(sess.copy())
	}
	return err
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context) error {
	if !s.sess.IsLoggedIn() {
		return errors.Wrap(s.storage.Delete(ctx, s.namespace), "clearing session")
	}
	data, err := json.Marshal(s.sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	return errors.Wrap(s.storage.Save(ctx, s.namespace, data), "saving session")
}

// Subscribe registers fn to be called after every mutation.
func (s *Store) Subscribe(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Session returns a snapshot of the current session.
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.copy()
}

func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.IsLoggedIn()
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.Token
}

func (s *Store) Role() core.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.Role
}

func (s Session) copy() Session {
	if s.User != nil {
		usr := *s.User
		s.User = &usr
	}
	return s
}
