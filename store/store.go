// Package store provides database access for conversation persistence.
package store

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v4"
)

// Session is one chat conversation.
type Session struct {
	ID        int32
	UID       string
	Title     string
	CreatedTs int64
	UpdatedTs int64
}

// FindSession filters session listings. Nil fields are ignored.
type FindSession struct {
	ID  *int32
	UID *string
}

// Message role constants mirror the chat roles sent to the model.
const (
	MessageRoleUser      = "USER"
	MessageRoleAssistant = "ASSISTANT"
)

// Message is one turn inside a session.
type Message struct {
	ID        int32
	SessionID int32
	Role      string
	Content   string
	CreatedTs int64
}

// FindMessage filters message listings.
type FindMessage struct {
	SessionID *int32
}

// Store provides database access to all raw objects.
type Store struct {
	driver Driver
}

// New creates a new instance of Store.
func New(driver Driver) *Store {
	return &Store{driver: driver}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// CreateSession mints a UID and persists a new session.
func (s *Store) CreateSession(ctx context.Context, title string) (*Session, error) {
	now := time.Now().Unix()
	return s.driver.CreateSession(ctx, &Session{
		UID:       shortuuid.New(),
		Title:     title,
		CreatedTs: now,
		UpdatedTs: now,
	})
}

func (s *Store) GetSession(ctx context.Context, find *FindSession) (*Session, error) {
	list, err := s.driver.ListSessions(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListSessions(ctx context.Context, find *FindSession) ([]*Session, error) {
	return s.driver.ListSessions(ctx, find)
}

func (s *Store) UpdateSessionTitle(ctx context.Context, id int32, title string) error {
	return s.driver.UpdateSessionTitle(ctx, id, title, time.Now().Unix())
}

func (s *Store) DeleteSession(ctx context.Context, id int32) error {
	return s.driver.DeleteSession(ctx, id)
}

// AppendMessage persists one turn and bumps the session's updated
// timestamp.
func (s *Store) AppendMessage(ctx context.Context, msg *Message) (*Message, error) {
	if msg.CreatedTs == 0 {
		msg.CreatedTs = time.Now().Unix()
	}
	created, err := s.driver.CreateMessage(ctx, msg)
	if err != nil {
		return nil, err
	}
	if err := s.driver.TouchSession(ctx, msg.SessionID, msg.CreatedTs); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error) {
	return s.driver.ListMessages(ctx, find)
}
