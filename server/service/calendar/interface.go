// Package calendar translates resolved date windows and user filters into
// requests against an external calendar provider and back into structured
// event values. It owns no event data; every operation is one read or one
// write against the provider.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nhatminh/trolyai/plugin/ai/vntime"
)

const (
	// MaxResults caps every listing operation.
	MaxResults = 50

	// DefaultCalendarID is the provider-side calendar to operate on.
	DefaultCalendarID = "primary"
)

// EventStart is the start representation of a provider event. Timed events
// carry a UTC instant; all-day events carry the provider's bare date
// string verbatim, never timezone-converted.
type EventStart struct {
	Instant time.Time
	AllDay  bool
	Date    vntime.Date
}

// Event is a read-only view of a provider event.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	HTMLLink    string
	Start       EventStart
}

// CreateRequest describes a new event. StartText and EndText are raw user
// input, validated through the date resolver before any network call.
type CreateRequest struct {
	Title       string
	StartText   string
	EndText     string
	Description string
	Location    string
}

// CreateResult reports a successful insert.
type CreateResult struct {
	Event *Event
	// AllDay mirrors the classification of the parsed input.
	AllDay bool
}

// DeleteOutcome reports a delete-by-title attempt. A nil Deleted means no
// candidate matched, which is a negative result, not an error. MatchCount
// above one means the deletion was ambiguous and only the first match was
// removed.
type DeleteOutcome struct {
	Deleted    *Event
	MatchCount int
}

// ListQuery is the provider-side listing filter.
type ListQuery struct {
	TimeMin    *time.Time
	TimeMax    *time.Time
	Query      string
	MaxResults int64
}

// Provider is the narrow surface this service needs from the external
// calendar API. The Google implementation lives in google.go; tests
// substitute a fake.
type Provider interface {
	// ListEvents returns single-occurrence events ordered by ascending
	// start time.
	ListEvents(ctx context.Context, q ListQuery) ([]*Event, error)

	// InsertEvent creates the event and returns the provider's view of it.
	InsertEvent(ctx context.Context, draft *Draft) (*Event, error)

	// DeleteEvent removes the event with the given provider identifier.
	DeleteEvent(ctx context.Context, id string) error
}

// Draft is a validated event body ready for insertion.
type Draft struct {
	Title       string
	Description string
	Location    string
	Start       vntime.Stamp
	End         vntime.Stamp
}

// Service exposes the calendar operations consumed by the agent tools.
type Service interface {
	ListUpcoming(ctx context.Context, n int) ([]*Event, error)
	Search(ctx context.Context, query string, maxResults int) ([]*Event, error)
	EventsOnDate(ctx context.Context, dateText string) (vntime.Date, []*Event, error)
	Today(ctx context.Context) (vntime.Date, []*Event, error)
	Tomorrow(ctx context.Context) (vntime.Date, []*Event, error)
	Create(ctx context.Context, req *CreateRequest) (*CreateResult, error)
	Delete(ctx context.Context, titleQuery string) (*DeleteOutcome, error)
}

// ProviderError wraps a failure from the external calendar API. The
// underlying message is reported verbatim to the caller and never retried.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("calendar provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err is a calendar provider failure.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
