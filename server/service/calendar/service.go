package calendar

import (
	"context"
	"log/slog"

	"github.com/nhatminh/trolyai/plugin/ai/vntime"
)

type service struct {
	provider Provider
	resolver *vntime.Resolver
}

// NewService creates the calendar service on the given provider and
// date resolver.
func NewService(provider Provider, resolver *vntime.Resolver) Service {
	return &service{
		provider: provider,
		resolver: resolver,
	}
}

// clampResults clamps a requested result count to [1, MaxResults].
func clampResults(n int) int64 {
	if n < 1 {
		n = 1
	}
	if n > MaxResults {
		n = MaxResults
	}
	return int64(n)
}

func (s *service) ListUpcoming(ctx context.Context, n int) ([]*Event, error) {
	now := s.resolver.Now().UTC()
	return s.provider.ListEvents(ctx, ListQuery{
		TimeMin:    &now,
		MaxResults: clampResults(n),
	})
}

func (s *service) Search(ctx context.Context, query string, maxResults int) ([]*Event, error) {
	// No time lower bound: search can return past events.
	return s.provider.ListEvents(ctx, ListQuery{
		Query:      query,
		MaxResults: clampResults(maxResults),
	})
}

func (s *service) EventsOnDate(ctx context.Context, dateText string) (vntime.Date, []*Event, error) {
	date, err := s.resolver.ParseDate(dateText)
	if err != nil {
		return vntime.Date{}, nil, err
	}
	events, err := s.eventsInDay(ctx, date)
	return date, events, err
}

func (s *service) Today(ctx context.Context) (vntime.Date, []*Event, error) {
	date := s.resolver.RelativeDay(0)
	events, err := s.eventsInDay(ctx, date)
	return date, events, err
}

func (s *service) Tomorrow(ctx context.Context) (vntime.Date, []*Event, error) {
	date := s.resolver.RelativeDay(1)
	events, err := s.eventsInDay(ctx, date)
	return date, events, err
}

func (s *service) eventsInDay(ctx context.Context, date vntime.Date) ([]*Event, error) {
	start, end := s.resolver.DayWindow(date)
	return s.provider.ListEvents(ctx, ListQuery{
		TimeMin:    &start,
		TimeMax:    &end,
		MaxResults: MaxResults,
	})
}

func (s *service) Create(ctx context.Context, req *CreateRequest) (*CreateResult, error) {
	// Both bounds are validated before any network call; a malformed
	// input never causes a partial mutation.
	start, err := s.resolver.ParseDateTime(req.StartText)
	if err != nil {
		return nil, err
	}
	end, err := s.resolver.ParseDateTime(req.EndText)
	if err != nil {
		return nil, err
	}

	created, err := s.provider.InsertEvent(ctx, &Draft{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Start:       start,
		End:         end,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("calendar event created",
		"event_id", created.ID,
		"title", created.Title,
		"all_day", start.AllDay())

	return &CreateResult{Event: created, AllDay: start.AllDay()}, nil
}

func (s *service) Delete(ctx context.Context, titleQuery string) (*DeleteOutcome, error) {
	now := s.resolver.Now().UTC()
	matches, err := s.provider.ListEvents(ctx, ListQuery{
		TimeMin:    &now,
		Query:      titleQuery,
		MaxResults: MaxResults,
	})
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		return &DeleteOutcome{MatchCount: 0}, nil
	}

	// Best-effort policy: delete the first of the ascending-start matches
	// and report the total count so ambiguity is visible to the caller.
	first := matches[0]
	if err := s.provider.DeleteEvent(ctx, first.ID); err != nil {
		return nil, err
	}

	slog.Info("calendar event deleted",
		"event_id", first.ID,
		"title", first.Title,
		"match_count", len(matches))

	return &DeleteOutcome{Deleted: first, MatchCount: len(matches)}, nil
}
