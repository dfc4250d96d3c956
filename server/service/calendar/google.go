package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/nhatminh/trolyai/internal/googleauth"
	"github.com/nhatminh/trolyai/plugin/ai/vntime"
)

// GoogleProvider implements Provider against the Google Calendar v3 API.
// The service handle is requested per call from the injected source, so
// an invalidated handle is rebuilt transparently on the next request.
type GoogleProvider struct {
	source     *googleauth.ClientSource
	resolver   *vntime.Resolver
	calendarID string
}

// NewGoogleProvider creates a provider on the primary calendar.
func NewGoogleProvider(source *googleauth.ClientSource, resolver *vntime.Resolver) *GoogleProvider {
	return &GoogleProvider{
		source:     source,
		resolver:   resolver,
		calendarID: DefaultCalendarID,
	}
}

func (p *GoogleProvider) ListEvents(ctx context.Context, q ListQuery) ([]*Event, error) {
	svc, err := p.source.Service(ctx)
	if err != nil {
		return nil, err
	}

	call := svc.Events.List(p.calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(q.MaxResults)
	if q.TimeMin != nil {
		call = call.TimeMin(q.TimeMin.Format(time.RFC3339))
	}
	if q.TimeMax != nil {
		call = call.TimeMax(q.TimeMax.Format(time.RFC3339))
	}
	if q.Query != "" {
		call = call.Q(q.Query)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, &ProviderError{Op: "list events", Err: err}
	}

	events := make([]*Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		ev, err := p.fromAPI(item)
		if err != nil {
			// Malformed provider data is surfaced, never skipped.
			return nil, &ProviderError{Op: "list events", Err: err}
		}
		events = append(events, ev)
	}
	return events, nil
}

func (p *GoogleProvider) InsertEvent(ctx context.Context, draft *Draft) (*Event, error) {
	svc, err := p.source.Service(ctx)
	if err != nil {
		return nil, err
	}

	body := &gcal.Event{
		Summary:     draft.Title,
		Description: draft.Description,
		Location:    draft.Location,
		Start:       p.toAPITime(draft.Start),
		End:         p.toAPITime(draft.End),
	}

	created, err := svc.Events.Insert(p.calendarID, body).Context(ctx).Do()
	if err != nil {
		return nil, &ProviderError{Op: "insert event", Err: err}
	}
	return p.fromAPI(created)
}

func (p *GoogleProvider) DeleteEvent(ctx context.Context, id string) error {
	svc, err := p.source.Service(ctx)
	if err != nil {
		return err
	}
	if err := svc.Events.Delete(p.calendarID, id).Context(ctx).Do(); err != nil {
		return &ProviderError{Op: "delete event", Err: err}
	}
	return nil
}

// toAPITime maps a parsed stamp to the provider's start/end body: timed
// values become RFC3339 UTC instants, all-day values bare local dates.
func (p *GoogleProvider) toAPITime(s vntime.Stamp) *gcal.EventDateTime {
	if instant, ok := p.resolver.InstantUTC(s); ok {
		return &gcal.EventDateTime{
			DateTime: instant.Format(time.RFC3339),
			TimeZone: "UTC",
		}
	}
	return &gcal.EventDateTime{Date: s.Date.ISO()}
}

// fromAPI converts a provider event. A start with a dateTime is a timed
// event; a start with only a date is all-day and kept verbatim.
func (p *GoogleProvider) fromAPI(item *gcal.Event) (*Event, error) {
	if item.Start == nil {
		return nil, fmt.Errorf("event %s: missing start", item.Id)
	}

	ev := &Event{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		Location:    item.Location,
		HTMLLink:    item.HtmlLink,
	}

	switch {
	case item.Start.DateTime != "":
		t, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return nil, fmt.Errorf("event %s: bad start time %q: %w", item.Id, item.Start.DateTime, err)
		}
		ev.Start = EventStart{Instant: t.UTC()}
	case item.Start.Date != "":
		var y, m, d int
		if _, err := fmt.Sscanf(item.Start.Date, "%d-%d-%d", &y, &m, &d); err != nil {
			return nil, fmt.Errorf("event %s: bad start date %q: %w", item.Id, item.Start.Date, err)
		}
		ev.Start = EventStart{AllDay: true, Date: vntime.Date{Year: y, Month: time.Month(m), Day: d}}
	default:
		return nil, fmt.Errorf("event %s: empty start", item.Id)
	}

	return ev, nil
}
