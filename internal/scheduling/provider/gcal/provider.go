// Package gcal adapts the Google Calendar client to the scheduling
// provider contract.
package gcal

import (
	"context"
	"time"

	"voice-scheduling-agent/internal/scheduling"
	"voice-scheduling-agent/internal/scheduling/provider"
	"voice-scheduling-agent/pkg/gcalendar"
)

// CalendarClient abstracts the Google Calendar API client for mocking.
type CalendarClient interface {
	ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error)
	CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
}

// Provider implements provider.CalendarProvider backed by Google Calendar.
type Provider struct {
	client CalendarClient
	loc    *time.Location // zone anchoring all-day events; never nil
}

// New wraps a calendar client. loc is the calendar's zone, used to anchor
// all-day events to local calendar days; nil falls back to UTC.
func New(client CalendarClient, loc *time.Location) *Provider {
	if loc == nil {
		loc = time.UTC
	}
	return &Provider{client: client, loc: loc}
}

// FetchBusyIntervals lists the events overlapping [from, to) and maps them
// to busy intervals. All-day events occupy their whole local day.
func (p *Provider) FetchBusyIntervals(ctx context.Context, calendarID string, from, to time.Time) ([]scheduling.BusyInterval, error) {
	events, err := p.client.ListEvents(ctx, gcalendar.ListEventsRequest{
		CalendarID: calendarID,
		TimeMin:    from,
		TimeMax:    to,
		Location:   p.loc,
	})
	if err != nil {
		return nil, classify("fetch_busy", err)
	}

	intervals := make([]scheduling.BusyInterval, 0, len(events))
	for _, event := range events {
		intervals = append(intervals, scheduling.BusyInterval{
			Start: event.StartTime.UTC(),
			End:   event.EndTime.UTC(),
			Label: event.Summary,
		})
	}
	return intervals, nil
}

func (p *Provider) CreateEvent(ctx context.Context, input provider.CreateEventInput) (scheduling.EventRef, error) {
	created, err := p.client.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID:  input.CalendarID,
		Summary:     input.Title,
		Description: input.Description,
		StartTime:   input.StartUTC.In(mustLocation(input.Timezone)),
		EndTime:     input.EndUTC.In(mustLocation(input.Timezone)),
		Timezone:    input.Timezone,
	})
	if err != nil {
		return scheduling.EventRef{}, classify("create_event", err)
	}
	return scheduling.EventRef{ID: created.ID, Link: created.HtmlLink}, nil
}

func classify(op string, err error) *scheduling.ProviderError {
	if gcalendar.IsRetryable(err) {
		return scheduling.Transient(op, err)
	}
	return scheduling.NonRetryable(op, err)
}

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

var _ provider.CalendarProvider = (*Provider)(nil)
