// Package icsfeed exposes a read-only ICS subscription feed as a busy-time
// source. It lets the availability checks consider calendars the agent can
// see but not write to (shared team calendars, public holiday feeds).
package icsfeed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"voice-scheduling-agent/internal/scheduling"
	"voice-scheduling-agent/internal/scheduling/provider"
)

// Provider implements provider.CalendarProvider over an ICS feed URL.
// The calendarID argument of FetchBusyIntervals is ignored; the feed URL
// identifies the calendar. CreateEvent always fails because ICS feeds are
// read-only.
type Provider struct {
	url    string
	client *http.Client
}

func New(url string) *Provider {
	return &Provider{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (p *Provider) FetchBusyIntervals(ctx context.Context, _ string, from, to time.Time) ([]scheduling.BusyInterval, error) {
	body, err := p.fetch(ctx)
	if err != nil {
		return nil, err
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, scheduling.NonRetryable("fetch_busy", fmt.Errorf("parse ics feed: %w", err))
	}

	intervals := make([]scheduling.BusyInterval, 0)
	for _, ve := range cal.Events() {
		interval, ok := busyFromVEvent(ve)
		if !ok {
			continue
		}
		if interval.Start.Before(to) && from.Before(interval.End) {
			intervals = append(intervals, interval)
		}
	}
	return intervals, nil
}

// CreateEvent is unsupported: an ICS subscription cannot be written to.
func (p *Provider) CreateEvent(_ context.Context, _ provider.CreateEventInput) (scheduling.EventRef, error) {
	return scheduling.EventRef{}, scheduling.NonRetryable("create_event", scheduling.ErrReadOnlySource)
}

func (p *Provider) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, scheduling.NonRetryable("fetch_busy", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, scheduling.Transient("fetch_busy", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("fetch ics feed: unexpected status %d", resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, scheduling.Transient("fetch_busy", err)
		}
		return nil, scheduling.NonRetryable("fetch_busy", err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, scheduling.Transient("fetch_busy", err)
	}
	return body, nil
}

// busyFromVEvent maps a VEVENT to a busy interval. All-day events occupy
// their whole calendar day. Events without usable start/end are skipped.
func busyFromVEvent(ve *ical.VEvent) (scheduling.BusyInterval, bool) {
	start, err := ve.GetStartAt()
	if err != nil {
		return scheduling.BusyInterval{}, false
	}
	end, err := ve.GetEndAt()
	if err != nil || !end.After(start) {
		// DTEND is optional for all-day events; default to one day.
		if isAllDay(ve) {
			end = start.Add(24 * time.Hour)
		} else {
			return scheduling.BusyInterval{}, false
		}
	}

	var label string
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		label = p.Value
	}

	return scheduling.BusyInterval{
		Start: start.UTC(),
		End:   end.UTC(),
		Label: label,
	}, true
}

func isAllDay(ve *ical.VEvent) bool {
	prop := ve.GetProperty(ical.ComponentPropertyDtStart)
	if prop == nil {
		return false
	}
	if vs, ok := prop.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(prop.Value, "T")
}

var _ provider.CalendarProvider = (*Provider)(nil)
