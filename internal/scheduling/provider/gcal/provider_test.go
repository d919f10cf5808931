package gcal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"voice-scheduling-agent/internal/scheduling"
	"voice-scheduling-agent/pkg/gcalendar"
)

type fakeClient struct {
	events  []gcalendar.Event
	listErr error

	lastList gcalendar.ListEventsRequest
}

func (f *fakeClient) ListEvents(ctx context.Context, req gcalendar.ListEventsRequest) ([]gcalendar.Event, error) {
	f.lastList = req
	return f.events, f.listErr
}

func (f *fakeClient) CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error) {
	return &gcalendar.Event{ID: "evt-1"}, nil
}

func TestFetchBusyIntervalsAllDayCoversLocalDay(t *testing.T) {
	sydney, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	// An all-day event on June 11 as the client reports it: midnight
	// bounds in the calendar's zone.
	client := &fakeClient{events: []gcalendar.Event{{
		ID:        "holiday",
		Summary:   "Company Holiday",
		StartTime: time.Date(2025, 6, 11, 0, 0, 0, 0, sydney),
		EndTime:   time.Date(2025, 6, 12, 0, 0, 0, 0, sydney),
		AllDay:    true,
	}}}
	p := New(client, sydney)

	from := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC) // Sydney midnight
	to := from.Add(24 * time.Hour)
	busy, err := p.FetchBusyIntervals(context.Background(), "primary", from, to)
	require.NoError(t, err)

	assert.Equal(t, sydney, client.lastList.Location)

	require.Len(t, busy, 1)
	assert.True(t, busy[0].Start.Equal(from), "start = %v, want %v", busy[0].Start, from)
	assert.True(t, busy[0].End.Equal(to), "end = %v, want %v", busy[0].End, to)

	// The whole Sydney business day is inside the interval, so no slot
	// survives for that day.
	day := time.Date(2025, 6, 11, 0, 0, 0, 0, sydney)
	slots := scheduling.FindOpenSlots(day, sydney, scheduling.BusinessHours{StartHour: 9, EndHour: 18}, scheduling.SlotQuery{}, busy)
	assert.Empty(t, slots)
}

func TestFetchBusyIntervalsClassifiesErrors(t *testing.T) {
	client := &fakeClient{listErr: &googleapi.Error{Code: 503}}
	p := New(client, nil)

	_, err := p.FetchBusyIntervals(context.Background(), "primary", time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.True(t, scheduling.IsTransient(err))

	client.listErr = &googleapi.Error{Code: 403}
	_, err = p.FetchBusyIntervals(context.Background(), "primary", time.Now(), time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.False(t, scheduling.IsTransient(err))

	var pe *scheduling.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "fetch_busy", pe.Op)
}
