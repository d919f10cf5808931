package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-scheduling-agent/internal/model"
	"voice-scheduling-agent/internal/scheduling"
	"voice-scheduling-agent/pkg/timeparse"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) {}
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

type mockUseCase struct {
	bookOutcome scheduling.BookOutcome
	bookErr     error
	bookInput   scheduling.BookInput

	checkOutput scheduling.CheckOutput
	checkErr    error

	slotsOutput scheduling.SlotsOutput
	slotsErr    error
}

func (m *mockUseCase) Book(ctx context.Context, sc model.Scope, input scheduling.BookInput) (scheduling.BookOutcome, error) {
	m.bookInput = input
	return m.bookOutcome, m.bookErr
}

func (m *mockUseCase) CheckAvailability(ctx context.Context, input scheduling.CheckInput) (scheduling.CheckOutput, error) {
	return m.checkOutput, m.checkErr
}

func (m *mockUseCase) FindOpenSlots(ctx context.Context, input scheduling.SlotsInput) (scheduling.SlotsOutput, error) {
	return m.slotsOutput, m.slotsErr
}

type mockBookings struct {
	bookings []model.Booking
}

func (m *mockBookings) Insert(ctx context.Context, b *model.Booking) error { return nil }

func (m *mockBookings) Recent(ctx context.Context, limit int) ([]model.Booking, error) {
	if limit < len(m.bookings) {
		return m.bookings[:limit], nil
	}
	return m.bookings, nil
}

func newTestRouter(uc scheduling.UseCase, secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(uc, nil, SecurityConfig{Secret: secret, RateLimitPerMin: 600}, &mockLogger{})

	r := gin.New()
	r.POST("/api/tool/schedule-event", h.HandleScheduleEvent)
	r.POST("/api/tool/check-availability", h.HandleCheckAvailability)
	r.POST("/api/tool/available-slots", h.HandleAvailableSlots)
	r.POST("/webhook/vapi", h.HandleServerMessage)
	r.POST("/api/direct/schedule", h.HandleDirectSchedule)
	return r
}

func toolPayload(id string, args map[string]any) []byte {
	payload := map[string]any{
		"message": map[string]any{
			"type": "tool-calls",
			"toolCalls": []map[string]any{{
				"id": id,
				"function": map[string]any{
					"name":      "scheduleEvent",
					"arguments": args,
				},
			}},
		},
	}
	body, _ := json.Marshal(payload)
	return body
}

func postJSON(t *testing.T, r *gin.Engine, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeToolResult(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var resp toolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	return resp.Results[0].ToolCallID, resp.Results[0].Result
}

func TestScheduleEventCreated(t *testing.T) {
	when := timeparse.Resolved{
		UTC:      time.Date(2025, 6, 11, 18, 0, 0, 0, time.UTC),
		Timezone: "America/New_York",
	}
	uc := &mockUseCase{bookOutcome: scheduling.BookOutcome{
		Status:          scheduling.OutcomeCreated,
		When:            when,
		Title:           "Team Meeting",
		DurationMinutes: 30,
		Event:           &scheduling.EventRef{ID: "evt-1", Link: "https://calendar.example/evt-1"},
	}}
	r := newTestRouter(uc, "")

	w := postJSON(t, r, "/api/tool/schedule-event", toolPayload("call-1", map[string]any{
		"name":  "Jordan",
		"date":  "tomorrow",
		"time":  "2 PM",
		"title": "Team Meeting",
	}), nil)

	require.Equal(t, http.StatusOK, w.Code)
	id, result := decodeToolResult(t, w)
	assert.Equal(t, "call-1", id)
	assert.Contains(t, result, "'Team Meeting' is confirmed for Wednesday, June 11 at 2:00 PM, 30 minutes")

	assert.Equal(t, "call-1", uc.bookInput.RequestID)
	assert.Equal(t, "tomorrow at 2 PM", uc.bookInput.Phrase)
	assert.True(t, uc.bookInput.Confirmed)
}

func TestScheduleEventConflict(t *testing.T) {
	uc := &mockUseCase{bookOutcome: scheduling.BookOutcome{
		Status: scheduling.OutcomeConflict,
		Conflicts: []scheduling.BusyInterval{{
			Label: "1:1 with Jamie",
		}},
	}}
	r := newTestRouter(uc, "")

	w := postJSON(t, r, "/api/tool/schedule-event", toolPayload("call-2", map[string]any{
		"date": "tomorrow", "time": "2 PM",
	}), nil)

	_, result := decodeToolResult(t, w)
	assert.Contains(t, result, "'1:1 with Jamie'")
	assert.Contains(t, result, "pick a different time")
}

func TestScheduleEventParseFailure(t *testing.T) {
	uc := &mockUseCase{bookErr: &timeparse.ParseError{Reason: timeparse.ReasonUnrecognized, Text: "whenever"}}
	r := newTestRouter(uc, "")

	w := postJSON(t, r, "/api/tool/schedule-event", toolPayload("call-3", map[string]any{
		"date": "whenever",
	}), nil)

	require.Equal(t, http.StatusOK, w.Code)
	_, result := decodeToolResult(t, w)
	assert.Contains(t, result, "couldn't quite understand")
}

func TestScheduleEventPastInstant(t *testing.T) {
	uc := &mockUseCase{bookErr: &timeparse.ParseError{Reason: timeparse.ReasonPastInstant, Text: "yesterday"}}
	r := newTestRouter(uc, "")

	w := postJSON(t, r, "/api/tool/schedule-event", toolPayload("call-4", map[string]any{
		"date": "yesterday", "time": "2 PM",
	}), nil)

	_, result := decodeToolResult(t, w)
	assert.Contains(t, result, "already passed")
}

func TestScheduleEventStringifiedArguments(t *testing.T) {
	uc := &mockUseCase{bookOutcome: scheduling.BookOutcome{
		Status: scheduling.OutcomeCreated,
		Title:  "Quick Sync",
		Event:  &scheduling.EventRef{ID: "evt-2"},
	}}
	r := newTestRouter(uc, "")

	args, _ := json.Marshal(map[string]any{"date": "friday", "time": "10 AM", "title": "Quick Sync"})
	payload := map[string]any{
		"message": map[string]any{
			"toolCalls": []map[string]any{{
				"id": "call-5",
				"function": map[string]any{
					"name":      "scheduleEvent",
					"arguments": string(args),
				},
			}},
		},
	}
	body, _ := json.Marshal(payload)

	w := postJSON(t, r, "/api/tool/schedule-event", body, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "friday at 10 AM", uc.bookInput.Phrase)
}

func TestToolCallRejectedWithoutSecret(t *testing.T) {
	r := newTestRouter(&mockUseCase{}, "s3cret")

	w := postJSON(t, r, "/api/tool/schedule-event", toolPayload("call-6", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, r, "/api/tool/schedule-event", toolPayload("call-6", nil),
		map[string]string{"X-Vapi-Secret": "s3cret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvalidToolPayload(t *testing.T) {
	r := newTestRouter(&mockUseCase{}, "")

	w := postJSON(t, r, "/api/tool/schedule-event", []byte(`{"message":{}}`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckAvailabilityAvailable(t *testing.T) {
	uc := &mockUseCase{checkOutput: scheduling.CheckOutput{
		When: timeparse.Resolved{
			UTC:      time.Date(2025, 6, 11, 18, 0, 0, 0, time.UTC),
			Timezone: "America/New_York",
		},
		DurationMinutes: 30,
		Available:       true,
	}}
	r := newTestRouter(uc, "")

	w := postJSON(t, r, "/api/tool/check-availability", toolPayload("call-7", map[string]any{
		"date": "tomorrow", "time": "2 PM",
	}), nil)

	_, result := decodeToolResult(t, w)
	assert.Contains(t, result, "is available! Shall I go ahead and book it?")
}

func TestAvailableSlotsSpoken(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	day := time.Date(2025, 6, 11, 0, 0, 0, 0, ny)

	uc := &mockUseCase{slotsOutput: scheduling.SlotsOutput{
		Day:      day,
		Timezone: "America/New_York",
		Slots: []scheduling.OpenSlot{
			{Start: time.Date(2025, 6, 11, 9, 0, 0, 0, ny)},
			{Start: time.Date(2025, 6, 11, 10, 0, 0, 0, ny)},
			{Start: time.Date(2025, 6, 11, 11, 30, 0, 0, ny)},
		},
	}}
	r := newTestRouter(uc, "")

	w := postJSON(t, r, "/api/tool/available-slots", toolPayload("call-8", map[string]any{
		"date": "tomorrow", "preferred_period": "morning",
	}), nil)

	_, result := decodeToolResult(t, w)
	assert.Contains(t, result, "On Wednesday, June 11")
	assert.Contains(t, result, "9:00 AM, 10:00 AM, or 11:30 AM")
}

func TestAvailableSlotsFullyBooked(t *testing.T) {
	uc := &mockUseCase{slotsOutput: scheduling.SlotsOutput{
		Day:      time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
		Timezone: "UTC",
	}}
	r := newTestRouter(uc, "")

	w := postJSON(t, r, "/api/tool/available-slots", toolPayload("call-9", map[string]any{
		"date": "tomorrow",
	}), nil)

	_, result := decodeToolResult(t, w)
	assert.Contains(t, result, "pretty packed")
}

func TestServerMessageAck(t *testing.T) {
	r := newTestRouter(&mockUseCase{}, "")

	body := []byte(`{"message":{"type":"end-of-call-report","summary":"booked a meeting","duration":123}}`)
	w := postJSON(t, r, "/webhook/vapi", body, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListBookingsWireFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// Times built in the process-local zone so the formatted output is
	// stable regardless of where the test runs.
	start := time.Date(2025, 6, 11, 14, 0, 0, 0, time.Local)
	repo := &mockBookings{bookings: []model.Booking{{
		ID:              1,
		CallerName:      "Jordan",
		Title:           "Team Meeting",
		StartUTC:        start,
		EndUTC:          start.Add(30 * time.Minute),
		DurationMinutes: 30,
		Timezone:        "America/New_York",
		EventID:         "evt-1",
		Status:          "created",
		CreatedAt:       start,
	}}}

	h := NewHandler(&mockUseCase{}, repo, SecurityConfig{RateLimitPerMin: 600}, &mockLogger{})
	r := gin.New()
	r.GET("/api/bookings", h.HandleListBookings)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"caller_name":"Jordan"`)
	assert.Contains(t, body, `"date":"2025-06-11"`)
	assert.Contains(t, body, `"start":"2025-06-11 14:00:00"`)
	assert.Contains(t, body, `"end":"2025-06-11 14:30:00"`)
}

func TestDirectScheduleConflict(t *testing.T) {
	uc := &mockUseCase{bookOutcome: scheduling.BookOutcome{
		Status: scheduling.OutcomeConflict,
		Conflicts: []scheduling.BusyInterval{{
			Start: time.Date(2025, 6, 11, 18, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 6, 11, 18, 30, 0, 0, time.UTC),
			Label: "Standup",
		}},
	}}
	r := newTestRouter(uc, "")

	body, _ := json.Marshal(DirectScheduleRequest{
		Name:   "Jordan",
		Phrase: "tomorrow at 2 PM",
	})
	w := postJSON(t, r, "/api/direct/schedule", body, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"conflict"`)
	assert.Contains(t, w.Body.String(), "Standup")
}

func TestDirectScheduleMissingFields(t *testing.T) {
	r := newTestRouter(&mockUseCase{}, "")

	w := postJSON(t, r, "/api/direct/schedule", []byte(`{"name":"Jordan"}`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
