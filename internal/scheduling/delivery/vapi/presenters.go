package vapi

import (
	"voice-scheduling-agent/internal/model"
	"voice-scheduling-agent/pkg/response"
)

// --- Response DTOs ---

type bookingResp struct {
	ID              int64             `json:"id"`
	CallerName      string            `json:"caller_name"`
	Title           string            `json:"title"`
	Date            response.Date     `json:"date"`
	Start           response.DateTime `json:"start"`
	End             response.DateTime `json:"end"`
	DurationMinutes int               `json:"duration_minutes"`
	Timezone        string            `json:"timezone"`
	EventID         string            `json:"event_id"`
	EventLink       string            `json:"event_link"`
	Status          string            `json:"status"`
	CreatedAt       response.DateTime `json:"created_at"`
}

func newBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:              b.ID,
		CallerName:      b.CallerName,
		Title:           b.Title,
		Date:            response.Date(b.StartUTC),
		Start:           response.DateTime(b.StartUTC),
		End:             response.DateTime(b.EndUTC),
		DurationMinutes: b.DurationMinutes,
		Timezone:        b.Timezone,
		EventID:         b.EventID,
		EventLink:       b.EventLink,
		Status:          b.Status,
		CreatedAt:       response.DateTime(b.CreatedAt),
	}
}

type listBookingsResp struct {
	Bookings []bookingResp `json:"bookings"`
}

func newListBookingsResp(bookings []model.Booking) listBookingsResp {
	items := make([]bookingResp, len(bookings))
	for i, b := range bookings {
		items[i] = newBookingResp(b)
	}
	return listBookingsResp{Bookings: items}
}
