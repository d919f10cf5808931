package vapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"voice-scheduling-agent/internal/model"
	"voice-scheduling-agent/internal/scheduling"
	"voice-scheduling-agent/pkg/response"
	"voice-scheduling-agent/pkg/timeparse"
)

// HandleScheduleEvent creates a calendar event. The assistant calls this
// tool only after the caller has verbally confirmed title, time, and
// duration.
//
//	@Summary	Schedule a calendar event (voice tool)
//	@Tags		tools
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	toolResponse
//	@Router		/api/tool/schedule-event [post]
func (h *Handler) HandleScheduleEvent(c *gin.Context) {
	ctx := c.Request.Context()

	call, args, ok := h.acceptToolCall(c)
	if !ok {
		return
	}

	input := scheduling.BookInput{
		RequestID:       call.ID,
		CallerName:      stringArg(args, "name"),
		Phrase:          phraseFromArgs(args),
		Title:           stringArg(args, "title"),
		DurationMinutes: intArg(args, "duration_minutes"),
		Timezone:        stringArg(args, "timezone"),
		Confirmed:       boolArg(args, "confirmed", true),
	}
	sc := model.Scope{UserID: input.CallerName, CallerID: call.ID}

	outcome, err := h.uc.Book(ctx, sc, input)
	if err != nil {
		c.JSON(http.StatusOK, newToolResponse(call.ID, speakParseFailure(err)))
		return
	}

	c.JSON(http.StatusOK, newToolResponse(call.ID, speakOutcome(outcome)))
}

// HandleCheckAvailability reports whether a time slot is free.
//
//	@Summary	Check a time slot (voice tool)
//	@Tags		tools
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	toolResponse
//	@Router		/api/tool/check-availability [post]
func (h *Handler) HandleCheckAvailability(c *gin.Context) {
	ctx := c.Request.Context()

	call, args, ok := h.acceptToolCall(c)
	if !ok {
		return
	}

	out, err := h.uc.CheckAvailability(ctx, scheduling.CheckInput{
		Phrase:          phraseFromArgs(args),
		DurationMinutes: intArg(args, "duration_minutes"),
		Timezone:        stringArg(args, "timezone"),
	})
	if err != nil {
		var pe *timeparse.ParseError
		if errors.As(err, &pe) {
			c.JSON(http.StatusOK, newToolResponse(call.ID, speakParseFailure(err)))
			return
		}
		h.l.Errorf(ctx, "check-availability failed: %v", err)
		c.JSON(http.StatusOK, newToolResponse(call.ID,
			"I'm having trouble checking the calendar right now. Could you give me the time and I'll try to book it directly?"))
		return
	}

	if out.Available {
		c.JSON(http.StatusOK, newToolResponse(call.ID,
			fmt.Sprintf("%s is available! Shall I go ahead and book it?", out.When.Spoken())))
		return
	}

	conflictName := "another event"
	if out.Conflicts[0].Label != "" {
		conflictName = fmt.Sprintf("'%s'", out.Conflicts[0].Label)
	}
	c.JSON(http.StatusOK, newToolResponse(call.ID,
		fmt.Sprintf("That slot isn't available, there's %s at that time. Would you like to try a different time, or should I check what's open?", conflictName)))
}

// HandleAvailableSlots finds open time slots on a given day.
//
//	@Summary	List open slots (voice tool)
//	@Tags		tools
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	toolResponse
//	@Router		/api/tool/available-slots [post]
func (h *Handler) HandleAvailableSlots(c *gin.Context) {
	ctx := c.Request.Context()

	call, args, ok := h.acceptToolCall(c)
	if !ok {
		return
	}

	dayPhrase := stringArg(args, "date")
	out, err := h.uc.FindOpenSlots(ctx, scheduling.SlotsInput{
		DayPhrase:       dayPhrase,
		Part:            partFromArg(stringArg(args, "preferred_period")),
		Count:           intArg(args, "count"),
		DurationMinutes: intArg(args, "duration_minutes"),
		Timezone:        stringArg(args, "timezone"),
	})
	if err != nil {
		var pe *timeparse.ParseError
		if errors.As(err, &pe) {
			c.JSON(http.StatusOK, newToolResponse(call.ID,
				"I couldn't understand which day you meant. Could you say it once more?"))
			return
		}
		h.l.Errorf(ctx, "available-slots failed: %v", err)
		c.JSON(http.StatusOK, newToolResponse(call.ID,
			"I'm having trouble checking the schedule. Could you suggest a specific time and I'll see if it works?"))
		return
	}

	if dayPhrase == "" {
		dayPhrase = "that day"
	}
	if len(out.Slots) == 0 {
		c.JSON(http.StatusOK, newToolResponse(call.ID,
			fmt.Sprintf("It looks like %s is pretty packed. Would you like to try a different day?", dayPhrase)))
		return
	}

	c.JSON(http.StatusOK, newToolResponse(call.ID,
		fmt.Sprintf("On %s, I have these slots open: %s. Which works best for you?",
			out.Day.Format("Monday, January 2"), speakSlots(out))))
}

// HandleServerMessage receives non-tool server messages from the voice
// platform, such as end-of-call reports. They are logged and acknowledged.
func (h *Handler) HandleServerMessage(c *gin.Context) {
	ctx := c.Request.Context()

	if !h.authorize(c) {
		return
	}

	var env envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		response.Error(c, err, nil)
		return
	}

	switch env.Message.Type {
	case "end-of-call-report":
		h.l.Infof(ctx, "end-of-call report: duration=%s cost=%s summary=%q",
			string(env.Message.Duration), string(env.Message.Cost), truncate(env.Message.Summary, 200))
	default:
		h.l.Debugf(ctx, "server message type=%s", env.Message.Type)
	}

	response.OK(c, gin.H{"status": "ok"})
}

// HandleListBookings returns the most recent bookings, for the dashboard.
//
//	@Summary	List recent bookings
//	@Tags		bookings
//	@Produce	json
//	@Param		limit	query	int	false	"max bookings"	default(20)
//	@Router		/api/bookings [get]
func (h *Handler) HandleListBookings(c *gin.Context) {
	ctx := c.Request.Context()

	if h.bookings == nil {
		response.OK(c, newListBookingsResp(nil))
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	bookings, err := h.bookings.Recent(ctx, limit)
	if err != nil {
		h.l.Errorf(ctx, "list bookings failed: %v", err)
		response.InternalError(c, err)
		return
	}
	response.OK(c, newListBookingsResp(bookings))
}

// HandleDirectSchedule is the direct booking endpoint for curl testing,
// bypassing the voice platform. It books immediately, treating the request
// itself as confirmation.
//
//	@Summary	Schedule directly (testing)
//	@Tags		bookings
//	@Accept		json
//	@Produce	json
//	@Param		request	body	DirectScheduleRequest	true	"booking request"
//	@Router		/api/direct/schedule [post]
func (h *Handler) HandleDirectSchedule(c *gin.Context) {
	ctx := c.Request.Context()

	var req DirectScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err, nil)
		return
	}

	outcome, err := h.uc.Book(ctx, model.Scope{UserID: req.Name}, scheduling.BookInput{
		CallerName:      req.Name,
		Phrase:          req.Phrase,
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
		Timezone:        req.Timezone,
		Confirmed:       true,
	})
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	switch outcome.Status {
	case scheduling.OutcomeCreated:
		response.OK(c, gin.H{
			"status":           "created",
			"event_id":         outcome.Event.ID,
			"event_link":       outcome.Event.Link,
			"start":            outcome.When.UTC,
			"title":            outcome.Title,
			"duration_minutes": outcome.DurationMinutes,
		})
	case scheduling.OutcomeConflict:
		response.OK(c, gin.H{
			"status":    "conflict",
			"conflicts": outcome.Conflicts,
		})
	case scheduling.OutcomeRejected:
		response.Error(c, fmt.Errorf("booking rejected: %s", outcome.Reject), nil)
	default:
		response.InternalError(c, fmt.Errorf("calendar provider failure (%s)", outcome.FailureKind))
	}
}

// acceptToolCall authorizes the request and extracts its tool call.
// On failure it has already written the HTTP response.
func (h *Handler) acceptToolCall(c *gin.Context) (toolCall, map[string]any, bool) {
	ctx := c.Request.Context()

	if !h.authorize(c) {
		return toolCall{}, nil, false
	}

	var env envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		h.l.Errorf(ctx, "failed to decode tool payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tool call"})
		return toolCall{}, nil, false
	}

	call, ok := env.extractToolCall()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tool call"})
		return toolCall{}, nil, false
	}

	args, err := call.args()
	if err != nil {
		h.l.Errorf(ctx, "failed to decode tool arguments: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tool arguments"})
		return toolCall{}, nil, false
	}
	return call, args, true
}

func (h *Handler) authorize(c *gin.Context) bool {
	ctx := c.Request.Context()

	if err := h.security.ValidateSecret(c.Request); err != nil {
		h.l.Warnf(ctx, "tool request rejected: %v", err)
		response.Unauthorized(c)
		return false
	}
	if err := h.security.CheckRateLimit(c.Request); err != nil {
		h.l.Warnf(ctx, "tool request throttled: %v", err)
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return false
	}
	return true
}

// phraseFromArgs joins the separate date and time arguments the assistant
// sends into one resolvable phrase.
func phraseFromArgs(args map[string]any) string {
	date := stringArg(args, "date")
	clock := stringArg(args, "time")
	switch {
	case date != "" && clock != "":
		return date + " at " + clock
	case date != "":
		return date
	default:
		return clock
	}
}

func partFromArg(period string) scheduling.PartOfDay {
	switch strings.ToLower(period) {
	case "morning":
		return scheduling.PartMorning
	case "afternoon":
		return scheduling.PartAfternoon
	case "evening":
		return scheduling.PartEvening
	default:
		return scheduling.PartAny
	}
}

// speakOutcome renders a terminal booking outcome as spoken English.
func speakOutcome(outcome scheduling.BookOutcome) string {
	switch outcome.Status {
	case scheduling.OutcomeCreated:
		return fmt.Sprintf("Done! '%s' is confirmed for %s, %d minutes. It's on your Google Calendar. Is there anything else I can help with?",
			outcome.Title, outcome.When.Spoken(), outcome.DurationMinutes)

	case scheduling.OutcomeConflict:
		conflictName := "another event"
		if outcome.Conflicts[0].Label != "" {
			conflictName = fmt.Sprintf("'%s'", outcome.Conflicts[0].Label)
		}
		return fmt.Sprintf("There's a conflict, you already have %s at that time. Would you like to pick a different time?", conflictName)

	case scheduling.OutcomeRejected:
		switch outcome.Reject {
		case scheduling.RejectInvalidDuration:
			return "That duration doesn't sound right. How long should the meeting be?"
		case scheduling.RejectInvalidTitle:
			return "That title is a bit long for the calendar. Could we use a shorter one?"
		default:
			return "I want to double-check before booking. Could you confirm the time and title once more?"
		}

	default:
		return "I'm having a small technical hiccup with the calendar. Could we try a different time, or would you like me to try again?"
	}
}

func speakParseFailure(err error) string {
	if errors.Is(err, timeparse.ErrPastInstant) {
		return "That time has already passed. Could you give me a time later today or another day?"
	}
	return "I couldn't quite understand that date or time. Could you say it once more?"
}

// speakSlots renders slot starts as "9:00 AM, 10:00 AM, or 11:30 AM".
func speakSlots(out scheduling.SlotsOutput) string {
	starts := make([]string, 0, len(out.Slots))
	for _, slot := range out.Slots {
		starts = append(starts, slot.Start.In(out.Day.Location()).Format("3:04 PM"))
	}
	if len(starts) == 1 {
		return starts[0]
	}
	return strings.Join(starts[:len(starts)-1], ", ") + ", or " + starts[len(starts)-1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
