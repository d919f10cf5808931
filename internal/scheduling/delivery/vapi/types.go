package vapi

import (
	"encoding/json"
	"strings"
)

// SecurityConfig holds the tool webhook security settings.
type SecurityConfig struct {
	Secret          string // shared secret expected in X-Vapi-Secret
	RateLimitPerMin int    // max requests per minute per source
}

// envelope is the voice platform's server-message payload. Tool calls
// arrive under message.toolCalls; some delivery paths use the singular
// message.toolCall instead.
type envelope struct {
	Message struct {
		Type      string          `json:"type"`
		ToolCalls []toolCall      `json:"toolCalls"`
		ToolCall  *toolCall       `json:"toolCall"`
		Summary   string          `json:"summary"`
		Duration  json.RawMessage `json:"duration"`
		Cost      json.RawMessage `json:"cost"`
	} `json:"message"`
}

type toolCall struct {
	ID       string `json:"id"`
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

// args returns the tool arguments. The platform sends them either as a
// JSON object or as a stringified object; both are handled.
func (t toolCall) args() (map[string]any, error) {
	raw := t.Function.Arguments
	if len(raw) == 0 {
		return map[string]any{}, nil
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err == nil {
		return m, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s) == "" {
		return map[string]any{}, nil
	}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// extractToolCall pulls the first tool call out of the envelope.
func (e envelope) extractToolCall() (toolCall, bool) {
	if len(e.Message.ToolCalls) > 0 {
		return e.Message.ToolCalls[0], true
	}
	if e.Message.ToolCall != nil {
		return *e.Message.ToolCall, true
	}
	return toolCall{}, false
}

// toolResult is one entry of the tool response contract.
type toolResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result"`
}

// toolResponse is the body the voice platform expects back from a tool
// call: {"results": [{"toolCallId": ..., "result": ...}]}.
type toolResponse struct {
	Results []toolResult `json:"results"`
}

func newToolResponse(toolCallID, result string) toolResponse {
	return toolResponse{Results: []toolResult{{ToolCallID: toolCallID, Result: result}}}
}

// argument accessors; voice models frequently send numbers as strings

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case string:
		var n int
		if _, err := json.Number(strings.TrimSpace(v)).Int64(); err == nil {
			i, _ := json.Number(strings.TrimSpace(v)).Int64()
			n = int(i)
		}
		return n
	default:
		return 0
	}
}

func boolArg(args map[string]any, key string, fallback bool) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes":
			return true
		case "false", "no":
			return false
		}
	}
	return fallback
}

// DirectScheduleRequest is the JSON body of the direct testing endpoint.
type DirectScheduleRequest struct {
	Name            string `json:"name" binding:"required"`
	Phrase          string `json:"phrase" binding:"required"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
	Timezone        string `json:"timezone"`
}
