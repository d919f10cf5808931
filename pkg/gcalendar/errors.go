package gcalendar

import (
	"context"
	"errors"
	"net"

	"google.golang.org/api/googleapi"
)

// IsRetryable reports whether a calendar API error is worth an immediate
// retry. Server-side failures and rate limiting are; auth failures and
// invalid requests are deterministic.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= 500 || apiErr.Code == 429
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}
