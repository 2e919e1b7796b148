package c2c

import "fmt"

const maxErrorBody = 512

// UpstreamError is returned when the route database answers with a non-2xx status.
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("failed to %s: %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("failed to %s: %d %s", e.Op, e.StatusCode, e.Body)
}

func newUpstreamError(op string, status int, body []byte) *UpstreamError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &UpstreamError{Op: op, StatusCode: status, Body: string(body)}
}
