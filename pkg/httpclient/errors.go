package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/sipandsavor/cafe/pkg/errors"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// UpstreamError is a non-2xx response from an upstream API.
type UpstreamError struct {
	Upstream   string
	StatusCode int
	// Status is the upstream's symbolic code, e.g. RESOURCE_EXHAUSTED.
	Status  string
	Message string
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Status != "" {
		return fmt.Sprintf("%s returned %d %s: %s", e.Upstream, e.StatusCode, e.Status, msg)
	}
	return fmt.Sprintf("%s returned %d: %s", e.Upstream, e.StatusCode, msg)
}

// Unwrap maps the status onto the shared sentinel errors.
func (e *UpstreamError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusBadRequest:
		return apperrors.ErrInvalidInput
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return apperrors.ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return apperrors.ErrNotFound
	case e.StatusCode == http.StatusTooManyRequests, e.StatusCode == http.StatusServiceUnavailable:
		return apperrors.ErrServiceUnavail
	default:
		return apperrors.ErrInternal
	}
}

// errorBody matches the Google API error format as well as this service's own
// {"error":{"code":"...","message":"..."}} envelope.
type errorBody struct {
	Error *struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
		Status  string          `json:"status"`
	} `json:"error"`
}

// ParseResponseError consumes and closes resp.Body and returns an
// *UpstreamError describing the failure. Call it only for non-2xx responses.
func ParseResponseError(resp *http.Response, upstream string) error {
	defer func() { _ = resp.Body.Close() }()

	upErr := &UpstreamError{Upstream: upstream, StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		upErr.Message = fmt.Sprintf("read body: %v", err)
		return upErr
	}

	var parsed errorBody
	if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil {
		upErr.Message = parsed.Error.Message
		upErr.Status = parsed.Error.Status
		if upErr.Status == "" {
			var code string
			if json.Unmarshal(parsed.Error.Code, &code) == nil {
				upErr.Status = code
			}
		}
		return upErr
	}

	upErr.Message = strings.TrimSpace(string(body))
	return upErr
}

// IsUpstreamStatus reports whether err is an *UpstreamError with the given status.
func IsUpstreamStatus(err error, status int) bool {
	var upErr *UpstreamError
	return errors.As(err, &upErr) && upErr.StatusCode == status
}
