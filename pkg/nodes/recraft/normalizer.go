package recraft

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"

	"github.com/dukex/operion-recraft/pkg/models"
)

const genericAPIError = "Recraft API Error"

// Normalizer turns a dispatch outcome into a ResultEnvelope or a typed error.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a normalizer. A nil clock selects time.Now.
func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}

	return &Normalizer{now: now}
}

// Normalize wraps a successful response, or classifies the failure.
func (n *Normalizer) Normalize(index int, resp *Response, err error) (models.ResultEnvelope, error) {
	if err != nil {
		return models.ResultEnvelope{}, transportError(index, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return models.ResultEnvelope{}, &NodeError{
			Kind:       ErrRemoteAPI,
			ItemIndex:  index,
			StatusCode: resp.StatusCode,
			Message:    apiErrorMessage(resp),
		}
	}

	return models.NewSuccessEnvelope(index, decodeBody(resp.Body)), nil
}

// Capture converts any error into the error envelope of its record.
func (n *Normalizer) Capture(index int, err error) models.ResultEnvelope {
	return models.NewErrorEnvelope(index, describe(err), StatusCode(err), n.now())
}

// transportError checks, in order, for a refused connection, a timeout, then anything else.
func transportError(index int, err error) *NodeError {
	e := &NodeError{Kind: ErrTransport, ItemIndex: index, Err: err}

	var netErr net.Error

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		e.Err = errors.Join(ErrConnectionRefused, err)
		e.Message = "Could not connect to Recraft API, check your internet connection and try again"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		e.Err = errors.Join(ErrTimeout, err)
		e.Message = "Request to Recraft API timed out, the request took too long to complete"
	default:
		e.Message = err.Error()
	}

	return e
}

// apiErrorMessage reads the error shapes returned by the API: a bare string, {error: string},
// {error: {message}} or {message}.
func apiErrorMessage(resp *Response) string {
	body := strings.TrimSpace(string(resp.Body))
	if body == "" {
		return genericAPIError + ": " + http.StatusText(resp.StatusCode)
	}

	var decoded any
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return body
	}

	switch v := decoded.(type) {
	case string:
		return v
	case map[string]any:
		if e, ok := v["error"]; ok && e != nil {
			switch inner := e.(type) {
			case string:
				return inner
			case map[string]any:
				if msg, ok := inner["message"].(string); ok && msg != "" {
					return msg
				}
			}

			return "Unknown API error"
		}

		if msg, ok := v["message"].(string); ok && msg != "" {
			return msg
		}
	}

	return genericAPIError
}

func decodeBody(body []byte) any {
	if strings.TrimSpace(string(body)) == "" {
		return nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return string(body)
	}

	return decoded
}
