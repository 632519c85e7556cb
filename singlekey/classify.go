package singlekey

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
)

// Fixed messages used by the classifier
const (
	msgTimeout        = "Request timed out"
	msgUnauthorized   = "Invalid API token"
	msgNotFound       = "Resource not found"
	msgRequestFailed  = "Request failed"
	msgValidationFail = "Validation failed"
)

// envelope holds the conventional keys of an error-carrying body
type envelope struct {
	Success *bool
	Detail  string
	Errors  []string
}

type rawEnvelope struct {
	Success json.RawMessage `json:"success"`
	Detail  json.RawMessage `json:"detail"`
	Errors  json.RawMessage `json:"errors"`
}

// classify maps a transport outcome onto a typed error. raw skips the
// body-level check for endpoints that do not return JSON on success.
// A nil result means the call succeeded.
func classify(resp *Response, err error, raw bool) *Error {
	if err != nil {
		return classifyTransport(err)
	}
	if resp == nil {
		return newServiceError("empty response from transport", nil)
	}
	if apiErr := classifyStatus(resp.StatusCode, resp.Body); apiErr != nil {
		return apiErr
	}
	if raw {
		return nil
	}
	return classifyBody(resp.Body)
}

// classifyTransport handles failures where no response was received
func classifyTransport(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return newServiceError(msgTimeout, err)
	}
	return newServiceError(err.Error(), err)
}

// classifyStatus handles non-success HTTP statuses. Status rules always win
// over anything the body says.
func classifyStatus(status int, body []byte) *Error {
	if isSuccess(status) {
		return nil
	}

	switch status {
	case http.StatusUnauthorized:
		return &Error{Kind: KindAuthentication, Message: msgUnauthorized, StatusCode: status}
	case http.StatusNotFound:
		return &Error{Kind: KindNotFound, Message: msgNotFound, StatusCode: status}
	}

	if env, ok := decodeEnvelope(body); ok && len(env.Errors) > 0 {
		return &Error{
			Kind:       KindValidation,
			Message:    detailOr(env.Detail, msgRequestFailed),
			Errors:     env.Errors,
			StatusCode: status,
		}
	}

	return &Error{
		Kind:       KindService,
		Message:    fmt.Sprintf("Request failed with status %d", status),
		StatusCode: status,
	}
}

// classifyBody catches logical failures delivered with a success status
func classifyBody(body []byte) *Error {
	env, ok := decodeEnvelope(body)
	if !ok || env.Success == nil || *env.Success || len(env.Errors) == 0 {
		return nil
	}
	return &Error{
		Kind:       KindValidation,
		Message:    detailOr(env.Detail, msgValidationFail),
		Errors:     env.Errors,
		StatusCode: http.StatusOK,
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func decodeEnvelope(body []byte) (envelope, bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return envelope{}, false
	}

	var raw rawEnvelope
	if err := json.Unmarshal(body, &raw); err != nil {
		return envelope{}, false
	}

	var env envelope
	var success bool
	if !isNull(raw.Success) {
		if err := json.Unmarshal(raw.Success, &success); err == nil {
			env.Success = &success
		}
	}
	_ = json.Unmarshal(raw.Detail, &env.Detail)
	env.Errors = flattenErrors(raw.Errors)
	return env, true
}

// flattenErrors turns the errors value into display strings. A non-empty
// string is a single error. Array entries that are strings are kept verbatim,
// other entries become compact JSON. An object is rendered as
// "field: message" pairs in key order.
func flattenErrors(raw json.RawMessage) []string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return nil
		}
		return []string{single}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, errorText(item))
		}
		return out
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		var msgs []json.RawMessage
		if err := json.Unmarshal(fields[k], &msgs); err == nil {
			for _, m := range msgs {
				out = append(out, k+": "+errorText(m))
			}
			continue
		}
		out = append(out, k+": "+errorText(fields[k]))
	}
	return out
}

func errorText(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, item); err != nil {
		return string(item)
	}
	return compact.String()
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func detailOr(detail, fallback string) string {
	if detail != "" {
		return detail
	}
	return fallback
}
