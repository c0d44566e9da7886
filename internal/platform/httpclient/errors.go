// Copyright (c) 2026 360Lateral. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package httpclient

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/SamirJoseGil/360Lateral-sub000/internal/platform/apperr"
)

// errorBody is the structured error the backend may return on non-2xx.
type errorBody struct {
	Error       string                     `json:"error"`
	Message     string                     `json:"message"`
	Detail      string                     `json:"detail"`
	FieldErrors map[string]json.RawMessage `json:"field_errors"`
}

// parseErrorBody builds an [apperr.KindHTTP] error from a non-2xx response.
// Unparseable bodies fall back to a generic error carrying status.
func parseErrorBody(status int, raw []byte) *apperr.AppError {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return apperr.HTTP(status, "", "")
	}

	message := firstNonEmpty(body.Message, body.Detail, body.Error)
	return apperr.HTTP(status, body.Error, message, fieldErrors(body.FieldErrors)...)
}

// fieldErrors flattens {"field": "msg"} and {"field": ["a", "b"]} into a
// list sorted by field name.
func fieldErrors(raw map[string]json.RawMessage) []apperr.FieldError {
	if len(raw) == 0 {
		return nil
	}

	fields := make([]string, 0, len(raw))
	for field := range raw {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]apperr.FieldError, 0, len(fields))
	for _, field := range fields {
		var single string
		if err := json.Unmarshal(raw[field], &single); err == nil {
			details = append(details, apperr.FieldError{Field: field, Message: single})
			continue
		}

		var many []string
		if err := json.Unmarshal(raw[field], &many); err == nil && len(many) > 0 {
			details = append(details, apperr.FieldError{Field: field, Message: strings.Join(many, " ")})
		}
	}
	return details
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
