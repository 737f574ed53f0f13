package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire format version clients check before parsing.
const envelopeVersion = 1

// envelope is the uniform response wrapper for every API response.
// Success responses carry data; error responses carry either a simple
// error string or a code/message/details triple.
type envelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every response body in the versioned envelope.
// Registered as a huma transformer so handlers only deal with plain
// response structs.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	isError := strings.HasPrefix(status, "4") || strings.HasPrefix(status, "5")

	if apiErr, ok := v.(*APIError); ok {
		env := &envelope{V: envelopeVersion, Success: false}
		if apiErr.Code != "" {
			env.Code = apiErr.Code
			env.Message = apiErr.Message
			env.Details = apiErr.Details
		} else {
			env.Error = apiErr.Message
		}
		return env, nil
	}

	if err, ok := v.(error); ok {
		return &envelope{V: envelopeVersion, Success: false, Error: err.Error()}, nil
	}

	if isError {
		return &envelope{V: envelopeVersion, Success: false, Data: v}, nil
	}

	return &envelope{V: envelopeVersion, Success: true, Data: v}, nil
}
