package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/booknotes/booknotes-server/internal/http/response"
)

// SuccessEnvelope wraps operation output.
type SuccessEnvelope struct {
	Version int  `json:"v"`
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorEnvelope wraps an APIError.
type ErrorEnvelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every huma response body in the versioned
// envelope. Errors keep their message in "error" and their code alongside.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case *APIError:
		return &ErrorEnvelope{
			Version: response.EnvelopeVersion,
			Error:   body.Message,
			Code:    body.Code,
			Details: body.Details,
		}, nil
	case *SuccessEnvelope, *ErrorEnvelope:
		return v, nil
	default:
		return &SuccessEnvelope{
			Version: response.EnvelopeVersion,
			Success: true,
			Data:    v,
		}, nil
	}
}
