package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeTransformer_Success(t *testing.T) {
	data := map[string]string{"id": "book-123", "title": "Dune"}
	result, err := EnvelopeTransformer(nil, "200", data)
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, true, out["success"])
	assert.Equal(t, map[string]any{"id": "book-123", "title": "Dune"}, out["data"])
	assert.Len(t, out, 3)
}

func TestEnvelopeTransformer_Error(t *testing.T) {
	apiErr := &APIError{
		status:  http.StatusForbidden,
		Code:    "FORBIDDEN",
		Message: "you do not own this book",
	}
	result, err := EnvelopeTransformer(nil, "403", apiErr)
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, float64(1), out["v"])
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "you do not own this book", out["error"])
	assert.Equal(t, "FORBIDDEN", out["code"])
	assert.NotContains(t, out, "details")
	assert.NotContains(t, out, "data")
}

func TestEnvelopeTransformer_AlreadyWrapped(t *testing.T) {
	wrapped := &SuccessEnvelope{Version: 1, Success: true, Data: "x"}
	result, err := EnvelopeTransformer(nil, "200", wrapped)
	require.NoError(t, err)
	assert.Same(t, wrapped, result)
}

func TestValidationErrorKeeps422(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": "alice",
		"email":    "alice@example.com",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	env := decode[any](t, resp.Body.Bytes())
	assert.False(t, env.Success)
	assert.Equal(t, "INVALID_INPUT", env.Code)
	assert.NotEmpty(t, env.Details)
}
