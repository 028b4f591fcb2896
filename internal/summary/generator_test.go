package summary

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func setupAPI(t *testing.T, handler http.HandlerFunc) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	prevURL := apiURL
	prevLimiter := limiter
	SetAPIURL(srv.URL)
	limiter = rate.NewLimiter(rate.Inf, 1)
	t.Cleanup(func() {
		apiURL = prevURL
		limiter = prevLimiter
	})
}

func TestGenerate(t *testing.T) {
	var got chatRequest
	setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "  Markets ticked higher today.  "}},
			},
			"usage": map[string]int{"total_tokens": 42},
		})
	})

	text, err := Generate("BTC $50,000 (+2.5%)")
	require.NoError(t, err)
	assert.Equal(t, "Markets ticked higher today.", text)

	require.Len(t, got.Messages, 1)
	assert.Contains(t, got.Messages[0].Content, "crypto market analyst")
	assert.Contains(t, got.Messages[0].Content, "BTC $50,000 (+2.5%)")
	assert.Equal(t, 0.7, got.Temperature)
	assert.Equal(t, 180, got.MaxTokens)
}

func TestGenerateAPIError(t *testing.T) {
	setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	})

	_, err := Generate("data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGenerateNoChoices(t *testing.T) {
	setupAPI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	})

	_, err := Generate("data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
