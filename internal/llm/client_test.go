package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"owners-health-api/internal/llm"
)

func Test_Generate_Returns_Unavailable_Without_Key(t *testing.T) {
	t.Parallel()

	c := llm.NewClient(llm.Config{APIKey: "  "})

	_, err := c.Generate(context.Background(), "hi")
	require.ErrorIs(t, err, llm.ErrGenerationUnavailable)
	assert.False(t, c.Available())
}

func Test_Generate_Sends_Chat_Request(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "write a caption", req.Messages[0].Content)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Fresh bread daily  "}}]}`))
	}))
	t.Cleanup(srv.Close)

	c := llm.NewClient(llm.Config{APIKey: "sk-test", BaseURL: srv.URL + "/", Model: "test-model"})

	text, err := c.Generate(context.Background(), "write a caption")
	require.NoError(t, err)
	assert.Equal(t, "Fresh bread daily", text)
}

func Test_Generate_Wraps_Provider_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "APIError", status: http.StatusTooManyRequests, body: `{"error":{"message":"rate limited"}}`, want: "rate limited"},
		{name: "RawError", status: http.StatusBadGateway, body: `upstream down`, want: "upstream down"},
		{name: "NoChoices", status: http.StatusOK, body: `{"choices":[]}`, want: "empty response"},
		{name: "BadJSON", status: http.StatusOK, body: `{`, want: "decoding response"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			t.Cleanup(srv.Close)

			c := llm.NewClient(llm.Config{APIKey: "sk-test", BaseURL: srv.URL})

			_, err := c.Generate(context.Background(), "x")
			require.ErrorIs(t, err, llm.ErrGenerationFailed)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
