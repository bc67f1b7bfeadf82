package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskSendsChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "When should I sow wheat?", req.Messages[1].Content)

		w.Write([]byte(`{"choices":[{"message":{"content":"  Late October to mid November.  "}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(srv.URL+"/", "sk-test", "gpt-4o-mini", time.Second)
	answer, err := c.Ask(context.Background(), "When should I sow wheat?")
	require.NoError(t, err)
	assert.Equal(t, "Late October to mid November.", answer)
}

func TestAskReturnsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI(srv.URL, "sk-test", "m", time.Second).Ask(context.Background(), "q")
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusTooManyRequests, perr.Status)
}

func TestAskRejectsEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI(srv.URL, "sk-test", "m", time.Second).Ask(context.Background(), "q")
	assert.EqualError(t, err, "no choices")
}

func TestMockAnswersOffline(t *testing.T) {
	answer, err := NewMock().Ask(context.Background(), "Will it rain tomorrow?")
	require.NoError(t, err)
	assert.Contains(t, answer, "weather")
}
