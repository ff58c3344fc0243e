package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Success(t *testing.T) {
	var gotPath, gotKey, gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		var body generateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && len(body.Contents) == 1 && len(body.Contents[0].Parts) == 1 {
			gotPrompt = body.Contents[0].Parts[0].Text
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello"}]}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "gemini-pro", "k3y", srv.Client())
	reply, err := c.Generate(context.Background(), "hi there")
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)
	assert.Equal(t, "/gemini-pro:generateContent", gotPath)
	assert.Equal(t, "k3y", gotKey)
	assert.Equal(t, "hi there", gotPrompt)
}

func TestGenerate_NotConfigured(t *testing.T) {
	_, err := NewClient("http://unused", "m", "", nil).Generate(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerate_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "m", "k", srv.Client()).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, "quota exceeded", statusErr.Body)
}

func TestGenerate_MalformedReply(t *testing.T) {
	for name, body := range map[string]string{
		"no candidates": `{"candidates":[]}`,
		"no parts":      `{"candidates":[{"content":{"parts":[]}}]}`,
		"not json":      `<html>`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "m", "k", srv.Client()).Generate(context.Background(), "x")
			assert.ErrorIs(t, err, ErrMalformedReply)
		})
	}
}

func TestGenerate_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "m", "secret-key", nil).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.NotContains(t, err.Error(), "secret-key")
}
