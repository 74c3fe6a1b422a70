package utils

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kerbaras/threadgrab/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGet(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	client := NewClientWith(server.Client(), "threadgrab-test")
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "threadgrab-test", gotUA)
}

func TestClientDefaultUserAgent(t *testing.T) {
	client := NewClient("", 0)
	assert.Equal(t, DefaultUserAgent, client.UserAgent())
}

func TestClientGetStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"not modified", http.StatusNotModified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewClientWith(server.Client(), "")
			resp, err := client.Get(context.Background(), server.URL)
			assert.Nil(t, resp)

			var fetchErr *data.FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("Get() should return FetchError, got %T", err)
			}
			assert.Equal(t, tt.status, fetchErr.StatusCode)
			assert.Equal(t, server.URL, fetchErr.URL)
		})
	}
}

func TestClientGetTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient("", 0).Get(context.Background(), url)

	var fetchErr *data.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.StatusCode)
	assert.Error(t, fetchErr.Err)
}
