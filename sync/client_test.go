// ABOUTME: Tests for the remote user service client
// ABOUTME: Uses httptest servers to verify paths, headers, and status passthrough
package sync

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchUser(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id": 42}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	status, body, err := client.FetchUser(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "/users/42", gotPath)
	assert.JSONEq(t, `{"id": 42}`, string(body))
}

func TestFetchUserNon200Passthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "user not found"}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	status, body, err := client.FetchUser(context.Background(), "9999")
	require.NoError(t, err, "a non-200 response is not a transport error")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, string(body), "user not found")
}

func TestFetchUserTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(WithBaseURL(server.URL))

	_, _, err := client.FetchUser(context.Background(), "1")
	require.Error(t, err)

	var transportErr *TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestCreateOrUpdateUser(t *testing.T) {
	var gotBody PushPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/add", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 209}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))

	payload := PushPayload{
		SalesforceID: "C1",
		FirstName:    "unknown",
		LastName:     "Doe",
		Email:        "a@b.com",
		Phone:        "555",
	}

	status, _, err := client.CreateOrUpdateUser(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, payload, gotBody)
}

func TestClientDefaults(t *testing.T) {
	client := NewClient()
	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.Same(t, http.DefaultClient, client.httpClient)
}
