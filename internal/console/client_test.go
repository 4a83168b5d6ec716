package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare host", in: "api.prismacloud.io", want: "https://api.prismacloud.io"},
		{name: "host with port", in: "console.local:8083", want: "https://console.local:8083"},
		{name: "scheme kept", in: "http://127.0.0.1:9000", want: "http://127.0.0.1:9000"},
		{name: "trailing slash", in: "https://api.prismacloud.io/", want: "https://api.prismacloud.io"},
		{name: "path prefix", in: "https://console.example.com/compute/", want: "https://console.example.com/compute"},
		{name: "whitespace", in: "  api.prismacloud.io  ", want: "https://api.prismacloud.io"},
		{name: "empty", in: "", wantErr: true},
		{name: "unsupported scheme", in: "ftp://console.example.com", wantErr: true},
		{name: "no host", in: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewDefaultsTimeout(t *testing.T) {
	c, err := New(Options{URL: "api.prismacloud.io"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
	assert.Equal(t, "https://api.prismacloud.io", c.BaseURL())

	c, err = New(Options{URL: "api.prismacloud.io", Timeout: 5 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, c.http.Timeout)
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{URL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestAuthenticate(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, authenticatePath, r.URL.Path)
		assert.Equal(t, contentType, r.Header.Get("Content-Type"))

		var body authRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "access-key", body.Username)
		assert.Equal(t, "s3cret", body.Password)

		_, _ = w.Write([]byte(`{"token":"tok-123"}`))
	}))

	token, err := c.Authenticate(context.Background(), "access-key", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestAuthenticateFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		wantHint bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"err":"invalid credentials"}`, wantMsg: "invalid credentials", wantHint: true},
		{name: "server error", status: http.StatusInternalServerError, body: "", wantMsg: "500"},
		{name: "missing token", status: http.StatusOK, body: `{"other":"x"}`, wantMsg: "no token"},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantMsg: "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			token, err := c.Authenticate(context.Background(), "id", "secret")
			require.Error(t, err)
			assert.Empty(t, token)
			assert.True(t, errors.Is(err, ErrAuth))
			assert.False(t, errors.Is(err, ErrFetch))
			assert.Contains(t, err.Error(), tt.wantMsg)
			if tt.wantHint {
				assert.NotEmpty(t, errors.GetAllHints(err))
			}
		})
	}
}

func TestAuthenticateNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Options{URL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Authenticate(context.Background(), "id", "secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAuth))
}

func TestDefenders(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, defendersPath, r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`[
			{
				"type": "docker",
				"connected": true,
				"hostname": "node-1",
				"version": "32.07.123",
				"category": "container",
				"status": {
					"image": {"scanTime": "2024-03-01T12:30:45.123456+00:00", "completed": true},
					"container": {"scanTime": "2024-03-01T11:00:00.000001+00:00"}
				}
			},
			{"type": "serverless", "connected": false, "hostname": "fn-1"}
		]`))
	}))

	agents, err := c.Defenders(context.Background(), "tok-123")
	require.NoError(t, err)
	require.Len(t, agents, 2)

	a := agents[0]
	assert.Equal(t, "docker", a.Type)
	assert.True(t, a.Connected)
	assert.Equal(t, "node-1", a.Hostname)
	assert.Equal(t, "32.07.123", a.Version)
	require.NotNil(t, a.Status)
	require.NotNil(t, a.Status.Image)
	assert.Equal(t, "2024-03-01T12:30:45.123456+00:00", a.Status.Image.ScanTime)
	require.NotNil(t, a.Status.Container)
	assert.Equal(t, "2024-03-01T11:00:00.000001+00:00", a.Status.Container.ScanTime)

	assert.Nil(t, agents[1].Status)
}

func TestDefendersEmptyList(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))

	agents, err := c.Defenders(context.Background(), "tok")
	require.NoError(t, err)
	assert.NotNil(t, agents)
	assert.Empty(t, agents)
}

func TestDefendersFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantNoData bool
	}{
		{name: "forbidden", status: http.StatusForbidden, body: "forbidden"},
		{name: "bad gateway", status: http.StatusBadGateway},
		{name: "null body", status: http.StatusOK, body: "null", wantNoData: true},
		{name: "object instead of list", status: http.StatusOK, body: `{"err":"x"}`},
		{name: "empty body", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			agents, err := c.Defenders(context.Background(), "tok")
			require.Error(t, err)
			assert.Nil(t, agents)
			assert.True(t, errors.Is(err, ErrFetch))
			assert.Equal(t, tt.wantNoData, errors.Is(err, ErrNoData))
		})
	}
}
