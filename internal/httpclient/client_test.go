package httpclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/nulzo/shem-api/internal/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRequest_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "yes", r.Header.Get("X-Test"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ping", body["msg"])

		_, _ = w.Write([]byte(`{"msg":"pong"}`))
	}))
	defer server.Close()

	var out map[string]string
	err := httpclient.SendRequest(context.Background(), server.Client(), http.MethodPost, server.URL,
		map[string]string{"X-Test": "yes"}, map[string]string{"msg": "ping"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "pong", out["msg"])
}

func TestSendRequest_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer server.Close()

	err := httpclient.SendRequest(context.Background(), server.Client(), http.MethodPost, server.URL+"/v1?key=secret", nil, nil, nil)

	var upstream *httpclient.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
	assert.Contains(t, string(upstream.Body), "slow down")
	assert.NotContains(t, upstream.Error(), "secret")
}

func TestSendRequest_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	var out map[string]interface{}
	err := httpclient.SendRequest(context.Background(), server.Client(), http.MethodPost, server.URL, nil, nil, &out)

	var decodeErr *httpclient.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestSendRequest_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := server.URL
	server.Close()

	err := httpclient.SendRequest(context.Background(), http.DefaultClient, http.MethodPost, target, nil, nil, nil)

	assert.Error(t, err)
	var upstream *httpclient.UpstreamError
	assert.False(t, errors.As(err, &upstream))
}

func TestSendRequest_TransportErrorRedactsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	err := httpclient.SendRequest(context.Background(), http.DefaultClient, http.MethodPost, base+"/v1?key=secret", nil, nil, nil)

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret")
	assert.Contains(t, err.Error(), base+"/v1")

	var urlErr *url.Error
	assert.True(t, errors.As(err, &urlErr))
}

func TestSendRequest_TimeoutStillDetectable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := httpclient.SendRequest(ctx, server.Client(), http.MethodPost, server.URL+"?key=secret", nil, nil, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.NotContains(t, err.Error(), "secret")
}

func TestSendRequest_BadURLRedactsQuery(t *testing.T) {
	err := httpclient.SendRequest(context.Background(), http.DefaultClient, http.MethodPost, "http://[::1]:namedport/v1?key=secret", nil, nil, nil)

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret")
}
