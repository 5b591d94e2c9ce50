package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func withRelease(t *testing.T, status int, body string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/nulzo/shem-api/releases/latest", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	prev := GitHubAPI
	GitHubAPI = server.URL
	t.Cleanup(func() { GitHubAPI = prev })
}

func TestIsOutdated(t *testing.T) {
	outdated, err := IsOutdated("v1.2.0", "v1.10.0")
	require.NoError(t, err)
	assert.True(t, outdated)

	outdated, err = IsOutdated("v1.10.0", "1.10.0")
	require.NoError(t, err)
	assert.False(t, outdated)

	_, err = IsOutdated("dev", "v1.0.0")
	assert.Error(t, err)
}

func TestCheckForUpdates_Outdated(t *testing.T) {
	withRelease(t, http.StatusOK, `{"tag_name":"v9.0.0"}`)
	core, logs := observer.New(zapcore.DebugLevel)

	assert.True(t, CheckForUpdates(context.Background(), http.DefaultClient, "nulzo/shem-api", zap.New(core)))
	assert.Equal(t, 1, logs.FilterMessage("You are running an outdated version").Len())
}

func TestCheckForUpdates_UpstreamFailure(t *testing.T) {
	withRelease(t, http.StatusNotFound, `{"message":"Not Found"}`)

	assert.False(t, CheckForUpdates(context.Background(), http.DefaultClient, "nulzo/shem-api", zap.NewNop()))
}
