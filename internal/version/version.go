package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/nulzo/shem-api/internal/httpclient"
	"go.uber.org/zap"
)

// AppVersion is overridden at build time with -ldflags "-X ...version.AppVersion=v1.2.3".
var AppVersion = "v0.0.0"

// GitHubAPI is the base URL used for release lookups.
var GitHubAPI = "https://api.github.com"

type GitHubRelease struct {
	TagName string `json:"tag_name"`
}

// LatestRelease fetches the newest release tag of repo ("owner/name").
func LatestRelease(ctx context.Context, client httpclient.HTTPClient, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(GitHubAPI, "/"), repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &httpclient.UpstreamError{StatusCode: resp.StatusCode, URL: url}
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", &httpclient.DecodeError{URL: url, Err: err}
	}
	return release.TagName, nil
}

// IsOutdated reports whether latest is a newer semantic version than current.
func IsOutdated(current, latest string) (bool, error) {
	cur, err := version.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("parse current version %q: %w", current, err)
	}
	lat, err := version.NewVersion(latest)
	if err != nil {
		return false, fmt.Errorf("parse latest version %q: %w", latest, err)
	}
	return cur.LessThan(lat), nil
}

// CheckForUpdates logs a warning when a newer release of repo exists.
// Lookup failures are logged at debug level only.
func CheckForUpdates(ctx context.Context, client httpclient.HTTPClient, repo string, log *zap.Logger) bool {
	latest, err := LatestRelease(ctx, client, repo)
	if err != nil {
		log.Debug("Update check failed", zap.Error(err))
		return false
	}

	outdated, err := IsOutdated(AppVersion, latest)
	if err != nil {
		log.Debug("Update check failed", zap.Error(err))
		return false
	}

	if outdated {
		log.Warn("You are running an outdated version",
			zap.String("current", AppVersion),
			zap.String("latest", latest),
		)
	}
	return outdated
}
