package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.2.3", "1.2.3", 0},
		{"1.10.0", "1.9.9", 1},
		{"v2.0.0", "1.99.99", 1},
		{"1.2.3-dirty", "1.2.3", 0},
		{"1.2", "1.2.1", -1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}

func TestFormatVersion(t *testing.T) {
	origVersion, origCommit, origBuild := Version, Commit, BuildTime
	t.Cleanup(func() { Version, Commit, BuildTime = origVersion, origCommit, origBuild })

	Version, Commit, BuildTime = "1.0.0", "", ""
	assert.Equal(t, "1.0.0 (development)", FormatVersion())

	Commit = "abc1234"
	assert.Equal(t, "1.0.0 (commit: abc1234)", FormatVersion())

	BuildTime = "2024-01-01T00:00:00Z"
	assert.Equal(t, "1.0.0 (commit: abc1234, built at: 2024-01-01T00:00:00Z)", FormatVersion())
}

func TestLatestRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name":"v1.4.0"}`))
	}))
	defer srv.Close()

	orig := ReleasesURL
	ReleasesURL = srv.URL
	t.Cleanup(func() { ReleasesURL = orig })

	latest, err := LatestRelease(context.Background(), srv.Client())
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", latest)

	newer, ok := NewerAvailable(context.Background(), "1.3.9")
	assert.True(t, ok)
	assert.Equal(t, "1.4.0", newer)

	_, ok = NewerAvailable(context.Background(), "1.4.0")
	assert.False(t, ok)

	_, ok = NewerAvailable(context.Background(), "0.0.0-dev")
	assert.False(t, ok)
}

func TestLatestRelease_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	orig := ReleasesURL
	ReleasesURL = srv.URL
	t.Cleanup(func() { ReleasesURL = orig })

	_, err := LatestRelease(context.Background(), srv.Client())
	assert.Error(t, err)
}
