package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func withReleaseServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	old := releasesURL
	releasesURL = srv.URL
	t.Cleanup(func() { releasesURL = old })
}

func TestCheckNewerVersion(t *testing.T) {
	withReleaseServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "v1.2.0"}`))
	})

	result := Check(context.Background(), "1.1.0")
	if result == nil {
		t.Fatal("expected a result for a newer release")
	}
	if result.LatestVersion != "1.2.0" {
		t.Errorf("LatestVersion = %q, want %q", result.LatestVersion, "1.2.0")
	}
}

func TestCheckSameVersion(t *testing.T) {
	withReleaseServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "v1.1.0"}`))
	})

	if result := Check(context.Background(), "v1.1.0"); result != nil {
		t.Errorf("expected nil for current version, got %+v", result)
	}
}

func TestCheckServerError(t *testing.T) {
	withReleaseServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	if result := Check(context.Background(), "1.0.0"); result != nil {
		t.Errorf("expected nil on API error, got %+v", result)
	}
}

func TestCheckBadJSON(t *testing.T) {
	withReleaseServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	if result := Check(context.Background(), "1.0.0"); result != nil {
		t.Errorf("expected nil on malformed response, got %+v", result)
	}
}
