package static

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandlerFallsBackToIndex(t *testing.T) {
	for _, p := range []string{"/", "/host", "/play/ABC123"} {
		rec := httptest.NewRecorder()
		Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", p, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "<title>tvquiz</title>") {
			t.Fatalf("%s: expected index.html", p)
		}
	}
}

func TestHandlerMissingAsset(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.js", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMedia(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "river.txt"), []byte("nile"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	Media(dir).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media/river.txt", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "nile" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
}
