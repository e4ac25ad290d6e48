package apiserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Zero-Feather/Ust-Visualizer/framegenerator"
	"github.com/Zero-Feather/Ust-Visualizer/ustparser"
)

func testServer() *Server {
	tl := &ustparser.Timeline{
		Notes: []ustparser.Note{{
			Lyric:    "a",
			NoteNum:  60,
			EndTime:  0.5,
			Duration: 0.5,
		}},
		Tempo:         120,
		ProjectName:   "demo",
		TotalDuration: 0.5,
	}
	s := framegenerator.DefaultSettings()
	s.Width = 64
	s.Height = 36
	s.FPS = 10
	s.ScrollSpeed = 640
	return New(tl, s)
}

func TestTimelineEndpoint(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/timeline", nil)
	rec := httptest.NewRecorder()
	srv.router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		ProjectName   string  `json:"project_name"`
		Tempo         float64 `json:"tempo"`
		NoteCount     int     `json:"note_count"`
		TotalDuration float64 `json:"total_duration"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.ProjectName != "demo" || body.Tempo != 120 || body.NoteCount != 1 {
		t.Fatalf("unexpected summary: %+v", body)
	}
}

func TestFrameEndpoint(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/frame?t=0.2", nil)
	rec := httptest.NewRecorder()
	srv.router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected a png response, got %q", ct)
	}
	raw := rec.Body.Bytes()
	if len(raw) < 8 || string(raw[1:4]) != "PNG" {
		t.Fatalf("response is not a png")
	}
}

func TestFrameEndpointRejectsBadTime(t *testing.T) {
	srv := testServer()
	for _, q := range []string{"/frame", "/frame?t=-1", "/frame?t=soon"} {
		req := httptest.NewRequest(http.MethodGet, q, nil)
		rec := httptest.NewRecorder()
		srv.router().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestRenderJobNotFound(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/render/nope", nil)
	rec := httptest.NewRecorder()
	srv.router().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
