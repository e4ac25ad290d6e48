// Package apiserver exposes a loaded score over HTTP: timeline inspection,
// single-frame previews, and cancellable batch render jobs.
package apiserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Zero-Feather/Ust-Visualizer/framegenerator"
	"github.com/Zero-Feather/Ust-Visualizer/ustparser"
)

type jobState string

const (
	jobRunning jobState = "running"
	jobDone    jobState = "done"
	jobStopped jobState = "stopped"
	jobFailed  jobState = "failed"
)

type renderJob struct {
	cancel context.CancelFunc
	outDir string

	mu     sync.Mutex
	state  jobState
	report framegenerator.Report
	errMsg string
}

func (j *renderJob) snapshot() map[string]interface{} {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := map[string]interface{}{
		"state":          j.state,
		"out_dir":        j.outDir,
		"frames_written": j.report.FramesWritten,
		"total_frames":   j.report.TotalFrames,
	}
	if j.errMsg != "" {
		out["error"] = j.errMsg
	}
	return out
}

// Server serves one loaded timeline. Jobs render into caller-named
// directories; cancelling a job keeps whatever frames it already wrote.
type Server struct {
	timeline *ustparser.Timeline
	settings framegenerator.Settings

	mu   sync.Mutex
	jobs map[string]*renderJob
}

func New(tl *ustparser.Timeline, s framegenerator.Settings) *Server {
	return &Server{
		timeline: tl,
		settings: s,
		jobs:     map[string]*renderJob{},
	}
}

func (s *Server) Run(port string) error {
	log.Printf("apiserver: listening on :%s", port)
	return http.ListenAndServe(":"+port, s.router())
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/timeline", s.handleTimeline).Methods(http.MethodGet)
	r.HandleFunc("/frame", s.handleFrame).Methods(http.MethodGet)
	r.HandleFunc("/render", s.handleStartRender).Methods(http.MethodPost)
	r.HandleFunc("/render/{id}", s.handleRenderStatus).Methods(http.MethodGet)
	r.HandleFunc("/render/{id}", s.handleCancelRender).Methods(http.MethodDelete)
	r.Use(mux.CORSMethodMiddleware(r))
	r.Use(allowAnyOrigin)
	return r
}

func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"project_name":   s.timeline.ProjectName,
		"tempo":          s.timeline.Tempo,
		"total_duration": s.timeline.TotalDuration,
		"note_count":     len(s.timeline.Notes),
		"warnings":       s.timeline.Warnings,
	})
}

// handleFrame renders the frame at ?t=SECONDS as a PNG. Scrubbing is just
// picking a different t: the per-frame computation is stateless.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	t, err := strconv.ParseFloat(r.URL.Query().Get("t"), 64)
	if err != nil || t < 0 {
		http.Error(w, "query parameter t must be a non-negative number of seconds", http.StatusBadRequest)
		return
	}
	img := framegenerator.RenderFrameAt(s.timeline, s.settings, t)
	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		log.Printf("apiserver: encode frame: %v", err)
	}
}

func (s *Server) handleStartRender(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OutDir string `json:"out_dir"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OutDir == "" {
		http.Error(w, "body must be JSON with a non-empty out_dir", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &renderJob{cancel: cancel, outDir: body.OutDir, state: jobRunning}
	id := uuid.New().String()

	s.mu.Lock()
	s.jobs[id] = job
	s.mu.Unlock()

	go func() {
		rep, err := framegenerator.GenerateFrames(ctx, s.timeline, s.settings, job.outDir)
		job.mu.Lock()
		defer job.mu.Unlock()
		job.report = rep
		switch {
		case err == nil:
			job.state = jobDone
		case errors.Is(err, framegenerator.ErrStopped):
			job.state = jobStopped
		default:
			job.state = jobFailed
			job.errMsg = err.Error()
		}
	}()

	writeJSON(w, map[string]string{"id": id})
}

func (s *Server) job(r *http.Request) (*renderJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[mux.Vars(r)["id"]]
	return job, ok
}

func (s *Server) handleRenderStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.job(r)
	if !ok {
		http.Error(w, "no such render job", http.StatusNotFound)
		return
	}
	writeJSON(w, job.snapshot())
}

func (s *Server) handleCancelRender(w http.ResponseWriter, r *http.Request) {
	job, ok := s.job(r)
	if !ok {
		http.Error(w, "no such render job", http.StatusNotFound)
		return
	}
	job.cancel()
	fmt.Fprintln(w, "cancel requested")
}
