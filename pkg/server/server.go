package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/vsradar/vsradar/internal/archive"
	"github.com/vsradar/vsradar/pkg/engine"
)

// cookieName identifies a browser across requests; the account behind
// it still resets daily with the epoch.
const cookieName = "vsr_uid"

// Server provides the HTTP API.
type Server struct {
	engine  *engine.Engine
	history archive.Store // optional, nil disables /api/v1/leaders data
	port    int
}

// New creates a new HTTP server.
func New(e *engine.Engine, history archive.Store, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{
		engine:  e,
		history: history,
		port:    port,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/feed", s.handleFeed)
	mux.HandleFunc("/api/v1/news", s.handleNews)
	mux.HandleFunc("/api/v1/boost", s.handleBoost)
	mux.HandleFunc("/api/v1/me", s.handleMe)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/leaders", s.handleLeaders)
	return mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("vsradar server listening on %s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	uid := s.userID(w, r)
	s.engine.RecordVisit(r.Context(), uid)
	videos := s.engine.RankedVideos(r.Context(), uid)

	writeJSON(w, http.StatusOK, map[string]any{
		"data":     videos,
		"count":    len(videos),
		"reset_at": s.engine.ResetAt(r.Context()),
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	stories, age := s.engine.RankedNews(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"data":      stories,
		"count":     len(stories),
		"cache_age": int(age.Seconds()),
	})
}

func (s *Server) handleBoost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		VideoID string `json:"video_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VideoID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "video_id required"})
		return
	}

	uid := s.userID(w, r)
	ok := s.engine.SubmitBoost(r.Context(), uid, req.VideoID)
	me := s.engine.Account(r.Context(), uid)

	// A rejected boost is a game outcome, not a transport error.
	writeJSON(w, http.StatusOK, map[string]any{
		"success": ok,
		"points":  me.Points,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	uid := s.userID(w, r)
	me := s.engine.Account(r.Context(), uid)
	writeJSON(w, http.StatusOK, me)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	writeJSON(w, http.StatusOK, s.engine.Stats(r.Context()))
}

func (s *Server) handleLeaders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if s.history == nil {
		writeJSON(w, http.StatusOK, map[string]any{"data": []archive.Leader{}, "count": 0})
		return
	}

	leaders, err := s.history.ListLeaders(r.Context(), 30)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  leaders,
		"count": len(leaders),
	})
}

// userID reads the browser cookie, minting and setting one when absent.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	uid := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    uid,
		MaxAge:   365 * 24 * 3600,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
	return uid
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
