package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elonfeng/rankweekly/internal/store"
	"github.com/elonfeng/rankweekly/pkg/digest"
	"github.com/elonfeng/rankweekly/pkg/snapshot"
)

// Server serves the archived weekly summaries over HTTP.
type Server struct {
	store store.Store
	port  int
}

// New creates a new HTTP server.
func New(s store.Store, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{store: s, port: port}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/summaries", s.handleSummaries)
	mux.HandleFunc("/api/v1/summaries/latest", s.handleLatest)
	mux.HandleFunc("/api/v1/sources", s.handleSources)
	mux.HandleFunc("/api/v1/report", s.handleReport)

	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("rankweekly server listening on %s\n", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	opts := store.ListOpts{Limit: 50}
	if src := r.URL.Query().Get("source"); src != "" {
		id := snapshot.NormalizeSource(src)
		if id == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown source: " + src})
			return
		}
		opts.Source = string(id)
	}

	recs, err := s.store.ListSummaries(r.Context(), opts)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  summaryViews(recs),
		"count": len(recs),
	})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	if src := r.URL.Query().Get("source"); src != "" {
		id := snapshot.NormalizeSource(src)
		if id == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown source: " + src})
			return
		}
		rec, err := s.store.LatestSummary(r.Context(), string(id))
		if err == store.ErrNotFound {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no summary for " + src})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": summaryViews([]store.SummaryRecord{*rec})[0]})
		return
	}

	recs, err := s.store.LatestSummaries(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  summaryViews(recs),
		"count": len(recs),
	})
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	type sourceInfo struct {
		Name  string `json:"name"`
		Title string `json:"title"`
		TopN  int    `json:"topn"`
	}

	var infos []sourceInfo
	for _, spec := range snapshot.All() {
		infos = append(infos, sourceInfo{
			Name:  string(spec.ID),
			Title: spec.Title,
			TopN:  spec.TopN,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":  infos,
		"count": len(infos),
	})
}

// handleReport renders the latest archived summary of every source as
// one HTML page, same document the batch run writes to disk.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	recs, err := s.store.LatestSummaries(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(recs) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no summaries archived"})
		return
	}

	var summaries []*digest.Summary
	for _, rec := range recs {
		var sum digest.Summary
		if err := json.Unmarshal([]byte(rec.Payload), &sum); err != nil {
			continue
		}
		summaries = append(summaries, &sum)
	}

	_, doc, err := digest.BuildHTML(summaries)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

type summaryView struct {
	ID        int64           `json:"id"`
	Source    string          `json:"source"`
	WeekRange string          `json:"week_range"`
	Title     string          `json:"title"`
	Summary   json.RawMessage `json:"summary"`
}

func summaryViews(recs []store.SummaryRecord) []summaryView {
	views := make([]summaryView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, summaryView{
			ID:        rec.ID,
			Source:    rec.Source,
			WeekRange: rec.WeekRange,
			Title:     rec.Title,
			Summary:   json.RawMessage(rec.Payload),
		})
	}
	return views
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
