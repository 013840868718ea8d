package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lovincyrus/passwords101/internal/app"
	"github.com/lovincyrus/passwords101/internal/generator"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, constraint, msg string) {
	writeJSON(w, status, map[string]string{"error": msg, "constraint": constraint})
}

// GET /status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"sites":  len(s.app.Sites(r.Context())),
	})
}

// GET /sites
func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	all, err := s.app.Store().GetAll(r.Context())
	if err != nil {
		s.logger.Error("list sites", "err", err)
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "settings store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// GET /sites/{site}
func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	site := chi.URLParam(r, "site")
	writeJSON(w, http.StatusOK, s.app.Lookup(r.Context(), site))
}

// PUT /sites/{site}
func (s *Server) handleSaveSite(w http.ResponseWriter, r *http.Request) {
	site := chi.URLParam(r, "site")
	var req struct {
		SpecialChar string `json:"specialChar"`
		MaxLength   *int   `json:"maxLength"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON")
		return
	}
	maxLength := generator.NoLimit
	if req.MaxLength != nil {
		maxLength = *req.MaxLength
	}
	if err := s.app.Store().Save(r.Context(), site, req.SpecialChar, maxLength); err != nil {
		s.logger.Error("save site", "site", site, "err", err)
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "settings store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, s.app.Lookup(r.Context(), site))
}

// GET /suggest?site=
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("site")
	if input == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "site query parameter required")
		return
	}
	resp := map[string]any{"site": input}
	if match, ok := s.app.Suggest(r.Context(), input); ok {
		resp["suggestion"] = match
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /normalize?url=
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "url query parameter required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url, "site": generator.NormalizeSite(url)})
}

// GET /export
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.app.Export(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "settings store unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="passwords101.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// POST /import
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "invalid_request", "import body too large")
		return
	}
	res, err := s.app.Import(r.Context(), string(body))
	if err != nil {
		if errors.Is(err, app.ErrMalformedImport) {
			writeError(w, http.StatusBadRequest, "malformed_import", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
