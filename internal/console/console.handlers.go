// FilePath: server/sweeps/internal/console/console.handlers.go
package console

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/errors"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

type indexPage struct {
	ShowAll bool
	Sweeps  []models.Sweep
	Version string
}

type sweepsResponse struct {
	ShowAll bool           `json:"show_all"`
	Sweeps  []models.Sweep `json:"sweeps"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.waitForFetches(r.Context())

	page := indexPage{
		ShowAll: s.view.ShowAll(),
		Sweeps:  s.view.Visible(),
		Version: nuts.GetVersion(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.ExecuteTemplate(w, "index.html", page); err != nil {
		nuts.L.Errorf("[Console] Failed to render index: %v", err)
	}
}

func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, errors.NewValidationError("invalid form", err))
		return
	}

	var form models.DisplayForm
	if err := s.decoder.Decode(&form, r.PostForm); err != nil {
		respondWithError(w, errors.NewValidationError("show_all must be a boolean", err))
		return
	}

	s.view.SetShowAll(form.ShowAll)
	s.view.OnDisplayChange()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.Activate()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSweeps(w http.ResponseWriter, r *http.Request) {
	s.waitForFetches(r.Context())
	respondWithJSON(w, http.StatusOK, sweepsResponse{
		ShowAll: s.view.ShowAll(),
		Sweeps:  s.view.Visible(),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, errors.NewValidationError("invalid sweep id", err))
		return
	}

	record, ok := s.view.Find(id)
	if !ok {
		respondWithError(w, errors.NewNotFoundError("sweep is not on display", nil).
			WithDetails(map[string]int64{"id": id}))
		return
	}

	saver := &attachmentSaver{w: w}
	if err := s.view.DownloadTo(r.Context(), record, saver); err != nil {
		if saver.committed {
			nuts.L.Warnf("[Console] Sending sweep %d to the client failed: %v", id, err)
			return
		}
		nuts.L.Warnf("[Console] Download of sweep %d failed: %v", id, err)
		respondWithError(w, errors.AsAPIError(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": nuts.GetVersion(),
		"visible": len(s.view.Visible()),
	})
}

func (s *Server) waitForFetches(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, firstRenderWait)
	defer cancel()
	if err := s.view.Wait(ctx); err != nil {
		nuts.L.Debugf("[Console] Rendering before fetches settled: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
