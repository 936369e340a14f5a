// FilePath: server/sweeps/api/resources/api.resource.sweeps.go
package resources

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/schema"
	"github.com/itsatony/w4b_v3/server/sweeps/api/middleware"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/errors"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/models"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// SweepHandlers encapsulates the sweep listing and download handlers
type SweepHandlers struct {
	service service.SweepService
	decoder *schema.Decoder
}

// @Summary List sweeps
// @Description All sweeps, newest arrival first. With latest present (any value), only the most recent sweep of each device.
// @Tags sweeps
// @Produce json
// @Param latest query string false "Select the latest subset"
// @Success 200 {array} models.Sweep
// @Failure 500 {object} errors.APIError
// @Router /sweep [get]
func (h *SweepHandlers) ListSweeps(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestIDFromContext(r.Context())

	_, latest := r.URL.Query()["latest"]
	sweeps, err := h.service.ListSweeps(r.Context(), models.SweepFilters{Latest: latest})
	if err != nil {
		respondWithError(w, errors.AsAPIError(err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusOK, sweeps)
}

// @Summary Download a sweep file
// @Description Streams the raw artifact of a sweep as an attachment
// @Tags sweeps
// @Produce application/octet-stream
// @Param id query int true "Sweep ID"
// @Success 200 {file} file
// @Failure 400 {object} errors.APIError
// @Failure 404 {object} errors.APIError
// @Router /download [get]
func (h *SweepHandlers) Download(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestIDFromContext(r.Context())

	var query models.DownloadQuery
	if err := h.decoder.Decode(&query, r.URL.Query()); err != nil {
		respondWithError(w, errors.NewValidationError("id must be an integer sweep id", err).WithRequestID(requestID))
		return
	}

	artifact, err := h.service.GetArtifact(r.Context(), query.ID)
	if err != nil {
		respondWithError(w, errors.AsAPIError(err).WithRequestID(requestID))
		return
	}

	// Set appropriate headers
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", artifact.Sweep.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(artifact.Size, 10))

	// Stream file
	if err := h.service.StreamArtifact(r.Context(), artifact, w); err != nil {
		nuts.L.Errorf("[SweepHandler] Failed to stream sweep %d: %v", query.ID, err)
		return
	}
}
