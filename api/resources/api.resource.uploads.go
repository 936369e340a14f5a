// FilePath: server/sweeps/api/resources/api.resource.uploads.go
package resources

import (
	"fmt"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/itsatony/w4b_v3/server/sweeps/api/middleware"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/errors"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/models"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/service"
)

// multipart parts beyond this size spill to temporary files
const uploadMemory = 8 << 20

// UploadHandlers accepts sweeps relayed by hubs
type UploadHandlers struct {
	service       service.SweepService
	decoder       *schema.Decoder
	maxUploadSize int64
}

// @Summary Upload liveness
// @Tags uploads
// @Produce json
// @Success 200 {object} map[string]string
// @Router /upload/ [get]
func (h *UploadHandlers) Status(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "If you see this, it means the system works!",
	})
}

// @Summary Upload a sweep
// @Description Stores a sweep file relayed by a hub and registers its device
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Sweep file"
// @Param device_name formData string true "Source device"
// @Param hub_time formData string true "Hub time, ISO 8601"
// @Param sensor_time formData string false "Sensor time"
// @Param mac_address formData string false "Device MAC address"
// @Param rssi formData number false "Signal strength"
// @Success 201 {object} models.Sweep
// @Failure 400 {object} errors.APIError
// @Failure 413 {object} errors.APIError
// @Router /upload/ [post]
func (h *UploadHandlers) UploadSweep(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestIDFromContext(r.Context())

	if h.maxUploadSize > 0 {
		// room for the form fields around the file
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+(1<<20))
	}

	// Parse multipart form
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		apiErr := errors.NewValidationError("invalid multipart upload", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apiErr = errors.NewValidationError(fmt.Sprintf("upload exceeds %d bytes", h.maxUploadSize), err)
			apiErr.Code = http.StatusRequestEntityTooLarge
		}
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	var form models.UploadForm
	if err := h.decoder.Decode(&form, r.MultipartForm.Value); err != nil {
		respondWithError(w, errors.NewValidationError("invalid upload form", err).
			WithRequestID(requestID).
			WithDetails(fieldErrors(err)))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, errors.NewValidationError("file is required", err).WithRequestID(requestID))
		return
	}
	defer file.Close()

	sweep, err := h.service.RecordUpload(r.Context(), service.Upload{
		Form:     form,
		Filename: header.Filename,
		File:     file,
	})
	if err != nil {
		respondWithError(w, errors.AsAPIError(err).WithRequestID(requestID))
		return
	}

	respondWithJSON(w, http.StatusCreated, sweep)
}

// Helper functions

func fieldErrors(err error) map[string]string {
	details := map[string]string{}
	multi, ok := err.(schema.MultiError)
	if !ok {
		return details
	}
	for field, fieldErr := range multi {
		details[field] = fieldErr.Error()
	}
	return details
}
