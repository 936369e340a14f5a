// FilePath: server/sweeps/internal/service/service.sweep.go
package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/itsatony/w4b_v3/server/sweeps/internal/errors"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// SweepService handles sweep-related business logic
type SweepService interface {
	ListSweeps(ctx context.Context, filters models.SweepFilters) ([]models.Sweep, error)
	GetArtifact(ctx context.Context, id int64) (*Artifact, error)
	StreamArtifact(ctx context.Context, artifact *Artifact, w io.Writer) error
	RecordUpload(ctx context.Context, upload Upload) (*models.Sweep, error)
}

// Artifact is a stored sweep file ready to be served
type Artifact struct {
	Sweep models.Sweep
	Size  int64
}

// Upload is one multipart sweep upload
type Upload struct {
	Form     models.UploadForm
	Filename string
	File     io.Reader
}

func (s *Service) ListSweeps(ctx context.Context, filters models.SweepFilters) ([]models.Sweep, error) {
	if filters.Latest {
		return s.sweeps.ListLatest(ctx)
	}
	return s.sweeps.ListAll(ctx)
}

// GetArtifact resolves a sweep id to its stored file. A sweep whose file has
// gone missing is reported as not found.
func (s *Service) GetArtifact(ctx context.Context, id int64) (*Artifact, error) {
	sweep, err := s.sweeps.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	size, err := s.artifacts.Stat(ctx, sweep.Filename)
	if err != nil {
		if errors.IsNotFound(err) {
			nuts.L.Warnf("[SweepService] Sweep %d references missing file %s", id, sweep.Filename)
		}
		return nil, err
	}
	return &Artifact{Sweep: *sweep, Size: size}, nil
}

func (s *Service) StreamArtifact(ctx context.Context, artifact *Artifact, w io.Writer) error {
	if err := s.artifacts.StreamFile(ctx, artifact.Sweep.Filename, w); err != nil {
		return err
	}
	s.emit(EventArtifactServed, artifact.Sweep.ID, artifact.Sweep.Filename)
	return nil
}

// RecordUpload stores the uploaded file, inserts its sweep record and
// registers the device (or bumps its last update) in one transaction. The
// stored file is removed again when the database work fails.
func (s *Service) RecordUpload(ctx context.Context, upload Upload) (*models.Sweep, error) {
	form := upload.Form
	if strings.TrimSpace(form.DeviceName) == "" {
		return nil, errors.NewValidationError("device_name is required", nil)
	}

	hubTime, ok := models.ParseWireTime(form.HubTime)
	if !ok {
		return nil, errors.NewValidationError(fmt.Sprintf("hub_time %q is not an ISO 8601 time", form.HubTime), nil)
	}

	var rssi float64
	if form.RSSI != "" {
		v, err := strconv.ParseFloat(form.RSSI, 64)
		if err != nil {
			return nil, errors.NewValidationError("rssi must be a number", err)
		}
		rssi = v
	}

	filename, size, err := s.artifacts.Store(ctx, upload.Filename, upload.File)
	if err != nil {
		return nil, err
	}

	sweep := &models.Sweep{
		DeviceName:   form.DeviceName,
		HubTimestamp: models.NewInstant(hubTime),
		RSSI:         rssi,
		Filename:     filename,
	}

	registered, err := s.persistUpload(ctx, sweep, form.MacAddress)
	if err != nil {
		if delErr := s.artifacts.Delete(ctx, filename); delErr != nil {
			nuts.L.Errorf("[SweepService] Failed to discard file %s: %v", filename, delErr)
		}
		return nil, err
	}

	nuts.L.Infof("[SweepService] Stored sweep %d from %s (%s, %d bytes)", sweep.ID, sweep.DeviceName, filename, size)
	if registered {
		s.emit(EventDeviceRegistered, sweep.DeviceName)
	}
	s.emit(EventSweepUploaded, sweep.ID, sweep.DeviceName, filename)
	return sweep, nil
}

func (s *Service) persistUpload(ctx context.Context, sweep *models.Sweep, macAddress string) (bool, error) {
	tx, err := s.sweeps.BeginTx(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if transaction is committed

	if err := s.sweeps.Create(ctx, sweep, tx); err != nil {
		return false, err
	}

	hubTime := sweep.HubTimestamp.At
	registered := false
	_, err = s.devices.Get(ctx, sweep.DeviceName, tx)
	switch {
	case errors.IsNotFound(err):
		device := &models.Device{
			DeviceName:   sweep.DeviceName,
			MacAddress:   macAddress,
			RegisteredAt: hubTime,
			LastUpdated:  hubTime,
		}
		if err := s.devices.Create(ctx, device, tx); err != nil {
			return false, err
		}
		registered = true
	case err != nil:
		return false, err
	default:
		if err := s.devices.Touch(ctx, sweep.DeviceName, hubTime, tx); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, errors.NewDatabaseError("failed to commit transaction", err)
	}
	return registered, nil
}
