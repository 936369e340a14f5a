// FilePath: server/sweeps/internal/service/service.go
package service

import (
	"fmt"

	"github.com/itsatony/w4b_v3/server/sweeps/internal/errors"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Lifecycle events emitted by the service
const (
	EventSweepUploaded    = "sweep.uploaded"
	EventDeviceRegistered = "device.registered"
	EventArtifactServed   = "artifact.served"
)

// Service contains all repositories and service-wide dependencies
type Service struct {
	sweeps    repository.SweepRepository
	devices   repository.DeviceRepository
	artifacts repository.ArtifactStore
	events    *nuts.EventEmitter
}

// New creates a new service instance
func New(
	sweeps repository.SweepRepository,
	devices repository.DeviceRepository,
	artifacts repository.ArtifactStore,
) *Service {
	return &Service{
		sweeps:    sweeps,
		devices:   devices,
		artifacts: artifacts,
		events:    nuts.NewEventEmitter(),
	}
}

// Validate checks if all required repositories are initialized
func (s *Service) Validate() error {
	if s.sweeps == nil {
		return ErrMissingRepository("sweeps")
	}
	if s.devices == nil {
		return ErrMissingRepository("devices")
	}
	if s.artifacts == nil {
		return ErrMissingRepository("artifacts")
	}
	return nil
}

// On registers a handler for a lifecycle event. Handlers take the emitted
// arguments with their concrete types:
//
//	EventSweepUploaded:    func(id int64, device, filename string)
//	EventDeviceRegistered: func(device string)
//	EventArtifactServed:   func(id int64, filename string)
func (s *Service) On(event, name string, handler interface{}) error {
	if _, err := s.events.On(event, name, handler); err != nil {
		return fmt.Errorf("subscribe %s to %s: %w", name, event, err)
	}
	return nil
}

func (s *Service) emit(event string, args ...interface{}) {
	if err := s.events.Emit(event, args...); err != nil {
		nuts.L.Errorf("[SweepService] Failed to emit %s: %v", event, err)
	}
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}
