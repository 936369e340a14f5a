// FilePath: server/sweeps/internal/repository/repository.go
package repository

import (
	"context"
	"io"
	"time"

	"github.com/itsatony/w4b_v3/server/sweeps/internal/database"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/models"
)

// SweepRepository defines the interface for sweep metadata
type SweepRepository interface {
	database.Repository
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, sweep *models.Sweep, tx database.Transaction) error
	Get(ctx context.Context, id int64) (*models.Sweep, error)
	ListAll(ctx context.Context) ([]models.Sweep, error)
	ListLatest(ctx context.Context) ([]models.Sweep, error)
}

// DeviceRepository defines the interface for the device registry
type DeviceRepository interface {
	EnsureSchema(ctx context.Context) error
	Get(ctx context.Context, deviceName string, tx database.Transaction) (*models.Device, error)
	Create(ctx context.Context, device *models.Device, tx database.Transaction) error
	Touch(ctx context.Context, deviceName string, lastUpdated time.Time, tx database.Transaction) error
}

// ArtifactStore defines the interface for sweep artifact files
type ArtifactStore interface {
	Store(ctx context.Context, name string, src io.Reader) (string, int64, error)
	Stat(ctx context.Context, filename string) (int64, error)
	Delete(ctx context.Context, filename string) error
	StreamFile(ctx context.Context, filename string, w io.Writer) error
}
