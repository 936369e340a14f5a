// FilePath: server/sweeps/internal/repository/postgres/postgres.device.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/itsatony/w4b_v3/server/sweeps/internal/database"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/errors"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/models"
	"github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"
)

type DeviceRepo struct {
	PostgresBaseRepo
}

func NewDeviceRepository(db database.DB) *DeviceRepo {
	return &DeviceRepo{PostgresBaseRepo{db: db}}
}

func (r *DeviceRepo) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS devices (
			device_name   TEXT PRIMARY KEY,
			mac_address   TEXT,
			registered_at TIMESTAMPTZ NOT NULL,
			last_updated  TIMESTAMPTZ NOT NULL
		)`
	if _, err := r.db.GetDB().ExecContext(ctx, query); err != nil {
		return errors.NewDatabaseError("failed to initialize devices schema", err)
	}
	return nil
}

func (r *DeviceRepo) Get(ctx context.Context, deviceName string, tx database.Transaction) (*models.Device, error) {
	device := &models.Device{}
	query := `
		SELECT device_name, COALESCE(mac_address, '') AS mac_address, registered_at, last_updated
		FROM devices WHERE device_name = $1`

	err := r.conn(tx).GetContext(ctx, device, query, deviceName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("device not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get device", err)
	}
	return device, nil
}

func (r *DeviceRepo) Create(ctx context.Context, device *models.Device, tx database.Transaction) error {
	query := `
		INSERT INTO devices (device_name, mac_address, registered_at, last_updated)
		VALUES ($1, NULLIF($2, ''), $3, $4)`

	_, err := r.conn(tx).ExecContext(ctx, query,
		device.DeviceName, device.MacAddress, device.RegisteredAt, device.LastUpdated)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return errors.NewValidationError("device already registered", err)
		}
		return errors.NewDatabaseError("failed to register device", err)
	}
	nuts.L.Infof("[DeviceRepo] Registered device %s", device.DeviceName)
	return nil
}

// Touch records the hub time of the newest sweep seen from a device.
func (r *DeviceRepo) Touch(ctx context.Context, deviceName string, lastUpdated time.Time, tx database.Transaction) error {
	query := `UPDATE devices SET last_updated = $2 WHERE device_name = $1`

	result, err := r.conn(tx).ExecContext(ctx, query, deviceName, lastUpdated)
	if err != nil {
		return errors.NewDatabaseError("failed to update device", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError("device not found", nil)
	}
	return nil
}
