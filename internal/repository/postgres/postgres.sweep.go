// FilePath: server/sweeps/internal/repository/postgres/postgres.sweep.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/itsatony/w4b_v3/server/sweeps/internal/database"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/errors"
	"github.com/itsatony/w4b_v3/server/sweeps/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const sweepColumns = `id, filename, device_name, hub_time, server_time, rssi`

// sweepRow is the stored shape of a sweep
type sweepRow struct {
	ID         int64           `db:"id"`
	Filename   string          `db:"filename"`
	DeviceName string          `db:"device_name"`
	HubTime    time.Time       `db:"hub_time"`
	ServerTime time.Time       `db:"server_time"`
	RSSI       sql.NullFloat64 `db:"rssi"`
}

// toModel drops sub-second precision, listings are served at second resolution.
func (r sweepRow) toModel() models.Sweep {
	return models.Sweep{
		ID:              r.ID,
		DeviceName:      r.DeviceName,
		HubTimestamp:    models.NewInstant(r.HubTime.Truncate(time.Second)),
		ServerTimestamp: models.NewInstant(r.ServerTime.Truncate(time.Second)),
		RSSI:            r.RSSI.Float64,
		Filename:        r.Filename,
	}
}

type SweepRepo struct {
	PostgresBaseRepo
}

func NewSweepRepository(db database.DB) *SweepRepo {
	return &SweepRepo{PostgresBaseRepo{db: db}}
}

// EnsureSchema creates the sweeps table and its listing index.
func (r *SweepRepo) EnsureSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sweeps (
			id          BIGSERIAL PRIMARY KEY,
			filename    TEXT NOT NULL,
			device_name TEXT NOT NULL,
			hub_time    TIMESTAMPTZ NOT NULL,
			server_time TIMESTAMPTZ NOT NULL DEFAULT now(),
			rssi        DOUBLE PRECISION
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sweeps_device_latest
		ON sweeps(device_name, server_time DESC)`,
	}
	for _, q := range queries {
		if _, err := r.db.GetDB().ExecContext(ctx, q); err != nil {
			return errors.NewDatabaseError("failed to initialize sweeps schema", err)
		}
	}
	return nil
}

// Create stores the sweep and fills in its ID and server timestamp.
func (r *SweepRepo) Create(ctx context.Context, sweep *models.Sweep, tx database.Transaction) error {
	query := `
		INSERT INTO sweeps (filename, device_name, hub_time, rssi)
		VALUES ($1, $2, $3, $4)
		RETURNING id, server_time`

	var rssi sql.NullFloat64
	if sweep.RSSI != 0 {
		rssi = sql.NullFloat64{Float64: sweep.RSSI, Valid: true}
	}

	var serverTime time.Time
	err := r.conn(tx).QueryRowxContext(ctx, query,
		sweep.Filename, sweep.DeviceName, sweep.HubTimestamp.At, rssi,
	).Scan(&sweep.ID, &serverTime)
	if err != nil {
		return errors.NewDatabaseError("failed to create sweep record", err)
	}
	sweep.ServerTimestamp = models.NewInstant(serverTime.Truncate(time.Second))

	nuts.L.Debugf("[SweepRepo] Created sweep %d for device %s", sweep.ID, sweep.DeviceName)
	return nil
}

func (r *SweepRepo) Get(ctx context.Context, id int64) (*models.Sweep, error) {
	row := sweepRow{}
	query := `SELECT ` + sweepColumns + ` FROM sweeps WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("sweep not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get sweep", err)
	}
	sweep := row.toModel()
	return &sweep, nil
}

// ListAll returns every sweep, newest arrival first.
func (r *SweepRepo) ListAll(ctx context.Context) ([]models.Sweep, error) {
	query := `
		SELECT ` + sweepColumns + `
		FROM sweeps
		ORDER BY server_time DESC, id DESC`
	return r.list(ctx, query)
}

// ListLatest returns the most recent sweep of each device, newest arrival first.
func (r *SweepRepo) ListLatest(ctx context.Context) ([]models.Sweep, error) {
	query := `
		SELECT ` + sweepColumns + `
		FROM (
			SELECT DISTINCT ON (device_name) ` + sweepColumns + `
			FROM sweeps
			ORDER BY device_name, server_time DESC, id DESC
		) latest
		ORDER BY server_time DESC, id DESC`
	return r.list(ctx, query)
}

func (r *SweepRepo) list(ctx context.Context, query string) ([]models.Sweep, error) {
	rows := []sweepRow{}
	if err := r.db.GetDB().SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.NewDatabaseError("failed to list sweeps", err)
	}
	sweeps := make([]models.Sweep, 0, len(rows))
	for _, row := range rows {
		sweeps = append(sweeps, row.toModel())
	}
	return sweeps, nil
}
