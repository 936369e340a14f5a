// FilePath: server/sweeps/internal/models/models.device.go
package models

import "time"

// Device is a sweep source known to the server. It is registered by the first
// upload that names it.
type Device struct {
	DeviceName   string    `json:"device_name" db:"device_name"`
	MacAddress   string    `json:"mac_address" db:"mac_address"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
	LastUpdated  time.Time `json:"last_updated" db:"last_updated"`
}
