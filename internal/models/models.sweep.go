// FilePath: server/sweeps/internal/models/models.sweep.go
package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Sweep is the metadata of one RF scan relayed by a hub and stored by the server.
type Sweep struct {
	ID              int64     `json:"id"`
	DeviceName      string    `json:"device_name"`
	HubTimestamp    Timestamp `json:"hub_timestamp" swaggertype:"string" format:"date-time"`
	ServerTimestamp Timestamp `json:"server_timestamp" swaggertype:"string" format:"date-time"`
	RSSI            float64   `json:"rssi"`
	Filename        string    `json:"filename"`
}

// NormalizeTimestamps converts both wire timestamps into instants in place.
func (s *Sweep) NormalizeTimestamps() {
	s.HubTimestamp.Normalize()
	s.ServerTimestamp.Normalize()
}

const displayLayout = "2006-01-02 15:04:05"

// wireLayouts are tried in order. Zone-less layouts are read in the local zone.
var wireLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02T15:04:05.999999999", false},
	{"2006-01-02 15:04:05.999999999", false},
	{"2006-01-02", true},
}

// Timestamp holds a sweep time as received on the wire (Raw) and, once
// normalized, as an instant (At).
type Timestamp struct {
	Raw     string
	At      time.Time
	instant bool
}

// NewInstant returns an already normalized timestamp.
func NewInstant(t time.Time) Timestamp {
	return Timestamp{Raw: t.Format(time.RFC3339), At: t, instant: true}
}

// RawTimestamp returns a timestamp that still carries its wire form only.
func RawTimestamp(raw string) Timestamp {
	return Timestamp{Raw: raw}
}

// Normalize parses Raw into At. Normalizing an instant is a no-op. A string
// that matches no known layout becomes an invalid instant (zero At).
func (t *Timestamp) Normalize() {
	if t.instant {
		return
	}
	t.At = parseWireTime(t.Raw)
	t.instant = true
}

// IsInstant reports whether the timestamp has been normalized.
func (t Timestamp) IsInstant() bool {
	return t.instant
}

// Invalid reports a normalized timestamp whose wire form could not be parsed.
func (t Timestamp) Invalid() bool {
	return t.instant && t.At.IsZero()
}

func (t Timestamp) String() string {
	switch {
	case !t.instant:
		return t.Raw
	case t.At.IsZero():
		return "Invalid Date"
	default:
		return t.At.Format(displayLayout)
	}
}

// MarshalJSON writes instants as RFC 3339, invalid instants as null and
// wire-only timestamps as their raw string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	switch {
	case !t.instant:
		return json.Marshal(t.Raw)
	case t.At.IsZero():
		return []byte("null"), nil
	default:
		return json.Marshal(t.At.Format(time.RFC3339Nano))
	}
}

// UnmarshalJSON keeps the wire string as is; conversion happens in Normalize.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	return json.Unmarshal(data, &t.Raw)
}

// ParseWireTime parses a sweep time in any accepted wire layout.
func ParseWireTime(raw string) (time.Time, bool) {
	ts := parseWireTime(raw)
	return ts, !ts.IsZero()
}

func parseWireTime(raw string) time.Time {
	for _, l := range wireLayouts {
		var (
			ts  time.Time
			err error
		)
		if l.zoned {
			ts, err = time.Parse(l.layout, raw)
		} else {
			ts, err = time.ParseInLocation(l.layout, raw, time.Local)
		}
		if err == nil {
			return ts
		}
	}
	return time.Time{}
}
