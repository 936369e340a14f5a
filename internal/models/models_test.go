package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepDecodesWireTimestampsAsStrings(t *testing.T) {
	payload := `{"id":1,"device_name":"A","hub_timestamp":"2021-06-10T00:00:00Z","server_timestamp":"2021-06-10T00:00:01Z","rssi":-42,"filename":"a.csv"}`

	var s Sweep
	require.NoError(t, json.Unmarshal([]byte(payload), &s))

	assert.Equal(t, int64(1), s.ID)
	assert.Equal(t, -42.0, s.RSSI)
	assert.False(t, s.HubTimestamp.IsInstant())
	assert.Equal(t, "2021-06-10T00:00:00Z", s.HubTimestamp.String())

	s.NormalizeTimestamps()
	assert.True(t, s.HubTimestamp.IsInstant())
	assert.True(t, s.ServerTimestamp.At.Equal(time.Date(2021, 6, 10, 0, 0, 1, 0, time.UTC)))
}

func TestNormalizeLayouts(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{"2021-06-10T00:00:00Z", time.Date(2021, 6, 10, 0, 0, 0, 0, time.UTC)},
		{"2021-06-10T02:00:00+02:00", time.Date(2021, 6, 10, 0, 0, 0, 0, time.UTC)},
		{"2021-06-10T00:00:00.250Z", time.Date(2021, 6, 10, 0, 0, 0, 250_000_000, time.UTC)},
		{"2021-06-10T08:09:10", time.Date(2021, 6, 10, 8, 9, 10, 0, time.Local)},
		{"2021-06-10 08:09:10.5", time.Date(2021, 6, 10, 8, 9, 10, 500_000_000, time.Local)},
		{"2021-06-10", time.Date(2021, 6, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		ts := RawTimestamp(tc.raw)
		ts.Normalize()
		assert.True(t, ts.At.Equal(tc.want), "%s parsed as %v", tc.raw, ts.At)
		assert.False(t, ts.Invalid(), tc.raw)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	ts := RawTimestamp("2021-06-10T00:00:00Z")
	ts.Normalize()
	first := ts.At

	ts.Raw = "garbage"
	ts.Normalize()
	assert.Equal(t, first, ts.At)
}

func TestUnparseableTimestampBecomesInvalidInstant(t *testing.T) {
	ts := RawTimestamp("yesterday")
	ts.Normalize()

	assert.True(t, ts.IsInstant())
	assert.True(t, ts.Invalid())
	assert.Equal(t, "Invalid Date", ts.String())

	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestTimestampJSON(t *testing.T) {
	raw, err := json.Marshal(RawTimestamp("2021-06-10T00:00:00"))
	require.NoError(t, err)
	assert.Equal(t, `"2021-06-10T00:00:00"`, string(raw))

	inst, err := json.Marshal(NewInstant(time.Date(2021, 6, 10, 0, 0, 1, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, `"2021-06-10T00:00:01Z"`, string(inst))

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte("null"), &ts))
	assert.Equal(t, Timestamp{}, ts)
}

func TestTimestampString(t *testing.T) {
	ts := NewInstant(time.Date(2021, 6, 10, 13, 14, 15, 0, time.UTC))
	assert.Equal(t, "2021-06-10 13:14:15", ts.String())
	assert.Equal(t, "raw", RawTimestamp("raw").String())
}
