package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_DecodeKeycloakRecord(t *testing.T) {
	raw := `{"id":"s1","username":"alice","userId":"u1","ipAddress":"10.0.0.1","start":0,"lastAccess":60000,"clients":{"c1":"ast-app"}}`

	var s Session
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	require.NoError(t, s.Validate())

	assert.Equal(t, "alice", *s.Username)
	assert.Equal(t, "u1", *s.UserID)
	assert.Equal(t, "10.0.0.1", s.IPAddress)
	assert.Equal(t, int64(0), s.CreatedAt().UnixMilli())
	assert.Equal(t, int64(60000), s.LastAccessAt().UnixMilli())
}

func TestSession_Validate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		missing string
	}{
		{"missing username", `{"userId":"u1","start":0,"lastAccess":0}`, "username"},
		{"missing userId", `{"username":"a","start":0,"lastAccess":0}`, "userId"},
		{"missing start", `{"username":"a","userId":"u1","lastAccess":0}`, "start"},
		{"missing lastAccess", `{"username":"a","userId":"u1","start":0}`, "lastAccess"},
		{"missing everything", `{}`, "username, userId, start, lastAccess"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Session
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &s))

			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFormat)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestSession_EmptyStringsAreNotMissing(t *testing.T) {
	var s Session
	require.NoError(t, json.Unmarshal([]byte(`{"username":"","userId":"","start":0,"lastAccess":0}`), &s))
	assert.NoError(t, s.Validate())
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
		loc  *time.Location
		want string
	}{
		{"epoch in UTC", 0, time.UTC, "1970-01-01 00:00:00"},
		{"one minute", 60000, time.UTC, "1970-01-01 00:01:00"},
		{"sub-second is truncated", 1999, time.UTC, "1970-01-01 00:00:01"},
		{"fixed offset zone", 0, time.FixedZone("CET", 3600), "1970-01-01 01:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTimestamp(time.UnixMilli(tt.ms), tt.loc)
			assert.Equal(t, tt.want, got)
			// Same input, same output.
			assert.Equal(t, got, FormatTimestamp(time.UnixMilli(tt.ms), tt.loc))
		})
	}
}

func TestFormatTimestamp_NilLocationIsLocal(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	assert.Equal(t, ts.In(time.Local).Format(TimestampLayout), FormatTimestamp(ts, nil))
}

func TestSession_WrongTypesAreFormatErrors(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		malformed string
	}{
		{"string start", `{"id":"s2","username":"bob","userId":"u2","start":"x","lastAccess":0}`, "malformed start"},
		{"bool lastAccess", `{"username":"bob","userId":"u2","start":0,"lastAccess":true}`, "malformed lastAccess"},
		{"numeric username", `{"username":5,"userId":"u2","start":0,"lastAccess":0}`, "malformed username"},
		{"object userId", `{"username":"bob","userId":{},"start":0,"lastAccess":0}`, "malformed userId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Session
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &s), "decoding must not fail")

			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFormat)
			assert.Contains(t, err.Error(), tt.malformed)
			assert.NotContains(t, err.Error(), "missing")
		})
	}
}

func TestSession_MissingAndMalformed(t *testing.T) {
	var s Session
	require.NoError(t, json.Unmarshal([]byte(`{"id":"s3","start":"x","lastAccess":0}`), &s))

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `session "s3" missing username, userId; malformed start`)
}

func TestSession_NullIsMissing(t *testing.T) {
	var s Session
	require.NoError(t, json.Unmarshal([]byte(`{"username":null,"userId":"u1","start":0,"lastAccess":0}`), &s))

	err := s.Validate()
	assert.ErrorIs(t, err, ErrFormat)
	assert.Contains(t, err.Error(), "missing username")
}

func TestSession_FractionalMillis(t *testing.T) {
	var s Session
	require.NoError(t, json.Unmarshal([]byte(`{"username":"a","userId":"u1","start":1500.7,"lastAccess":1.7e12}`), &s))
	require.NoError(t, s.Validate())

	assert.Equal(t, int64(1500), *s.Start)
	assert.Equal(t, int64(1_700_000_000_000), *s.LastAccess)
}

func TestSession_DecodeSequence(t *testing.T) {
	var sessions []Session
	require.NoError(t, json.Unmarshal([]byte(`[{"username":"a","userId":"u1","start":0,"lastAccess":0},{"start":"x"}]`), &sessions))

	require.Len(t, sessions, 2)
	assert.NoError(t, sessions[0].Validate())
	assert.ErrorIs(t, sessions[1].Validate(), ErrFormat)
}
