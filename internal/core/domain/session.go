// Package domain defines the core domain models for ast-keyaudit.
package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// TimestampLayout is the layout used for every exported timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Session is an offline session of the ast-app client, i.e. one active API key.
//
// Records are decoded from the identity provider admin API and never
// modified. Required fields are pointers so an absent field can be told apart
// from an empty value. A field of the wrong JSON type does not fail decoding;
// it is remembered and reported by Validate, so one bad record only stops the
// export at that record.
type Session struct {
	ID         string  `json:"id,omitempty"`
	Username   *string `json:"username"`
	UserID     *string `json:"userId"`
	IPAddress  string  `json:"ipAddress,omitempty"`
	Start      *int64  `json:"start"`
	LastAccess *int64  `json:"lastAccess"`

	malformed []string
}

// UnmarshalJSON decodes a Keycloak user session representation.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         json.RawMessage `json:"id"`
		Username   json.RawMessage `json:"username"`
		UserID     json.RawMessage `json:"userId"`
		IPAddress  json.RawMessage `json:"ipAddress"`
		Start      json.RawMessage `json:"start"`
		LastAccess json.RawMessage `json:"lastAccess"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = Session{}
	var ok bool
	if id, _ := decodeString(raw.ID); id != nil {
		s.ID = *id
	}
	if ip, _ := decodeString(raw.IPAddress); ip != nil {
		s.IPAddress = *ip
	}
	if s.Username, ok = decodeString(raw.Username); !ok {
		s.malformed = append(s.malformed, "username")
	}
	if s.UserID, ok = decodeString(raw.UserID); !ok {
		s.malformed = append(s.malformed, "userId")
	}
	if s.Start, ok = decodeMillis(raw.Start); !ok {
		s.malformed = append(s.malformed, "start")
	}
	if s.LastAccess, ok = decodeMillis(raw.LastAccess); !ok {
		s.malformed = append(s.malformed, "lastAccess")
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decodeString returns nil, true for an absent or null value.
func decodeString(raw json.RawMessage) (*string, bool) {
	if isNull(raw) {
		return nil, true
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// decodeMillis accepts any JSON number; fractions of a millisecond are dropped.
func decodeMillis(raw json.RawMessage) (*int64, bool) {
	if isNull(raw) {
		return nil, true
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n, true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, false
	}
	n = int64(f)
	return &n, true
}

// Validate reports a FormatError naming every required field the record
// lacks or carries with the wrong type. A null value counts as missing.
func (s Session) Validate() error {
	var missing []string
	if s.Username == nil && !s.isMalformed("username") {
		missing = append(missing, "username")
	}
	if s.UserID == nil && !s.isMalformed("userId") {
		missing = append(missing, "userId")
	}
	if s.Start == nil && !s.isMalformed("start") {
		missing = append(missing, "start")
	}
	if s.LastAccess == nil && !s.isMalformed("lastAccess") {
		missing = append(missing, "lastAccess")
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "missing "+strings.Join(missing, ", "))
	}
	if len(s.malformed) > 0 {
		problems = append(problems, "malformed "+strings.Join(s.malformed, ", "))
	}
	if len(problems) == 0 {
		return nil
	}
	return ErrFormat.WithDetailsf("session %q %s", s.ID, strings.Join(problems, "; "))
}

func (s Session) isMalformed(field string) bool {
	for _, f := range s.malformed {
		if f == field {
			return true
		}
	}
	return false
}

// CreatedAt returns the session start (API key creation) time.
// The record must have passed Validate.
func (s Session) CreatedAt() time.Time {
	return time.UnixMilli(*s.Start)
}

// LastAccessAt returns the time the API key was last used.
// The record must have passed Validate.
func (s Session) LastAccessAt() time.Time {
	return time.UnixMilli(*s.LastAccess)
}

// FormatTimestamp renders an instant in loc using TimestampLayout.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimestampLayout)
}
