package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Snowflake is a Discord ID. Older data files store IDs as JSON numbers,
// newer ones as strings; both are accepted and numeric IDs are written back
// as numbers so the file stays readable by the previous bot.
type Snowflake string

// String returns the ID as a plain string
func (s Snowflake) String() string {
	return string(s)
}

// MarshalJSON implements json.Marshaler
func (s Snowflake) MarshalJSON() ([]byte, error) {
	if s != "" && isDigits(string(s)) {
		return []byte(s), nil
	}
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Snowflake) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Snowflake(str)
		return nil
	}
	if !isDigits(raw) {
		return fmt.Errorf("snowflake inválido: %s", raw)
	}
	*s = Snowflake(raw)
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isoLayout is the zone-less layout found in older data files
const isoLayout = "2006-01-02T15:04:05.999999999"

// Timestamp wraps time.Time with a lenient JSON decoding that accepts both
// RFC 3339 and zone-less ISO 8601 strings (interpreted in local time).
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// TimestampPtr wraps t and returns a pointer, for nullable fields
func TimestampPtr(t time.Time) *Timestamp {
	ts := NewTimestamp(t)
	return &ts
}

// Equal reports whether both timestamps describe the same instant
func (t Timestamp) Equal(u Timestamp) bool {
	return t.Time.Equal(u.Time)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalBSONValue stores the timestamp as a native BSON date
func (t Timestamp) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(t.Time)
}

// UnmarshalBSONValue reads a native BSON date
func (t *Timestamp) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	var tm time.Time
	if err := bson.UnmarshalValue(typ, data, &tm); err != nil {
		return err
	}
	t.Time = tm
	return nil
}

// ParseTimestamp parses an RFC 3339 string, falling back to the zone-less
// ISO layout in local time
func ParseTimestamp(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return parsed, nil
	}
	return time.ParseInLocation(isoLayout, raw, time.Local)
}
