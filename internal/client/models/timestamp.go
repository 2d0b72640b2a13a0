package models

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp tolerates the two timestamp shapes the backend emits:
// RFC 3339 and a zone-less "2006-01-02T15:04:05" (java.time.LocalDateTime
// serialized without an offset). Zone-less values are taken as UTC.
type Timestamp struct {
	time.Time
}

const localDateTimeLayout = "2006-01-02T15:04:05"

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.Parse(localDateTimeLayout, s)
	if err != nil {
		return fmt.Errorf("unsupported timestamp %q: %w", s, err)
	}
	t.Time = parsed.UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}
