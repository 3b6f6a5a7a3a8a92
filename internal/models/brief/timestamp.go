package brief

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateTimeFormat is the timestamp layout used by the Data API.
const DateTimeFormat = "2006-01-02T15:04:05.000000Z"

type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("brief.Timestamp: %w", err)
	}
	if s == nil || *s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return fmt.Errorf("brief.Timestamp: %w", err)
	}
	t.Time = parsed.UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(DateTimeFormat))
}

// DateFormat renders a date the way the marketplace shows dates to users,
// e.g. "Thursday 8 June 2017".
func (t Timestamp) DateFormat() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Monday 2 January 2006")
}
