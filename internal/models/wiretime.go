package models

import (
	"fmt"
	"strings"
	"time"
)

// wireLayout is the timestamp format the server speaks for card start and
// end dates. Dates are serialized to this layout before every send.
const wireLayout = "2006-01-02 15:04:05"

// WireTime is a time.Time that marshals to the server's date layout
// instead of RFC 3339.
type WireTime struct {
	time.Time
}

// NewWireTime truncates t to second precision, matching what survives a
// round trip through the wire layout.
func NewWireTime(t time.Time) WireTime {
	return WireTime{t.Truncate(time.Second)}
}

func (t WireTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(wireLayout) + `"`), nil
}

func (t *WireTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(wireLayout, s)
	if err != nil {
		// Some responses carry RFC 3339; accept it rather than fail the
		// whole payload decode.
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parse wire time %q: %w", s, err)
		}
	}
	t.Time = parsed
	return nil
}
