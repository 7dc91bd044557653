package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestWireTimeMarshal(t *testing.T) {
	wt := NewWireTime(time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC))
	got, err := json.Marshal(wt)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if want := `"2025-03-14 09:26:53"`; string(got) != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}
}

func TestWireTimeUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"wire layout", `"2025-03-14 09:26:53"`, time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC), false},
		{"rfc3339 fallback", `"2025-03-14T09:26:53Z"`, time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC), false},
		{"empty string is zero", `""`, time.Time{}, false},
		{"null is zero", `null`, time.Time{}, false},
		{"garbage fails", `"tomorrow"`, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var wt WireTime
			err := json.Unmarshal([]byte(tt.input), &wt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !wt.Time.Equal(tt.want) {
				t.Errorf("Unmarshal = %v, want %v", wt.Time, tt.want)
			}
		})
	}
}

func TestWireTimeRoundTrip(t *testing.T) {
	card := Card{
		ID:        7,
		CardTitle: "release notes",
		StartDate: NewWireTime(time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)),
	}
	data, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded Card
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !decoded.StartDate.Equal(card.StartDate.Time) {
		t.Errorf("round trip start date = %v, want %v", decoded.StartDate, card.StartDate)
	}
}
