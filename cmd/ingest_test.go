package cmd

import (
	"testing"
	"time"
)

func TestParseTimeFlag(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", time.Time{}, false},
		{"2024-01-10", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), false},
		{"2024-01-10T08:30:00Z", time.Date(2024, 1, 10, 8, 30, 0, 0, time.UTC), false},
		{"10/01/2024", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := parseTimeFlag(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseTimeFlag(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("parseTimeFlag(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
