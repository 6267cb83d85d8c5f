package pkg

import (
	"testing"
	"time"
)

func TestDayBucket(t *testing.T) {
	loc := time.FixedZone("AEST", 10*3600)

	tests := []struct {
		name       string
		input      time.Time
		anchorHour int
		want       time.Time
	}{
		{
			name:       "morning before anchor keeps calendar day",
			input:      time.Date(2024, 3, 15, 0, 30, 0, 0, loc),
			anchorHour: 1,
			want:       time.Date(2024, 3, 15, 1, 0, 0, 0, loc),
		},
		{
			name:       "afternoon maps to same day anchor",
			input:      time.Date(2024, 3, 15, 16, 45, 12, 99, loc),
			anchorHour: 1,
			want:       time.Date(2024, 3, 15, 1, 0, 0, 0, loc),
		},
		{
			name:       "midnight anchor",
			input:      time.Date(2024, 3, 15, 23, 59, 59, 0, loc),
			anchorHour: 0,
			want:       time.Date(2024, 3, 15, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Times.DayBucket(tt.input, tt.anchorHour)
			if !got.Equal(tt.want) {
				t.Errorf("DayBucket() = %v, want %v", got, tt.want)
			}
			if got.Location() != tt.input.Location() {
				t.Errorf("DayBucket() changed location to %v", got.Location())
			}
		})
	}
}

func TestDayBucketStableWithinDay(t *testing.T) {
	first := time.Date(2024, 7, 1, 2, 0, 0, 0, time.UTC)
	second := time.Date(2024, 7, 1, 22, 30, 0, 0, time.UTC)

	if !Times.DayBucket(first, 1).Equal(Times.DayBucket(second, 1)) {
		t.Error("two timestamps on the same day produced different buckets")
	}
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"alice", true},
		{"alice-b", true},
		{"alice.b", true},
		{"Alice_99", true},
		{"a", true},
		{"", false},
		{".alice", false},
		{"-alice", false},
		{"al..ice", false},
		{"alice/../etc", false},
		{"alice bob", false},
		{"alice!", false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			if got := Strings.IsValidUsername(tt.username); got != tt.want {
				t.Errorf("IsValidUsername(%q) = %v, want %v", tt.username, got, tt.want)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	if !Strings.IsEmpty("   ") {
		t.Error("whitespace-only string should be empty")
	}
	if Strings.IsEmpty("x") {
		t.Error("non-empty string reported empty")
	}
}
