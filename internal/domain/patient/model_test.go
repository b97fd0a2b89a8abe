package patient

import (
	"testing"
	"time"
)

func TestNormalizeGender(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"male", GenderMale},
		{"男性", GenderMale},
		{"female", GenderFemale},
		{"女性", GenderFemale},
		{"", GenderFemale},
		{"unknown", GenderFemale},
		{"MALE", GenderFemale}, // spellings are matched exactly
	}
	for _, tc := range cases {
		if got := NormalizeGender(tc.in); got != tc.want {
			t.Errorf("NormalizeGender(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDeriveAge(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	if got := DeriveAge("1950-06-15", now); got != 75 {
		t.Errorf("birthday today: expected 75, got %d", got)
	}
	if got := DeriveAge("1950-06-16", now); got != 74 {
		t.Errorf("birthday tomorrow: expected 74, got %d", got)
	}
	if got := DeriveAge("1950-01-01", now); got != 75 {
		t.Errorf("birthday passed: expected 75, got %d", got)
	}
}

func TestDeriveAge_Unparsable(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	if got := DeriveAge("not-a-date", now); got != 0 {
		t.Errorf("expected 0 for unparsable input, got %d", got)
	}
	if got := DeriveAge("", now); got != 0 {
		t.Errorf("expected 0 for empty input, got %d", got)
	}
}

func TestDeriveAge_SentinelEpoch(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	if got := DeriveAge(SentinelBirthDate, now); got != 125 {
		t.Errorf("expected 125 for sentinel epoch, got %d", got)
	}
}
