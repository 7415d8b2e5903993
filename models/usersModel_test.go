package models

import "testing"

func TestFormatPatientNumber(t *testing.T) {
	tests := []struct {
		year     int
		sequence int
		want     string
	}{
		{2026, 1, "2026-0001"},
		{2026, 42, "2026-0042"},
		{2026, 9999, "2026-9999"},
		{2027, 10000, "2027-10000"}, // sequence outgrows padding, never truncates
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatPatientNumber(tt.year, tt.sequence); got != tt.want {
				t.Errorf("FormatPatientNumber(%d, %d) = %q, want %q", tt.year, tt.sequence, got, tt.want)
			}
		})
	}
}

func TestIsStaffRole(t *testing.T) {
	for _, role := range ValidRoles {
		want := role != RoleClient
		if got := IsStaffRole(role); got != want {
			t.Errorf("IsStaffRole(%q) = %v, want %v", role, got, want)
		}
	}
	if IsStaffRole("") || IsStaffRole("nurse") {
		t.Error("unknown roles must never count as staff")
	}
}
