package utils

import (
	"strings"
	"testing"
)

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{100, "1.00"},
		{150000, "1500.00"},
		{33334, "333.34"},
		{-2500, "-25.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatCents(tt.cents); got != tt.want {
				t.Errorf("FormatCents(%d) = %q, want %q", tt.cents, got, tt.want)
			}
		})
	}
}

func TestBuildICS(t *testing.T) {
	invite := AppointmentInvite{
		AppointmentID: 5,
		PatientName:   "Jane Doe",
		ServiceType:   "Teeth Cleaning",
		Date:          "2026-09-10",
		Time:          "14:00",
	}

	ics, err := BuildICS(invite)
	if err != nil {
		t.Fatalf("BuildICS() error = %v", err)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"END:VCALENDAR",
		"DTSTART:20260910T140000",
		"DTEND:20260910T150000", // one-hour slot
		"SUMMARY:Dental appointment - Teeth Cleaning",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("ICS missing %q:\n%s", want, ics)
		}
	}
}

func TestBuildICSBadDate(t *testing.T) {
	invite := AppointmentInvite{Date: "tomorrow", Time: "14:00"}
	if _, err := BuildICS(invite); err == nil {
		t.Error("expected an error for an unparseable date")
	}
}
