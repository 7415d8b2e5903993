package services

import (
	"PearlDental/models"
	"testing"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{models.AppointmentPending, models.AppointmentConfirmed, true},
		{models.AppointmentPending, models.AppointmentCancelled, true},
		{models.AppointmentPending, models.AppointmentCompleted, false},
		{models.AppointmentConfirmed, models.AppointmentCompleted, true},
		{models.AppointmentConfirmed, models.AppointmentCancelled, true},
		{models.AppointmentConfirmed, models.AppointmentPending, false},
		{models.AppointmentCompleted, models.AppointmentCancelled, false},
		{models.AppointmentCompleted, models.AppointmentConfirmed, false},
		{models.AppointmentCancelled, models.AppointmentPending, false},
		{models.AppointmentCancelled, models.AppointmentConfirmed, false},
		{"", models.AppointmentConfirmed, false},
		{models.AppointmentPending, "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCallerIsStaff(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{models.RoleClient, false},
		{models.RoleDentist, true},
		{models.RoleFrontDesk, true},
		{models.RoleAdmin, true},
		{"", false},
		{"visitor", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			caller := Caller{UID: "u1", Role: tt.role}
			if got := caller.IsStaff(); got != tt.want {
				t.Errorf("IsStaff() with role %q = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}
