package services

import (
	"PearlDental/models"
	"reflect"
	"testing"
)

func TestIsClinicSlot(t *testing.T) {
	tests := []struct {
		time string
		want bool
	}{
		{"09:00", true},
		{"12:00", true},
		{"16:00", true},
		{"13:00", false}, // lunch break
		{"08:00", false},
		{"17:00", false},
		{"9:00", false}, // not zero-padded
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.time, func(t *testing.T) {
			if got := IsClinicSlot(tt.time); got != tt.want {
				t.Errorf("IsClinicSlot(%q) = %v, want %v", tt.time, got, tt.want)
			}
		})
	}
}

func TestComputeTakenSlots(t *testing.T) {
	tests := []struct {
		name         string
		appointments []models.Appointment
		want         []string
	}{
		{
			name: "cancelled appointments release their slot",
			appointments: []models.Appointment{
				{Time: "09:00", Status: models.AppointmentConfirmed},
				{Time: "10:00", Status: models.AppointmentCancelled},
				{Time: "11:00", Status: models.AppointmentPending},
			},
			want: []string{"09:00", "11:00"},
		},
		{
			name: "duplicates collapse",
			appointments: []models.Appointment{
				{Time: "14:00", Status: models.AppointmentConfirmed},
				{Time: "14:00", Status: models.AppointmentCompleted},
			},
			want: []string{"14:00"},
		},
		{
			name: "output is sorted",
			appointments: []models.Appointment{
				{Time: "16:00", Status: models.AppointmentPending},
				{Time: "09:00", Status: models.AppointmentPending},
				{Time: "12:00", Status: models.AppointmentPending},
			},
			want: []string{"09:00", "12:00", "16:00"},
		},
		{
			name:         "no appointments",
			appointments: nil,
			want:         nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTakenSlots(tt.appointments)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ComputeTakenSlots() = %v, want %v", got, tt.want)
			}
		})
	}
}
