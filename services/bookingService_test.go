package services

import (
	"errors"
	"testing"

	"PearlDental/repositories"
)

func TestCheckSlotOpen(t *testing.T) {
	reason := "public holiday"

	tests := []struct {
		name         string
		availability Availability
		slot         string
		wantErr      error
	}{
		{
			name:         "open slot on an open day",
			availability: Availability{Date: "2026-09-07", TakenSlots: []string{"10:00", "14:00"}},
			slot:         "11:00",
			wantErr:      nil,
		},
		{
			name:         "taken slot is rejected",
			availability: Availability{Date: "2026-09-07", TakenSlots: []string{"10:00", "14:00"}},
			slot:         "14:00",
			wantErr:      repositories.ErrSlotTaken,
		},
		{
			name:         "holiday rejects every slot",
			availability: Availability{Date: "2026-09-07", IsHoliday: true, HolidayReason: &reason, TakenSlots: []string{}},
			slot:         "11:00",
			wantErr:      repositories.ErrClinicClosed,
		},
		{
			name:         "holiday wins over a free slot set",
			availability: Availability{Date: "2026-09-07", IsHoliday: true, TakenSlots: []string{}},
			slot:         "09:00",
			wantErr:      repositories.ErrClinicClosed,
		},
		{
			name:         "empty day accepts any clinic slot",
			availability: Availability{Date: "2026-09-07", TakenSlots: []string{}},
			slot:         "09:00",
			wantErr:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkSlotOpen(&tt.availability, tt.slot)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("checkSlotOpen() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
