package services

import (
	"PearlDental/models"
	"testing"
	"time"

	"gorm.io/datatypes"
)

func withTreatment(id uint, date, timeOfDay string, record models.TreatmentRecord) models.Appointment {
	treatment := datatypes.NewJSONType(record)
	return models.Appointment{
		ID:        id,
		Date:      date,
		Time:      timeOfDay,
		Status:    models.AppointmentCompleted,
		Treatment: &treatment,
	}
}

func TestRecencyScore(t *testing.T) {
	completed := time.Date(2026, 5, 1, 15, 30, 0, 0, time.UTC)

	t.Run("completion timestamp wins", func(t *testing.T) {
		a := withTreatment(1, "2026-04-01", "09:00", models.TreatmentRecord{CompletedAt: completed})
		if got := RecencyScore(a); got != completed.Unix() {
			t.Errorf("RecencyScore() = %d, want %d", got, completed.Unix())
		}
	})

	t.Run("falls back to appointment date and time", func(t *testing.T) {
		a := models.Appointment{Date: "2026-04-01", Time: "09:00"}
		want, _ := time.Parse("2006-01-02 15:04", "2026-04-01 09:00")
		if got := RecencyScore(a); got != want.Unix() {
			t.Errorf("RecencyScore() = %d, want %d", got, want.Unix())
		}
	})

	t.Run("unparseable date scores zero", func(t *testing.T) {
		a := models.Appointment{Date: "not-a-date", Time: "09:00"}
		if got := RecencyScore(a); got != 0 {
			t.Errorf("RecencyScore() = %d, want 0", got)
		}
	})
}

func TestLatestDentalChart(t *testing.T) {
	older := withTreatment(1, "2026-01-10", "09:00", models.TreatmentRecord{
		DentalChart: map[string]models.ToothState{"14": {Status: "filled"}},
	})
	newer := withTreatment(2, "2026-03-10", "10:00", models.TreatmentRecord{
		DentalChart: map[string]models.ToothState{"14": {Status: "crowned"}, "21": {Status: "healthy"}},
	})
	noChart := withTreatment(3, "2026-04-10", "11:00", models.TreatmentRecord{
		Notes: "checkup only",
	})

	t.Run("most recent chart wins", func(t *testing.T) {
		chart := LatestDentalChart([]models.Appointment{older, newer, noChart})
		if chart == nil {
			t.Fatal("expected a chart")
		}
		if chart["14"].Status != "crowned" {
			t.Errorf("tooth 14 = %q, want crowned", chart["14"].Status)
		}
		if len(chart) != 2 {
			t.Errorf("chart has %d teeth, want 2", len(chart))
		}
	})

	t.Run("no charts at all", func(t *testing.T) {
		if chart := LatestDentalChart([]models.Appointment{noChart}); chart != nil {
			t.Errorf("expected nil, got %v", chart)
		}
	})
}

func TestTreatmentHistoryGroups(t *testing.T) {
	appointments := []models.Appointment{
		withTreatment(1, "2026-01-10", "09:00", models.TreatmentRecord{
			Procedures: []models.PerformedProcedure{{ID: "p1", Name: "Filling", PriceCents: 150000}},
		}),
		withTreatment(2, "2026-03-10", "10:00", models.TreatmentRecord{
			Notes: "follow-up notes",
		}),
		withTreatment(3, "2026-02-10", "11:00", models.TreatmentRecord{}),
		{ID: 4, Date: "2026-04-10", Time: "12:00", Status: models.AppointmentConfirmed},
	}

	groups := TreatmentHistoryGroups(appointments)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	// Most recent first.
	if groups[0].AppointmentID != 2 || groups[1].AppointmentID != 1 {
		t.Errorf("group order = [%d, %d], want [2, 1]", groups[0].AppointmentID, groups[1].AppointmentID)
	}
	if groups[1].Procedures[0].Name != "Filling" {
		t.Errorf("procedure name = %q, want Filling", groups[1].Procedures[0].Name)
	}
}

func TestAttachmentGroups(t *testing.T) {
	appointments := []models.Appointment{
		withTreatment(1, "2026-01-10", "09:00", models.TreatmentRecord{
			Images: []string{"xray-before.png"},
		}),
		withTreatment(2, "2026-02-10", "10:00", models.TreatmentRecord{
			Notes: "no images here",
		}),
		withTreatment(3, "2026-03-10", "11:00", models.TreatmentRecord{
			Images: []string{"xray-after.png", "photo.jpg"},
		}),
	}

	groups := AttachmentGroups(appointments)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].AppointmentID != 3 {
		t.Errorf("first group = appointment %d, want 3", groups[0].AppointmentID)
	}
	if len(groups[0].Images) != 2 {
		t.Errorf("expected 2 images on the newest group, got %d", len(groups[0].Images))
	}
}
