package services

import (
	"PearlDental/models"
	"PearlDental/repositories"
	"context"
	"sort"
	"time"
)

// RecencyScore ranks an appointment's treatment data by effective occurrence
// time: the completion timestamp when present, else the appointment's
// date+time, else zero.
func RecencyScore(appointment models.Appointment) int64 {
	if treatment := appointment.TreatmentData(); treatment != nil && !treatment.CompletedAt.IsZero() {
		return treatment.CompletedAt.Unix()
	}
	if parsed, err := time.Parse("2006-01-02 15:04", appointment.Date+" "+appointment.Time); err == nil {
		return parsed.Unix()
	}
	return 0
}

// TreatmentGroup is one appointment's treatment data shaped for history
// views.
type TreatmentGroup struct {
	AppointmentID uint                        `json:"appointment_id"`
	Date          string                      `json:"date"`
	Time          string                      `json:"time"`
	ServiceType   string                      `json:"service_type"`
	Procedures    []models.PerformedProcedure `json:"procedures,omitempty"`
	Notes         string                      `json:"notes,omitempty"`
	Images        []string                    `json:"images,omitempty"`
	RecencyScore  int64                       `json:"recency_score"`
}

func toGroup(appointment models.Appointment, treatment *models.TreatmentRecord) TreatmentGroup {
	group := TreatmentGroup{
		AppointmentID: appointment.ID,
		Date:          appointment.Date,
		Time:          appointment.Time,
		ServiceType:   appointment.ServiceType,
		RecencyScore:  RecencyScore(appointment),
	}
	if treatment != nil {
		group.Procedures = treatment.Procedures
		group.Notes = treatment.Notes
		group.Images = treatment.Images
	}
	return group
}

// LatestDentalChart picks the most recent non-empty chart across a patient's
// history. Ties keep the original order (the sort is stable).
func LatestDentalChart(appointments []models.Appointment) map[string]models.ToothState {
	var withCharts []models.Appointment
	for _, a := range appointments {
		if t := a.TreatmentData(); t != nil && len(t.DentalChart) > 0 {
			withCharts = append(withCharts, a)
		}
	}
	if len(withCharts) == 0 {
		return nil
	}
	sort.SliceStable(withCharts, func(i, j int) bool {
		return RecencyScore(withCharts[i]) > RecencyScore(withCharts[j])
	})
	return withCharts[0].TreatmentData().DentalChart
}

// AttachmentGroups returns every appointment carrying image attachments,
// most recent first.
func AttachmentGroups(appointments []models.Appointment) []TreatmentGroup {
	var groups []TreatmentGroup
	for _, a := range appointments {
		if t := a.TreatmentData(); t != nil && len(t.Images) > 0 {
			groups = append(groups, toGroup(a, t))
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].RecencyScore > groups[j].RecencyScore
	})
	return groups
}

// TreatmentHistoryGroups returns every appointment with any treatment data
// (procedures, notes, images or a chart patch), most recent first.
func TreatmentHistoryGroups(appointments []models.Appointment) []TreatmentGroup {
	var groups []TreatmentGroup
	for _, a := range appointments {
		t := a.TreatmentData()
		if t == nil {
			continue
		}
		if len(t.Procedures) == 0 && t.Notes == "" && len(t.Images) == 0 && len(t.DentalChart) == 0 {
			continue
		}
		groups = append(groups, toGroup(a, t))
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].RecencyScore > groups[j].RecencyScore
	})
	return groups
}

// HistoryService derives the patient-facing history views. All three views
// are pure folds over the already-fetched appointment list; per-patient
// histories are assumed small.
type HistoryService struct {
	appointmentRepo *repositories.AppointmentRepository
}

func NewHistoryService(appointmentRepo *repositories.AppointmentRepository) *HistoryService {
	return &HistoryService{appointmentRepo: appointmentRepo}
}

// PatientHistory bundles the three derived views for one patient.
type PatientHistory struct {
	LatestChart map[string]models.ToothState `json:"latest_chart,omitempty"`
	Attachments []TreatmentGroup             `json:"attachments"`
	Treatments  []TreatmentGroup             `json:"treatments"`
}

func (s *HistoryService) GetPatientHistory(ctx context.Context, patientUID string) (*PatientHistory, error) {
	appointments, err := s.appointmentRepo.ListByPatient(ctx, patientUID)
	if err != nil {
		return nil, err
	}
	return &PatientHistory{
		LatestChart: LatestDentalChart(appointments),
		Attachments: AttachmentGroups(appointments),
		Treatments:  TreatmentHistoryGroups(appointments),
	}, nil
}
