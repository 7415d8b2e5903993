package services

import (
	"PearlDental/models"
	"PearlDental/repositories"
	"context"
	"sort"
	"sync"
	"time"
)

// ClinicSlots is the fixed daily slot set. The availability service never
// generates slots; it only reports which of these are taken.
var ClinicSlots = []string{
	"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00",
}

// IsClinicSlot reports whether a time string belongs to the daily slot set.
func IsClinicSlot(t string) bool {
	for _, slot := range ClinicSlots {
		if slot == t {
			return true
		}
	}
	return false
}

// Availability is the booking UI's view of one calendar date.
type Availability struct {
	Date          string   `json:"date"`
	TakenSlots    []string `json:"taken_slots"`
	IsHoliday     bool     `json:"is_holiday"`
	HolidayReason *string  `json:"holiday_reason"`
}

// ComputeTakenSlots folds a day's appointments into the set of occupied
// times. Cancelled appointments release their slot.
func ComputeTakenSlots(appointments []models.Appointment) []string {
	seen := make(map[string]bool)
	var taken []string
	for _, a := range appointments {
		if a.Status == models.AppointmentCancelled {
			continue
		}
		if !seen[a.Time] {
			seen[a.Time] = true
			taken = append(taken, a.Time)
		}
	}
	sort.Strings(taken)
	return taken
}

type AvailabilityService struct {
	appointmentRepo *repositories.AppointmentRepository
	closureRepo     *repositories.ClosureRepository
}

func NewAvailabilityService(appointmentRepo *repositories.AppointmentRepository, closureRepo *repositories.ClosureRepository) *AvailabilityService {
	return &AvailabilityService{appointmentRepo: appointmentRepo, closureRepo: closureRepo}
}

// GetAvailability reports the taken slots and holiday status for one date.
// Pure read; booking rejection happens at the calling layer.
func (s *AvailabilityService) GetAvailability(ctx context.Context, date string) (*Availability, error) {
	closure, err := s.closureRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	availability := &Availability{Date: date, TakenSlots: []string{}}
	if closure != nil {
		availability.IsHoliday = true
		availability.HolidayReason = &closure.Reason
	}

	appointments, err := s.appointmentRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	availability.TakenSlots = ComputeTakenSlots(appointments)
	return availability, nil
}

// rangeWorkers caps the fan-out when loading a window of dates.
const rangeWorkers = 6

// GetAvailabilityRange loads availability for `days` consecutive dates
// starting at `from`, fetching at most rangeWorkers dates concurrently and
// waiting for all of them. Results are ordered by date.
func (s *AvailabilityService) GetAvailabilityRange(ctx context.Context, from string, days int) ([]Availability, error) {
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, err
	}
	if days < 1 {
		days = 1
	}

	dates := make([]string, days)
	for i := 0; i < days; i++ {
		dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")
	}

	results := make([]*Availability, days)
	errs := make([]error, days)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < rangeWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = s.GetAvailability(ctx, dates[i])
			}
		}()
	}
	for i := range dates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	out := make([]Availability, 0, days)
	for i := range results {
		if errs[i] != nil {
			return nil, errs[i]
		}
		out = append(out, *results[i])
	}
	return out, nil
}

func (s *AvailabilityService) ListClosures(ctx context.Context, from string) ([]models.ClinicClosure, error) {
	return s.closureRepo.ListUpcoming(ctx, from)
}

func (s *AvailabilityService) AddClosure(ctx context.Context, closure *models.ClinicClosure) error {
	if _, err := time.Parse("2006-01-02", closure.Date); err != nil {
		return err
	}
	return s.closureRepo.Create(ctx, closure)
}

func (s *AvailabilityService) RemoveClosure(ctx context.Context, id uint) error {
	return s.closureRepo.Delete(ctx, id)
}
