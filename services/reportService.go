package services

import (
	"PearlDental/models"
	"PearlDental/repositories"
	"context"
	"sync"
	"time"
)

// DayReport is one row of the schedule report.
type DayReport struct {
	Date         string `json:"date"`
	Appointments int    `json:"appointments"`
	Completed    int    `json:"completed"`
	Cancelled    int    `json:"cancelled"`
}

// BillingSummary aggregates the ledger for the reporting dashboard.
type BillingSummary struct {
	Records        int   `json:"records"`
	Paid           int   `json:"paid"`
	Unpaid         int   `json:"unpaid"`
	Partial        int   `json:"partial"`
	BilledCents    int64 `json:"billed_cents"`
	CollectedCents int64 `json:"collected_cents"`
}

// Report is the full reporting payload: row-level day aggregates plus
// summary counts. No pagination; ranges are bounded by the day count.
type Report struct {
	Days     []DayReport    `json:"days"`
	Billing  BillingSummary `json:"billing"`
	LowStock int            `json:"low_stock_items"`
}

type ReportService struct {
	appointmentRepo *repositories.AppointmentRepository
	billingRepo     *repositories.BillingRepository
	inventoryRepo   *repositories.InventoryRepository
}

func NewReportService(
	appointmentRepo *repositories.AppointmentRepository,
	billingRepo *repositories.BillingRepository,
	inventoryRepo *repositories.InventoryRepository,
) *ReportService {
	return &ReportService{
		appointmentRepo: appointmentRepo,
		billingRepo:     billingRepo,
		inventoryRepo:   inventoryRepo,
	}
}

// Build assembles the report for the past `days` days ending today. Per-day
// schedule reads fan out across at most rangeWorkers workers.
func (s *ReportService) Build(ctx context.Context, days int) (*Report, error) {
	if days < 1 {
		days = 1
	}

	start := time.Now().AddDate(0, 0, -(days - 1))
	dates := make([]string, days)
	for i := 0; i < days; i++ {
		dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")
	}

	dayReports := make([]DayReport, days)
	errs := make([]error, days)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < rangeWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				appointments, err := s.appointmentRepo.ListByDate(ctx, dates[i])
				if err != nil {
					errs[i] = err
					continue
				}
				report := DayReport{Date: dates[i], Appointments: len(appointments)}
				for _, a := range appointments {
					switch a.Status {
					case models.AppointmentCompleted:
						report.Completed++
					case models.AppointmentCancelled:
						report.Cancelled++
					}
				}
				dayReports[i] = report
			}
		}()
	}
	for i := range dates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	billings, err := s.billingRepo.ListByStatus(ctx, "all")
	if err != nil {
		return nil, err
	}
	cutoff := start.Truncate(24 * time.Hour)
	var summary BillingSummary
	for _, billing := range billings {
		if billing.CreatedAt.Before(cutoff) {
			continue
		}
		summary.Records++
		summary.BilledCents += billing.TotalCents
		summary.CollectedCents += billing.PaidCents()
		switch billing.Status {
		case models.BillingPaid:
			summary.Paid++
		case models.BillingUnpaid:
			summary.Unpaid++
		case models.BillingPartial:
			summary.Partial++
		}
	}

	lowStock, err := s.inventoryRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}

	return &Report{
		Days:     dayReports,
		Billing:  summary,
		LowStock: len(lowStock),
	}, nil
}
