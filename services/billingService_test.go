package services

import (
	"PearlDental/models"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestBuildInstallments(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		totalCents  int64
		months      int
		wantAmounts []int64
		wantErr     error
	}{
		{
			name:        "even split",
			totalCents:  120000,
			months:      12,
			wantAmounts: []int64{10000, 10000, 10000, 10000, 10000, 10000, 10000, 10000, 10000, 10000, 10000, 10000},
		},
		{
			name:        "last installment absorbs remainder",
			totalCents:  100000,
			months:      3,
			wantAmounts: []int64{33333, 33333, 33334},
		},
		{
			name:        "single month",
			totalCents:  50000,
			months:      1,
			wantAmounts: []int64{50000},
		},
		{
			name:       "zero months rejected",
			totalCents: 50000,
			months:     0,
			wantErr:    ErrInvalidMonths,
		},
		{
			name:       "too many months rejected",
			totalCents: 50000,
			months:     37,
			wantErr:    ErrInvalidMonths,
		},
		{
			name:       "zero balance rejected",
			totalCents: 0,
			months:     6,
			wantErr:    ErrNoBalanceToSplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			installments, err := BuildInstallments(tt.totalCents, tt.months, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("BuildInstallments() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildInstallments() error = %v", err)
			}
			if len(installments) != len(tt.wantAmounts) {
				t.Fatalf("expected %d installments, got %d", len(tt.wantAmounts), len(installments))
			}

			var sum int64
			for i, inst := range installments {
				if inst.AmountCents != tt.wantAmounts[i] {
					t.Errorf("installment %d = %d cents, want %d", i, inst.AmountCents, tt.wantAmounts[i])
				}
				if inst.Status != models.InstallmentPending {
					t.Errorf("installment %d status = %q, want pending", i, inst.Status)
				}
				wantDue := now.AddDate(0, i+1, 0)
				if !inst.DueDate.Equal(wantDue) {
					t.Errorf("installment %d due = %v, want %v", i, inst.DueDate, wantDue)
				}
				sum += inst.AmountCents
			}
			if sum != tt.totalCents {
				t.Errorf("installments sum to %d, want %d", sum, tt.totalCents)
			}
		})
	}
}

func TestEligibleItems(t *testing.T) {
	items := []models.BillingItem{
		{ID: "a", PriceCents: 10000, Status: models.ItemUnpaid},
		{ID: "b", PriceCents: 20000, Status: models.ItemPaid},
		{ID: "c", PriceCents: 30000, Status: models.ItemVoid},
		{ID: "d", PriceCents: 40000, Status: models.ItemWaived},
		{ID: "e", PriceCents: 50000, Status: models.ItemUnpaid},
	}

	tests := []struct {
		name    string
		itemIDs []string
		wantIDs []string
	}{
		{name: "all items when no subset given", itemIDs: nil, wantIDs: []string{"a", "e"}},
		{name: "explicit subset", itemIDs: []string{"a"}, wantIDs: []string{"a"}},
		{name: "paid item in subset is dropped", itemIDs: []string{"a", "b"}, wantIDs: []string{"a"}},
		{name: "void and waived never qualify", itemIDs: []string{"c", "d"}, wantIDs: nil},
		{name: "unknown ID yields nothing", itemIDs: []string{"z"}, wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EligibleItems(items, tt.itemIDs)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d items, want %d", len(got), len(tt.wantIDs))
			}
			for i, item := range got {
				if item.ID != tt.wantIDs[i] {
					t.Errorf("item %d = %q, want %q", i, item.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestStatusForRemaining(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		remaining int64
		want      string
	}{
		{name: "nothing paid", total: 100000, remaining: 100000, want: models.BillingUnpaid},
		{name: "partially paid", total: 100000, remaining: 40000, want: models.BillingPartial},
		{name: "fully paid", total: 100000, remaining: 0, want: models.BillingPaid},
		{name: "zero total is paid", total: 0, remaining: 0, want: models.BillingPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForRemaining(tt.total, tt.remaining); got != tt.want {
				t.Errorf("statusForRemaining(%d, %d) = %q, want %q", tt.total, tt.remaining, got, tt.want)
			}
		})
	}
}

func TestRemainingCentsFloorsAtZero(t *testing.T) {
	record := models.BillingRecord{
		TotalCents: 50000,
		Transactions: datatypes.JSONSlice[models.PaymentTransaction]{
			{ID: "t1", AmountCents: 30000},
			{ID: "t2", AmountCents: 30000},
		},
	}

	if got := record.PaidCents(); got != 60000 {
		t.Errorf("PaidCents() = %d, want 60000", got)
	}
	if got := record.RemainingCents(); got != 0 {
		t.Errorf("RemainingCents() = %d, want 0 (overpayment floors at zero)", got)
	}
}

func TestSynthesizeVirtualRecord(t *testing.T) {
	treatment := datatypes.NewJSONType(models.TreatmentRecord{
		Procedures: []models.PerformedProcedure{
			{ID: "p1", Name: "Tooth Filling", PriceCents: 150000, Tooth: 14},
			{ID: "p2", Name: "Dental X-Ray", PriceCents: 80000},
		},
		TotalCents: 230000,
	})

	appointment := &models.Appointment{
		ID:         42,
		PatientUID: "uid-1",
		Status:     models.AppointmentCompleted,
		Treatment:  &treatment,
	}

	record := SynthesizeVirtualRecord(appointment)
	if record == nil {
		t.Fatal("expected a virtual record")
	}
	if !record.IsVirtual {
		t.Error("record must be flagged virtual")
	}
	if record.ID != 42 || record.PatientUID != "uid-1" {
		t.Errorf("record identity = (%d, %q), want (42, uid-1)", record.ID, record.PatientUID)
	}
	if record.TotalCents != 230000 {
		t.Errorf("TotalCents = %d, want 230000", record.TotalCents)
	}
	if record.Status != models.BillingUnpaid {
		t.Errorf("Status = %q, want unpaid", record.Status)
	}
	if len(record.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(record.Items))
	}
	if record.Items[0].PriceCents != 150000 || record.Items[1].PriceCents != 80000 {
		t.Error("item prices must mirror the performed procedures")
	}
	if record.Plan.Data().Type != models.PlanFull {
		t.Errorf("plan type = %q, want full", record.Plan.Data().Type)
	}
}

func TestSynthesizeVirtualRecordWithoutTreatment(t *testing.T) {
	appointment := &models.Appointment{ID: 7, Status: models.AppointmentConfirmed}
	if record := SynthesizeVirtualRecord(appointment); record != nil {
		t.Errorf("expected nil for an appointment without treatment, got %+v", record)
	}
}

func TestApplyPayment(t *testing.T) {
	record := models.BillingRecord{
		ID:         9,
		TotalCents: 50000,
		Status:     models.BillingUnpaid,
	}

	if err := applyPayment(&record, 20000, "cash", "staff-1"); err != nil {
		t.Fatalf("applyPayment() error = %v", err)
	}
	if record.Status != models.BillingPartial {
		t.Errorf("Status = %q, want %q", record.Status, models.BillingPartial)
	}

	// A second payment lands on the same log; the first one is not lost.
	if err := applyPayment(&record, 30000, "card", "staff-2"); err != nil {
		t.Fatalf("applyPayment() second payment error = %v", err)
	}
	if len(record.Transactions) != 2 {
		t.Fatalf("Transactions length = %d, want 2", len(record.Transactions))
	}
	if got := record.PaidCents(); got != 50000 {
		t.Errorf("PaidCents() = %d, want 50000", got)
	}
	if record.Status != models.BillingPaid {
		t.Errorf("Status = %q, want %q", record.Status, models.BillingPaid)
	}
	if record.Transactions[0].RecordedBy != "staff-1" || record.Transactions[1].RecordedBy != "staff-2" {
		t.Errorf("transaction log lost attribution: %+v", record.Transactions)
	}

	if err := applyPayment(&record, 1000, "cash", "staff-1"); !errors.Is(err, ErrAlreadyPaid) {
		t.Errorf("payment on settled record error = %v, want %v", err, ErrAlreadyPaid)
	}
	if len(record.Transactions) != 2 {
		t.Errorf("settled record gained a transaction: %d entries", len(record.Transactions))
	}
}
