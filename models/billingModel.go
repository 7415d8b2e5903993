package models

import (
	"time"

	"gorm.io/datatypes"
)

// Billing record statuses.
const (
	BillingUnpaid   = "unpaid"
	BillingPartial  = "partial"
	BillingPaid     = "paid"
	BillingOverdue  = "overdue"
	BillingRefunded = "refunded"
)

// Billing item statuses. Void and waived items are legacy write-offs; they
// never count toward an outstanding balance.
const (
	ItemUnpaid = "unpaid"
	ItemPlan   = "plan"
	ItemPaid   = "paid"
	ItemVoid   = "void"
	ItemWaived = "waived"
)

// Installment statuses.
const (
	InstallmentPending   = "pending"
	InstallmentPaid      = "paid"
	InstallmentOverdue   = "overdue"
	InstallmentCancelled = "cancelled"
)

// Payment plan types.
const (
	PlanFull         = "full"
	PlanInstallments = "installments"
)

// BillingItem is one priced line inside a billing record, usually mirroring
// a performed procedure.
type BillingItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Status     string `json:"status"`
}

// Installment is one dated slice of an installment plan.
type Installment struct {
	ID          string    `json:"id"`
	DueDate     time.Time `json:"due_date"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
}

// PaymentPlan is either the default full plan or an installment schedule.
type PaymentPlan struct {
	Type         string        `json:"type"`
	Installments []Installment `json:"installments,omitempty"`
}

// PaymentTransaction is an append-only entry in the billing transaction log.
type PaymentTransaction struct {
	ID          string    `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method"`
	Timestamp   time.Time `json:"timestamp"`
	RecordedBy  string    `json:"recorded_by"`
}

// BillingRecord is the financial ledger for one appointment. Its ID always
// equals the appointment ID. All amounts are integer cents; the remaining
// balance is derived from the transaction log, never stored.
type BillingRecord struct {
	ID           uint                                    `gorm:"primaryKey;column:id" json:"id"`
	PatientUID   string                                  `gorm:"column:patient_uid;not null;index" json:"patient_uid"`
	TotalCents   int64                                   `gorm:"column:total_cents;not null" json:"total_cents"`
	Status       string                                  `gorm:"column:status;check:status IN ('unpaid', 'partial', 'paid', 'overdue', 'refunded');not null;index" json:"status"`
	Items        datatypes.JSONSlice[BillingItem]        `gorm:"column:items" json:"items"`
	Plan         datatypes.JSONType[PaymentPlan]         `gorm:"column:plan" json:"plan"`
	Transactions datatypes.JSONSlice[PaymentTransaction] `gorm:"column:transactions" json:"transactions"`
	CreatedAt    time.Time                               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient      User                                    `gorm:"foreignKey:PatientUID;references:UID" json:"-"`

	// IsVirtual marks records synthesized on the fly from appointment data;
	// such records are read-only and never persisted.
	IsVirtual bool `gorm:"-" json:"is_virtual,omitempty"`
}

func (BillingRecord) TableName() string {
	return "billing_record"
}

// PaidCents sums the transaction log.
func (b *BillingRecord) PaidCents() int64 {
	var paid int64
	for _, tx := range b.Transactions {
		paid += tx.AmountCents
	}
	return paid
}

// RemainingCents is the single authoritative balance formula:
// total minus everything received, floored at zero.
func (b *BillingRecord) RemainingCents() int64 {
	remaining := b.TotalCents - b.PaidCents()
	if remaining < 0 {
		return 0
	}
	return remaining
}
