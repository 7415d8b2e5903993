package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Appointment statuses.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// PerformedProcedure is one procedure carried out during a visit, priced at
// the moment of treatment (a snapshot, independent of later catalog edits).
type PerformedProcedure struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Tooth      int    `json:"tooth,omitempty"`
}

// ConsumedItem records inventory used up during treatment.
type ConsumedItem struct {
	ItemID   uint `json:"item_id"`
	Quantity int  `json:"quantity"`
}

// ToothState is a single entry in a dental-chart patch.
type ToothState struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// TreatmentRecord is written exactly once, by the completing dentist, and is
// treated as immutable history afterwards.
type TreatmentRecord struct {
	Procedures  []PerformedProcedure  `json:"procedures"`
	Consumed    []ConsumedItem        `json:"consumed,omitempty"`
	Notes       string                `json:"notes,omitempty"`
	DentalChart map[string]ToothState `json:"dental_chart,omitempty"`
	Images      []string              `json:"images,omitempty"`
	CompletedAt time.Time             `json:"completed_at"`
	TotalCents  int64                 `json:"total_cents"`
}

// Appointment model. Appointments are never deleted; cancellation is a
// status transition.
type Appointment struct {
	ID            uint                                    `gorm:"primaryKey;autoIncrement;column:id;index" json:"id"`
	PatientUID    string                                  `gorm:"column:patient_uid;not null;index" json:"patient_uid"`
	DentistUID    string                                  `gorm:"column:dentist_uid;index" json:"dentist_uid,omitempty"`
	Date          string                                  `gorm:"column:date;not null;index" json:"date"`
	Time          string                                  `gorm:"column:time;not null" json:"time"`
	ServiceType   string                                  `gorm:"column:service_type;not null" json:"service_type"`
	Status        string                                  `gorm:"column:status;check:status IN ('pending', 'confirmed', 'completed', 'cancelled');not null;index" json:"status"`
	PaymentStatus string                                  `gorm:"column:payment_status" json:"payment_status,omitempty"`
	Treatment     *datatypes.JSONType[TreatmentRecord]    `gorm:"column:treatment" json:"treatment,omitempty"`
	CreatedAt     time.Time                               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Patient       User                                    `gorm:"foreignKey:PatientUID;references:UID" json:"patient"`
}

func (Appointment) TableName() string {
	return "appointment"
}

// TreatmentData returns the embedded treatment record, or nil.
func (a *Appointment) TreatmentData() *TreatmentRecord {
	if a.Treatment == nil {
		return nil
	}
	record := a.Treatment.Data()
	return &record
}

// ClinicClosure declares a clinic off-day; booking is rejected for its date.
type ClinicClosure struct {
	ID     uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Date   string `gorm:"column:date;not null;unique;index" json:"date"`
	Reason string `gorm:"column:reason;not null" json:"reason"`
}

func (ClinicClosure) TableName() string {
	return "clinic_closure"
}

// Procedure is a catalog entry. Billing items snapshot the price at treatment
// time, so catalog edits never rewrite history.
type Procedure struct {
	ID             uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Code           string    `gorm:"size:20;not null;unique;index;column:code" json:"code"`
	Name           string    `gorm:"size:120;not null;column:name" json:"name"`
	BasePriceCents int64     `gorm:"not null;column:base_price_cents" json:"base_price_cents"`
	Active         bool      `gorm:"not null;default:true;column:active" json:"active"`
	CreatedAt      time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (Procedure) TableName() string {
	return "procedure"
}

// InventoryCategoryInstrument is reserved: items in it are never offered as
// treatment consumables.
const InventoryCategoryInstrument = "instrument"

// InventoryItem model. Active=false is the soft-delete marker.
type InventoryItem struct {
	ID           uint       `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name         string     `gorm:"size:120;not null;column:name" json:"name"`
	Stock        int        `gorm:"not null;column:stock" json:"stock"`
	MinThreshold int        `gorm:"not null;column:min_threshold" json:"min_threshold"`
	CostCents    int64      `gorm:"not null;column:cost_cents" json:"cost_cents"`
	Category     string     `gorm:"size:50;not null;index;column:category" json:"category"`
	BatchNumber  string     `gorm:"size:50;column:batch_number" json:"batch_number,omitempty"`
	ExpiresAt    *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	Active       bool       `gorm:"not null;default:true;column:active" json:"active"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (InventoryItem) TableName() string {
	return "inventory_item"
}

// SeedProcedures inserts the starting service catalog.
func SeedProcedures(db *gorm.DB) error {
	initialProcedures := []Procedure{
		{Code: "CONS", Name: "Consultation", BasePriceCents: 50000, Active: true},
		{Code: "CLEAN", Name: "Teeth Cleaning", BasePriceCents: 120000, Active: true},
		{Code: "XRAY", Name: "Dental X-Ray", BasePriceCents: 80000, Active: true},
		{Code: "FILL", Name: "Tooth Filling", BasePriceCents: 150000, Active: true},
		{Code: "EXTR", Name: "Tooth Extraction", BasePriceCents: 200000, Active: true},
		{Code: "RCT", Name: "Root Canal Treatment", BasePriceCents: 800000, Active: true},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, procedure := range initialProcedures {
			if err := tx.FirstOrCreate(&procedure, Procedure{Code: procedure.Code}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
