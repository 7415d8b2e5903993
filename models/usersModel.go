package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Roles recognised by the clinic. "client" is the only non-staff role;
// every authorization decision is made from this single field.
const (
	RoleClient    = "client"
	RoleDentist   = "dentist"
	RoleFrontDesk = "front_desk"
	RoleAdmin     = "admin"
)

// ValidRoles lists every role a user may hold.
var ValidRoles = []string{RoleClient, RoleDentist, RoleFrontDesk, RoleAdmin}

// IsStaffRole reports whether a role belongs to clinic staff.
func IsStaffRole(role string) bool {
	return role == RoleDentist || role == RoleFrontDesk || role == RoleAdmin
}

// User represents an account in the system. Dentists, front-desk staff and
// admins are users with a staff role; patients hold the "client" role.
type User struct {
	UID         string    `gorm:"primaryKey;column:uid" json:"uid"`
	Email       string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	Password    string    `gorm:"size:255;not null;column:password" json:"-"`
	Role        string    `gorm:"size:20;not null;index;check:role IN ('client', 'dentist', 'front_desk', 'admin');column:role" json:"role"`
	DisplayName string    `gorm:"size:100;not null;column:display_name" json:"display_name"`
	Phone       string    `gorm:"size:30;column:phone" json:"phone"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// PatientRecord holds the clinic-side identity of a client user, including
// the sequential patient number minted on first contact.
type PatientRecord struct {
	UID             string    `gorm:"primaryKey;column:uid" json:"uid"`
	PatientNumber   string    `gorm:"size:12;unique;index;column:patient_number" json:"patient_number"`
	ProfileComplete bool      `gorm:"not null;column:profile_complete" json:"profile_complete"`
	CreatedAt       time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	User            User      `gorm:"foreignKey:UID;references:UID" json:"-"`
}

func (PatientRecord) TableName() string {
	return "patient_record"
}

// PatientCounter is the single (year, sequence) pair used to mint patient
// numbers. It is only ever read and written inside a row-locking transaction.
type PatientCounter struct {
	ID       uint `gorm:"primaryKey;column:id" json:"id"`
	Year     int  `gorm:"not null;column:year" json:"year"`
	Sequence int  `gorm:"not null;column:sequence" json:"sequence"`
}

func (PatientCounter) TableName() string {
	return "patient_counter"
}

// FormatPatientNumber renders a (year, sequence) pair as the clinic's
// YYYY-NNNN patient number.
func FormatPatientNumber(year, sequence int) string {
	return fmt.Sprintf("%04d-%04d", year, sequence)
}

// SeedPatientCounter ensures the singleton counter row exists, starting the
// sequence at zero for the current year.
func SeedPatientCounter(db *gorm.DB) error {
	counter := PatientCounter{ID: 1, Year: time.Now().Year(), Sequence: 0}
	return db.Transaction(func(tx *gorm.DB) error {
		return tx.FirstOrCreate(&counter, PatientCounter{ID: 1}).Error
	})
}
