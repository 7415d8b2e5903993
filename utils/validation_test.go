package utils

import (
	"PearlDental/models"
	"testing"
	"time"
)

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestValidateBookingRequest(t *testing.T) {
	valid := BookingRequest{
		Date:        futureDate(7),
		Time:        "10:00",
		ServiceType: "Teeth Cleaning",
	}

	tests := []struct {
		name    string
		mutate  func(r *BookingRequest)
		wantErr bool
	}{
		{name: "valid request", mutate: func(r *BookingRequest) {}, wantErr: false},
		{name: "today is allowed", mutate: func(r *BookingRequest) { r.Date = futureDate(0) }, wantErr: false},
		{name: "missing date", mutate: func(r *BookingRequest) { r.Date = "" }, wantErr: true},
		{name: "malformed date", mutate: func(r *BookingRequest) { r.Date = "07/03/2026" }, wantErr: true},
		{name: "date in the past", mutate: func(r *BookingRequest) { r.Date = "2020-01-01" }, wantErr: true},
		{name: "missing time", mutate: func(r *BookingRequest) { r.Time = "" }, wantErr: true},
		{name: "malformed time", mutate: func(r *BookingRequest) { r.Time = "10am" }, wantErr: true},
		{name: "out of range hour", mutate: func(r *BookingRequest) { r.Time = "25:00" }, wantErr: true},
		{name: "missing service", mutate: func(r *BookingRequest) { r.ServiceType = "" }, wantErr: true},
		{name: "service too short", mutate: func(r *BookingRequest) { r.ServiceType = "x" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := ValidateBookingRequest(req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBookingRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTreatmentPayload(t *testing.T) {
	valid := models.TreatmentRecord{
		Procedures: []models.PerformedProcedure{
			{ID: "p1", Name: "Tooth Filling", PriceCents: 150000, Tooth: 14},
		},
		Consumed: []models.ConsumedItem{{ItemID: 1, Quantity: 2}},
	}

	tests := []struct {
		name    string
		mutate  func(r *models.TreatmentRecord)
		wantErr bool
	}{
		{name: "valid payload", mutate: func(r *models.TreatmentRecord) {}, wantErr: false},
		{name: "no procedures", mutate: func(r *models.TreatmentRecord) { r.Procedures = nil }, wantErr: true},
		{name: "unnamed procedure", mutate: func(r *models.TreatmentRecord) { r.Procedures[0].Name = "" }, wantErr: true},
		{name: "negative price", mutate: func(r *models.TreatmentRecord) { r.Procedures[0].PriceCents = -1 }, wantErr: true},
		{name: "tooth out of range", mutate: func(r *models.TreatmentRecord) { r.Procedures[0].Tooth = 33 }, wantErr: true},
		{name: "zero consumed quantity", mutate: func(r *models.TreatmentRecord) { r.Consumed[0].Quantity = 0 }, wantErr: true},
		{name: "no consumed items is fine", mutate: func(r *models.TreatmentRecord) { r.Consumed = nil }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := models.TreatmentRecord{
				Procedures: append([]models.PerformedProcedure(nil), valid.Procedures...),
				Consumed:   append([]models.ConsumedItem(nil), valid.Consumed...),
			}
			tt.mutate(&record)
			err := ValidateTreatmentPayload(record)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTreatmentPayload() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUserData(t *testing.T) {
	valid := models.User{
		UID:         "u1",
		Email:       "jane@example.com",
		Password:    "Str0ng!pass",
		Role:        models.RoleClient,
		DisplayName: "Jane Doe",
	}

	tests := []struct {
		name    string
		mutate  func(u *models.User)
		wantErr bool
	}{
		{name: "valid user", mutate: func(u *models.User) {}, wantErr: false},
		{name: "bad email", mutate: func(u *models.User) { u.Email = "not-an-email" }, wantErr: true},
		{name: "unknown role", mutate: func(u *models.User) { u.Role = "superuser" }, wantErr: true},
		{name: "short password", mutate: func(u *models.User) { u.Password = "Ab1!" }, wantErr: true},
		{name: "no uppercase", mutate: func(u *models.User) { u.Password = "weakpass1!" }, wantErr: true},
		{name: "no special character", mutate: func(u *models.User) { u.Password = "Weakpass11" }, wantErr: true},
		{name: "blank display name", mutate: func(u *models.User) { u.DisplayName = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := valid
			tt.mutate(&user)
			err := ValidateUserData(user)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUserData() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
