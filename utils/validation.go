package utils

import (
	"PearlDental/models"
	"errors"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")
	ErrDateInPast         = errors.New("date must not be in the past")
	ErrBadDateFormat      = errors.New("date must be in YYYY-MM-DD format")
	ErrBadTimeFormat      = errors.New("time must be in HH:MM format")
)

var timeOfDayRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// BookingRequest is the patient-submitted booking payload.
type BookingRequest struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	ServiceType string `json:"service_type"`
	DisplayName string `json:"display_name,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// ValidateBookingRequest checks the booking payload against the clinic's
// domain rules: well-formed date not in the past, well-formed time, and a
// named service. Slot membership and holidays are checked by the booking
// workflow against the availability service.
func ValidateBookingRequest(req BookingRequest) error {
	return validation.Errors{
		"date":         validation.Validate(req.Date, validation.Required, validation.By(validateFutureDate)),
		"time":         validation.Validate(req.Time, validation.Required, validation.Match(timeOfDayRegex).Error(ErrBadTimeFormat.Error())),
		"service_type": validation.Validate(req.ServiceType, validation.Required, validation.Length(2, 120)),
	}.Filter()
}

// validateFutureDate rejects malformed dates and dates before today.
func validateFutureDate(value interface{}) error {
	date, _ := value.(string)
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ErrBadDateFormat
	}
	today := time.Now().Truncate(24 * time.Hour)
	if parsed.Before(today) {
		return ErrDateInPast
	}
	return nil
}

// ValidateTreatmentPayload checks a dentist-submitted treatment record
// before it is persisted onto the appointment.
func ValidateTreatmentPayload(record models.TreatmentRecord) error {
	if len(record.Procedures) == 0 {
		return errors.New("at least one procedure is required")
	}
	for _, procedure := range record.Procedures {
		err := validation.Errors{
			"name":        validation.Validate(procedure.Name, validation.Required, validation.Length(2, 120)),
			"price_cents": validation.Validate(procedure.PriceCents, validation.Min(0)),
			"tooth":       validation.Validate(procedure.Tooth, validation.Min(0), validation.Max(32)),
		}.Filter()
		if err != nil {
			return err
		}
	}
	for _, consumed := range record.Consumed {
		if consumed.Quantity <= 0 {
			return errors.New("consumed quantity must be positive")
		}
	}
	return nil
}

// ValidateUserData validates user data using ozzo-validation.
func ValidateUserData(user models.User) error {
	return validation.ValidateStruct(&user,
		validation.Field(&user.Email, validation.Required, is.Email),
		validation.Field(&user.DisplayName, validation.Required, validation.Length(2, 100)),
		validation.Field(&user.Role, validation.Required, validation.In(toInterfaces(models.ValidRoles)...)),
		validation.Field(&user.Password, validation.Required.Error("password cannot be blank"), validation.By(validatePassword)),
	)
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// validatePassword checks the password for length and complexity.
func validatePassword(value interface{}) error {
	password, _ := value.(string)

	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var (
		lowercaseRegex = regexp.MustCompile(`[a-z]`)
		uppercaseRegex = regexp.MustCompile(`[A-Z]`)
		digitRegex     = regexp.MustCompile(`\d`)
		specialRegex   = regexp.MustCompile(`[@$!%*?&]`)
	)

	if !lowercaseRegex.MatchString(password) ||
		!uppercaseRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!specialRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}

	return nil
}
