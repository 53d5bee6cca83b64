package domain

import "time"

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Validator checks a booking draft against completeness rules and the
// capacity limits of the vehicle catalog. Validation is fail-fast: the first
// violated rule is returned and later rules are not evaluated.
type Validator struct {
	catalog *Catalog
}

func NewValidator(catalog *Catalog) *Validator {
	return &Validator{catalog: catalog}
}

func (v *Validator) Validate(draft BookingDraft) error {
	if draft.PickupLocation == "" {
		return &MissingFieldError{Field: "pickup_location"}
	}
	if draft.DropoffLocation == "" {
		return &MissingFieldError{Field: "dropoff_location"}
	}
	if draft.Date == "" {
		return &MissingFieldError{Field: "date"}
	}
	if draft.Time == "" {
		return &MissingFieldError{Field: "time"}
	}
	if _, err := time.Parse(dateLayout, draft.Date); err != nil {
		return &MissingFieldError{Field: "date"}
	}
	if _, err := time.Parse(timeLayout, draft.Time); err != nil {
		return &MissingFieldError{Field: "time"}
	}

	class, err := v.catalog.CapacityOf(draft.VehicleClass)
	if err != nil {
		return err
	}

	if draft.Passengers < 1 || draft.Passengers > class.Passengers {
		return &CapacityExceededError{Field: "passengers", Count: draft.Passengers, Limit: class.Passengers}
	}
	if draft.Luggage < 0 || draft.Luggage > class.Luggage {
		return &CapacityExceededError{Field: "luggage", Count: draft.Luggage, Limit: class.Luggage}
	}
	return nil
}
