package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// transitions is the full set of allowed status changes. Anything not listed
// here is rejected by the lifecycle service.
var transitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCancelled: {},
	BookingStatusCompleted: {},
}

// CanTransitionTo reports whether moving from s to next is an allowed
// lifecycle transition.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s permits no further changes at all.
func (s BookingStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// Booking is a single reservation record. ID is assigned once at creation and
// never changes; AuditTrail only ever grows.
type Booking struct {
	ID              string
	Date            string // calendar date, 2006-01-02
	Time            string // time of day, 15:04
	PickupLocation  string
	DropoffLocation string
	VehicleClass    string
	Passengers      int
	Luggage         int
	SpecialRequests string
	ContactEmail    string
	Status          BookingStatus
	AuditTrail      []AuditEntry
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookingDraft carries the caller-editable fields of a booking. A draft has
// no identity or status until the lifecycle service commits it.
type BookingDraft struct {
	Date            string `json:"date"`
	Time            string `json:"time"`
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
	VehicleClass    string `json:"vehicle_class"`
	Passengers      int    `json:"passengers"`
	Luggage         int    `json:"luggage"`
	SpecialRequests string `json:"special_requests"`
	ContactEmail    string `json:"contact_email"`
}
