package booking

import (
	"context"
	"errors"
	"time"

	"github.com/blacktie-rides/limobooking/internal/domain"
	"github.com/blacktie-rides/limobooking/internal/kafka"
	"github.com/blacktie-rides/limobooking/internal/repository"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ErrBookingBusy means another operation currently holds the write lock for
// the same booking id. Callers retry.
var ErrBookingBusy = errors.New("booking is being modified by another request")

type BookingUseCase interface {
	CreateBooking(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error)
	UpdateBooking(ctx context.Context, id string, draft domain.BookingDraft) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, id string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id string) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, id string) (*domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListBookings(ctx context.Context) (*BookingList, error)
	AuditTrail(ctx context.Context, id string) ([]domain.AuditEntry, error)
}

// BookingList splits bookings the way the client renders them: rides still
// ahead versus terminal history.
type BookingList struct {
	Upcoming []domain.Booking `json:"upcoming"`
	Past     []domain.Booking `json:"past"`
}

type Cache interface {
	AcquireBookingLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	ReleaseBookingLock(ctx context.Context, bookingID string) error
	GetBookings(ctx context.Context) ([]domain.Booking, error)
	SetBookings(ctx context.Context, bookings []domain.Booking) error
	InvalidateBookings(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	validator          *domain.Validator
	cache              Cache
	producer           Producer
	clock              Clock
	ids                IDGenerator
	bookingTopic       string
	notificationsTopic string
	lockTTL            time.Duration
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithClock(clock Clock) BookingServiceOption {
	return func(s *BookingService) {
		s.clock = clock
	}
}

func WithIDGenerator(ids IDGenerator) BookingServiceOption {
	return func(s *BookingService) {
		s.ids = ids
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	validator *domain.Validator,
	cache Cache,
	producer Producer,
	bookingTopic string,
	lockTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		validator:    validator,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		lockTTL:      lockTTL,
		clock:        SystemClock{},
	}
	for _, opt := range opts {
		opt(service)
	}
	if service.ids == nil {
		service.ids = NewSequenceGenerator(service.clock, 0)
	}
	return service
}

// CreateBooking validates the draft, assigns a fresh identifier and persists
// the booking as PENDING with a one-entry audit trail. A rejected draft
// consumes no identifier and stores nothing.
func (s *BookingService) CreateBooking(ctx context.Context, draft domain.BookingDraft) (*domain.Booking, error) {
	if err := s.validator.Validate(draft); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	trail, err := domain.AppendAudit(nil, domain.AuditEntry{
		ID:        uuid.NewString(),
		Timestamp: now,
		Action:    domain.AuditActionCreated,
		Details:   "Booking created",
	})
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:              s.ids.NextID(),
		Date:            draft.Date,
		Time:            draft.Time,
		PickupLocation:  draft.PickupLocation,
		DropoffLocation: draft.DropoffLocation,
		VehicleClass:    draft.VehicleClass,
		Passengers:      draft.Passengers,
		Luggage:         draft.Luggage,
		SpecialRequests: draft.SpecialRequests,
		ContactEmail:    draft.ContactEmail,
		Status:          domain.BookingStatusPending,
		AuditTrail:      trail,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "booking_created", booking)
	return booking, nil
}

// UpdateBooking replaces the editable fields of an existing booking. Status,
// identifier and the recorded history are preserved; terminal bookings are
// immutable.
func (s *BookingService) UpdateBooking(ctx context.Context, id string, draft domain.BookingDraft) (*domain.Booking, error) {
	return s.withLock(ctx, id, func() (*domain.Booking, error) {
		current, err := s.bookings.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status.Terminal() {
			return nil, domain.ErrImmutableBookingState
		}
		if err := s.validator.Validate(draft); err != nil {
			return nil, err
		}

		now := s.clock.Now()
		trail, err := domain.AppendAudit(current.AuditTrail, domain.AuditEntry{
			ID:        uuid.NewString(),
			Timestamp: now,
			Action:    domain.AuditActionUpdated,
			Details:   "Booking details updated",
		})
		if err != nil {
			return nil, err
		}

		updated := *current
		updated.Date = draft.Date
		updated.Time = draft.Time
		updated.PickupLocation = draft.PickupLocation
		updated.DropoffLocation = draft.DropoffLocation
		updated.VehicleClass = draft.VehicleClass
		updated.Passengers = draft.Passengers
		updated.Luggage = draft.Luggage
		updated.SpecialRequests = draft.SpecialRequests
		updated.ContactEmail = draft.ContactEmail
		updated.AuditTrail = trail
		updated.UpdatedAt = now

		if err := s.bookings.Update(ctx, &updated); err != nil {
			return nil, err
		}

		s.afterWrite(ctx, "booking_updated", &updated)
		return &updated, nil
	})
}

func (s *BookingService) ConfirmBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingStatusConfirmed, domain.AuditActionConfirmed, "Booking confirmed", "booking_confirmed")
}

func (s *BookingService) CancelBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingStatusCancelled, domain.AuditActionCancelled, "Booking cancelled", "booking_cancelled")
}

func (s *BookingService) CompleteBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingStatusCompleted, domain.AuditActionCompleted, "Ride completed", "booking_completed")
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.Get(ctx, id)
}

// ListBookings returns the upcoming/past partition, served from the cache
// snapshot when one is present. The snapshot may be slightly stale.
func (s *BookingService) ListBookings(ctx context.Context) (*BookingList, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetBookings(ctx); err == nil && cached != nil {
			return partition(cached), nil
		}
	}

	bookings, err := s.bookings.List(ctx, repository.FilterAll)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetBookings(ctx, bookings)
	}
	return partition(bookings), nil
}

func (s *BookingService) AuditTrail(ctx context.Context, id string) ([]domain.AuditEntry, error) {
	booking, err := s.bookings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return booking.AuditTrail, nil
}

// transition moves a booking to next if the state machine allows it, records
// the matching audit entry and persists both in one repository write.
func (s *BookingService) transition(ctx context.Context, id string, next domain.BookingStatus, action domain.AuditAction, details, eventType string) (*domain.Booking, error) {
	return s.withLock(ctx, id, func() (*domain.Booking, error) {
		current, err := s.bookings.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !current.Status.CanTransitionTo(next) {
			if next == domain.BookingStatusCancelled && current.Status.Terminal() {
				return nil, domain.ErrImmutableBookingState
			}
			return nil, domain.ErrInvalidTransition
		}

		now := s.clock.Now()
		trail, err := domain.AppendAudit(current.AuditTrail, domain.AuditEntry{
			ID:        uuid.NewString(),
			Timestamp: now,
			Action:    action,
			Details:   details,
		})
		if err != nil {
			return nil, err
		}

		updated := *current
		updated.Status = next
		updated.AuditTrail = trail
		updated.UpdatedAt = now

		if err := s.bookings.Update(ctx, &updated); err != nil {
			return nil, err
		}

		s.afterWrite(ctx, eventType, &updated)
		return &updated, nil
	})
}

func (s *BookingService) withLock(ctx context.Context, id string, fn func() (*domain.Booking, error)) (*domain.Booking, error) {
	if s.cache != nil {
		ok, err := s.cache.AcquireBookingLock(ctx, id, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrBookingBusy
		}
		defer func() {
			_ = s.cache.ReleaseBookingLock(ctx, id)
		}()
	}
	return fn()
}

// afterWrite drops the stale list snapshot and publishes the booking event.
// Both are best effort: the write already committed.
func (s *BookingService) afterWrite(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.cache != nil {
		_ = s.cache.InvalidateBookings(ctx)
	}
	if err := s.publish(ctx, eventType, booking); err != nil {
		log.WithError(err).WithFields(log.Fields{"event": eventType, "booking": booking.ID}).
			Warn("failed to publish booking event")
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:            eventType,
		BookingID:       booking.ID,
		Status:          string(booking.Status),
		Date:            booking.Date,
		Time:            booking.Time,
		PickupLocation:  booking.PickupLocation,
		DropoffLocation: booking.DropoffLocation,
		VehicleClass:    booking.VehicleClass,
		Passengers:      booking.Passengers,
		Luggage:         booking.Luggage,
		ContactEmail:    booking.ContactEmail,
		OccurredAt:      booking.UpdatedAt,
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event)
	}
	return nil
}

func partition(bookings []domain.Booking) *BookingList {
	list := &BookingList{}
	for _, b := range bookings {
		if b.Status.Terminal() {
			list.Past = append(list.Past, b)
		} else {
			list.Upcoming = append(list.Upcoming, b)
		}
	}
	return list
}

var _ BookingUseCase = (*BookingService)(nil)
