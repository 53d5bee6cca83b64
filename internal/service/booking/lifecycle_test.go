package booking

import (
	"context"
	"testing"

	"github.com/blacktie-rides/limobooking/internal/domain"
	"github.com/blacktie-rides/limobooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepository is a map-backed repository for exercising full lifecycle
// sequences without a database. Stored values are deep-copied so service-side
// mutations cannot leak into "persisted" state.
type memoryRepository struct {
	bookings map[string]domain.Booking
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{bookings: make(map[string]domain.Booking)}
}

func (r *memoryRepository) Create(ctx context.Context, booking *domain.Booking) error {
	r.bookings[booking.ID] = snapshot(booking)
	return nil
}

func (r *memoryRepository) Get(ctx context.Context, id string) (*domain.Booking, error) {
	stored, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	copied := snapshot(&stored)
	return &copied, nil
}

func (r *memoryRepository) Update(ctx context.Context, booking *domain.Booking) error {
	if _, ok := r.bookings[booking.ID]; !ok {
		return domain.ErrBookingNotFound
	}
	r.bookings[booking.ID] = snapshot(booking)
	return nil
}

func (r *memoryRepository) List(ctx context.Context, filter repository.ListFilter) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, b := range r.bookings {
		switch filter {
		case repository.FilterUpcoming:
			if b.Status.Terminal() {
				continue
			}
		case repository.FilterPast:
			if !b.Status.Terminal() {
				continue
			}
		}
		out = append(out, snapshot(&b))
	}
	return out, nil
}

func snapshot(b *domain.Booking) domain.Booking {
	copied := *b
	copied.AuditTrail = make([]domain.AuditEntry, len(b.AuditTrail))
	copy(copied.AuditTrail, b.AuditTrail)
	return copied
}

var _ repository.BookingRepository = (*memoryRepository)(nil)

func TestLifecycle_CreateConfirmComplete(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestService(repo, nil, nil)
	ctx := context.Background()

	created, err := service.CreateBooking(ctx, validDraft())
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusPending, created.Status)

	confirmed, err := service.ConfirmBooking(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusConfirmed, confirmed.Status)

	completed, err := service.CompleteBooking(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusCompleted, completed.Status)

	require.Len(t, completed.AuditTrail, 3)
	assert.Equal(t, domain.AuditActionCreated, completed.AuditTrail[0].Action)
	assert.Equal(t, domain.AuditActionConfirmed, completed.AuditTrail[1].Action)
	assert.Equal(t, domain.AuditActionCompleted, completed.AuditTrail[2].Action)

	// a completed ride is frozen: an edit changes nothing
	before, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)

	_, err = service.UpdateBooking(ctx, created.ID, validDraft())
	assert.ErrorIs(t, err, domain.ErrImmutableBookingState)

	after, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLifecycle_CancelPendingBlocksConfirm(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestService(repo, nil, nil)
	ctx := context.Background()

	created, err := service.CreateBooking(ctx, validDraft())
	require.NoError(t, err)

	cancelled, err := service.CancelBooking(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)

	_, err = service.ConfirmBooking(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestLifecycle_AuditTrailOnlyGrows(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestService(repo, nil, nil)
	ctx := context.Background()

	created, err := service.CreateBooking(ctx, validDraft())
	require.NoError(t, err)

	prevLen := 0
	steps := []func() error{
		func() error { _, err := service.UpdateBooking(ctx, created.ID, validDraft()); return err },
		func() error { _, err := service.ConfirmBooking(ctx, created.ID); return err },
		func() error { _, err := service.UpdateBooking(ctx, created.ID, validDraft()); return err },
		func() error { _, err := service.CompleteBooking(ctx, created.ID); return err },
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)

		stored, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Greater(t, len(stored.AuditTrail), prevLen)

		for j := 1; j < len(stored.AuditTrail); j++ {
			assert.False(t, stored.AuditTrail[j].Timestamp.Before(stored.AuditTrail[j-1].Timestamp))
		}
		prevLen = len(stored.AuditTrail)
	}
}

func TestLifecycle_SequentialIdentifiers(t *testing.T) {
	repo := newMemoryRepository()
	service := newTestService(repo, nil, nil)
	ctx := context.Background()

	first, err := service.CreateBooking(ctx, validDraft())
	require.NoError(t, err)
	second, err := service.CreateBooking(ctx, validDraft())
	require.NoError(t, err)

	assert.Equal(t, "BK-2025-0001", first.ID)
	assert.Equal(t, "BK-2025-0002", second.ID)
}
