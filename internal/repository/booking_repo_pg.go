package repository

import (
	"context"
	"errors"

	"github.com/blacktie-rides/limobooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListFilter partitions bookings by status class.
type ListFilter string

const (
	FilterAll      ListFilter = "all"
	FilterUpcoming ListFilter = "upcoming" // PENDING or CONFIRMED
	FilterPast     ListFilter = "past"     // COMPLETED or CANCELLED
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	Get(ctx context.Context, id string) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	List(ctx context.Context, filter ListFilter) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// Create inserts the booking row and its initial audit trail in one
// transaction, so a failure leaves nothing behind.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &domain.StorageError{Op: "begin create booking", Err: err}
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO bookings (id, ride_date, ride_time, pickup_location, dropoff_location, vehicle_class, passengers, luggage, special_requests, contact_email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		booking.ID, booking.Date, booking.Time, booking.PickupLocation, booking.DropoffLocation,
		booking.VehicleClass, booking.Passengers, booking.Luggage, booking.SpecialRequests,
		booking.ContactEmail, booking.Status, booking.CreatedAt, booking.UpdatedAt); err != nil {
		return &domain.StorageError{Op: "insert booking", Err: err}
	}

	if err := insertAuditEntries(ctx, tx, booking.ID, booking.AuditTrail); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return &domain.StorageError{Op: "commit create booking", Err: err}
	}
	return nil
}

func (r *PGBookingRepository) Get(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, ride_date, ride_time, pickup_location, dropoff_location, vehicle_class, passengers, luggage, special_requests, contact_email, status, created_at, updated_at FROM bookings WHERE id=$1`, id)

	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Date, &b.Time, &b.PickupLocation, &b.DropoffLocation, &b.VehicleClass,
		&b.Passengers, &b.Luggage, &b.SpecialRequests, &b.ContactEmail, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, &domain.StorageError{Op: "select booking", Err: err}
	}

	trail, err := r.auditTrails(ctx, []string{b.ID})
	if err != nil {
		return nil, err
	}
	b.AuditTrail = trail[b.ID]
	return &b, nil
}

// Update replaces the booking row and appends any audit entries not yet
// stored. Entry ids are stable, so re-inserting the existing trail is a
// no-op.
func (r *PGBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &domain.StorageError{Op: "begin update booking", Err: err}
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `UPDATE bookings SET ride_date=$2, ride_time=$3, pickup_location=$4, dropoff_location=$5, vehicle_class=$6, passengers=$7, luggage=$8, special_requests=$9, contact_email=$10, status=$11, updated_at=$12 WHERE id=$1`,
		booking.ID, booking.Date, booking.Time, booking.PickupLocation, booking.DropoffLocation,
		booking.VehicleClass, booking.Passengers, booking.Luggage, booking.SpecialRequests,
		booking.ContactEmail, booking.Status, booking.UpdatedAt)
	if err != nil {
		return &domain.StorageError{Op: "update booking", Err: err}
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}

	if err := insertAuditEntries(ctx, tx, booking.ID, booking.AuditTrail); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return &domain.StorageError{Op: "commit update booking", Err: err}
	}
	return nil
}

func (r *PGBookingRepository) List(ctx context.Context, filter ListFilter) ([]domain.Booking, error) {
	query := `SELECT id, ride_date, ride_time, pickup_location, dropoff_location, vehicle_class, passengers, luggage, special_requests, contact_email, status, created_at, updated_at FROM bookings`
	switch filter {
	case FilterUpcoming:
		query += ` WHERE status IN ('PENDING', 'CONFIRMED') ORDER BY ride_date, ride_time`
	case FilterPast:
		query += ` WHERE status IN ('COMPLETED', 'CANCELLED') ORDER BY ride_date DESC, ride_time DESC`
	default:
		query += ` ORDER BY ride_date, ride_time`
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, &domain.StorageError{Op: "list bookings", Err: err}
	}
	defer rows.Close()

	var bookings []domain.Booking
	var ids []string
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.Date, &b.Time, &b.PickupLocation, &b.DropoffLocation, &b.VehicleClass,
			&b.Passengers, &b.Luggage, &b.SpecialRequests, &b.ContactEmail, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, &domain.StorageError{Op: "scan booking", Err: err}
		}
		bookings = append(bookings, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list bookings", Err: err}
	}

	if len(ids) == 0 {
		return bookings, nil
	}
	trails, err := r.auditTrails(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		bookings[i].AuditTrail = trails[bookings[i].ID]
	}
	return bookings, nil
}

func (r *PGBookingRepository) auditTrails(ctx context.Context, bookingIDs []string) (map[string][]domain.AuditEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT booking_id, id, recorded_at, action, details FROM booking_audit WHERE booking_id = ANY($1) ORDER BY recorded_at, id`, bookingIDs)
	if err != nil {
		return nil, &domain.StorageError{Op: "select audit trail", Err: err}
	}
	defer rows.Close()

	trails := make(map[string][]domain.AuditEntry)
	for rows.Next() {
		var bookingID string
		var e domain.AuditEntry
		if err := rows.Scan(&bookingID, &e.ID, &e.Timestamp, &e.Action, &e.Details); err != nil {
			return nil, &domain.StorageError{Op: "scan audit entry", Err: err}
		}
		trails[bookingID] = append(trails[bookingID], e)
	}
	return trails, rows.Err()
}

func insertAuditEntries(ctx context.Context, tx pgx.Tx, bookingID string, trail []domain.AuditEntry) error {
	for _, e := range trail {
		if _, err := tx.Exec(ctx, `INSERT INTO booking_audit (id, booking_id, recorded_at, action, details)
			VALUES ($1, $2, $3, $4, $5) ON CONFLICT (id) DO NOTHING`,
			e.ID, bookingID, e.Timestamp, e.Action, e.Details); err != nil {
			return &domain.StorageError{Op: "insert audit entry", Err: err}
		}
	}
	return nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
