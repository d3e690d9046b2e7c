package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BookingRepository is the authoritative store of reservations. Status,
// check_in and check_out only change through the methods below.
type BookingRepository interface {
	// CreateIfAvailable atomically checks the property's calendar and inserts
	// the booking. It returns entity.ErrDateConflict when an active booking
	// overlaps [CheckIn, CheckOut).
	CreateIfAvailable(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByGuestID(ctx context.Context, guestID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByGuestID(ctx context.Context, guestID uuid.UUID) (int64, error)

	// Calendar queries only consider confirmed and pending bookings.
	FindActiveByProperty(ctx context.Context, propertyID uuid.UUID, checkOutFrom time.Time) ([]*entity.Booking, error)
	FindOverlapping(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time) ([]*entity.Booking, error)

	FindConfirmedEndedBefore(ctx context.Context, asOf time.Time) ([]*entity.Booking, error)
	ExistsForGuest(ctx context.Context, guestID, propertyID uuid.UUID, statuses []entity.BookingStatus) (bool, error)

	// Cancel and MarkCompleted only move confirmed bookings. Cancel returns
	// entity.ErrNotCancellable when the row is no longer confirmed;
	// MarkCompleted reports false instead.
	Cancel(ctx context.Context, id uuid.UUID, at time.Time, reason *string) (*entity.Booking, error)
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, property_id, guest_id, check_in, check_out, guest_count,
		nightly_rate::text, total_price::text, status, special_requests, cancellation_reason,
		confirmed_at, cancelled_at, completed_at, created_at, updated_at`

func (r *bookingRepository) CreateIfAvailable(ctx context.Context, booking *entity.Booking) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		// Serializes writers per property for the rest of the transaction.
		if _, err := tx.Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`,
			booking.PropertyID.String(),
		); err != nil {
			return fmt.Errorf("lock property %s: %w", booking.PropertyID, err)
		}

		var conflict bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM bookings
				WHERE property_id = $1
				  AND status IN ('confirmed', 'pending')
				  AND check_in < $2
				  AND check_out > $3
			)`,
			booking.PropertyID, booking.CheckOut, booking.CheckIn,
		).Scan(&conflict)
		if err != nil {
			return fmt.Errorf("check overlapping bookings: %w", err)
		}
		if conflict {
			return entity.ErrDateConflict
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO bookings (id, property_id, guest_id, check_in, check_out, guest_count,
			                      nightly_rate, total_price, status, special_requests,
			                      confirmed_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8::numeric, $9, $10, $11, $12, $13)`,
			booking.ID,
			booking.PropertyID,
			booking.GuestID,
			booking.CheckIn,
			booking.CheckOut,
			booking.GuestCount,
			booking.NightlyRate.String(),
			booking.TotalPrice.String(),
			string(booking.Status),
			booking.SpecialRequests,
			booking.ConfirmedAt,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, entity.ErrDateConflict):
		return err
	case database.HasCode(err, database.CodeExclusionViolation):
		r.log.Warn("Exclusion constraint rejected overlapping booking",
			zap.String("property_id", booking.PropertyID.String()))
		return entity.ErrDateConflict
	default:
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("property_id", booking.PropertyID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID, err)
	}
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByGuestID(ctx context.Context, guestID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE guest_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	bookings, err := r.queryBookings(ctx, query, guestID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by guest ID",
			zap.Error(err),
			zap.String("guest_id", guestID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by guest ID %s: %w", guestID, err)
	}
	return bookings, nil
}

func (r *bookingRepository) CountByGuestID(ctx context.Context, guestID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE guest_id = $1`, guestID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by guest ID",
			zap.Error(err),
			zap.String("guest_id", guestID.String()),
		)
		return 0, fmt.Errorf("count bookings by guest ID %s: %w", guestID, err)
	}
	return count, nil
}

func (r *bookingRepository) FindActiveByProperty(ctx context.Context, propertyID uuid.UUID, checkOutFrom time.Time) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE property_id = $1
		  AND status IN ('confirmed', 'pending')
		  AND check_out >= $2
		ORDER BY check_in ASC`

	bookings, err := r.queryBookings(ctx, query, propertyID, checkOutFrom)
	if err != nil {
		r.log.Error("Failed to find active bookings by property",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return nil, fmt.Errorf("find active bookings by property %s: %w", propertyID, err)
	}
	return bookings, nil
}

func (r *bookingRepository) FindOverlapping(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE property_id = $1
		  AND status IN ('confirmed', 'pending')
		  AND check_in < $2
		  AND check_out > $3
		ORDER BY check_in ASC`

	bookings, err := r.queryBookings(ctx, query, propertyID, checkOut, checkIn)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return nil, fmt.Errorf("find overlapping bookings for property %s: %w", propertyID, err)
	}
	return bookings, nil
}

func (r *bookingRepository) FindConfirmedEndedBefore(ctx context.Context, asOf time.Time) ([]*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'confirmed' AND check_out < $1
		ORDER BY check_out ASC`

	bookings, err := r.queryBookings(ctx, query, asOf)
	if err != nil {
		r.log.Error("Failed to find ended bookings", zap.Error(err), zap.Time("as_of", asOf))
		return nil, fmt.Errorf("find confirmed bookings ended before %s: %w", asOf.Format(time.DateOnly), err)
	}
	return bookings, nil
}

func (r *bookingRepository) ExistsForGuest(ctx context.Context, guestID, propertyID uuid.UUID, statuses []entity.BookingStatus) (bool, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE guest_id = $1 AND property_id = $2 AND status = ANY($3)
		)`,
		guestID, propertyID, names,
	).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check guest bookings",
			zap.Error(err),
			zap.String("guest_id", guestID.String()),
			zap.String("property_id", propertyID.String()),
		)
		return false, fmt.Errorf("check bookings of guest %s on property %s: %w", guestID, propertyID, err)
	}
	return exists, nil
}

func (r *bookingRepository) Cancel(ctx context.Context, id uuid.UUID, at time.Time, reason *string) (*entity.Booking, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = $2, cancellation_reason = $3, updated_at = $2
		WHERE id = $1 AND status = 'confirmed'
		RETURNING ` + bookingColumns

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id, at, reason))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrNotCancellable
	}
	if err != nil {
		r.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("cancel booking %s: %w", id, err)
	}
	return booking, nil
}

func (r *bookingRepository) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result, err := r.db.Exec(ctx, `
		UPDATE bookings
		SET status = 'completed', completed_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'confirmed'`,
		id, at,
	)
	if err != nil {
		return false, fmt.Errorf("complete booking %s: %w", id, err)
	}
	return result.RowsAffected() == 1, nil
}

func (r *bookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(s scanner) (*entity.Booking, error) {
	var (
		b           entity.Booking
		status      string
		nightlyRate string
		totalPrice  string
	)

	err := s.Scan(
		&b.ID,
		&b.PropertyID,
		&b.GuestID,
		&b.CheckIn,
		&b.CheckOut,
		&b.GuestCount,
		&nightlyRate,
		&totalPrice,
		&status,
		&b.SpecialRequests,
		&b.CancellationReason,
		&b.ConfirmedAt,
		&b.CancelledAt,
		&b.CompletedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Status = entity.BookingStatus(status)
	if b.NightlyRate, err = decimal.NewFromString(nightlyRate); err != nil {
		return nil, fmt.Errorf("parse nightly rate %q: %w", nightlyRate, err)
	}
	if b.TotalPrice, err = decimal.NewFromString(totalPrice); err != nil {
		return nil, fmt.Errorf("parse total price %q: %w", totalPrice, err)
	}

	return &b, nil
}
