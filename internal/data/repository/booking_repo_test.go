package repository_test

import (
	"context"
	"testing"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"
	"rental-booking/pkg/database"
	"rental-booking/testutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestRepos returns repositories bound to a transaction that is rolled
// back when the test finishes.
func newTestRepos(t *testing.T) (*repository.Repository, pgx.Tx) {
	t.Helper()
	tx := testutil.NewTx(t)
	return repository.NewRepository(tx, zap.NewNop()), tx
}

func seedProperty(t *testing.T, tx pgx.Tx, price string, maxGuests int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := tx.Exec(context.Background(),
		`INSERT INTO properties (id, price_per_night, max_guests) VALUES ($1, $2::numeric, $3)`,
		id, price, maxGuests)
	require.NoError(t, err)
	return id
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	require.NoError(t, err)
	return d
}

func bookingFixture(t *testing.T, propertyID uuid.UUID, in, out string) *entity.Booking {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		PropertyID:   propertyID,
		GuestID:      uuid.New(),
		CheckIn:      day(t, in),
		CheckOut:     day(t, out),
		GuestCount:   2,
		NightlyRate:  decimal.RequireFromString("125.50"),
		TotalPrice:   decimal.RequireFromString("502.00"),
		Status:       entity.BookingStatusConfirmed,
		ConfirmedAt:  &now,
	}
}

func TestBookingRepo_CreateAndFind(t *testing.T) {
	repos, tx := newTestRepos(t)
	ctx := context.Background()
	propertyID := seedProperty(t, tx, "125.50", 4)

	note := "crib please"
	b := bookingFixture(t, propertyID, "2030-06-01", "2030-06-05")
	b.SpecialRequests = &note
	require.NoError(t, repos.Booking.CreateIfAvailable(ctx, b))

	got, err := repos.Booking.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b.PropertyID, got.PropertyID)
	assert.Equal(t, b.GuestID, got.GuestID)
	assert.True(t, got.CheckIn.Equal(b.CheckIn), "check_in %s", got.CheckIn)
	assert.True(t, got.CheckOut.Equal(b.CheckOut), "check_out %s", got.CheckOut)
	assert.True(t, got.NightlyRate.Equal(b.NightlyRate))
	assert.True(t, got.TotalPrice.Equal(b.TotalPrice))
	assert.Equal(t, entity.BookingStatusConfirmed, got.Status)
	require.NotNil(t, got.SpecialRequests)
	assert.Equal(t, note, *got.SpecialRequests)
	require.NotNil(t, got.ConfirmedAt)
	assert.WithinDuration(t, *b.ConfirmedAt, *got.ConfirmedAt, time.Millisecond)
	assert.Nil(t, got.CancelledAt)
	assert.Nil(t, got.CompletedAt)
}

func TestBookingRepo_FindByID_Missing(t *testing.T) {
	repos, _ := newTestRepos(t)

	got, err := repos.Booking.FindByID(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBookingRepo_CreateIfAvailable_Overlaps(t *testing.T) {
	repos, tx := newTestRepos(t)
	ctx := context.Background()
	propertyID := seedProperty(t, tx, "100", 4)
	otherProperty := seedProperty(t, tx, "100", 4)

	require.NoError(t, repos.Booking.CreateIfAvailable(ctx, bookingFixture(t, propertyID, "2030-06-01", "2030-06-05")))

	err := repos.Booking.CreateIfAvailable(ctx, bookingFixture(t, propertyID, "2030-06-03", "2030-06-07"))
	assert.ErrorIs(t, err, entity.ErrDateConflict)

	err = repos.Booking.CreateIfAvailable(ctx, bookingFixture(t, propertyID, "2030-06-02", "2030-06-03"))
	assert.ErrorIs(t, err, entity.ErrDateConflict, "inside")

	assert.NoError(t, repos.Booking.CreateIfAvailable(ctx, bookingFixture(t, propertyID, "2030-06-05", "2030-06-08")), "back to back after")
	assert.NoError(t, repos.Booking.CreateIfAvailable(ctx, bookingFixture(t, propertyID, "2030-05-28", "2030-06-01")), "back to back before")
	assert.NoError(t, repos.Booking.CreateIfAvailable(ctx, bookingFixture(t, otherProperty, "2030-06-01", "2030-06-05")), "other property")
}

func TestBookingRepo_CancelledBookingFreesRange(t *testing.T) {
	repos, tx := newTestRepos(t)
	ctx := context.Background()
	propertyID := seedProperty(t, tx, "100", 4)

	a := bookingFixture(t, propertyID, "2030-06-01", "2030-06-05")
	require.NoError(t, repos.Booking.CreateIfAvailable(ctx, a))

	reason := "change of plans"
	cancelled, err := repos.Booking.Cancel(ctx, a.ID, time.Now().UTC(), &reason)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, reason, *cancelled.CancellationReason)
	require.NotNil(t, cancelled.CancelledAt)

	_, err = repos.Booking.Cancel(ctx, a.ID, time.Now().UTC(), nil)
	assert.ErrorIs(t, err, entity.ErrNotCancellable)

	assert.NoError(t, repos.Booking.CreateIfAvailable(ctx, bookingFixture(t, propertyID, "2030-06-03", "2030-06-07")))
}

func TestBookingRepo_ExclusionConstraintBackstop(t *testing.T) {
	repos, tx := newTestRepos(t)
	ctx := context.Background()
	propertyID := seedProperty(t, tx, "100", 4)
	require.NoError(t, repos.Booking.CreateIfAvailable(ctx, bookingFixture(t, propertyID, "2030-06-01", "2030-06-05")))

	// Write around the repository to hit the constraint directly.
	sp, err := tx.Begin(ctx)
	require.NoError(t, err)
	_, err = sp.Exec(ctx, `
		INSERT INTO bookings (id, property_id, guest_id, check_in, check_out, guest_count,
		                      nightly_rate, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, '2030-06-04', '2030-06-06', 1, 100, 200, 'confirmed', NOW(), NOW())`,
		uuid.New(), propertyID, uuid.New())
	require.Error(t, err)
	assert.True(t, database.HasCode(err, database.CodeExclusionViolation), "got %v", err)
	require.NoError(t, sp.Rollback(ctx))
}

func TestBookingRepo_FindByGuestID_NewestFirst(t *testing.T) {
	repos, tx := newTestRepos(t)
	ctx := context.Background()
	propertyID := seedProperty(t, tx, "100", 4)
	guestID := uuid.New()

	base := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, in := range []string{"2030-06-01", "2030-07-01", "2030-08-01"} {
		b := bookingFixture(t, propertyID, in, day(t, in).AddDate(0, 0, 3).Format(time.DateOnly))
		b.GuestID = guestID
		b.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		b.UpdatedAt = b.CreatedAt
		require.NoError(t, repos.Booking.CreateIfAvailable(ctx, b))
	}

	page, err := repos.Booking.FindByGuestID(ctx, guestID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "2030-08-01", page[0].CheckIn.Format(time.DateOnly))
	assert.Equal(t, "2030-07-01", page[1].CheckIn.Format(time.DateOnly))

	rest, err := repos.Booking.FindByGuestID(ctx, guestID, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)

	count, err := repos.Booking.CountByGuestID(ctx, guestID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestBookingRepo_CalendarQueries(t *testing.T) {
	repos, tx := newTestRepos(t)
	ctx := context.Background()
	propertyID := seedProperty(t, tx, "100", 4)

	late := bookingFixture(t, propertyID, "2030-07-10", "2030-07-12")
	early := bookingFixture(t, propertyID, "2030-07-01", "2030-07-04")
	ended := bookingFixture(t, propertyID, "2030-06-01", "2030-06-03")
	for _, b := range []*entity.Booking{late, early, ended} {
		require.NoError(t, repos.Booking.CreateIfAvailable(ctx, b))
	}

	active, err := repos.Booking.FindActiveByProperty(ctx, propertyID, day(t, "2030-06-03"))
	require.NoError(t, err)
	require.Len(t, active, 3, "check_out on the cut-off day is included")

	active, err = repos.Booking.FindActiveByProperty(ctx, propertyID, day(t, "2030-06-04"))
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, early.ID, active[0].ID)
	assert.Equal(t, late.ID, active[1].ID)

	overlapping, err := repos.Booking.FindOverlapping(ctx, propertyID, day(t, "2030-07-03"), day(t, "2030-07-10"))
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, early.ID, overlapping[0].ID)
}

func TestBookingRepo_MarkCompleted(t *testing.T) {
	repos, tx := newTestRepos(t)
	ctx := context.Background()
	propertyID := seedProperty(t, tx, "100", 4)

	ended := bookingFixture(t, propertyID, "2030-06-01", "2030-06-05")
	require.NoError(t, repos.Booking.CreateIfAvailable(ctx, ended))
	endsOnAsOf := bookingFixture(t, propertyID, "2030-06-05", "2030-06-06")
	require.NoError(t, repos.Booking.CreateIfAvailable(ctx, endsOnAsOf))

	due, err := repos.Booking.FindConfirmedEndedBefore(ctx, day(t, "2030-06-06"))
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(due))
	for _, b := range due {
		ids = append(ids, b.ID)
	}
	assert.Contains(t, ids, ended.ID)
	assert.NotContains(t, ids, endsOnAsOf.ID)

	updated, err := repos.Booking.MarkCompleted(ctx, ended.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, updated)

	updated, err = repos.Booking.MarkCompleted(ctx, ended.ID, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, updated, "second run is a no-op")

	got, err := repos.Booking.FindByID(ctx, ended.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestBookingRepo_ExistsForGuest(t *testing.T) {
	repos, tx := newTestRepos(t)
	ctx := context.Background()
	propertyID := seedProperty(t, tx, "100", 4)

	b := bookingFixture(t, propertyID, "2030-06-01", "2030-06-05")
	require.NoError(t, repos.Booking.CreateIfAvailable(ctx, b))

	stayed := []entity.BookingStatus{entity.BookingStatusConfirmed, entity.BookingStatusCompleted}

	ok, err := repos.Booking.ExistsForGuest(ctx, b.GuestID, propertyID, stayed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repos.Booking.ExistsForGuest(ctx, uuid.New(), propertyID, stayed)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repos.Booking.ExistsForGuest(ctx, b.GuestID, propertyID, []entity.BookingStatus{entity.BookingStatusCancelled})
	require.NoError(t, err)
	assert.False(t, ok)
}
