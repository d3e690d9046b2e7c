package usecase_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"

	"github.com/google/uuid"
)

// memBookings is an in-memory BookingRepository. A single mutex gives
// CreateIfAvailable the same atomic check-then-insert the store provides.
type memBookings struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]*entity.Booking
	failOn   map[uuid.UUID]error // MarkCompleted fails for these IDs
	findErr  error
	createFn func(*entity.Booking) error
}

var _ repository.BookingRepository = (*memBookings)(nil)

func newMemBookings() *memBookings {
	return &memBookings{
		rows:   make(map[uuid.UUID]*entity.Booking),
		failOn: make(map[uuid.UUID]error),
	}
}

func (m *memBookings) put(b *entity.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *b
	m.rows[b.ID] = &c
}

func (m *memBookings) get(id uuid.UUID) *entity.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil
	}
	c := *b
	return &c
}

func (m *memBookings) snapshot() map[uuid.UUID]entity.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]entity.Booking, len(m.rows))
	for id, b := range m.rows {
		out[id] = *b
	}
	return out
}

func (m *memBookings) CreateIfAvailable(_ context.Context, booking *entity.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createFn != nil {
		if err := m.createFn(booking); err != nil {
			return err
		}
	}

	for _, b := range m.rows {
		if b.PropertyID == booking.PropertyID && b.Status.IsActive() && b.Overlaps(booking.CheckIn, booking.CheckOut) {
			return entity.ErrDateConflict
		}
	}
	c := *booking
	m.rows[booking.ID] = &c
	return nil
}

func (m *memBookings) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.get(id), nil
}

func (m *memBookings) FindByGuestID(_ context.Context, guestID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	list := m.filter(func(b *entity.Booking) bool { return b.GuestID == guestID })
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if offset >= len(list) {
		return nil, nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], nil
}

func (m *memBookings) CountByGuestID(_ context.Context, guestID uuid.UUID) (int64, error) {
	return int64(len(m.filter(func(b *entity.Booking) bool { return b.GuestID == guestID }))), nil
}

func (m *memBookings) FindActiveByProperty(_ context.Context, propertyID uuid.UUID, checkOutFrom time.Time) ([]*entity.Booking, error) {
	list := m.filter(func(b *entity.Booking) bool {
		return b.PropertyID == propertyID && b.Status.IsActive() && !b.CheckOut.Before(checkOutFrom)
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CheckIn.Before(list[j].CheckIn) })
	return list, nil
}

func (m *memBookings) FindOverlapping(_ context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time) ([]*entity.Booking, error) {
	list := m.filter(func(b *entity.Booking) bool {
		return b.PropertyID == propertyID && b.Status.IsActive() && b.Overlaps(checkIn, checkOut)
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CheckIn.Before(list[j].CheckIn) })
	return list, nil
}

func (m *memBookings) FindConfirmedEndedBefore(_ context.Context, asOf time.Time) ([]*entity.Booking, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	list := m.filter(func(b *entity.Booking) bool {
		return b.Status == entity.BookingStatusConfirmed && b.CheckOut.Before(asOf)
	})
	sort.Slice(list, func(i, j int) bool { return list[i].CheckOut.Before(list[j].CheckOut) })
	return list, nil
}

func (m *memBookings) ExistsForGuest(_ context.Context, guestID, propertyID uuid.UUID, statuses []entity.BookingStatus) (bool, error) {
	list := m.filter(func(b *entity.Booking) bool {
		if b.GuestID != guestID || b.PropertyID != propertyID {
			return false
		}
		for _, s := range statuses {
			if b.Status == s {
				return true
			}
		}
		return false
	})
	return len(list) > 0, nil
}

func (m *memBookings) Cancel(_ context.Context, id uuid.UUID, at time.Time, reason *string) (*entity.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.rows[id]
	if !ok || b.Status != entity.BookingStatusConfirmed {
		return nil, entity.ErrNotCancellable
	}
	b.Status = entity.BookingStatusCancelled
	b.CancelledAt = &at
	b.CancellationReason = reason
	b.UpdatedAt = at
	c := *b
	return &c, nil
}

func (m *memBookings) MarkCompleted(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failOn[id]; err != nil {
		return false, err
	}
	b, ok := m.rows[id]
	if !ok || b.Status != entity.BookingStatusConfirmed {
		return false, nil
	}
	b.Status = entity.BookingStatusCompleted
	b.CompletedAt = &at
	b.UpdatedAt = at
	return true, nil
}

func (m *memBookings) filter(keep func(*entity.Booking) bool) []*entity.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*entity.Booking
	for _, b := range m.rows {
		if keep(b) {
			c := *b
			out = append(out, &c)
		}
	}
	return out
}

type memProperties struct {
	rows map[uuid.UUID]*entity.Property
	err  error
}

var _ repository.PropertyRepository = (*memProperties)(nil)

func (m *memProperties) FindByID(_ context.Context, id uuid.UUID) (*entity.Property, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows[id], nil
}

// recordingPublisher keeps every published routing key.
type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return p.err
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

var errStoreDown = errors.New("store unavailable")
