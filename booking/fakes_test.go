package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"eventspark/models"
)

type memEvents struct {
	mu     sync.Mutex
	events map[string]models.Event
}

func newMemEvents(events ...models.Event) *memEvents {
	m := &memEvents{events: make(map[string]models.Event)}
	for _, e := range events {
		m.events[e.EventID] = e
	}
	return m
}

func (m *memEvents) GetEvent(_ context.Context, id string) (models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return models.Event{}, models.ErrEventNotFound
	}
	return e, nil
}

func (m *memEvents) ReserveSeats(_ context.Context, id string, n int) (models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return models.Event{}, models.ErrEventNotFound
	}
	if e.SoldTickets+n > e.TotalSeats {
		return models.Event{}, models.ErrNotEnoughSeats
	}
	before := e
	e.SoldTickets += n
	m.events[id] = e
	return before, nil
}

func (m *memEvents) ReleaseSeats(_ context.Context, id string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.events[id]
	e.SoldTickets -= n
	m.events[id] = e
	return nil
}

func (m *memEvents) AddRevenue(_ context.Context, id string, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.events[id]
	e.Revenue += amount
	m.events[id] = e
	return nil
}

func (m *memEvents) get(id string) models.Event {
	e, _ := m.GetEvent(context.Background(), id)
	return e
}

// memBookings mimics the bookings collection. With enforceUnique off it has
// no guard against two active bookings on one seat.
type memBookings struct {
	mu            sync.Mutex
	bookings      []models.Booking
	enforceUnique bool

	// afterCheck runs once the seat lookup has answered, outside the lock.
	afterCheck func()
}

func newMemBookings() *memBookings {
	return &memBookings{enforceUnique: true}
}

func (m *memBookings) ActiveSeatNumbers(_ context.Context, eventID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var seats []string
	for _, b := range m.bookings {
		if b.EventID == eventID && b.IsActive() {
			seats = append(seats, b.SeatNumber)
		}
	}
	return seats, nil
}

func (m *memBookings) FindActiveBySeats(_ context.Context, eventID string, seats []string) ([]models.Booking, error) {
	want := make(map[string]bool, len(seats))
	for _, s := range seats {
		want[s] = true
	}

	m.mu.Lock()
	var found []models.Booking
	for _, b := range m.bookings {
		if b.EventID == eventID && b.IsActive() && want[b.SeatNumber] {
			found = append(found, b)
		}
	}
	hook := m.afterCheck
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return found, nil
}

func (m *memBookings) InsertBookings(_ context.Context, bookings []models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.enforceUnique {
		held := make(map[string]bool)
		for _, b := range m.bookings {
			if b.IsActive() {
				held[b.EventID+"/"+b.SeatNumber] = true
			}
		}
		for _, b := range bookings {
			key := b.EventID + "/" + b.SeatNumber
			if held[key] {
				return models.ErrSeatTaken
			}
			held[key] = true
		}
	}
	m.bookings = append(m.bookings, bookings...)
	return nil
}

func (m *memBookings) DeleteBookings(_ context.Context, ids []string) error {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.bookings[:0]
	for _, b := range m.bookings {
		if !drop[b.BookingID] {
			kept = append(kept, b)
		}
	}
	m.bookings = kept
	return nil
}

func (m *memBookings) GetBooking(_ context.Context, id string) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.BookingID == id {
			return b, nil
		}
	}
	return models.Booking{}, models.ErrBookingNotFound
}

func (m *memBookings) SetPaymentStatus(_ context.Context, id string, status models.PaymentStatus) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bookings {
		if b.BookingID == id {
			m.bookings[i].PaymentStatus = status
			return m.bookings[i], nil
		}
	}
	return models.Booking{}, models.ErrBookingNotFound
}

func (m *memBookings) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []models.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			list = append(list, b)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (m *memBookings) activeFor(eventID, seat string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.EventID == eventID && b.SeatNumber == seat && b.IsActive() {
			n++
		}
	}
	return n
}

func (m *memBookings) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

type memUsers map[string]models.User

func (m memUsers) GetUser(_ context.Context, id string) (models.User, error) {
	u, ok := m[id]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return u, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.BookingConfirmation
	err  error
}

func (n *recordingNotifier) BookingConfirmed(_ context.Context, msg models.BookingConfirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, msg)
	return nil
}

type recordingBroadcaster struct {
	mu   sync.Mutex
	msgs []any
}

func (b *recordingBroadcaster) Broadcast(_ string, msg any) {
	b.mu.Lock()
	b.msgs = append(b.msgs, msg)
	b.mu.Unlock()
}

type countingInvalidator struct{ calls atomic.Int32 }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls.Add(1)
	return nil
}

type heldLocker struct{}

func (heldLocker) Acquire(context.Context, string, time.Duration) (string, bool, error) {
	return "", false, nil
}
func (heldLocker) Release(context.Context, string, string) error { return nil }

// tokenLocker hands out a fixed token and records what Release was given.
type tokenLocker struct {
	mu       sync.Mutex
	released []string
}

func (l *tokenLocker) Acquire(context.Context, string, time.Duration) (string, bool, error) {
	return "tok-42", true, nil
}

func (l *tokenLocker) Release(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.released = append(l.released, key+"="+token)
	return nil
}

// sequentialIDs and tickingClock keep bookings ordered and predictable.
func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("bk-%03d", n.Add(1)) }
}

func tickingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}
