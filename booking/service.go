// Package booking sells seats: it validates requested labels, reserves
// capacity on the event, stamps each booking with the current price and
// settles payment.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"eventspark/metrics"
	"eventspark/models"
	"eventspark/pay"
	"eventspark/pricing"
	"eventspark/tickets"
	"eventspark/utils"
)

// EventStore is the slice of the event collection booking needs.
type EventStore interface {
	GetEvent(ctx context.Context, eventID string) (models.Event, error)
	// ReserveSeats adds n to the sold count only if the event still has n
	// seats left, and returns the event as it was before the increment.
	// It fails with models.ErrNotEnoughSeats otherwise.
	ReserveSeats(ctx context.Context, eventID string, n int) (models.Event, error)
	ReleaseSeats(ctx context.Context, eventID string, n int) error
	AddRevenue(ctx context.Context, eventID string, amount float64) error
}

type BookingStore interface {
	ActiveSeatNumbers(ctx context.Context, eventID string) ([]string, error)
	FindActiveBySeats(ctx context.Context, eventID string, seats []string) ([]models.Booking, error)
	// InsertBookings fails with models.ErrSeatTaken when any seat already
	// has an active booking. Nothing from the batch is kept in that case.
	InsertBookings(ctx context.Context, bookings []models.Booking) error
	DeleteBookings(ctx context.Context, bookingIDs []string) error
	GetBooking(ctx context.Context, bookingID string) (models.Booking, error)
	SetPaymentStatus(ctx context.Context, bookingID string, status models.PaymentStatus) (models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
}

type UserStore interface {
	GetUser(ctx context.Context, userID string) (models.User, error)
}

// Notifier hands a confirmation to whatever delivers it.
type Notifier interface {
	BookingConfirmed(ctx context.Context, msg models.BookingConfirmation) error
}

// Broadcaster pushes live seat updates to watchers of an event.
type Broadcaster interface {
	Broadcast(eventID string, msg any)
}

// Invalidator drops cached event listings after the sold count moves.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Locker serializes settlement of one booking across instances.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

const settleLockTTL = 10 * time.Second

type Service struct {
	events   EventStore
	bookings BookingStore
	users    UserStore
	gateway  pay.Gateway

	notifier    Notifier
	broadcaster Broadcaster
	invalidator Invalidator
	locker      Locker
	now         func() time.Time
	newID       func() string
}

type Option func(*Service)

func WithNotifier(n Notifier) Option       { return func(s *Service) { s.notifier = n } }
func WithBroadcaster(b Broadcaster) Option { return func(s *Service) { s.broadcaster = b } }
func WithInvalidator(i Invalidator) Option { return func(s *Service) { s.invalidator = i } }
func WithLocker(l Locker) Option           { return func(s *Service) { s.locker = l } }
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(events EventStore, bookings BookingStore, users UserStore, gateway pay.Gateway, opts ...Option) *Service {
	s := &Service{
		events:   events,
		bookings: bookings,
		users:    users,
		gateway:  gateway,
		now:      time.Now,
		newID:    utils.GetUUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeatMapResult is the seat picker's view of an event.
type SeatMapResult struct {
	Event        models.Event  `json:"event"`
	Seats        []models.Seat `json:"availableSeats"`
	TotalSeats   int           `json:"totalSeats"`
	SoldTickets  int           `json:"soldTickets"`
	CurrentPrice float64       `json:"currentPrice"`
}

// Result is what a successful booking returns.
type Result struct {
	Bookings    []models.Booking    `json:"bookings"`
	Event       models.EventSummary `json:"event"`
	TicketPrice float64             `json:"ticketPrice"`
	TotalPrice  float64             `json:"totalPrice"`
}

// SettleResult is the outcome of a successful payment.
type SettleResult struct {
	Booking models.Booking `json:"booking"`
	Message string         `json:"message"`
}

// SeatsBooked is the live update sent after a sale.
type SeatsBooked struct {
	Type         string   `json:"type"`
	EventID      string   `json:"eventId"`
	Seats        []string `json:"seats"`
	SoldTickets  int      `json:"soldTickets"`
	CurrentPrice float64  `json:"currentPrice"`
}

func (s *Service) ListSeats(ctx context.Context, eventID string) (SeatMapResult, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return SeatMapResult{}, err
	}
	booked, err := s.bookings.ActiveSeatNumbers(ctx, eventID)
	if err != nil {
		return SeatMapResult{}, fmt.Errorf("list booked seats: %w", err)
	}

	pricing.Decorate(&event)
	return SeatMapResult{
		Event:        event,
		Seats:        SeatMap(event.TotalSeats, booked),
		TotalSeats:   event.TotalSeats,
		SoldTickets:  event.SoldTickets,
		CurrentPrice: event.CurrentTicketPrice,
	}, nil
}

// Create books a single seat for userID.
func (s *Service) Create(ctx context.Context, eventID, seatNumber, userID string) (Result, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return Result{}, err
	}
	if err := validateSeats(event.TotalSeats, []string{seatNumber}); err != nil {
		return Result{}, err
	}

	existing, err := s.bookings.FindActiveBySeats(ctx, eventID, []string{seatNumber})
	if err != nil {
		return Result{}, fmt.Errorf("check seat: %w", err)
	}
	if len(existing) > 0 {
		metrics.BookingConflict("seat_taken")
		return Result{}, models.ErrSeatTaken
	}
	if event.SoldTickets >= event.TotalSeats {
		metrics.BookingConflict("sold_out")
		return Result{}, models.ErrSoldOut
	}

	res, err := s.sell(ctx, eventID, []string{seatNumber}, userID)
	if errors.Is(err, models.ErrNotEnoughSeats) {
		metrics.BookingConflict("sold_out")
		return Result{}, models.ErrSoldOut
	}
	if errors.Is(err, models.ErrSeatTaken) {
		metrics.BookingConflict("seat_taken")
		return Result{}, models.ErrSeatTaken
	}
	if err != nil {
		return Result{}, err
	}

	metrics.BookingsCreated("single", 1)
	return res, nil
}

// BulkCreate books every seat in seatNumbers or none of them.
func (s *Service) BulkCreate(ctx context.Context, eventID string, seatNumbers []string, userID string) (Result, error) {
	if len(seatNumbers) == 0 {
		return Result{}, models.ErrNoSeats
	}
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return Result{}, err
	}
	if err := validateSeats(event.TotalSeats, seatNumbers); err != nil {
		return Result{}, err
	}
	if event.SoldTickets+len(seatNumbers) > event.TotalSeats {
		metrics.BookingConflict("not_enough_seats")
		return Result{}, models.ErrNotEnoughSeats
	}

	if err := s.checkSeatsFree(ctx, eventID, seatNumbers); err != nil {
		return Result{}, err
	}

	res, err := s.sell(ctx, eventID, seatNumbers, userID)
	if errors.Is(err, models.ErrNotEnoughSeats) {
		metrics.BookingConflict("not_enough_seats")
		return Result{}, err
	}
	if errors.Is(err, models.ErrSeatTaken) {
		// Lost a race on insert; name whatever is held now.
		if named := s.checkSeatsFree(ctx, eventID, seatNumbers); named != nil {
			return Result{}, named
		}
		metrics.BookingConflict("seats_taken")
		return Result{}, models.ErrSeatsTaken
	}
	if err != nil {
		return Result{}, err
	}

	metrics.BookingsCreated("bulk", len(seatNumbers))
	return res, nil
}

func (s *Service) checkSeatsFree(ctx context.Context, eventID string, seatNumbers []string) error {
	existing, err := s.bookings.FindActiveBySeats(ctx, eventID, seatNumbers)
	if err != nil {
		return fmt.Errorf("check seats: %w", err)
	}
	if len(existing) == 0 {
		return nil
	}

	held := make(map[string]struct{}, len(existing))
	for _, b := range existing {
		held[b.SeatNumber] = struct{}{}
	}
	taken := make([]string, 0, len(held))
	for _, seat := range seatNumbers {
		if _, ok := held[seat]; ok {
			taken = append(taken, seat)
		}
	}
	metrics.BookingConflict("seats_taken")
	return models.SeatsTaken(taken)
}

// sell reserves capacity, inserts one booking per seat at the pre-sale
// price and books the revenue. A failed insert gives the capacity back.
func (s *Service) sell(ctx context.Context, eventID string, seatNumbers []string, userID string) (Result, error) {
	n := len(seatNumbers)
	before, err := s.events.ReserveSeats(ctx, eventID, n)
	if err != nil {
		return Result{}, err
	}

	price := pricing.ForEvent(before)
	now := s.now().UTC()
	bookings := make([]models.Booking, n)
	for i, seat := range seatNumbers {
		b := models.Booking{
			BookingID:     s.newID(),
			EventID:       eventID,
			UserID:        userID,
			SeatNumber:    seat,
			TicketPrice:   price,
			PaymentStatus: models.PaymentPending,
			Status:        models.BookingActive,
			BookingDate:   now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		b.QRCode = tickets.EncodeCode(tickets.CodePayload{
			BookingID:  b.BookingID,
			EventID:    b.EventID,
			UserID:     b.UserID,
			SeatNumber: b.SeatNumber,
		})
		bookings[i] = b
	}

	if err := s.bookings.InsertBookings(ctx, bookings); err != nil {
		s.compensate(eventID, bookings)
		if errors.Is(err, models.ErrSeatTaken) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("insert bookings: %w", err)
	}

	total := pricing.Total(price, n)
	if err := s.events.AddRevenue(ctx, eventID, total); err != nil {
		log.Printf("[Booking] revenue update failed for event %s (+%.2f): %v", eventID, total, err)
	}

	after := before
	after.SoldTickets += n
	s.afterSale(ctx, after, seatNumbers)

	return Result{
		Bookings:    bookings,
		Event:       before.Summary(),
		TicketPrice: price,
		TotalPrice:  total,
	}, nil
}

// compensate undoes a half-finished sale. It runs on a fresh context so a
// cancelled request still gets its capacity back.
func (s *Service) compensate(eventID string, bookings []models.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ids := make([]string, len(bookings))
	for i, b := range bookings {
		ids[i] = b.BookingID
	}
	if err := s.bookings.DeleteBookings(ctx, ids); err != nil {
		log.Printf("[Booking] compensation: delete bookings for event %s: %v", eventID, err)
	}
	if err := s.events.ReleaseSeats(ctx, eventID, len(bookings)); err != nil {
		log.Printf("[Booking] compensation: release %d seats for event %s: %v", len(bookings), eventID, err)
	}
}

func (s *Service) afterSale(ctx context.Context, after models.Event, seats []string) {
	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil {
			log.Printf("[Booking] event cache invalidation failed: %v", err)
		}
	}
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(after.EventID, SeatsBooked{
			Type:         "seats_booked",
			EventID:      after.EventID,
			Seats:        seats,
			SoldTickets:  after.SoldTickets,
			CurrentPrice: pricing.ForEvent(after),
		})
	}
}

// SettlePayment charges the booking's price through the gateway. A booking
// may be retried after a failed charge but never paid twice.
func (s *Service) SettlePayment(ctx context.Context, bookingID, userID, method string) (SettleResult, error) {
	if s.locker != nil {
		key := "payment_lock:" + bookingID
		token, ok, err := s.locker.Acquire(ctx, key, settleLockTTL)
		if err != nil {
			return SettleResult{}, fmt.Errorf("acquire payment lock: %w", err)
		}
		if !ok {
			return SettleResult{}, models.ErrPaymentInProgress
		}
		defer func() {
			if err := s.locker.Release(context.Background(), key, token); err != nil {
				log.Printf("[Booking] release payment lock %s: %v", key, err)
			}
		}()
	}

	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return SettleResult{}, err
	}
	if b.UserID != userID {
		return SettleResult{}, models.ErrNotOwner
	}
	if !b.IsActive() {
		return SettleResult{}, models.ErrBookingInactive
	}
	if b.PaymentStatus == models.PaymentCompleted {
		return SettleResult{}, models.ErrAlreadyPaid
	}

	approved, err := s.gateway.Charge(ctx, pay.Charge{
		BookingID: b.BookingID,
		UserID:    userID,
		Amount:    b.TicketPrice,
		Method:    method,
	})
	if err != nil {
		return SettleResult{}, fmt.Errorf("charge booking %s: %w", bookingID, err)
	}

	if !approved {
		if _, err := s.bookings.SetPaymentStatus(ctx, bookingID, models.PaymentFailed); err != nil {
			return SettleResult{}, fmt.Errorf("mark payment failed: %w", err)
		}
		metrics.Payment(string(models.PaymentFailed))
		return SettleResult{}, models.ErrPaymentFailed
	}

	paid, err := s.bookings.SetPaymentStatus(ctx, bookingID, models.PaymentCompleted)
	if err != nil {
		return SettleResult{}, fmt.Errorf("mark payment completed: %w", err)
	}
	metrics.Payment(string(models.PaymentCompleted))

	s.notifyConfirmed(ctx, paid)

	return SettleResult{Booking: paid, Message: "Payment successful! Booking confirmed."}, nil
}

// notifyConfirmed never fails the payment; a lost confirmation is only
// logged.
func (s *Service) notifyConfirmed(ctx context.Context, b models.Booking) {
	if s.notifier == nil {
		return
	}
	user, err := s.users.GetUser(ctx, b.UserID)
	if err != nil {
		log.Printf("[Booking] confirmation for %s skipped, user lookup: %v", b.BookingID, err)
		return
	}
	event, err := s.events.GetEvent(ctx, b.EventID)
	if err != nil {
		log.Printf("[Booking] confirmation for %s skipped, event lookup: %v", b.BookingID, err)
		return
	}

	msg := models.BookingConfirmation{
		BookingID:   b.BookingID,
		Email:       user.Email,
		Name:        user.Name,
		EventName:   event.Name,
		SeatNumber:  b.SeatNumber,
		TicketPrice: b.TicketPrice,
		QRCode:      b.QRCode,
		Date:        event.Date,
		Time:        event.Time,
		Venue:       event.Venue,
	}
	if err := s.notifier.BookingConfirmed(ctx, msg); err != nil {
		log.Printf("[Booking] confirmation for %s not sent: %v", b.BookingID, err)
	}
}

// Get returns a booking to its owner only.
func (s *Service) Get(ctx context.Context, bookingID, userID string) (models.BookingView, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return models.BookingView{}, err
	}
	if b.UserID != userID {
		return models.BookingView{}, models.ErrNotOwner
	}
	return s.view(ctx, b, map[string]*models.EventSummary{}), nil
}

// ListForUser returns the user's bookings, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.BookingView, error) {
	list, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	seen := make(map[string]*models.EventSummary)
	views := make([]models.BookingView, 0, len(list))
	for _, b := range list {
		views = append(views, s.view(ctx, b, seen))
	}
	return views, nil
}

// view joins b with its event summary. A deleted event leaves Event nil.
func (s *Service) view(ctx context.Context, b models.Booking, seen map[string]*models.EventSummary) models.BookingView {
	summary, ok := seen[b.EventID]
	if !ok {
		if event, err := s.events.GetEvent(ctx, b.EventID); err == nil {
			sum := event.Summary()
			summary = &sum
		} else if !errors.Is(err, models.ErrEventNotFound) {
			log.Printf("[Booking] event %s for booking %s: %v", b.EventID, b.BookingID, err)
		}
		seen[b.EventID] = summary
	}
	return models.BookingView{Booking: b, Event: summary}
}

// Ticket builds the printable ticket for the booking's owner.
func (s *Service) Ticket(ctx context.Context, bookingID, userID string) (tickets.TicketInfo, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return tickets.TicketInfo{}, err
	}
	if b.UserID != userID {
		return tickets.TicketInfo{}, models.ErrNotOwner
	}
	event, err := s.events.GetEvent(ctx, b.EventID)
	if err != nil {
		return tickets.TicketInfo{}, err
	}
	holder := ""
	if user, err := s.users.GetUser(ctx, b.UserID); err == nil {
		holder = user.Name
	}

	return tickets.TicketInfo{
		BookingID:   b.BookingID,
		EventName:   event.Name,
		Date:        event.Date,
		Time:        event.Time,
		Venue:       event.Venue,
		HolderName:  holder,
		SeatNumber:  b.SeatNumber,
		TicketPrice: b.TicketPrice,
		Code:        b.QRCode,
	}, nil
}

// Verification is what a door scanner sees for a code.
type Verification struct {
	Valid   bool            `json:"valid"`
	Reason  string          `json:"reason,omitempty"`
	Booking *models.Booking `json:"booking,omitempty"`
}

// Verify checks an entry code against the stored booking. The code itself
// is unsigned so every field must agree with the record.
func (s *Service) Verify(ctx context.Context, code string) (Verification, error) {
	payload, err := tickets.DecodeCode(code)
	if err != nil {
		return Verification{}, models.ErrInvalidTicket
	}

	b, err := s.bookings.GetBooking(ctx, payload.BookingID)
	if errors.Is(err, models.ErrBookingNotFound) {
		return Verification{Valid: false, Reason: "unknown booking"}, nil
	}
	if err != nil {
		return Verification{}, err
	}

	switch {
	case b.EventID != payload.EventID || b.UserID != payload.UserID || b.SeatNumber != payload.SeatNumber:
		return Verification{Valid: false, Reason: "code does not match booking"}, nil
	case !b.IsActive():
		return Verification{Valid: false, Reason: "booking is " + string(b.Status), Booking: &b}, nil
	case b.PaymentStatus != models.PaymentCompleted:
		return Verification{Valid: false, Reason: "payment " + string(b.PaymentStatus), Booking: &b}, nil
	}
	return Verification{Valid: true, Booking: &b}, nil
}
