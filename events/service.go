// Package events manages the event catalogue: creation and edits by
// organizers, role-scoped listings and the direct ticket sale endpoint.
package events

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"eventspark/metrics"
	"eventspark/models"
	"eventspark/pricing"
	"eventspark/utils"
)

type Store interface {
	GetEvent(ctx context.Context, eventID string) (models.Event, error)
	ListEvents(ctx context.Context, q models.EventQuery) ([]models.Event, error)
	InsertEvent(ctx context.Context, event models.Event) error
	UpdateEvent(ctx context.Context, event models.Event) (models.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
	SetImage(ctx context.Context, eventID, imageURL string) error
	ReserveSeats(ctx context.Context, eventID string, n int) (models.Event, error)
	AddRevenue(ctx context.Context, eventID string, amount float64) error
}

// UserLookup resolves organizers for listings that show who runs an event.
type UserLookup interface {
	GetUsers(ctx context.Context, userIDs []string) (map[string]models.User, error)
}

// Cache holds listing results. Key must be read once per listing and
// reused for Set.
type Cache interface {
	Key(ctx context.Context, scope string) (string, error)
	Get(ctx context.Context, key string) ([]models.Event, bool, error)
	Set(ctx context.Context, key string, events []models.Event) error
	Invalidate(ctx context.Context) error
}

type Service struct {
	store Store
	users UserLookup
	cache Cache
	now   func() time.Time
	newID func() string
}

type Option func(*Service)

func WithCache(c Cache) Option { return func(s *Service) { s.cache = c } }
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(store Store, users UserLookup, opts ...Option) *Service {
	s := &Service{store: store, users: users, now: time.Now, newID: utils.GetUUID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Filter is what a caller may narrow a listing by.
type Filter struct {
	Category string
	Date     string
	Search   string
}

type Organizer struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type EventWithOrganizer struct {
	models.Event
	Organizer *Organizer `json:"organizer,omitempty"`
}

// SaleResult reports a direct sale.
type SaleResult struct {
	Event        models.Event `json:"event"`
	SoldQuantity int          `json:"soldQuantity"`
	TicketPrice  float64      `json:"ticketPrice"`
	TotalRevenue float64      `json:"totalRevenue"`
}

func (s *Service) today() string {
	return s.now().UTC().Format("2006-01-02")
}

// Invalidate drops cached listings. Failures only cost freshness until TTL.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.Invalidate(ctx); err != nil {
		log.Printf("[Events] cache invalidation failed: %v", err)
	}
}

func scopeKey(q models.EventQuery) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%s\x00%s\x00%s", q.Category, q.Date, q.Search, q.CreatedBy, q.DateAfter)))
	return hex.EncodeToString(sum[:12])
}

// List returns the events caller may see that match f, soonest first.
func (s *Service) List(ctx context.Context, caller utils.Caller, f Filter) ([]models.Event, error) {
	q := Visibility(caller, s.today())
	q.Category = f.Category
	q.Date = f.Date
	q.Search = f.Search

	events, err := s.cachedList(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range events {
		pricing.Decorate(&events[i])
	}
	return events, nil
}

func (s *Service) cachedList(ctx context.Context, q models.EventQuery) ([]models.Event, error) {
	if s.cache == nil {
		return s.store.ListEvents(ctx, q)
	}

	key, err := s.cache.Key(ctx, scopeKey(q))
	if err != nil {
		metrics.CacheLookup("error")
		log.Printf("[Events] cache unavailable: %v", err)
		return s.store.ListEvents(ctx, q)
	}
	if events, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		metrics.CacheLookup("hit")
		return events, nil
	} else if err != nil {
		metrics.CacheLookup("error")
		log.Printf("[Events] cache read %s: %v", key, err)
	} else {
		metrics.CacheLookup("miss")
	}

	events, err := s.store.ListEvents(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, events); err != nil {
		log.Printf("[Events] cache write %s: %v", key, err)
	}
	return events, nil
}

func (s *Service) Get(ctx context.Context, eventID string) (EventWithOrganizer, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return EventWithOrganizer{}, err
	}
	withOrg, err := s.withOrganizers(ctx, []models.Event{event})
	if err != nil {
		return EventWithOrganizer{}, err
	}
	return withOrg[0], nil
}

// ListAll returns every event with its organizer, unscoped.
func (s *Service) ListAll(ctx context.Context) ([]EventWithOrganizer, error) {
	events, err := s.store.ListEvents(ctx, models.EventQuery{})
	if err != nil {
		return nil, err
	}
	return s.withOrganizers(ctx, events)
}

func (s *Service) ListByOrganizer(ctx context.Context, organizerID string) ([]EventWithOrganizer, error) {
	events, err := s.store.ListEvents(ctx, models.EventQuery{CreatedBy: organizerID})
	if err != nil {
		return nil, err
	}
	return s.withOrganizers(ctx, events)
}

func (s *Service) withOrganizers(ctx context.Context, events []models.Event) ([]EventWithOrganizer, error) {
	idSet := make(map[string]struct{})
	for _, e := range events {
		idSet[e.CreatedBy] = struct{}{}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	users, err := s.users.GetUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load organizers: %w", err)
	}

	out := make([]EventWithOrganizer, len(events))
	for i, e := range events {
		pricing.Decorate(&e)
		out[i] = EventWithOrganizer{Event: e}
		if u, ok := users[e.CreatedBy]; ok {
			out[i].Organizer = &Organizer{UserID: u.UserID, Name: u.Name, Email: u.Email}
		}
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, caller utils.Caller, in EventInput) (models.Event, error) {
	if caller.Role != models.RoleOrganizer && caller.Role != models.RoleAdmin {
		return models.Event{}, models.ErrForbidden
	}
	if in.TotalSeats == nil {
		return models.Event{}, models.Validation("totalSeats is required")
	}

	now := s.now().UTC()
	event := models.Event{
		EventID:        s.newID(),
		CreatedBy:      caller.UserID,
		DynamicPricing: models.DynamicPricing{Rules: []models.PricingRule{}},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	in.apply(&event)
	if err := validateEvent(event); err != nil {
		return models.Event{}, err
	}

	if err := s.store.InsertEvent(ctx, event); err != nil {
		return models.Event{}, err
	}
	s.invalidate(ctx)

	pricing.Decorate(&event)
	return event, nil
}

// editable loads the event and checks caller may change it.
func (s *Service) editable(ctx context.Context, caller utils.Caller, eventID string) (models.Event, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return models.Event{}, err
	}
	if !canEdit(caller, event) {
		return models.Event{}, models.ErrForbidden
	}
	return event, nil
}

// CheckEditable fails unless caller may change the event.
func (s *Service) CheckEditable(ctx context.Context, caller utils.Caller, eventID string) error {
	_, err := s.editable(ctx, caller, eventID)
	return err
}

func (s *Service) Update(ctx context.Context, caller utils.Caller, eventID string, in EventInput) (models.Event, error) {
	event, err := s.editable(ctx, caller, eventID)
	if err != nil {
		return models.Event{}, err
	}

	in.apply(&event)
	event.UpdatedAt = s.now().UTC()
	if err := validateEvent(event); err != nil {
		return models.Event{}, err
	}

	updated, err := s.store.UpdateEvent(ctx, event)
	if err != nil {
		return models.Event{}, err
	}
	s.invalidate(ctx)

	pricing.Decorate(&updated)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, caller utils.Caller, eventID string) error {
	if _, err := s.editable(ctx, caller, eventID); err != nil {
		return err
	}
	if err := s.store.DeleteEvent(ctx, eventID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) SetImage(ctx context.Context, eventID, imageURL string) error {
	if err := s.store.SetImage(ctx, eventID, imageURL); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// SellTickets sells quantity unassigned seats. The price is read at the seat
// count left after the sale, and revenue grows by what was charged.
func (s *Service) SellTickets(ctx context.Context, eventID string, quantity int) (SaleResult, error) {
	if quantity <= 0 {
		return SaleResult{}, models.ErrInvalidQuantity
	}

	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return SaleResult{}, err
	}
	if available := event.Remaining(); quantity > available {
		return SaleResult{}, onlyAvailable(available)
	}

	before, err := s.store.ReserveSeats(ctx, eventID, quantity)
	if errors.Is(err, models.ErrNotEnoughSeats) {
		latest, getErr := s.store.GetEvent(ctx, eventID)
		if getErr != nil {
			return SaleResult{}, getErr
		}
		return SaleResult{}, onlyAvailable(latest.Remaining())
	}
	if err != nil {
		return SaleResult{}, err
	}

	price := pricing.AfterSale(before, quantity)
	total := pricing.Total(price, quantity)
	if err := s.store.AddRevenue(ctx, eventID, total); err != nil {
		log.Printf("[Events] revenue update failed for %s (+%.2f): %v", eventID, total, err)
	}
	s.invalidate(ctx)
	metrics.TicketsSold(quantity)

	after := before
	after.SoldTickets += quantity
	after.Revenue = before.Revenue + total
	pricing.Decorate(&after)

	return SaleResult{
		Event:        after,
		SoldQuantity: quantity,
		TicketPrice:  price,
		TotalRevenue: after.Revenue,
	}, nil
}

func onlyAvailable(n int) error {
	if n < 0 {
		n = 0
	}
	return &models.Error{
		Kind:    models.KindConflict,
		Code:    models.ErrNotEnoughSeats.Code,
		Message: fmt.Sprintf("Only %d seats available", n),
	}
}
