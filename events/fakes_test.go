package events

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"eventspark/models"
)

type memStore struct {
	mu        sync.Mutex
	events    map[string]models.Event
	listCalls int
}

func newMemStore(events ...models.Event) *memStore {
	s := &memStore{events: make(map[string]models.Event)}
	for _, e := range events {
		s.events[e.EventID] = e
	}
	return s
}

func (s *memStore) GetEvent(_ context.Context, id string) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return models.Event{}, models.ErrEventNotFound
	}
	return e, nil
}

func matches(e models.Event, q models.EventQuery) bool {
	if q.Category != "" && e.Category != q.Category {
		return false
	}
	if q.CreatedBy != "" && e.CreatedBy != q.CreatedBy {
		return false
	}
	if q.Date != "" && e.Date != q.Date {
		return false
	}
	if q.DateAfter != "" && e.Date <= q.DateAfter {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(e.Name), needle) && !strings.Contains(strings.ToLower(e.Description), needle) {
			return false
		}
	}
	return true
}

func (s *memStore) ListEvents(_ context.Context, q models.EventQuery) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	out := []models.Event{}
	for _, e := range s.events {
		if matches(e, q) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (s *memStore) InsertEvent(_ context.Context, e models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.EventID] = e
	return nil
}

func (s *memStore) UpdateEvent(_ context.Context, e models.Event) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.events[e.EventID]
	if !ok {
		return models.Event{}, models.ErrEventNotFound
	}
	if cur.SoldTickets > e.TotalSeats {
		return models.Event{}, models.Validation("Total seats cannot be less than tickets already sold")
	}
	e.SoldTickets = cur.SoldTickets
	e.Revenue = cur.Revenue
	s.events[e.EventID] = e
	return e, nil
}

func (s *memStore) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return models.ErrEventNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *memStore) SetImage(_ context.Context, id, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return models.ErrEventNotFound
	}
	e.ImageURL = url
	s.events[id] = e
	return nil
}

func (s *memStore) ReserveSeats(_ context.Context, id string, n int) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return models.Event{}, models.ErrEventNotFound
	}
	if e.SoldTickets+n > e.TotalSeats {
		return models.Event{}, models.ErrNotEnoughSeats
	}
	before := e
	e.SoldTickets += n
	s.events[id] = e
	return before, nil
}

func (s *memStore) AddRevenue(_ context.Context, id string, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.events[id]
	e.Revenue += amount
	s.events[id] = e
	return nil
}

type memUsers map[string]models.User

func (m memUsers) GetUsers(_ context.Context, ids []string) (map[string]models.User, error) {
	out := make(map[string]models.User)
	for _, id := range ids {
		if u, ok := m[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// memCache mirrors the versioned Redis cache.
type memCache struct {
	mu      sync.Mutex
	version int
	entries map[string][]models.Event
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]models.Event)}
}

func (c *memCache) Key(_ context.Context, scope string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("v%d:%s", c.version, scope), nil
}

func (c *memCache) Get(_ context.Context, key string) ([]models.Event, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]models.Event(nil), e...), true, nil
}

func (c *memCache) Set(_ context.Context, key string, events []models.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]models.Event(nil), events...)
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
	return nil
}
