// Package memory provides in-memory repositories for tests and local runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmflow/internal/domain/models"
)

// Store implements every repository interface over maps guarded by one lock.
type Store struct {
	mu        sync.RWMutex
	events    map[string]models.Event
	order     []string
	costItems map[string][]models.CostItem
	cropTotal map[string]decimal.Decimal
	clients   map[string]models.Client
	smsLogs   []models.SMSLog
	snapshots []models.LedgerSnapshot
	newID     func() string
}

func NewStore() *Store {
	return &Store{
		events:    make(map[string]models.Event),
		costItems: make(map[string][]models.CostItem),
		cropTotal: make(map[string]decimal.Decimal),
		clients:   make(map[string]models.Client),
		newID:     uuid.NewString,
	}
}

// ListEvents returns the crop's events ordered by date, then insertion.
func (s *Store) ListEvents(_ context.Context, cropID string) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(ev models.Event) bool { return ev.CropID == cropID }), nil
}

func (s *Store) ListAllEvents(_ context.Context) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(models.Event) bool { return true }), nil
}

func (s *Store) collect(keep func(models.Event) bool) []models.Event {
	out := make([]models.Event, 0)
	for _, id := range s.order {
		if ev := s.events[id]; keep(ev) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (s *Store) GetEvent(_ context.Context, id string) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[id]
	if !ok {
		return models.Event{}, models.NewNotFoundError("event", id)
	}
	return ev, nil
}

// AppendEvent stores ev under a new id unless it already carries one.
func (s *Store) AppendEvent(_ context.Context, ev models.Event) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.ID == "" {
		ev.ID = s.newID()
	}
	if _, exists := s.events[ev.ID]; exists {
		return "", models.NewValidationError("id", "already exists")
	}
	s.events[ev.ID] = ev
	s.order = append(s.order, ev.ID)
	return ev.ID, nil
}

func (s *Store) UpdateEvent(_ context.Context, id string, ev models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return models.NewNotFoundError("event", id)
	}
	ev.ID = id
	s.events[id] = ev
	return nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return models.NewNotFoundError("event", id)
	}
	delete(s.events, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// CropIDs lists crops that have at least one event, sorted.
func (s *Store) CropIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, ev := range s.events {
		if ev.CropID != "" && !seen[ev.CropID] {
			seen[ev.CropID] = true
			out = append(out, ev.CropID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) ListCostItems(_ context.Context, cropID string) ([]models.CostItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.costItems[cropID]
	out := make([]models.CostItem, len(items))
	copy(out, items)
	return out, nil
}

func (s *Store) InsertCostItem(_ context.Context, item models.CostItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costItems[item.CropID] = append(s.costItems[item.CropID], item)
	return nil
}

func (s *Store) UpdateCostItem(_ context.Context, item models.CostItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.costItems[item.CropID]
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			return nil
		}
	}
	return models.NewNotFoundError("cost item", item.ID)
}

func (s *Store) DeleteCostItem(_ context.Context, cropID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.costItems[cropID]
	for i := range items {
		if items[i].ID == itemID {
			s.costItems[cropID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return models.NewNotFoundError("cost item", itemID)
}

func (s *Store) SetCropTotalCost(_ context.Context, cropID string, total decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cropTotal[cropID] = total
	return nil
}

// CropTotalCost returns the last total written for the crop.
func (s *Store) CropTotalCost(cropID string) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total, ok := s.cropTotal[cropID]
	return total, ok
}

// PutClient adds or replaces a client.
func (s *Store) PutClient(client models.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client.ID] = client
}

func (s *Store) ListClients(_ context.Context) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetClient(_ context.Context, id string) (models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return models.Client{}, models.NewNotFoundError("client", id)
	}
	return c, nil
}

func (s *Store) CreateClient(_ context.Context, client models.Client) (models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client.ID = s.newID()
	s.clients[client.ID] = client
	return client, nil
}

func (s *Store) SaveSMSLog(_ context.Context, entry models.SMSLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.smsLogs = append(s.smsLogs, entry)
	return nil
}

// SMSLogs returns a copy of the recorded attempts.
func (s *Store) SMSLogs() []models.SMSLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SMSLog, len(s.smsLogs))
	copy(out, s.smsLogs)
	return out
}

func (s *Store) SaveSnapshot(_ context.Context, snapshot models.LedgerSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, snapshot)
	return nil
}

// Snapshots returns a copy of the stored snapshots.
func (s *Store) Snapshots() []models.LedgerSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LedgerSnapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}
