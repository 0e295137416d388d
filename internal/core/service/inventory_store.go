package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/restaurant/storage-tracker/internal/core/domain"
	"github.com/restaurant/storage-tracker/internal/core/ports"
)

// Durable storage keys.
const (
	ItemsKey      = "restaurant-storage-items"
	ActivitiesKey = "restaurant-storage-activities"
	SessionKey    = "restaurant-user"
)

const (
	unknownEmployee = "Unknown"
	currentUser     = "Current User"
)

// InventoryStore implements ports.InventoryStore. Every mutation updates the
// items and appends its activity entry under one lock, then hands both
// collections to the write scheduler once the store is initialized.
type InventoryStore struct {
	kv     ports.KeyValueStore
	writer ports.WriteScheduler
	log    zerolog.Logger
	now    func() time.Time
	newID  func() string
	seed   bool

	mu          sync.Mutex
	initialized bool
	items       []domain.StorageItem
	activities  []domain.ActivityLogEntry
	version     uint64

	subMu   sync.Mutex
	subs    map[int]func(domain.Snapshot)
	nextSub int

	// deliverMu orders notifications; delivered is the newest version sent.
	deliverMu sync.Mutex
	delivered uint64
}

// versionedSnapshot carries the mutation counter a snapshot was taken at.
type versionedSnapshot struct {
	domain.Snapshot
	version uint64
}

// StoreOption customises an InventoryStore.
type StoreOption func(*InventoryStore)

// WithClock overrides the time source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *InventoryStore) { s.now = now }
}

// WithIDGenerator overrides how item and activity ids are produced.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *InventoryStore) { s.newID = gen }
}

// WithDemoData enables seeding the demo inventory when storage holds none.
func WithDemoData(enabled bool) StoreOption {
	return func(s *InventoryStore) { s.seed = enabled }
}

// NewInventoryStore returns an uninitialized store. Call Init before serving.
func NewInventoryStore(kv ports.KeyValueStore, writer ports.WriteScheduler, log zerolog.Logger, opts ...StoreOption) *InventoryStore {
	s := &InventoryStore{
		kv:     kv,
		writer: writer,
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
		subs:   make(map[int]func(domain.Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads both collections from durable storage. Missing, unreadable or
// empty collections fall back to the demo data when seeding is enabled.
// Both collections are written back once loaded.
func (s *InventoryStore) Init(ctx context.Context) error {
	var items []domain.StorageItem
	var activities []domain.ActivityLogEntry

	s.load(ctx, ItemsKey, &items)
	s.load(ctx, ActivitiesKey, &activities)

	if len(items) == 0 && s.seed {
		items = demoItems()
	}
	if len(activities) == 0 && s.seed {
		activities = demoActivities()
	}

	s.mu.Lock()
	s.items = items
	s.activities = activities
	s.initialized = true
	snap := s.persistLocked()
	s.mu.Unlock()

	s.log.Info().
		Int("items", len(snap.Items)).
		Int("activities", len(snap.Activities)).
		Msg("inventory loaded")

	s.notify(snap)
	return ctx.Err()
}

func (s *InventoryStore) load(ctx context.Context, key string, dst any) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			s.log.Error().Err(err).Str("key", key).Msg("failed to read from storage")
		}
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("ignoring malformed stored data")
	}
}

// Snapshot returns a copy of both collections.
func (s *InventoryStore) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every change.
// Notifications are delivered one at a time, oldest first, and a snapshot
// older than one already delivered is dropped. fn must not mutate the store.
func (s *InventoryStore) Subscribe(fn func(domain.Snapshot)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// AddItem appends a new item and an "added" activity.
func (s *InventoryStore) AddItem(_ context.Context, in ports.NewItemInput) (domain.StorageItem, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Location) == "" {
		return domain.StorageItem{}, fmt.Errorf("add item: %w: name and location are required", domain.ErrInvalidItem)
	}

	s.mu.Lock()
	now := s.now().UTC()
	item := domain.StorageItem{
		ID:             s.newID(),
		Name:           in.Name,
		Category:       in.Category,
		Quantity:       clampZero(in.Quantity),
		Unit:           in.Unit,
		Location:       in.Location,
		ExpirationDate: in.ExpirationDate,
		AddedBy:        in.AddedBy,
		AddedAt:        now,
		LastUpdated:    now,
	}
	s.items = append(s.items, item)
	s.prependLocked(domain.ActionAdded, item.Name,
		fmt.Sprintf("Added %s %s to %s", item.Quantity, item.Unit, item.Location),
		in.AddedBy, now)
	snap := s.persistLocked()
	s.mu.Unlock()

	s.notify(snap)
	return item, nil
}

// RemoveItem deletes the item and records what was taken out of the location.
// An empty employeeName is logged as the generic current user.
func (s *InventoryStore) RemoveItem(_ context.Context, id, employeeName string) error {
	if employeeName == "" {
		employeeName = currentUser
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrItemNotFound
	}
	item := s.items[idx]
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	s.prependLocked(domain.ActionRemoved, item.Name,
		fmt.Sprintf("Removed %s %s from %s", item.Quantity, item.Unit, item.Location),
		employeeName, s.now().UTC())
	snap := s.persistLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// UpdateItem merges patch into the item. The activity is attributed to
// patch.AddedBy, or "Unknown" when the patch does not carry one.
func (s *InventoryStore) UpdateItem(_ context.Context, id string, patch ports.ItemPatch) (domain.StorageItem, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.StorageItem{}, domain.ErrItemNotFound
	}

	now := s.now().UTC()
	item := applyPatch(s.items[idx], patch)
	item.LastUpdated = now
	s.items[idx] = item

	employee := unknownEmployee
	if patch.AddedBy != nil && *patch.AddedBy != "" {
		employee = *patch.AddedBy
	}
	s.prependLocked(domain.ActionUpdated, item.Name, "Updated item details", employee, now)
	snap := s.persistLocked()
	s.mu.Unlock()

	s.notify(snap)
	return item, nil
}

// IncreaseQuantity adds amount to the item's quantity. A negative amount
// still cannot take the quantity below zero.
func (s *InventoryStore) IncreaseQuantity(_ context.Context, id string, amount decimal.Decimal, employeeName string) (domain.StorageItem, error) {
	return s.adjust(id, employeeName, func(q decimal.Decimal) (decimal.Decimal, string) {
		return clampZero(q.Add(amount)), "Added"
	}, amount)
}

// DecreaseQuantity subtracts amount, never going below zero.
func (s *InventoryStore) DecreaseQuantity(_ context.Context, id string, amount decimal.Decimal, employeeName string) (domain.StorageItem, error) {
	return s.adjust(id, employeeName, func(q decimal.Decimal) (decimal.Decimal, string) {
		return clampZero(q.Sub(amount)), "Took"
	}, amount)
}

func (s *InventoryStore) adjust(id, employeeName string, op func(decimal.Decimal) (decimal.Decimal, string), amount decimal.Decimal) (domain.StorageItem, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.StorageItem{}, domain.ErrItemNotFound
	}

	now := s.now().UTC()
	item := s.items[idx]
	before := item.Quantity
	after, verb := op(before)
	item.Quantity = after
	item.LastUpdated = now
	s.items[idx] = item

	s.prependLocked(domain.ActionUpdated, item.Name,
		fmt.Sprintf("%s %s %s (%s → %s)", verb, amount, item.Unit, before, after),
		employeeName, now)
	snap := s.persistLocked()
	s.mu.Unlock()

	s.notify(snap)
	return item, nil
}

// AddActivity appends a caller-composed entry to the log.
func (s *InventoryStore) AddActivity(_ context.Context, in ports.NewActivityInput) domain.ActivityLogEntry {
	s.mu.Lock()
	entry := s.prependLocked(in.Action, in.ItemName, in.Details, in.EmployeeName, s.now().UTC())
	snap := s.persistLocked()
	s.mu.Unlock()

	s.notify(snap)
	return entry
}

func (s *InventoryStore) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// prependLocked records an activity as the newest entry.
func (s *InventoryStore) prependLocked(action domain.Action, itemName, details, employee string, ts time.Time) domain.ActivityLogEntry {
	entry := domain.ActivityLogEntry{
		ID:           s.newID(),
		Action:       action,
		ItemName:     itemName,
		Details:      details,
		EmployeeName: employee,
		Timestamp:    ts,
	}
	s.activities = append([]domain.ActivityLogEntry{entry}, s.activities...)
	return entry
}

// persistLocked schedules both collections for writing and returns the
// snapshot subscribers should see.
func (s *InventoryStore) persistLocked() versionedSnapshot {
	s.version++
	snap := versionedSnapshot{Snapshot: s.snapshotLocked(), version: s.version}
	if !s.initialized || s.writer == nil {
		return snap
	}
	s.schedule(ItemsKey, snap.Items)
	s.schedule(ActivitiesKey, snap.Activities)
	return snap
}

func (s *InventoryStore) schedule(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to encode collection")
		return
	}
	s.writer.Schedule(key, data)
}

func (s *InventoryStore) snapshotLocked() domain.Snapshot {
	items := make([]domain.StorageItem, len(s.items))
	copy(items, s.items)
	activities := make([]domain.ActivityLogEntry, len(s.activities))
	copy(activities, s.activities)
	return domain.Snapshot{Items: items, Activities: activities}
}

func (s *InventoryStore) notify(snap versionedSnapshot) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if snap.version <= s.delivered {
		return
	}
	s.delivered = snap.version

	s.subMu.Lock()
	fns := make([]func(domain.Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap.Snapshot)
	}
}

func applyPatch(item domain.StorageItem, p ports.ItemPatch) domain.StorageItem {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Quantity != nil {
		item.Quantity = clampZero(*p.Quantity)
	}
	if p.Unit != nil {
		item.Unit = *p.Unit
	}
	if p.Location != nil {
		item.Location = *p.Location
	}
	if p.ExpirationDate != nil {
		item.ExpirationDate = *p.ExpirationDate
	}
	if p.AddedBy != nil {
		item.AddedBy = *p.AddedBy
	}
	return item
}

func clampZero(q decimal.Decimal) decimal.Decimal {
	if q.IsNegative() {
		return decimal.Zero
	}
	return q
}
