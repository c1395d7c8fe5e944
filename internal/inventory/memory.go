package inventory

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps inventories in-process. Used when no DATABASE_URL
// is configured, and by tests.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID uint64
	recs   map[uint64]Inventory // key: account ID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[uint64]Inventory)}
}

func (m *MemoryStore) Get(_ context.Context, accountID uint64) (Inventory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.recs[accountID]
	if !ok {
		return Inventory{}, ErrInventoryNotFound
	}
	return copyInventory(inv), nil
}

func (m *MemoryStore) Create(_ context.Context, accountID uint64, items []Ingredient) (Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	inv := Inventory{
		ID:          m.nextID,
		AccountID:   accountID,
		Ingredients: copyItems(items),
		UpdatedAt:   time.Now().UTC(),
	}
	m.recs[accountID] = inv
	return copyInventory(inv), nil
}

func (m *MemoryStore) Update(_ context.Context, accountID uint64, items []Ingredient) (Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.recs[accountID]
	if !ok {
		return Inventory{}, ErrInventoryNotFound
	}
	inv.Ingredients = copyItems(items)
	inv.UpdatedAt = time.Now().UTC()
	m.recs[accountID] = inv
	return copyInventory(inv), nil
}

func (m *MemoryStore) Put(_ context.Context, accountID uint64, items []Ingredient) (Inventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.recs[accountID]
	if !ok {
		m.nextID++
		inv = Inventory{ID: m.nextID, AccountID: accountID}
	}
	inv.Ingredients = copyItems(items)
	inv.UpdatedAt = time.Now().UTC()
	m.recs[accountID] = inv
	return copyInventory(inv), nil
}

func (m *MemoryStore) All(_ context.Context) ([]Inventory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Inventory, 0, len(m.recs))
	for _, inv := range m.recs {
		out = append(out, copyInventory(inv))
	}
	return out, nil
}

func copyInventory(inv Inventory) Inventory {
	inv.Ingredients = copyItems(inv.Ingredients)
	return inv
}

func copyItems(items []Ingredient) []Ingredient {
	out := make([]Ingredient, len(items))
	copy(out, items)
	return out
}
