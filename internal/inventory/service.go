package inventory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service implements the inventory operations. Each mutation is a
// read-modify-write of the whole per-account list; the keyed mutex
// serializes mutations per account so concurrent upserts cannot lose
// each other's writes.
type Service struct {
	Store Store

	locks sync.Map // accountID -> *sync.Mutex
}

func NewService(store Store) *Service {
	return &Service{Store: store}
}

func (s *Service) lock(accountID uint64) func() {
	v, _ := s.locks.LoadOrStore(accountID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// GetOrCreate returns the account's inventory, creating an empty one
// on first access.
func (s *Service) GetOrCreate(ctx context.Context, accountID uint64) (Inventory, error) {
	unlock := s.lock(accountID)
	defer unlock()
	return s.getOrCreate(ctx, accountID)
}

func (s *Service) getOrCreate(ctx context.Context, accountID uint64) (Inventory, error) {
	inv, err := s.Store.Get(ctx, accountID)
	if err == ErrInventoryNotFound {
		return s.Store.Create(ctx, accountID, nil)
	}
	return inv, err
}

// ReplaceAll overwrites the account's entire list, creating the record
// if absent. The supplied list is stored verbatim (duplicate names
// allowed); each item must at least carry a name.
func (s *Service) ReplaceAll(ctx context.Context, accountID uint64, items []Ingredient) (Inventory, error) {
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return Inventory{}, ErrNameRequired
		}
	}

	unlock := s.lock(accountID)
	defer unlock()
	return s.Store.Put(ctx, accountID, items)
}

// Upsert merges the input into the entry with the same
// case-insensitive name, or appends a new entry. On merge, supplied
// fields overwrite and omitted ones are preserved; the entry keeps its
// id and addedAt.
func (s *Service) Upsert(ctx context.Context, accountID uint64, in IngredientInput) (Inventory, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Inventory{}, ErrNameRequired
	}

	unlock := s.lock(accountID)
	defer unlock()

	inv, err := s.getOrCreate(ctx, accountID)
	if err != nil {
		return Inventory{}, err
	}

	items := inv.Ingredients
	idx := -1
	for i, it := range items {
		if strings.EqualFold(it.Name, in.Name) {
			idx = i
			break
		}
	}

	if idx >= 0 {
		it := items[idx]
		it.Name = in.Name
		if in.Quantity != nil {
			it.Quantity = *in.Quantity
		}
		if in.Unit != nil {
			it.Unit = *in.Unit
		}
		if in.ExpiryDate != nil {
			it.ExpiryDate = in.ExpiryDate
		}
		items[idx] = it
	} else {
		now := time.Now().UTC()
		it := Ingredient{
			ID:         uuid.NewString(),
			Name:       in.Name,
			Quantity:   defaultQuantity,
			Unit:       defaultUnit,
			ExpiryDate: in.ExpiryDate,
			AddedAt:    &now,
		}
		if in.Quantity != nil {
			it.Quantity = *in.Quantity
		}
		if in.Unit != nil {
			it.Unit = *in.Unit
		}
		items = append(items, it)
	}

	return s.Store.Update(ctx, accountID, items)
}

// Remove deletes the entry with the given id. A missing record and a
// missing entry are distinct errors; both map to 404 at the boundary.
func (s *Service) Remove(ctx context.Context, accountID uint64, ingredientID string) (Inventory, error) {
	unlock := s.lock(accountID)
	defer unlock()

	inv, err := s.Store.Get(ctx, accountID)
	if err != nil {
		return Inventory{}, err
	}

	filtered := make([]Ingredient, 0, len(inv.Ingredients))
	for _, it := range inv.Ingredients {
		if it.ID != ingredientID {
			filtered = append(filtered, it)
		}
	}
	if len(filtered) == len(inv.Ingredients) {
		return Inventory{}, ErrIngredientNotFound
	}

	return s.Store.Update(ctx, accountID, filtered)
}
