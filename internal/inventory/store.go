package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInventoryNotFound  = errors.New("inventory not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrNameRequired       = errors.New("ingredient name required")
)

// Store persists one inventory per account. Writes replace the whole
// ingredient list atomically for that account.
type Store interface {
	Get(ctx context.Context, accountID uint64) (Inventory, error)
	Create(ctx context.Context, accountID uint64, items []Ingredient) (Inventory, error)
	Update(ctx context.Context, accountID uint64, items []Ingredient) (Inventory, error)
	// Put is a record-level upsert: create the record if absent,
	// otherwise overwrite its list.
	Put(ctx context.Context, accountID uint64, items []Ingredient) (Inventory, error)
	All(ctx context.Context) ([]Inventory, error)
}

// record is the GORM row. Ingredients are an opaque jsonb blob; the
// database never sees individual entries.
type record struct {
	ID          uint64         `gorm:"primaryKey"`
	AccountID   uint64         `gorm:"uniqueIndex;not null"`
	Ingredients datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'::jsonb"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()"`
}

func (record) TableName() string { return "inventories" }

// Migrate creates the inventories table.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&record{})
}

// GormStore implements Store on GORM/Postgres.
type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) Get(ctx context.Context, accountID uint64) (Inventory, error) {
	var rec record
	err := s.DB.WithContext(ctx).Where("account_id = ?", accountID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Inventory{}, ErrInventoryNotFound
		}
		return Inventory{}, err
	}
	return rec.toInventory()
}

func (s *GormStore) Create(ctx context.Context, accountID uint64, items []Ingredient) (Inventory, error) {
	blob, err := marshalItems(items)
	if err != nil {
		return Inventory{}, err
	}
	rec := record{AccountID: accountID, Ingredients: blob, UpdatedAt: time.Now().UTC()}
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return Inventory{}, err
	}
	return rec.toInventory()
}

func (s *GormStore) Update(ctx context.Context, accountID uint64, items []Ingredient) (Inventory, error) {
	blob, err := marshalItems(items)
	if err != nil {
		return Inventory{}, err
	}
	res := s.DB.WithContext(ctx).Model(&record{}).
		Where("account_id = ?", accountID).
		Updates(map[string]any{
			"ingredients": blob,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return Inventory{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Inventory{}, ErrInventoryNotFound
	}
	return s.Get(ctx, accountID)
}

func (s *GormStore) Put(ctx context.Context, accountID uint64, items []Ingredient) (Inventory, error) {
	blob, err := marshalItems(items)
	if err != nil {
		return Inventory{}, err
	}
	rec := record{AccountID: accountID, Ingredients: blob, UpdatedAt: time.Now().UTC()}
	err = s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"ingredients", "updated_at"}),
		}).
		Create(&rec).Error
	if err != nil {
		return Inventory{}, err
	}
	return s.Get(ctx, accountID)
}

func (s *GormStore) All(ctx context.Context) ([]Inventory, error) {
	var recs []record
	if err := s.DB.WithContext(ctx).Order("account_id asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]Inventory, 0, len(recs))
	for _, rec := range recs {
		inv, err := rec.toInventory()
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r record) toInventory() (Inventory, error) {
	items := []Ingredient{}
	if len(r.Ingredients) > 0 {
		if err := json.Unmarshal(r.Ingredients, &items); err != nil {
			return Inventory{}, err
		}
	}
	return Inventory{
		ID:          r.ID,
		AccountID:   r.AccountID,
		Ingredients: items,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func marshalItems(items []Ingredient) (datatypes.JSON, error) {
	if items == nil {
		items = []Ingredient{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
