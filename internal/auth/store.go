package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrDuplicateEmail = errors.New("email already used")
	ErrUserNotFound   = errors.New("user not found")
)

// UserStore persists account records. Emails are expected normalized
// (lowercase) by the caller; the store enforces uniqueness on them.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uint64) (User, error)
	UpdateEmail(ctx context.Context, id uint64, email string) (User, error)
}

// GormUserStore implements UserStore on GORM/Postgres. Requires the DB
// to be opened with TranslateError so unique violations surface as
// gorm.ErrDuplicatedKey.
type GormUserStore struct {
	DB *gorm.DB
}

func (s *GormUserStore) Create(ctx context.Context, u *User) error {
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (s *GormUserStore) GetByEmail(ctx context.Context, email string) (User, error) {
	var u User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *GormUserStore) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	if err := s.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *GormUserStore) UpdateEmail(ctx context.Context, id uint64, email string) (User, error) {
	var u User
	if err := s.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	u.Email = email
	if err := s.DB.WithContext(ctx).Save(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return User{}, ErrDuplicateEmail
		}
		return User{}, err
	}
	return u, nil
}
