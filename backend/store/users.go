package store

import (
	"context"
	"strings"

	"eduquiz/backend/models"
)

// CreateUser inserts a user. Emails are stored lower-cased and must be unique.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return wrap(err, "count users by email")
	}
	if count > 0 {
		return wrap(ErrDuplicate, "create user")
	}
	return wrap(s.DB.WithContext(ctx).Create(user).Error, "create user")
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		return nil, wrap(err, "find user by email")
	}
	return &user, nil
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrap(err, "find user")
	}
	return &user, nil
}

func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	return wrap(s.DB.WithContext(ctx).Save(user).Error, "save user")
}

// UsersByID loads users keyed by id.
func (s *Store) UsersByID(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	out := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, wrap(err, "find users")
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
