package directory

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/gratia-app/backend/internal/models"
)

// Store is the database-backed Directory over the users table. Soft
// deleted accounts are excluded by gorm's default scope, so a deleted
// user's mentions degrade to plain text on the next render.
type Store struct {
	db *gorm.DB
}

// NewStore builds a Store on an initialized gorm connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) IsValid(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", strings.ToLower(username)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ValidSet(ctx context.Context, usernames []string) (map[string]bool, error) {
	valid := make(map[string]bool)
	if len(usernames) == 0 {
		return valid, nil
	}

	lowered := make([]string, 0, len(usernames))
	for _, u := range usernames {
		lowered = append(lowered, strings.ToLower(u))
	}

	var found []string
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username IN ?", lowered).
		Pluck("username", &found).Error
	if err != nil {
		return nil, err
	}

	members := make(map[string]bool, len(found))
	for _, u := range found {
		members[u] = true
	}
	// Report back under the caller's original spelling only when it is
	// the canonical lowercase form: mention matching is case-sensitive.
	for _, u := range usernames {
		if u == strings.ToLower(u) && members[u] {
			valid[u] = true
		}
	}
	return valid, nil
}

func (s *Store) Search(ctx context.Context, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	var names []string
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username LIKE ?", strings.ToLower(prefix)+"%").
		Order("username").
		Limit(limit).
		Pluck("username", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
