package seed

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gratia-app/backend/internal/logger"
	"github.com/gratia-app/backend/internal/models"
)

// Seeder populates the user directory with fake accounts so mention
// validation and suggestions have something to resolve against in dev
// and test environments.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a seeder on an initialized database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedDev creates a realistic development user base.
func (s *Seeder) SeedDev() error {
	return s.seedUsers(50)
}

// SeedTest creates a minimal user base for integration tests.
func (s *Seeder) SeedTest() error {
	// Fixed accounts that test fixtures reference by name.
	for _, username := range []string{"alice", "bob", "carol"} {
		if err := s.createUser(username, strings.ToUpper(username[:1])+username[1:]); err != nil {
			return err
		}
	}
	return s.seedUsers(5)
}

// Clean removes all seeded users.
func (s *Seeder) Clean() error {
	return s.db.Unscoped().Where("1 = 1").Delete(&models.User{}).Error
}

func (s *Seeder) seedUsers(count int) error {
	created := 0
	for i := 0; i < count; i++ {
		username := normalizeUsername(gofakeit.Username())
		if username == "" {
			continue
		}
		if err := s.createUser(username, gofakeit.Name()); err != nil {
			// Duplicate usernames from the generator are fine to skip.
			logger.Log.Debug("skipping seed user", zap.String("username", username), zap.Error(err))
			continue
		}
		created++
	}
	logger.Log.Info("Seeded users", zap.Int("created", created))
	return nil
}

func (s *Seeder) createUser(username, displayName string) error {
	user := models.User{
		Username:    username,
		DisplayName: displayName,
		Bio:         gofakeit.Sentence(8),
		AvatarURL:   fmt.Sprintf("https://cdn.gratia.app/avatars/%s.png", username),
	}
	return s.db.Create(&user).Error
}

// normalizeUsername lowercases and strips characters outside the
// username class, matching the canonical storage form mentions resolve
// against.
func normalizeUsername(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}
