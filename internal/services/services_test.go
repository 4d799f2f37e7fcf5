package services

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/hackhub-dev/hackhub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Hackathon{},
		&models.Registration{},
		&models.Team{},
		&models.TeamMember{},
		&models.TeamInvite{},
		&models.AuditLog{},
	)

	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         role,
		Status:       models.UserStatusActive,
	}

	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}

	return user
}

// createHackathon returns an active hackathon whose registration window is
// open around testNow.
func createHackathon(t *testing.T, db *gorm.DB, maxTeamSize int) models.Hackathon {
	t.Helper()

	hackathon := models.Hackathon{
		Name:                "Spring Hack",
		StartAt:             testNow.Add(48 * time.Hour),
		EndAt:               testNow.Add(72 * time.Hour),
		RegistrationOpenAt:  testNow.Add(-24 * time.Hour),
		RegistrationCloseAt: testNow.Add(24 * time.Hour),
		MinTeamSize:         1,
		MaxTeamSize:         maxTeamSize,
		IsActive:            true,
	}

	if err := db.Create(&hackathon).Error; err != nil {
		t.Fatalf("create hackathon: %v", err)
	}

	return hackathon
}

func acceptRegistration(t *testing.T, db *gorm.DB, userID, hackathonID uint) models.Registration {
	t.Helper()

	registration := models.Registration{
		HackathonID: hackathonID,
		UserID:      userID,
		Status:      models.RegistrationAccepted,
		AppliedAt:   testNow.Add(-time.Hour),
	}

	if err := db.Create(&registration).Error; err != nil {
		t.Fatalf("create accepted registration: %v", err)
	}

	return registration
}

// staticCodes returns a generator that yields the given codes in order,
// repeating the last one forever.
func staticCodes(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		code := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return code, nil
	}
}

func newTeamsService(db *gorm.DB, codes ...string) *Teams {
	service := NewTeams(db)
	service.Now = fixedClock(testNow)
	if len(codes) > 0 {
		service.GenerateCode = staticCodes(codes...)
	}
	return service
}

type fakeSessionStore struct {
	live       map[string]uint
	revokedAll []uint
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{live: make(map[string]uint)}
}

func (f *fakeSessionStore) Register(_ context.Context, userID uint, sessionID string) error {
	f.live[sessionID] = userID
	return nil
}

func (f *fakeSessionStore) IsLive(_ context.Context, sessionID string) (bool, error) {
	_, ok := f.live[sessionID]
	return ok, nil
}

func (f *fakeSessionStore) Revoke(_ context.Context, _ uint, sessionID string) error {
	delete(f.live, sessionID)
	return nil
}

func (f *fakeSessionStore) RevokeAll(_ context.Context, userID uint) error {
	f.revokedAll = append(f.revokedAll, userID)
	for sessionID, owner := range f.live {
		if owner == userID {
			delete(f.live, sessionID)
		}
	}
	return nil
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64

	if err := db.Model(model).Where(query, args...).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}

	return count
}
