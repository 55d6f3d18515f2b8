package service

import (
	"context"
	"sync"
	"testing"

	"github.com/cuckooblock/vendor-portal/internal/app/model"
	"github.com/cuckooblock/vendor-portal/internal/app/repository"
	"github.com/cuckooblock/vendor-portal/internal/db"
	"github.com/cuckooblock/vendor-portal/internal/websocket"
	"github.com/cuckooblock/vendor-portal/pkg/util"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	util.PasswordCost = bcrypt.MinCost
}

type testRepos struct {
	db       *gorm.DB
	accounts repository.AccountRepository
	profiles repository.ProfileRepository
	vendors  repository.VendorRepository
	intake   repository.IntakeRepository
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	return testRepos{
		db:       testDB,
		accounts: repository.NewAccountRepository(testDB),
		profiles: repository.NewProfileRepository(testDB),
		vendors:  repository.NewVendorRepository(testDB),
		intake:   repository.NewIntakeRepository(testDB),
	}
}

type published struct {
	userID string // empty for admin broadcasts
	event  websocket.Event
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) PublishToUser(userID string, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{userID: userID, event: event})
}

func (p *recordingPublisher) PublishToAdmins(event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{event: event})
}

func (p *recordingPublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}

// spyVendorRepo counts List calls so tests can assert the admin list was
// never requested.
type spyVendorRepo struct {
	repository.VendorRepository
	listCalls int
}

func (s *spyVendorRepo) List(ctx context.Context, filter repository.VendorFilter) ([]model.VendorProfile, error) {
	s.listCalls++
	return s.VendorRepository.List(ctx, filter)
}

func seedProfile(t *testing.T, repos testRepos, userID, role string) {
	t.Helper()
	require.NoError(t, repos.profiles.Upsert(context.Background(), &model.UserProfile{ID: userID, Role: role}))
}
