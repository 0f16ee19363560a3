package service

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/arogyam-health-service/internal/domain"
)

type fakeVillageRepo struct {
	mu       sync.Mutex
	villages map[int64]domain.Village
	nextID   int64
}

func newFakeVillageRepo() *fakeVillageRepo {
	return &fakeVillageRepo{villages: make(map[int64]domain.Village), nextID: 1}
}

func (f *fakeVillageRepo) Create(ctx context.Context, village *domain.Village) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	village.ID = f.nextID
	f.nextID++
	f.villages[village.ID] = *village
	return nil
}

func (f *fakeVillageRepo) GetByID(ctx context.Context, id int64) (*domain.Village, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	village, ok := f.villages[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := village
	return &copied, nil
}

func (f *fakeVillageRepo) List(ctx context.Context) ([]domain.Village, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Village
	for _, village := range f.villages {
		out = append(out, village)
	}
	return out, nil
}

func (f *fakeVillageRepo) ListByDistrict(ctx context.Context, district string) ([]domain.Village, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Village
	for _, village := range f.villages {
		if village.District == district {
			out = append(out, village)
		}
	}
	return out, nil
}

func TestVillageCreateDefaultsState(t *testing.T) {
	svc := NewVillageService(newFakeVillageRepo())

	village, err := svc.Create(context.Background(), VillageInput{
		Name:     "  Majuli  ",
		District: "Jorhat",
	})
	require.NoError(t, err)

	assert.NotZero(t, village.ID)
	assert.Equal(t, "Majuli", village.Name, "names are trimmed")
	assert.Equal(t, "Northeast India", village.State)
}

func TestVillageCreateRequiresNameAndDistrict(t *testing.T) {
	svc := NewVillageService(newFakeVillageRepo())

	_, err := svc.Create(context.Background(), VillageInput{Name: "  ", District: "Jorhat"})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))

	_, err = svc.Create(context.Background(), VillageInput{Name: "Majuli"})
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}

func TestVillageGetByIDNotFound(t *testing.T) {
	svc := NewVillageService(newFakeVillageRepo())

	_, err := svc.GetByID(context.Background(), 404)
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestVillageListByDistrict(t *testing.T) {
	repo := newFakeVillageRepo()
	svc := NewVillageService(repo)

	_, err := svc.Create(context.Background(), VillageInput{Name: "Majuli", District: "Jorhat"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), VillageInput{Name: "Sualkuchi", District: "Kamrup"})
	require.NoError(t, err)

	villages, err := svc.ListByDistrict(context.Background(), "Jorhat")
	require.NoError(t, err)
	require.Len(t, villages, 1)
	assert.Equal(t, "Majuli", villages[0].Name)

	_, err = svc.ListByDistrict(context.Background(), "   ")
	assert.Equal(t, "VALIDATION_FAILED", errCode(t, err))
}
