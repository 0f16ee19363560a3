package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/arogyam-health-service/internal/domain"
)

// VillageRepository defines persistence access for the village registry.
type VillageRepository interface {
	Create(ctx context.Context, village *domain.Village) error
	GetByID(ctx context.Context, id int64) (*domain.Village, error)
	List(ctx context.Context) ([]domain.Village, error)
	ListByDistrict(ctx context.Context, district string) ([]domain.Village, error)
}

type villageRepository struct {
	pool *pgxpool.Pool
}

// NewVillageRepository returns a Postgres-backed implementation.
func NewVillageRepository(pool *pgxpool.Pool) VillageRepository {
	return &villageRepository{pool: pool}
}

const villageColumns = `id, name, district, state, latitude, longitude,
        population, primary_language, created_at`

func (r *villageRepository) Create(ctx context.Context, village *domain.Village) error {
	const query = `
        INSERT INTO villages (name, district, state, latitude, longitude, population, primary_language)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		village.Name,
		village.District,
		village.State,
		village.Latitude,
		village.Longitude,
		village.Population,
		village.PrimaryLanguage,
	).Scan(&village.ID, &village.CreatedAt)
}

func (r *villageRepository) GetByID(ctx context.Context, id int64) (*domain.Village, error) {
	const query = `SELECT ` + villageColumns + ` FROM villages WHERE id=$1`

	var village domain.Village
	if err := r.scanVillage(r.pool.QueryRow(ctx, query, id), &village); err != nil {
		return nil, err
	}
	return &village, nil
}

func (r *villageRepository) List(ctx context.Context) ([]domain.Village, error) {
	const query = `SELECT ` + villageColumns + ` FROM villages ORDER BY name`
	return r.queryVillages(ctx, query)
}

func (r *villageRepository) ListByDistrict(ctx context.Context, district string) ([]domain.Village, error) {
	const query = `SELECT ` + villageColumns + ` FROM villages WHERE district=$1 ORDER BY name`
	return r.queryVillages(ctx, query, district)
}

func (r *villageRepository) queryVillages(ctx context.Context, query string, args ...any) ([]domain.Village, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var villages []domain.Village
	for rows.Next() {
		var village domain.Village
		if err := r.scanVillage(rows, &village); err != nil {
			return nil, err
		}
		villages = append(villages, village)
	}
	return villages, rows.Err()
}

func (r *villageRepository) scanVillage(row pgx.Row, village *domain.Village) error {
	return row.Scan(
		&village.ID,
		&village.Name,
		&village.District,
		&village.State,
		&village.Latitude,
		&village.Longitude,
		&village.Population,
		&village.PrimaryLanguage,
		&village.CreatedAt,
	)
}
