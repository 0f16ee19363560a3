package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/arogyam-health-service/internal/domain"
)

// UserListFilters narrows user listings.
type UserListFilters struct {
	Role       *domain.UserRole
	District   *string
	ActiveOnly bool
}

// UserRepository is the user directory: account lookup, profile persistence
// and last-login bookkeeping.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByPhoneNumber(ctx context.Context, phoneNumber string) (bool, error)
	List(ctx context.Context, filters UserListFilters) ([]domain.User, error)
	RecordLogin(ctx context.Context, username string, at time.Time) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, username, password_hash, full_name, phone_number, email,
        role, district, state, village, is_active, created_at, updated_at, last_login`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, password_hash, full_name, phone_number, email,
            role, district, state, village, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.FullName,
		user.PhoneNumber,
		user.Email,
		user.Role,
		user.District,
		user.State,
		user.Village,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET password_hash=$1, full_name=$2, phone_number=$3, email=$4,
            role=$5, district=$6, state=$7, village=$8, is_active=$9, updated_at=NOW()
        WHERE id=$10`

	cmd, err := r.pool.Exec(ctx, query,
		user.PasswordHash,
		user.FullName,
		user.PhoneNumber,
		user.Email,
		user.Role,
		user.District,
		user.State,
		user.Village,
		user.IsActive,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return r.scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) ExistsByPhoneNumber(ctx context.Context, phoneNumber string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE phone_number=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, phoneNumber).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *userRepository) List(ctx context.Context, filters UserListFilters) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	args := []any{}

	if filters.Role != nil {
		args = append(args, *filters.Role)
		query += ` AND role=$` + strconv.Itoa(len(args))
	}
	if filters.District != nil {
		args = append(args, *filters.District)
		query += ` AND district=$` + strconv.Itoa(len(args))
	}
	if filters.ActiveOnly {
		query += ` AND is_active=TRUE`
	}
	query += ` ORDER BY username`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.PasswordHash,
			&user.FullName,
			&user.PhoneNumber,
			&user.Email,
			&user.Role,
			&user.District,
			&user.State,
			&user.Village,
			&user.IsActive,
			&user.CreatedAt,
			&user.UpdatedAt,
			&user.LastLogin,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) RecordLogin(ctx context.Context, username string, at time.Time) error {
	const query = `UPDATE users SET last_login=$1 WHERE username=$2`
	_, err := r.pool.Exec(ctx, query, at, username)
	return err
}

func (r *userRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.FullName,
		&user.PhoneNumber,
		&user.Email,
		&user.Role,
		&user.District,
		&user.State,
		&user.Village,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLogin,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
