package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"userhub/internal/common"
	"userhub/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// UserRepository is the credential store: it owns identity records and
// is the only shared resource between requests. Conflicting writes
// serialize at the storage boundary (unique index on lower(email)).
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	// UpdateProfile applies a partial update; nil fields are untouched.
	UpdateProfile(ctx context.Context, id string, name, country *string) (*model.User, error)
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, name, email, hashed_password, country)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.HashedPassword, user.Country,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given email already exists: %w", common.ErrDuplicateEmail)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	for _, role := range user.Roles {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, user.ID, role); err != nil {
			return fmt.Errorf("pgUserRepository.Create roles: %w", err)
		}
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, name, email, hashed_password, country, created_at, updated_at
	          FROM users WHERE lower(email) = lower($1)`
	return r.findOne(ctx, query, email)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, name, email, hashed_password, country, created_at, updated_at
	          FROM users WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *pgUserRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.HashedPassword, &user.Country,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.findOne: %w", err)
	}
	if err := r.loadRoles(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) loadRoles(ctx context.Context, user *model.User) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, user.ID)
	if err != nil {
		return fmt.Errorf("pgUserRepository.loadRoles: %w", err)
	}
	defer rows.Close()

	user.Roles = []string{}
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return fmt.Errorf("pgUserRepository.loadRoles: %w", err)
		}
		user.Roles = append(user.Roles, role)
	}
	return rows.Err()
}

func (r *pgUserRepository) UpdateProfile(ctx context.Context, id string, name, country *string) (*model.User, error) {
	query := `UPDATE users
	          SET name = COALESCE($2, name), country = COALESCE($3, country), updated_at = now()
	          WHERE id = $1
	          RETURNING id, name, email, hashed_password, country, created_at, updated_at`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, id, name, country).Scan(
		&user.ID, &user.Name, &user.Email, &user.HashedPassword, &user.Country,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.UpdateProfile: %w", err)
	}
	if err := r.loadRoles(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET hashed_password = $2, updated_at = now() WHERE id = $1`,
		id, hashedPassword)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdatePassword: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdatePassword: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
