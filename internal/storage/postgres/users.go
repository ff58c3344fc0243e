package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hongminglow/medplat-be/internal/models"
	"github.com/hongminglow/medplat-be/internal/storage"
)

const userColumns = `username, password_hash, role, created_at, updated_at`

// CreateUser inserts a new user row. The primary key on username turns a
// concurrent duplicate into storage.ErrAlreadyExists.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.Username, user.PasswordHash, string(user.Role))
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

// FindByUsername fetches a user by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(s.pool.QueryRow(ctx, query, username))
}

// UpdatePassword replaces the stored hash. Unknown usernames are ignored.
func (s *Store) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE username = $1`
	if _, err := s.pool.Exec(ctx, query, username, passwordHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// UpdateRole replaces the stored role. Unknown usernames are ignored.
func (s *Store) UpdateRole(ctx context.Context, username string, role models.Role) error {
	const query = `UPDATE users SET role = $2, updated_at = NOW() WHERE username = $1`
	if _, err := s.pool.Exec(ctx, query, username, string(role)); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

// ListUsers returns every user ordered by username.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var role string
	if err := row.Scan(&user.Username, &user.PasswordHash, &role, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return models.User{}, notFound(err)
	}
	user.Role = models.Role(role)
	return user, nil
}
